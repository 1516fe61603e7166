package planner

import (
	"fmt"
	"strings"
)

// Core planner errors
var (
	ErrPlannerFault = fmt.Errorf("planner invariant violated")
)

// MixError reports an emitted bracket whose aircraft mix is not in any
// legal-combination catalog. Local mix rejections are filters; this one
// escaping the builder means the run is broken.
type MixError struct {
	BracketID string
	Types     []string
}

func (e *MixError) Error() string {
	return fmt.Sprintf("bracket %s carries illegal mix [%s]",
		e.BracketID, strings.Join(e.Types, " "))
}

func (e *MixError) Unwrap() error {
	return ErrPlannerFault
}
