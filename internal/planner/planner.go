// Package planner groups scheduled flights into brackets, chains pairs of
// brackets onto shared drivers, and fits each driver's workload into one
// legal shift window. One Plan call is a single synchronous transaction over
// its own inputs; the Planner itself holds no cross-call state.
package planner

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ihorxshdy/aeromar/internal/catalog"
	"github.com/ihorxshdy/aeromar/internal/model"
	"github.com/ihorxshdy/aeromar/internal/timing"
	"github.com/ihorxshdy/aeromar/pkg/util"
)

// Rules are the tunable bounds of the bracket builder and chainer.
// Defaults reproduce the production technological graph.
type Rules struct {
	MinGap      int `yaml:"min_gap"`       // minimum minutes between consecutive service windows
	MaxGap      int `yaml:"max_gap"`       // compactness bound on the same gap
	MaxSpan     int `yaml:"max_span"`      // STD span of one bracket
	ChainMinGap int `yaml:"chain_min_gap"` // idle gap allowing two brackets on one driver
	ChainMaxGap int `yaml:"chain_max_gap"`
	// MaxCandidates caps how many subsets one selection round may enumerate,
	// counting those rejected before scoring. Zero means full enumeration.
	MaxCandidates int `yaml:"max_candidates"`
}

func DefaultRules() Rules {
	return Rules{
		MinGap:      18,
		MaxGap:      28,
		MaxSpan:     240,
		ChainMinGap: 20,
		ChainMaxGap: 60,
	}
}

// Progress receives phase-by-phase narration of one planning call.
type Progress func(phase, message string)

type Planner struct {
	rules Rules
	log   *logrus.Entry
}

func New(rules Rules) *Planner {
	return &Planner{
		rules: rules,
		log:   logrus.WithField("component", "planner"),
	}
}

func (p *Planner) Rules() Rules { return p.rules }

// Plan runs the full pipeline: build brackets, chain drivers, fit shifts.
// An empty flight list yields the empty document, not an error.
func (p *Planner) Plan(flights []model.Flight, drivers []model.Driver, shifts []model.Shift) (*model.PlanResult, error) {
	return p.PlanWithProgress(flights, drivers, shifts, nil)
}

// PlanWithProgress is Plan with a narration callback for streaming hosts.
func (p *Planner) PlanWithProgress(flights []model.Flight, drivers []model.Driver, shifts []model.Shift, progress Progress) (*model.PlanResult, error) {
	if len(flights) == 0 {
		return model.EmptyPlanResult(), nil
	}

	r := newRun(p, flights, drivers, progress)
	p.log.WithFields(logrus.Fields{
		"flights": len(flights),
		"drivers": len(drivers),
		"shifts":  len(shifts),
	}).Info("planning started")

	r.notify("build", "building brackets")
	r.phaseSU9()
	r.phaseSMSTriples()
	r.phaseDMSBusiness()

	if err := r.validateBrackets(); err != nil {
		p.log.WithError(err).Error("planning aborted")
		return nil, err
	}

	r.notify("chain", "chaining drivers")
	r.chain()

	r.notify("shifts", "fitting shift windows")
	r.fitShifts(shifts)

	result := r.result()
	p.log.WithFields(logrus.Fields{
		"brackets":   len(result.Brackets),
		"unassigned": len(result.Unassigned),
		"warnings":   len(result.Warnings),
	}).Info("planning finished")
	r.notify("done", "planning finished")
	return result, nil
}

// run is the working state of one planning call.
type run struct {
	p        *Planner
	progress Progress

	flights []model.Flight // sorted by (STD, flight number)
	byNo    map[string]model.Flight
	unknown map[string]bool // flight numbers with unrecognized aircraft types

	drivers   []model.Driver
	driverIdx int

	assigned    map[string]bool // by flight number
	brackets    []model.Bracket
	assignments []model.Assignment

	shiftAssignments []model.ShiftAssignment
	warnings         []string
}

func newRun(p *Planner, flights []model.Flight, drivers []model.Driver, progress Progress) *run {
	sorted := make([]model.Flight, len(flights))
	copy(sorted, flights)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].STDMin != sorted[j].STDMin {
			return sorted[i].STDMin < sorted[j].STDMin
		}
		return sorted[i].FlightNo < sorted[j].FlightNo
	})

	r := &run{
		p:           p,
		progress:    progress,
		flights:     sorted,
		byNo:        make(map[string]model.Flight, len(sorted)),
		unknown:     map[string]bool{},
		drivers:     drivers,
		assigned:    map[string]bool{},
		assignments: []model.Assignment{},
	}
	for _, f := range sorted {
		r.byNo[f.FlightNo] = f
		if _, known := timing.ClassOf(f.ACType); !known {
			r.unknown[f.FlightNo] = true
			p.log.WithFields(logrus.Fields{
				"flight": f.FlightNo,
				"acType": f.ACType,
			}).Warn("unknown aircraft type")
		}
	}
	return r
}

func (r *run) notify(phase, message string) {
	if r.progress != nil {
		r.progress(phase, message)
	}
}

// plannable reports whether a flight can still enter a bracket.
func (r *run) plannable(f model.Flight) bool {
	return !r.assigned[f.FlightNo] && !r.unknown[f.FlightNo]
}

// validateBrackets re-checks every emitted bracket against the combination
// catalogs. The builder filters candidates by the same catalogs, so a miss
// here is an internal fault, not bad input.
func (r *run) validateBrackets() error {
	for _, b := range r.brackets {
		types := make([]string, 0, len(b.Flights))
		for _, no := range b.Flights {
			types = append(types, r.byNo[no].ACType)
		}
		if !catalog.Valid(types) {
			return &MixError{BracketID: b.ID, Types: types}
		}
	}
	return nil
}

func (r *run) result() *model.PlanResult {
	unassigned := []model.UnassignedFlight{}
	for _, f := range r.flights {
		if r.assigned[f.FlightNo] {
			continue
		}
		u := model.UnassignedFlight{
			FlightNo: f.FlightNo,
			ACType:   f.ACType,
			STD:      util.ToHHMM(f.STDMin),
			Class:    f.Class,
		}
		if r.unknown[f.FlightNo] {
			u.Reason = "unknown aircraft type"
		}
		unassigned = append(unassigned, u)
	}

	if r.brackets == nil {
		r.brackets = []model.Bracket{}
	}
	if r.shiftAssignments == nil {
		r.shiftAssignments = []model.ShiftAssignment{}
	}
	return &model.PlanResult{
		Brackets:         r.brackets,
		Assignments:      r.assignments,
		Unassigned:       unassigned,
		ShiftAssignments: r.shiftAssignments,
		Warnings:         r.warnings,
	}
}
