package planner

import (
	"fmt"
	"sort"

	"github.com/ihorxshdy/aeromar/pkg/util"
)

// chain walks the brackets in start order and greedily pairs each unpaired
// bracket with the earliest later one whose idle gap falls inside the chain
// bounds. The later bracket and its assignment records inherit the earlier
// bracket's driver; the driver it came with is freed and not reused.
func (r *run) chain() {
	if len(r.brackets) < 2 {
		return
	}

	order := make([]int, len(r.brackets))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.brackets[order[a]].StartTime < r.brackets[order[b]].StartTime
	})

	used := make(map[int]bool, len(order))
	pairs := 0
	for pos, i := range order {
		if used[i] {
			continue
		}
		first := &r.brackets[i]

		for _, j := range order[pos+1:] {
			if used[j] {
				continue
			}
			second := &r.brackets[j]

			gap := second.StartTime - first.EndTime
			if gap < r.p.rules.ChainMinGap || gap > r.p.rules.ChainMaxGap {
				continue
			}

			r.reassign(second.ID, first.DriverID)
			second.DriverID = first.DriverID
			used[i], used[j] = true, true
			pairs++

			r.p.log.WithField("gap", gap).Info("brackets chained")
			r.notify("chain", fmt.Sprintf("chained %s-%s and %s-%s onto one driver",
				util.ToHHMM(first.StartTime), util.ToHHMM(first.EndTime),
				util.ToHHMM(second.StartTime), util.ToHHMM(second.EndTime)))
			break
		}
		used[i] = true
	}
	if pairs > 0 {
		r.p.log.WithField("pairs", pairs).Info("chaining finished")
	}
}

func (r *run) reassign(bracketID, driverID string) {
	for k := range r.assignments {
		if r.assignments[k].BracketID == bracketID {
			r.assignments[k].DriverID = driverID
		}
	}
}
