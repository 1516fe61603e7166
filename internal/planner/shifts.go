package planner

import (
	"fmt"
	"math"

	"github.com/ihorxshdy/aeromar/internal/model"
	"github.com/ihorxshdy/aeromar/pkg/util"
)

// fitShifts selects one shift window per occupied driver. The window must
// open at or before the driver's earliest bracket and close at or after the
// latest one; among the windows that fit, the one hugging the workload
// closest wins. Drivers no window covers keep their brackets and land in
// the warnings list.
func (r *run) fitShifts(shifts []model.Shift) {
	r.shiftAssignments = []model.ShiftAssignment{}
	if len(r.brackets) == 0 {
		return
	}

	var order []string
	byDriver := map[string][]model.Bracket{}
	for _, b := range r.brackets {
		if _, seen := byDriver[b.DriverID]; !seen {
			order = append(order, b.DriverID)
		}
		byDriver[b.DriverID] = append(byDriver[b.DriverID], b)
	}

	for _, driverID := range order {
		brackets := byDriver[driverID]

		earliest, latest := brackets[0].StartTime, brackets[0].EndTime
		for _, b := range brackets[1:] {
			earliest = min(earliest, b.StartTime)
			latest = max(latest, b.EndTime)
		}

		bestIdx := -1
		bestScore := math.Inf(1)
		for i, sh := range shifts {
			ok, score := fitShift(util.ToMin(sh.Start), util.ToMin(sh.End), earliest, latest)
			if ok && score < bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			warning := fmt.Sprintf("no shift window fits driver %s (%s-%s)",
				driverID, util.ToHHMM(earliest), util.ToHHMM(latest))
			r.warnings = append(r.warnings, warning)
			r.p.log.WithField("driver", driverID).Warn("no shift available")
			continue
		}

		ids := make([]string, len(brackets))
		for i, b := range brackets {
			ids[i] = b.ID
		}
		r.shiftAssignments = append(r.shiftAssignments, model.ShiftAssignment{
			DriverID:   driverID,
			ShiftStart: shifts[bestIdx].Start,
			ShiftEnd:   shifts[bestIdx].End,
			BracketIDs: ids,
		})
	}
}

// fitShift tests one shift window (ss, se) against a driver's demand
// (ds, de) and scores the fit; lower is better. A window whose end precedes
// its start crosses midnight and is normalized forward, as is a demand in
// the same shape.
func fitShift(ss, se, ds, de int) (bool, float64) {
	if se < ss {
		se += 24 * 60
		if de < ds {
			de += 24 * 60
		}
	}

	if ss > ds || se < de {
		return false, 0
	}

	startGap := ds - ss
	if startGap < 0 {
		return true, 1000
	}
	durationSlack := max(0, (se-ss)-(de-ds))
	endSlack := se - de

	return true, float64(startGap) + 0.1*float64(durationSlack) + 0.05*float64(endSlack)
}
