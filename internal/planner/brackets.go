package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/ihorxshdy/aeromar/internal/catalog"
	"github.com/ihorxshdy/aeromar/internal/model"
	"github.com/ihorxshdy/aeromar/internal/timing"
	"github.com/ihorxshdy/aeromar/pkg/util"
)

// phaseSU9 forms SU9 quintuples. While five or more SU9 flights remain and a
// driver is free, every 5-subset passing the interval check is scored and
// the best one becomes a bracket.
func (r *run) phaseSU9() {
	for r.driverIdx < len(r.drivers) {
		var pool []model.Flight
		for _, f := range r.flights {
			if r.plannable(f) && timing.NormType(f.ACType) == "SU9" {
				pool = append(pool, f)
			}
		}
		if len(pool) < 5 {
			return
		}

		best := r.bestSubset(pool, 5, catalog.ValidSMS)
		if best == nil {
			return
		}
		r.emit(best)
	}
}

// phaseSMSTriples forms three-flight narrow-body brackets over whatever SMS
// flights the SU9 phase left behind.
func (r *run) phaseSMSTriples() {
	for r.driverIdx < len(r.drivers) {
		var pool []model.Flight
		for _, f := range r.flights {
			if r.plannable(f) && timing.IsSMS(f.ACType) {
				pool = append(pool, f)
			}
		}
		if len(pool) < 3 {
			return
		}

		best := r.bestSubset(pool, 3, catalog.ValidSMS)
		if best == nil {
			return
		}
		r.emit(best)
	}
}

// phaseDMSBusiness pairs one wide-body with one narrow-body, repeatedly
// taking the pair with the smallest STD distance that passes the interval
// check and the business catalog.
func (r *run) phaseDMSBusiness() {
	for r.driverIdx < len(r.drivers) {
		var dms, sms []model.Flight
		for _, f := range r.flights {
			if !r.plannable(f) {
				continue
			}
			switch {
			case timing.IsDMS(f.ACType):
				dms = append(dms, f)
			case timing.IsSMS(f.ACType):
				sms = append(sms, f)
			}
		}
		if len(dms) == 0 || len(sms) == 0 {
			return
		}

		var best []model.Flight
		bestGap := math.MaxInt
		for _, d := range dms {
			for _, s := range sms {
				gap := d.STDMin - s.STDMin
				if gap < 0 {
					gap = -gap
				}
				if gap >= bestGap {
					continue
				}
				pair := []model.Flight{d, s}
				if !r.intervalsOK(pair) {
					continue
				}
				if !catalog.ValidDMSBusiness([]string{d.ACType, s.ACType}) {
					continue
				}
				bestGap = gap
				best = pair
			}
		}
		if best == nil {
			return
		}
		r.p.log.WithField("stdGap", bestGap).Info("business pair selected")
		r.emit(best)
	}
}

// bestSubset scores every k-subset of the pool that passes the interval
// check and the given catalog filter, returning the lowest-scoring one.
// Enumeration is lexicographic over pool indices; ties keep the first hit.
func (r *run) bestSubset(pool []model.Flight, k int, legal func([]string) bool) []model.Flight {
	var best []model.Flight
	bestScore := math.Inf(1)

	forEachCombination(len(pool), k, r.p.rules.MaxCandidates, func(idx []int) {
		cand := make([]model.Flight, k)
		types := make([]string, k)
		for i, j := range idx {
			cand[i] = pool[j]
			types[i] = pool[j].ACType
		}
		if !r.intervalsOK(cand) {
			return
		}
		if !legal(types) {
			return
		}
		if score := r.quality(cand); score < bestScore {
			bestScore = score
			best = cand
		}
	})

	if best != nil {
		r.p.log.WithField("score", fmt.Sprintf("%.2f", bestScore)).Info("bracket candidate selected")
	}
	return best
}

// intervalsOK checks the compactness rules over a candidate set: bounded STD
// span, consecutive service gaps inside [MinGap, MaxGap], and no overlapping
// service windows.
func (r *run) intervalsOK(flights []model.Flight) bool {
	if len(flights) <= 1 {
		return true
	}
	sorted := sortBySTD(flights)

	if sorted[len(sorted)-1].STDMin-sorted[0].STDMin > r.p.rules.MaxSpan {
		return false
	}

	for i := 0; i < len(sorted)-1; i++ {
		gap := sorted[i+1].ServiceStart - sorted[i].ServiceEnd
		if gap < r.p.rules.MinGap || gap > r.p.rules.MaxGap {
			return false
		}
	}

	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].ServiceEnd > sorted[i+1].ServiceStart {
			return false
		}
	}
	return true
}

// quality scores a candidate set; lower is better. Penalizes long STD spans
// and idle time between services, rewards dense service coverage.
func (r *run) quality(flights []model.Flight) float64 {
	if len(flights) <= 1 {
		return 0
	}
	sorted := sortBySTD(flights)

	span := sorted[len(sorted)-1].STDMin - sorted[0].STDMin

	idleSum := 0
	for i := 0; i < len(sorted)-1; i++ {
		idleSum += sorted[i+1].ServiceStart - sorted[i].ServiceEnd
	}

	serviceSum := 0
	for _, f := range sorted {
		serviceSum += f.ServiceEnd - f.ServiceStart
	}

	efficiency := float64(serviceSum) / float64(max(span, 1))
	return 0.7*float64(span) + 1.2*float64(idleSum) - 100*efficiency
}

// emit turns a chosen flight set into a bracket under the next free driver
// and records the per-flight assignments.
func (r *run) emit(flights []model.Flight) {
	sorted := sortBySTD(flights)
	first, last := sorted[0], sorted[len(sorted)-1]

	load := timing.LoadSMS
	class := model.ClassSMS
	if timing.IsDMS(first.ACType) {
		load = timing.LoadDMS
		class = model.ClassDMS
	}

	driver := r.drivers[r.driverIdx]
	r.driverIdx++

	b := model.Bracket{
		ID:          util.UID(),
		DriverID:    driver.ID,
		StartTime:   first.STDMin - load,
		EndTime:     last.ServiceEnd + timing.ReturnUnload,
		Class:       class,
		FlightCount: len(sorted),
	}
	for _, f := range sorted {
		b.Flights = append(b.Flights, f.FlightNo)
		r.assigned[f.FlightNo] = true
		r.assignments = append(r.assignments, model.Assignment{
			FlightNo:     f.FlightNo,
			DriverID:     driver.ID,
			BracketID:    b.ID,
			ServiceStart: f.ServiceStart,
			ServiceEnd:   f.ServiceEnd,
		})
	}
	r.brackets = append(r.brackets, b)

	r.notify("build", fmt.Sprintf("bracket %s: %d flights %s-%s",
		b.ID, b.FlightCount, util.ToHHMM(b.StartTime), util.ToHHMM(b.EndTime)))
}

func sortBySTD(flights []model.Flight) []model.Flight {
	sorted := make([]model.Flight, len(flights))
	copy(sorted, flights)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].STDMin != sorted[j].STDMin {
			return sorted[i].STDMin < sorted[j].STDMin
		}
		return sorted[i].FlightNo < sorted[j].FlightNo
	})
	return sorted
}

// forEachCombination visits k-subsets of [0,n) in lexicographic order. A
// positive limit stops enumeration after that many subsets; the callback
// must not retain idx.
func forEachCombination(n, k, limit int, fn func(idx []int)) {
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	visited := 0
	for {
		fn(idx)
		visited++
		if limit > 0 && visited >= limit {
			return
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
