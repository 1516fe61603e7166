package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihorxshdy/aeromar/internal/model"
)

func TestFitShiftPredicate(t *testing.T) {
	tests := []struct {
		name           string
		ss, se, ds, de int
		want           bool
	}{
		{"exact cover", 420, 900, 420, 900, true},
		{"starts after demand", 480, 960, 445, 680, false},
		{"ends before demand", 360, 600, 445, 680, false},
		{"midnight shift covers midnight demand", 1380, 420, 1410, 1800, true},
		{"midnight shift too short", 1380, 300, 1410, 1800, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, _ := fitShift(tc.ss, tc.se, tc.ds, tc.de)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestFitShiftScore(t *testing.T) {
	// demand 07:25-11:20 against 06:00-14:00
	ok, score := fitShift(360, 840, 445, 680)
	require.True(t, ok)
	// startGap 85 + 0.1*durationSlack 245 + 0.05*endSlack 160
	assert.InDelta(t, 85+24.5+8, score, 1e-9)
}

func TestFitShiftsPicksSmallestStartGap(t *testing.T) {
	r := testRun(nil, nil)
	r.brackets = []model.Bracket{
		{ID: "b1", DriverID: "A", StartTime: 445, EndTime: 680}, // 07:25-11:20
	}
	shifts := []model.Shift{
		{Start: "06:00", End: "14:00"},
		{Start: "07:00", End: "15:00"},
		{Start: "08:00", End: "16:00"}, // starts after the demand, disqualified
	}
	r.fitShifts(shifts)

	require.Len(t, r.shiftAssignments, 1)
	sa := r.shiftAssignments[0]
	assert.Equal(t, "A", sa.DriverID)
	assert.Equal(t, "07:00", sa.ShiftStart)
	assert.Equal(t, "15:00", sa.ShiftEnd)
	assert.Equal(t, []string{"b1"}, sa.BracketIDs)
	assert.Empty(t, r.warnings)
}

func TestFitShiftsMidnightWindow(t *testing.T) {
	r := testRun(nil, nil)
	// bracket 23:30 to 06:00 past midnight
	r.brackets = []model.Bracket{
		{ID: "b1", DriverID: "A", StartTime: 1410, EndTime: 1800},
	}
	r.fitShifts([]model.Shift{{Start: "23:00", End: "07:00"}})

	require.Len(t, r.shiftAssignments, 1)
	assert.Equal(t, "23:00", r.shiftAssignments[0].ShiftStart)
}

func TestFitShiftsSpansAllDriverBrackets(t *testing.T) {
	r := testRun(nil, nil)
	r.brackets = []model.Bracket{
		{ID: "b1", DriverID: "A", StartTime: 445, EndTime: 600},
		{ID: "b2", DriverID: "A", StartTime: 625, EndTime: 700}, // chained workload
	}
	shifts := []model.Shift{
		{Start: "07:00", End: "10:30"}, // covers b1 only
		{Start: "07:00", End: "12:00"},
	}
	r.fitShifts(shifts)

	require.Len(t, r.shiftAssignments, 1)
	sa := r.shiftAssignments[0]
	assert.Equal(t, "12:00", sa.ShiftEnd)
	assert.ElementsMatch(t, []string{"b1", "b2"}, sa.BracketIDs)
}

func TestFitShiftsNoWindowWarns(t *testing.T) {
	r := testRun(nil, nil)
	r.brackets = []model.Bracket{
		{ID: "b1", DriverID: "A", StartTime: 445, EndTime: 680},
	}
	r.fitShifts([]model.Shift{{Start: "12:00", End: "20:00"}})

	assert.Empty(t, r.shiftAssignments)
	require.Len(t, r.warnings, 1)
	assert.Contains(t, r.warnings[0], "driver A")
}
