package store

import "github.com/ihorxshdy/aeromar/internal/model"

// defaultAutoliftNumbers is the depot fleet used until a roster CSV is
// imported.
var defaultAutoliftNumbers = []string{
	"133", "135", "136", "139", "140", "141", "149", "150", "151", "152",
	"155", "156", "157", "158", "161", "162", "163", "164", "165", "166",
	"169", "170", "173", "174", "176", "177", "184", "185", "186", "192",
	"193", "194", "202", "203", "204", "205", "207", "210", "211", "212",
	"213", "214", "215", "216", "217", "218", "219", "220", "221", "222",
	"223", "224", "225", "226", "227", "228", "229", "230", "231", "232",
}

// DefaultAutolifts builds the built-in fleet roster.
func DefaultAutolifts() []model.Autolift {
	lifts := make([]model.Autolift, 0, len(defaultAutoliftNumbers))
	for _, n := range defaultAutoliftNumbers {
		lifts = append(lifts, model.Autolift{ID: "AL" + n, Number: n})
	}
	return lifts
}
