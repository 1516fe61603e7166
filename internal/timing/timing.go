// Package timing derives the technological-graph timestamps of a flight from
// its scheduled departure and service class. Pure functions, no state.
package timing

import (
	"strings"

	"github.com/ihorxshdy/aeromar/internal/model"
	"github.com/ihorxshdy/aeromar/pkg/util"
)

// The working day runs from 6 hours before midnight of the base day to
// 6 hours past the following midnight, so windows crossing either edge
// still get representable timestamps.
const (
	DayStart = -6 * 60
	DayEnd   = 30 * 60
)

// Technological-graph constants, in minutes.
const (
	LoadSMS      = 155 // STD of the first flight back to loading start (narrow-body)
	LoadDMS      = 180 // same for wide-body
	ServiceSMS   = 19  // on-aircraft service duration (narrow-body)
	ServiceDMS   = 45  // on-aircraft service duration (wide-body)
	Travel       = 25  // driving between adjacent aircraft
	ReturnUnload = 20  // return to dock plus unload tail
)

var smsTypes = map[string]bool{
	"320": true, "321": true, "737": true, "319": true,
	"32A": true, "32B": true, "32N": true, "32Q": true,
	"73H": true, "739": true,
	"SU9": true,
}

var dmsTypes = map[string]bool{
	"777": true, "350": true, "330": true, "787": true,
	"77W": true, "77R": true, "773": true,
	"744": true, "333": true, "359": true, "332": true,
}

// NormType normalizes an aircraft type code for table lookups.
func NormType(acType string) string {
	return strings.ToUpper(strings.TrimSpace(acType))
}

func IsSMS(acType string) bool { return smsTypes[NormType(acType)] }

func IsDMS(acType string) bool { return dmsTypes[NormType(acType)] }

// ClassOf maps an aircraft type to its service class. The second return is
// false for codes in neither membership table.
func ClassOf(acType string) (model.FlightClass, bool) {
	switch {
	case IsDMS(acType):
		return model.ClassDMS, true
	case IsSMS(acType):
		return model.ClassSMS, true
	}
	return model.ClassSMS, false
}

// SMSTypes returns the narrow-body membership table.
func SMSTypes() []string { return keys(smsTypes) }

// DMSTypes returns the wide-body membership table.
func DMSTypes() []string { return keys(dmsTypes) }

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// ClampDay bounds a minute value to the representable working day.
func ClampDay(m int) int {
	return util.Clamp(m, DayStart, DayEnd)
}

// Times holds the service-window timestamps derived from one STD.
type Times struct {
	KitchenOut   int
	ServiceStart int
	ServiceEnd   int
	UnloadEnd    int
}

// DeriveFromSTD computes the service window for a flight. The autolift
// leaves the aircraft 60 minutes before departure; everything else counts
// back from there by class.
func DeriveFromSTD(acType string, std int) Times {
	dms := IsDMS(acType)

	service := ServiceSMS
	load := LoadSMS
	if dms {
		service = ServiceDMS
		load = LoadDMS
	}

	departureFromAircraft := std - 60
	sEnd := departureFromAircraft
	sStart := sEnd - service
	kOut := sStart - load
	unloadEnd := departureFromAircraft + load

	return Times{
		KitchenOut:   ClampDay(kOut),
		ServiceStart: ClampDay(sStart),
		ServiceEnd:   ClampDay(sEnd),
		UnloadEnd:    ClampDay(unloadEnd),
	}
}
