// Package catalog holds the legal aircraft-mix combinations a single
// autolift load may carry, and the multiset validation over them.
package catalog

import (
	"sort"

	"github.com/ihorxshdy/aeromar/internal/timing"
)

// Mix is a multiset of aircraft type codes.
type Mix map[string]int

// MixOf builds the multiset for a candidate bracket. Codes are normalized
// to upper case before counting.
func MixOf(acTypes []string) Mix {
	m := Mix{}
	for _, t := range acTypes {
		m[timing.NormType(t)]++
	}
	return m
}

func (m Mix) equal(other Mix) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if other[k] != v {
			return false
		}
	}
	return true
}

// SMSCombinations enumerates the legal narrow-body loads: the SU9 quintuple
// and the three-flight mixes of the A320/B737 families.
var SMSCombinations = []Mix{
	{"SU9": 5},

	{"320": 3},
	{"737": 1, "320": 1, "321": 1},
	{"737": 1, "321": 2},
	{"320": 2, "321": 1},
	{"737": 2, "320": 1},

	{"32A": 1, "321": 1, "737": 1},
	{"32B": 1, "321": 1, "737": 1},
	{"73H": 1, "320": 1, "321": 1},
	{"739": 1, "320": 1, "321": 1},
}

// DMSBusinessCombinations pairs exactly one wide-body with one narrow-body.
// DMSEconomyCombinations are wide-body singletons. Both are generated from
// the membership tables.
var (
	DMSBusinessCombinations []Mix
	DMSEconomyCombinations  []Mix
)

func init() {
	dms := timing.DMSTypes()
	sms := timing.SMSTypes()
	sort.Strings(dms)
	sort.Strings(sms)

	for _, d := range dms {
		DMSEconomyCombinations = append(DMSEconomyCombinations, Mix{d: 1})
		for _, s := range sms {
			DMSBusinessCombinations = append(DMSBusinessCombinations, Mix{d: 1, s: 1})
		}
	}
}

func member(m Mix, table []Mix) bool {
	for _, entry := range table {
		if m.equal(entry) {
			return true
		}
	}
	return false
}

// ValidSMS reports whether a pure narrow-body load is legal. A single
// narrow-body flight is always a legal load on its own.
func ValidSMS(acTypes []string) bool {
	if len(acTypes) == 1 {
		return timing.IsSMS(acTypes[0])
	}
	return member(MixOf(acTypes), SMSCombinations)
}

// ValidDMSBusiness reports whether a wide-body + narrow-body business pair
// is legal.
func ValidDMSBusiness(acTypes []string) bool {
	return member(MixOf(acTypes), DMSBusinessCombinations)
}

// ValidDMSEconomy reports whether a single wide-body economy load is legal.
func ValidDMSEconomy(acTypes []string) bool {
	if len(acTypes) != 1 {
		return false
	}
	return member(MixOf(acTypes), DMSEconomyCombinations)
}

// Valid routes a candidate load to the catalog matching its class mix.
// All autolifts are equal in volume, so legality depends only on the mix.
func Valid(acTypes []string) bool {
	if len(acTypes) == 0 {
		return false
	}

	hasDMS, hasSMS := false, false
	for _, t := range acTypes {
		if timing.IsDMS(t) {
			hasDMS = true
		}
		if timing.IsSMS(t) {
			hasSMS = true
		}
	}

	switch {
	case len(acTypes) == 1 && hasDMS:
		return ValidDMSEconomy(acTypes)
	case hasDMS && hasSMS:
		return ValidDMSBusiness(acTypes)
	case hasSMS && !hasDMS:
		return ValidSMS(acTypes)
	}
	return false
}
