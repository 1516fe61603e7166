package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSMS(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  bool
	}{
		{"SU9 quintuple", []string{"SU9", "SU9", "SU9", "SU9", "SU9"}, true},
		{"SU9 quadruple", []string{"SU9", "SU9", "SU9", "SU9"}, false},
		{"classic triple", []string{"737", "320", "321"}, true},
		{"triple any order", []string{"321", "737", "320"}, true},
		{"three 320s", []string{"320", "320", "320"}, true},
		{"two 320 one 321", []string{"320", "321", "320"}, true},
		{"73H variant triple", []string{"73H", "320", "321"}, true},
		{"unlisted triple", []string{"319", "319", "319"}, false},
		{"single SMS", []string{"320"}, true},
		{"single unknown", []string{"AN2"}, false},
		{"lower case", []string{"su9", "su9", "su9", "su9", "su9"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidSMS(tc.types))
		})
	}
}

func TestValidDMSBusiness(t *testing.T) {
	assert.True(t, ValidDMSBusiness([]string{"777", "321"}))
	assert.True(t, ValidDMSBusiness([]string{"321", "777"}))
	assert.True(t, ValidDMSBusiness([]string{"77W", "32A"}))
	assert.True(t, ValidDMSBusiness([]string{"359", "SU9"}))
	assert.False(t, ValidDMSBusiness([]string{"777", "350"}), "two wide-bodies")
	assert.False(t, ValidDMSBusiness([]string{"320", "321"}), "two narrow-bodies")
	assert.False(t, ValidDMSBusiness([]string{"777"}), "singleton")
	assert.False(t, ValidDMSBusiness([]string{"777", "321", "320"}), "triple")
}

func TestValidDMSEconomy(t *testing.T) {
	assert.True(t, ValidDMSEconomy([]string{"777"}))
	assert.True(t, ValidDMSEconomy([]string{"744"}))
	assert.False(t, ValidDMSEconomy([]string{"320"}))
	assert.False(t, ValidDMSEconomy([]string{"777", "777"}))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]string{"SU9", "SU9", "SU9", "SU9", "SU9"}))
	assert.True(t, Valid([]string{"777", "737"}))
	assert.True(t, Valid([]string{"350"}))
	assert.True(t, Valid([]string{"737", "320", "321"}))
	assert.False(t, Valid([]string{"777", "350"}))
	assert.False(t, Valid([]string{"AN2"}))
	assert.False(t, Valid(nil))
}

func TestMixOfNormalizes(t *testing.T) {
	m := MixOf([]string{"su9", "SU9", " 320 "})
	assert.Equal(t, 2, m["SU9"])
	assert.Equal(t, 1, m["320"])
}
