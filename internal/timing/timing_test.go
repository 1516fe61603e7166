package timing

import (
	"testing"

	"github.com/ihorxshdy/aeromar/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassMembership(t *testing.T) {
	for _, ac := range []string{"320", "321", "737", "319", "32A", "32B", "32N", "32Q", "73H", "739", "SU9"} {
		assert.True(t, IsSMS(ac), "%s should be SMS", ac)
		assert.False(t, IsDMS(ac), "%s should not be DMS", ac)
	}
	for _, ac := range []string{"777", "350", "330", "787", "77W", "77R", "773", "744", "333", "359", "332"} {
		assert.True(t, IsDMS(ac), "%s should be DMS", ac)
		assert.False(t, IsSMS(ac), "%s should not be SMS", ac)
	}

	// lookups normalize case and whitespace
	assert.True(t, IsSMS("su9"))
	assert.True(t, IsDMS(" 77w "))

	_, known := ClassOf("AN2")
	assert.False(t, known)

	class, known := ClassOf("359")
	require.True(t, known)
	assert.Equal(t, model.ClassDMS, class)
}

func TestDeriveFromSTDNarrowBody(t *testing.T) {
	// 737 departing 10:00
	tm := DeriveFromSTD("737", 600)
	assert.Equal(t, 540, tm.ServiceEnd)           // 09:00
	assert.Equal(t, 521, tm.ServiceStart)         // 08:41
	assert.Equal(t, 366, tm.KitchenOut)           // 06:06
	assert.Equal(t, 695, tm.UnloadEnd)            // 11:35
}

func TestDeriveFromSTDWideBodyEarlyMorning(t *testing.T) {
	// 777 departing 04:30: the kitchen-out lands 15 minutes before midnight
	// of the previous day.
	tm := DeriveFromSTD("777", 270)
	assert.Equal(t, 210, tm.ServiceEnd)   // 03:30
	assert.Equal(t, 165, tm.ServiceStart) // 02:45
	assert.Equal(t, -15, tm.KitchenOut)   // 23:45 previous day
	assert.Equal(t, 390, tm.UnloadEnd)    // 06:30
}

func TestDeriveFromSTDClampsToDay(t *testing.T) {
	tm := DeriveFromSTD("777", -200)
	assert.Equal(t, DayStart, tm.KitchenOut)

	tm = DeriveFromSTD("777", DayEnd)
	assert.Equal(t, DayEnd, tm.UnloadEnd)
}

func TestDeriveFromSTDRoundTrip(t *testing.T) {
	// serviceEnd + 60 reconstructs the STD for any class
	for _, ac := range []string{"320", "SU9", "777", "359"} {
		for _, std := range []int{270, 600, 1380, 1439} {
			tm := DeriveFromSTD(ac, std)
			assert.Equal(t, std, tm.ServiceEnd+60, "%s @%d", ac, std)
		}
	}
}

func TestServiceDurationByClass(t *testing.T) {
	sms := DeriveFromSTD("320", 600)
	assert.Equal(t, ServiceSMS, sms.ServiceEnd-sms.ServiceStart)

	dms := DeriveFromSTD("350", 600)
	assert.Equal(t, ServiceDMS, dms.ServiceEnd-dms.ServiceStart)
}
