package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimTime_TotalMinutesRoundTrip(t *testing.T) {
	times := []SimTime{
		{Day: 1, Hour: 0, Minute: 0},
		{Day: 1, Hour: 8, Minute: 30},
		{Day: 2, Hour: 0, Minute: 0},
		{Day: 7, Hour: 23, Minute: 59},
		{Day: 365, Hour: 12, Minute: 1},
	}
	for _, tm := range times {
		assert.Equal(t, tm, FromTotalMinutes(tm.TotalMinutes()), "%s", tm)
	}
}

func TestSimTime_AddMinutesCrossesBoundaries(t *testing.T) {
	tm := SimTime{Day: 1, Hour: 23, Minute: 45}

	assert.Equal(t, SimTime{Day: 1, Hour: 23, Minute: 59}, tm.AddMinutes(14))
	assert.Equal(t, SimTime{Day: 2, Hour: 0, Minute: 0}, tm.AddMinutes(15))
	assert.Equal(t, SimTime{Day: 2, Hour: 1, Minute: 45}, tm.AddMinutes(120))
}

func TestSimTime_Ordering(t *testing.T) {
	a := SimTime{Day: 1, Hour: 9, Minute: 0}
	b := SimTime{Day: 1, Hour: 9, Minute: 1}
	c := SimTime{Day: 2, Hour: 0, Minute: 0}

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.True(t, c.After(a))
	assert.True(t, a.Equal(a))
	assert.Equal(t, 0, a.Cmp(a))
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, c.Cmp(b))
}

func TestSimTime_MinutesUntil(t *testing.T) {
	a := SimTime{Day: 1, Hour: 8, Minute: 0}
	b := SimTime{Day: 1, Hour: 9, Minute: 30}

	assert.Equal(t, 90, a.MinutesUntil(b))
	assert.Equal(t, -90, b.MinutesUntil(a))
	assert.Equal(t, minutesPerDay, a.MinutesUntil(a.AddMinutes(minutesPerDay)))
}

func TestSimTime_StartOfDay(t *testing.T) {
	tm := SimTime{Day: 3, Hour: 14, Minute: 37}
	assert.Equal(t, SimTime{Day: 3}, tm.StartOfDay())
}

func TestTimeOfDayFor_Buckets(t *testing.T) {
	assert.Equal(t, Morning, TimeOfDayFor(8))
	assert.Equal(t, Morning, TimeOfDayFor(11))
	assert.Equal(t, Afternoon, TimeOfDayFor(12))
	assert.Equal(t, Afternoon, TimeOfDayFor(16))
	assert.Equal(t, Evening, TimeOfDayFor(17))
	assert.Equal(t, Evening, TimeOfDayFor(21))
}
