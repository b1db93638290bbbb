package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkSchedule_Validate(t *testing.T) {
	assert.NoError(t, WorkSchedule{StartHour: 8, EndHour: 18}.Validate())
	assert.NoError(t, WorkSchedule{StartHour: 8, EndHour: 18, BreakHours: []int{12}}.Validate())

	assert.Error(t, WorkSchedule{StartHour: 18, EndHour: 8}.Validate())
	assert.Error(t, WorkSchedule{StartHour: -1, EndHour: 18}.Validate())
	assert.Error(t, WorkSchedule{StartHour: 8, EndHour: 25}.Validate())
	// break outside working hours
	assert.Error(t, WorkSchedule{StartHour: 8, EndHour: 18, BreakHours: []int{19}}.Validate())
	// too many breaks
	assert.Error(t, WorkSchedule{StartHour: 8, EndHour: 18, BreakHours: []int{9, 10, 11, 13, 14}}.Validate())
}

func TestWorkSchedule_CoversHourExcludesBreaks(t *testing.T) {
	ws := WorkSchedule{StartHour: 9, EndHour: 17, BreakHours: []int{12}}

	assert.True(t, ws.CoversHour(9))
	assert.True(t, ws.CoversHour(16))
	assert.False(t, ws.CoversHour(17)) // end hour is exclusive
	assert.False(t, ws.CoversHour(8))
	assert.False(t, ws.CoversHour(12))
	assert.True(t, ws.IsBreakHour(12))
	assert.False(t, ws.IsBreakHour(13))
}

func TestSession_OccupiedHoursRoundsUp(t *testing.T) {
	cases := []struct {
		duration, hours int
	}{
		{30, 1},
		{60, 1},
		{61, 2},
		{90, 2},
		{120, 2},
		{150, 3},
	}
	for _, tc := range cases {
		s := Session{Duration: tc.duration}
		assert.Equal(t, tc.hours, s.OccupiedHours(), "duration %d", tc.duration)
	}
}

func TestSession_OccupiesHourIgnoresFinishedSessions(t *testing.T) {
	s := Session{Day: 2, Hour: 10, Duration: 90, Status: SessionScheduled}

	assert.True(t, s.OccupiesHour(2, 10))
	assert.True(t, s.OccupiesHour(2, 11))
	assert.False(t, s.OccupiesHour(2, 12))
	assert.False(t, s.OccupiesHour(3, 10))

	s.Status = SessionCancelled
	assert.False(t, s.OccupiesHour(2, 10))
	s.Status = SessionCompleted
	assert.False(t, s.OccupiesHour(2, 10))
}

func TestSession_AddModifierClampsQuality(t *testing.T) {
	s := Session{Quality: 0.5}

	s.AddModifier(0.3, "skill")
	assert.InDelta(t, 0.8, s.Quality, 1e-9)

	s.AddModifier(0.5, "bonus")
	assert.Equal(t, 1.0, s.Quality)

	s.AddModifier(-2, "disaster")
	assert.Equal(t, 0.0, s.Quality)

	require.Len(t, s.Modifiers, 3) // the full trail is kept even when clamped
}

func TestClient_AvailabilityWrapsByWeekday(t *testing.T) {
	cl := testClient("cl-1")
	for wd := 0; wd < 7; wd++ {
		cl.Availability[wd] = 0
	}
	cl.Availability[0] = 1 << 9 // weekday 0, 09:00 only

	// days 1 and 8 share weekday 0
	assert.True(t, cl.AvailableAt(1, 9))
	assert.True(t, cl.AvailableAt(8, 9))
	assert.False(t, cl.AvailableAt(2, 9))
	assert.False(t, cl.AvailableAt(1, 10))
}

func TestTherapist_HasCertification(t *testing.T) {
	th := testTherapist("th-1")
	th.Certifications = []string{"cbt", "emdr"}

	assert.True(t, th.HasCertification("cbt"))
	assert.False(t, th.HasCertification("dbt"))
}

func TestClone_ProducesIndependentCopies(t *testing.T) {
	th := testTherapist("th-1")
	th.Certifications = []string{"cbt"}
	cp := th.Clone()
	cp.Certifications[0] = "changed"
	cp.XP = 500

	assert.Equal(t, "cbt", th.Certifications[0])
	assert.Zero(t, th.XP)

	cl := testClient("cl-1")
	ccp := cl.Clone()
	ccp.Satisfaction = 1
	assert.Equal(t, 75.0, cl.Satisfaction)
}
