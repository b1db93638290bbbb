package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSuggestionEngine(bcfg BookingConfig) *SuggestionEngine {
	cfg := DefaultConfig().Suggestion
	return NewSuggestionEngine(cfg, testClockConfig(), NewBookingScheduler(bcfg))
}

func TestUrgency_NeverSeenClientBucketsByWaitAgainstCadence(t *testing.T) {
	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})
	cl := testClient("cl-1") // cadence 7, never seen

	cl.DaysWaiting = 0
	assert.Equal(t, UrgencyNormal, se.UrgencyFor(cl, 1))

	cl.DaysWaiting = 6 // due in 1 day
	assert.Equal(t, UrgencyDueSoon, se.UrgencyFor(cl, 1))

	cl.DaysWaiting = 8 // past due
	assert.Equal(t, UrgencyOverdue, se.UrgencyFor(cl, 1))
}

func TestUrgency_SeenClientBucketsByDaysSinceLastSession(t *testing.T) {
	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})
	cl := testClient("cl-1")
	cl.LastSessionDay = 3 // cadence 7: next due day 10

	assert.Equal(t, UrgencyNormal, se.UrgencyFor(cl, 5))
	assert.Equal(t, UrgencyDueSoon, se.UrgencyFor(cl, 8))
	assert.Equal(t, UrgencyOverdue, se.UrgencyFor(cl, 12))
}

func TestSuggest_PerfectMatchScoresFullWeightSum(t *testing.T) {
	// GIVEN an overdue morning-preferring client, an idle practice, and an
	// in-person morning slot with every room free
	st := testState()
	cl := st.Clients["cl-1"]
	cl.DaysWaiting = 8 // overdue against cadence 7

	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})

	// WHEN suggestions are computed from the start of day 1
	res := se.Suggest(st, SimTime{Day: 1, Hour: 0})

	// THEN the top candidate is the earliest morning slot at full score
	require.NotEmpty(t, res.Suggestions)
	top := res.Suggestions[0]
	assert.Equal(t, ClientID("cl-1"), top.ClientID)
	assert.Equal(t, 1, top.Day)
	assert.Equal(t, 8, top.Hour)
	assert.False(t, top.Virtual)
	assert.InDelta(t, 1.0, top.Score, 1e-9)
	assert.Equal(t, MatchExcellent, top.Match)
	assert.Equal(t, UrgencyOverdue, top.Urgency)
}

func TestSuggest_OverdueClientsRankAboveNormal(t *testing.T) {
	// GIVEN one overdue client and one freshly waiting client
	st := testState()
	st.Clients["cl-1"].DaysWaiting = 9
	fresh := testClient("cl-2")
	fresh.DaysWaiting = 0
	st.Clients[fresh.ID] = fresh

	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})

	// WHEN suggestions are computed
	res := se.Suggest(st, SimTime{Day: 1, Hour: 0})

	// THEN no normal-urgency suggestion precedes an overdue one
	require.NotEmpty(t, res.Suggestions)
	seenNormal := false
	for _, s := range res.Suggestions {
		if s.Urgency == UrgencyNormal {
			seenNormal = true
		}
		if seenNormal && s.Urgency == UrgencyOverdue {
			t.Fatalf("overdue suggestion after a normal one: %+v", res.Suggestions)
		}
	}
}

func TestSuggest_ResultCappedAtMaxSuggestions(t *testing.T) {
	st := testState()
	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})
	se.cfg.MaxSuggestions = 3

	res := se.Suggest(st, SimTime{Day: 1, Hour: 0})
	assert.Len(t, res.Suggestions, 3)
}

func TestSuggest_MissingCertificationReportsUnschedulable(t *testing.T) {
	// GIVEN a client who requires a certification no therapist holds
	st := testState()
	st.Clients["cl-1"].RequiredCert = "emdr"

	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})

	// WHEN suggestions are computed
	res := se.Suggest(st, SimTime{Day: 1, Hour: 0})

	// THEN the client is unschedulable with the violated constraint named
	assert.Empty(t, res.Suggestions)
	require.Len(t, res.Unschedulable, 1)
	assert.Equal(t, ClientID("cl-1"), res.Unschedulable[0].ClientID)
	assert.Contains(t, res.Unschedulable[0].Reason, "certification")
}

func TestSuggest_PastSlotsExcluded(t *testing.T) {
	// GIVEN the clock sits at the final business hour of day 1
	st := testState()
	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})

	// WHEN suggestions are computed
	res := se.Suggest(st, SimTime{Day: 1, Hour: 17})

	// THEN nothing is suggested for the current day
	require.NotEmpty(t, res.Suggestions)
	for _, s := range res.Suggestions {
		assert.GreaterOrEqual(t, s.Day, 2)
	}
}

func TestSuggest_InTreatmentClientOnlyWhenDue(t *testing.T) {
	st := testState()
	cl := st.Clients["cl-1"]
	cl.Status = ClientInTreatment
	cl.LastSessionDay = 1

	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})

	// not yet due: no candidates at all
	res := se.Suggest(st, SimTime{Day: 2, Hour: 0})
	assert.Empty(t, res.Suggestions)
	assert.Empty(t, res.Unschedulable)

	// past the cadence: candidates reappear as overdue
	res = se.Suggest(st, SimTime{Day: 10, Hour: 0})
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, UrgencyOverdue, res.Suggestions[0].Urgency)
}

func TestSuggest_VirtualPreferenceWinsWhenTelehealthUnlocked(t *testing.T) {
	// GIVEN telehealth is available and the client prefers virtual delivery
	st := testState()
	st.Clients["cl-1"].PrefersVirtual = true

	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60, TelehealthUnlocked: true})

	// WHEN suggestions are computed
	res := se.Suggest(st, SimTime{Day: 1, Hour: 0})

	// THEN the top candidate is virtual: full headroom plus the modality match
	require.NotEmpty(t, res.Suggestions)
	assert.True(t, res.Suggestions[0].Virtual)
}

func TestSuggest_ReadOnly(t *testing.T) {
	st := testState()
	addSession(st, "s-1", "th-1", "cl-1", 1, 9, 60, SessionScheduled)
	before := len(st.Sessions)

	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})
	se.Suggest(st, SimTime{Day: 1, Hour: 0})

	assert.Len(t, st.Sessions, before)
	assert.Equal(t, ClientWaiting, st.Clients["cl-1"].Status)
}

func TestSuggest_DroppedAndCompletedClientsIgnored(t *testing.T) {
	st := testState()
	st.Clients["cl-1"].Status = ClientDropped
	done := testClient("cl-2")
	done.Status = ClientCompleted
	st.Clients[done.ID] = done

	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})
	res := se.Suggest(st, SimTime{Day: 1, Hour: 0})

	assert.Empty(t, res.Suggestions)
	assert.Empty(t, res.Unschedulable)
}

func TestSuggest_ReasonNamesFirstViolation(t *testing.T) {
	// GIVEN a client available only on hours the therapist never works
	st := testState()
	cl := st.Clients["cl-1"]
	for wd := 0; wd < 7; wd++ {
		cl.Availability[wd] = 1 << 6 // 06:00 only, outside business hours
	}

	se := testSuggestionEngine(BookingConfig{DefaultDuration: 60})
	res := se.Suggest(st, SimTime{Day: 1, Hour: 0})

	require.Len(t, res.Unschedulable, 1)
	assert.Contains(t, res.Unschedulable[0].Reason, "unavailable")
}
