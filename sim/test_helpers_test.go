package sim

// Shared builders for engine tests. Every helper returns fully-formed
// entities with open availability so individual tests only tweak what they
// assert on.

func testTherapist(id TherapistID) *Therapist {
	return &Therapist{
		ID:        id,
		Name:      string(id),
		Status:    TherapistAvailable,
		Energy:    100,
		MaxEnergy: 100,
		Skill:     0.5,
		Level:     1,
		Schedule:  WorkSchedule{StartHour: 8, EndHour: 18},
	}
}

func testClient(id ClientID) *Client {
	cl := &Client{
		ID:                 id,
		Name:               string(id),
		Status:             ClientWaiting,
		Satisfaction:       75,
		SessionsNeeded:     8,
		PreferredTimeOfDay: Morning,
		CadenceDays:        7,
	}
	for wd := 0; wd < 7; wd++ {
		cl.Availability[wd] = AllHoursMask
	}
	return cl
}

// testState builds a three-room practice with one therapist and one client.
func testState() *PracticeState {
	st := NewPracticeState()
	st.Building = Building{Name: "test", Rooms: 3, Tier: 1}
	th := testTherapist("th-1")
	cl := testClient("cl-1")
	st.Therapists[th.ID] = th
	st.Clients[cl.ID] = cl
	return st
}

// addSession injects a session directly, bypassing booking validation.
func addSession(st *PracticeState, id SessionID, th TherapistID, cl ClientID, day, hour, duration int, status SessionStatus) *Session {
	s := &Session{
		ID:          id,
		TherapistID: th,
		ClientID:    cl,
		Day:         day,
		Hour:        hour,
		Duration:    duration,
		Status:      status,
	}
	st.Sessions[id] = s
	return s
}

func testClockConfig() ClockConfig {
	return ClockConfig{MinutesPerTick: 1, BusinessStartHour: 8, BusinessEndHour: 18}
}

// boundaryRecorder records day-boundary notifications in arrival order.
type boundaryRecorder struct {
	events []string
	days   []int
}

func (b *boundaryRecorder) DayEnded(day int) {
	b.events = append(b.events, "end")
	b.days = append(b.days, day)
}

func (b *boundaryRecorder) DayStarted(day int) {
	b.events = append(b.events, "start")
	b.days = append(b.days, day)
}
