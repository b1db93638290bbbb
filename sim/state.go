// PracticeState holds every entity collection the engine mutates, plus the
// read-only facility and program catalogs. All mutation flows through the
// Clock's single logical thread of control.

package sim

import "sort"

// PracticeState is the in-memory world state.
type PracticeState struct {
	Therapists map[TherapistID]*Therapist
	Clients    map[ClientID]*Client
	Sessions   map[SessionID]*Session
	Trainings  []*ActiveTraining

	Building Building
	Programs map[ProgramID]*TrainingProgram

	Reputation float64
}

// NewPracticeState returns an empty state with initialized collections.
func NewPracticeState() *PracticeState {
	return &PracticeState{
		Therapists: make(map[TherapistID]*Therapist),
		Clients:    make(map[ClientID]*Client),
		Sessions:   make(map[SessionID]*Session),
		Programs:   make(map[ProgramID]*TrainingProgram),
	}
}

// SessionList returns all sessions ordered by (start time, id) for
// deterministic iteration.
func (st *PracticeState) SessionList() []*Session {
	out := make([]*Session, 0, len(st.Sessions))
	for _, s := range st.Sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].StartTime(), out[j].StartTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TherapistList returns therapists ordered by id.
func (st *PracticeState) TherapistList() []*Therapist {
	out := make([]*Therapist, 0, len(st.Therapists))
	for _, th := range st.Therapists {
		out = append(out, th)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ClientList returns clients ordered by id.
func (st *PracticeState) ClientList() []*Client {
	out := make([]*Client, 0, len(st.Clients))
	for _, c := range st.Clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AnyInProgress reports whether any session is currently running.
func (st *PracticeState) AnyInProgress() bool {
	for _, s := range st.Sessions {
		if s.Status == SessionInProgress {
			return true
		}
	}
	return false
}

// ActiveSessionsFor returns the non-cancelled, non-completed sessions
// assigned to a therapist.
func (st *PracticeState) ActiveSessionsFor(id TherapistID) []*Session {
	var out []*Session
	for _, s := range st.SessionList() {
		if s.TherapistID == id && (s.Status == SessionScheduled || s.Status == SessionInProgress) {
			out = append(out, s)
		}
	}
	return out
}

// InTrainingIDs returns the set of therapists with an active training.
func (st *PracticeState) InTrainingIDs() map[TherapistID]bool {
	out := make(map[TherapistID]bool, len(st.Trainings))
	for _, tr := range st.Trainings {
		out[tr.TherapistID] = true
	}
	return out
}

// Snapshot returns a deep copy of the state. Read-only collaborators (the
// suggestion engine, the HTTP surface) operate on snapshots so that no
// partially applied batch is ever visible to them.
func (st *PracticeState) Snapshot() *PracticeState {
	cp := NewPracticeState()
	for id, th := range st.Therapists {
		cp.Therapists[id] = th.Clone()
	}
	for id, c := range st.Clients {
		cp.Clients[id] = c.Clone()
	}
	for id, s := range st.Sessions {
		cp.Sessions[id] = s.Clone()
	}
	for _, tr := range st.Trainings {
		t := *tr
		cp.Trainings = append(cp.Trainings, &t)
	}
	for id, p := range st.Programs {
		pc := *p
		cp.Programs[id] = &pc
	}
	cp.Building = st.Building
	cp.Reputation = st.Reputation
	return cp
}
