// Implements the booking scheduler: room/slot availability math and the
// validate/book/cancel/reschedule operations. All validations are pure;
// only Book, Cancel and Reschedule mutate state, and each is all-or-nothing.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RoomAvailability reports facility capacity at one (day, hour) slot.
type RoomAvailability struct {
	RoomsInUse      int  `json:"rooms_in_use"`
	RoomsAvailable  int  `json:"rooms_available"`
	CanBookInPerson bool `json:"can_book_in_person"`
	CanBookVirtual  bool `json:"can_book_virtual"`
}

// BookingRequest describes a session to be created.
type BookingRequest struct {
	TherapistID TherapistID `json:"therapist_id"`
	ClientID    ClientID    `json:"client_id"`
	Day         int         `json:"day"`
	Hour        int         `json:"hour"`
	Duration    int         `json:"duration_minutes"` // 0 = scheduler default
	Virtual     bool        `json:"virtual"`
}

// BookingScheduler validates and mutates the session book.
type BookingScheduler struct {
	cfg BookingConfig

	// Per-scheduler id counter for deterministic session ids.
	nextID uint64
}

// NewBookingScheduler creates a scheduler with the given config.
func NewBookingScheduler(cfg BookingConfig) *BookingScheduler {
	return &BookingScheduler{cfg: cfg}
}

// ComputeRoomAvailability counts in-person sessions occupying (day, hour).
// A session of duration d occupies ceil(d/60) consecutive hour slots from
// its scheduled hour. Virtual capacity is never room-constrained.
func ComputeRoomAvailability(b Building, sessions []*Session, day, hour int) RoomAvailability {
	inUse := 0
	for _, s := range sessions {
		if !s.Virtual && s.OccupiesHour(day, hour) {
			inUse++
		}
	}
	avail := b.Rooms - inUse
	if avail < 0 {
		// more in-flight sessions than rooms should be impossible; report
		// zero headroom rather than a negative count
		logrus.Warnf("room overcommit at day %d hour %d: %d sessions for %d rooms", day, hour, inUse, b.Rooms)
		avail = 0
	}
	return RoomAvailability{
		RoomsInUse:      inUse,
		RoomsAvailable:  avail,
		CanBookInPerson: avail > 0,
		CanBookVirtual:  true,
	}
}

// CanBookInPerson checks every hour slot a session of durationMinutes
// starting at (day, hour) would occupy, failing fast at the first full
// slot with a slot-specific reason.
func CanBookInPerson(b Building, sessions []*Session, day, hour, durationMinutes int) CheckResult {
	span := (durationMinutes + minutesPerHour - 1) / minutesPerHour
	for h := hour; h < hour+span; h++ {
		if avail := ComputeRoomAvailability(b, sessions, day, h); !avail.CanBookInPerson {
			return Fail(fmt.Sprintf("no room available at day %d hour %d", day, h))
		}
	}
	return Pass()
}

// Validate checks a booking request against facility, therapist and client
// constraints without mutating anything.
func (bs *BookingScheduler) Validate(st *PracticeState, req BookingRequest) CheckResult {
	return bs.validate(st, req, "")
}

// validate runs all booking checks, ignoring any session with id exclude
// when computing conflicts (used by Reschedule to exempt the session being
// moved).
func (bs *BookingScheduler) validate(st *PracticeState, req BookingRequest, exclude SessionID) CheckResult {
	if req.Duration <= 0 {
		req.Duration = bs.cfg.DefaultDuration
	}
	th, ok := st.Therapists[req.TherapistID]
	if !ok {
		return Fail(fmt.Sprintf("unknown therapist %s", req.TherapistID))
	}
	cl, ok := st.Clients[req.ClientID]
	if !ok {
		return Fail(fmt.Sprintf("unknown client %s", req.ClientID))
	}
	if cl.Status == ClientDropped || cl.Status == ClientCompleted {
		return Fail(fmt.Sprintf("client %s is %s", cl.ID, cl.Status))
	}
	if th.Status == TherapistBurnedOut {
		return Fail(fmt.Sprintf("therapist %s is burned out", th.ID))
	}
	if st.InTrainingIDs()[th.ID] {
		return Fail(fmt.Sprintf("therapist %s is in training", th.ID))
	}
	if req.Virtual && !bs.cfg.TelehealthUnlocked {
		return Fail("telehealth has not been unlocked")
	}

	span := (req.Duration + minutesPerHour - 1) / minutesPerHour
	if req.Hour+span > hoursPerDay {
		return Fail(fmt.Sprintf("session at hour %d for %d minutes would run past midnight", req.Hour, req.Duration))
	}
	sessions := bs.conflictSet(st, exclude)
	for h := req.Hour; h < req.Hour+span; h++ {
		if !th.Schedule.CoversHour(h) {
			if th.Schedule.IsBreakHour(h) {
				return Fail(fmt.Sprintf("hour %d is a break for therapist %s", h, th.ID))
			}
			return Fail(fmt.Sprintf("hour %d is outside therapist %s work hours", h, th.ID))
		}
		if !cl.AvailableAt(req.Day, h) {
			return Fail(fmt.Sprintf("client %s is unavailable at day %d hour %d", cl.ID, req.Day, h))
		}
		for _, s := range sessions {
			if s.OccupiesHour(req.Day, h) {
				if s.TherapistID == th.ID {
					return Fail(fmt.Sprintf("therapist %s already booked at day %d hour %d", th.ID, req.Day, h))
				}
				if s.ClientID == cl.ID {
					return Fail(fmt.Sprintf("client %s already booked at day %d hour %d", cl.ID, req.Day, h))
				}
			}
		}
	}
	if !req.Virtual {
		if res := CanBookInPerson(st.Building, sessions, req.Day, req.Hour, req.Duration); !res.OK {
			return res
		}
	}
	return Pass()
}

func (bs *BookingScheduler) conflictSet(st *PracticeState, exclude SessionID) []*Session {
	all := st.SessionList()
	if exclude == "" {
		return all
	}
	out := all[:0]
	for _, s := range all {
		if s.ID != exclude {
			out = append(out, s)
		}
	}
	return out
}

// Book validates req and, on success, creates the session with a fresh id
// and adds it to the state. On failure nothing is mutated.
func (bs *BookingScheduler) Book(st *PracticeState, req BookingRequest) (*Session, CheckResult) {
	if req.Duration <= 0 {
		req.Duration = bs.cfg.DefaultDuration
	}
	if res := bs.Validate(st, req); !res.OK {
		return nil, res
	}
	bs.nextID++
	s := &Session{
		ID:          SessionID(deterministicID("session", bs.nextID)),
		TherapistID: req.TherapistID,
		ClientID:    req.ClientID,
		Day:         req.Day,
		Hour:        req.Hour,
		Duration:    req.Duration,
		Virtual:     req.Virtual,
		Status:      SessionScheduled,
	}
	st.Sessions[s.ID] = s
	if cl := st.Clients[req.ClientID]; cl.Status == ClientWaiting {
		cl.Status = ClientInTreatment
	}
	logrus.Infof("booked session %s: therapist=%s client=%s at %s", s.ID, s.TherapistID, s.ClientID, s.StartTime())
	return s, Pass()
}

// Cancel marks a scheduled session cancelled. Sessions already in progress
// or completed cannot be cancelled.
func (bs *BookingScheduler) Cancel(st *PracticeState, id SessionID) CheckResult {
	s, ok := st.Sessions[id]
	if !ok {
		return Fail(fmt.Sprintf("unknown session %s", id))
	}
	if s.Status != SessionScheduled {
		return Fail(fmt.Sprintf("session %s is %s and cannot be cancelled", id, s.Status))
	}
	s.Status = SessionCancelled
	logrus.Infof("cancelled session %s", id)
	return Pass()
}

// Reschedule moves a scheduled session to a new slot. The new slot is
// validated with the session itself excluded from the conflict set; on any
// failure the session is left exactly as it was.
func (bs *BookingScheduler) Reschedule(st *PracticeState, id SessionID, day, hour int, virtual bool) CheckResult {
	s, ok := st.Sessions[id]
	if !ok {
		return Fail(fmt.Sprintf("unknown session %s", id))
	}
	if s.Status != SessionScheduled {
		return Fail(fmt.Sprintf("session %s is %s and cannot be rescheduled", id, s.Status))
	}
	req := BookingRequest{
		TherapistID: s.TherapistID,
		ClientID:    s.ClientID,
		Day:         day,
		Hour:        hour,
		Duration:    s.Duration,
		Virtual:     virtual,
	}
	if res := bs.validate(st, req, id); !res.OK {
		return res
	}
	s.Day, s.Hour, s.Virtual = day, hour, virtual
	logrus.Infof("rescheduled session %s to %s", id, s.StartTime())
	return Pass()
}
