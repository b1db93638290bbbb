// Defines the entity records the engine operates on: therapists, clients,
// sessions, trainings, and the read-only building/program catalogs.

package sim

import "fmt"

// maxBreakHours bounds the break set in a work schedule.
const maxBreakHours = 4

// WorkSchedule is a therapist's daily working window plus break hours.
// Break hours must lie inside [StartHour, EndHour) and are bounded in count.
type WorkSchedule struct {
	StartHour  int   `json:"start_hour" yaml:"start_hour"`
	EndHour    int   `json:"end_hour" yaml:"end_hour"`
	BreakHours []int `json:"break_hours,omitempty" yaml:"break_hours,omitempty"`
}

// Validate checks the schedule's structural invariants.
func (ws WorkSchedule) Validate() error {
	if ws.StartHour < 0 || ws.StartHour > 23 || ws.EndHour < 1 || ws.EndHour > 24 {
		return fmt.Errorf("work hours out of range: start=%d end=%d", ws.StartHour, ws.EndHour)
	}
	if ws.StartHour >= ws.EndHour {
		return fmt.Errorf("work start hour %d not before end hour %d", ws.StartHour, ws.EndHour)
	}
	if len(ws.BreakHours) > maxBreakHours {
		return fmt.Errorf("too many break hours: %d (max %d)", len(ws.BreakHours), maxBreakHours)
	}
	for _, h := range ws.BreakHours {
		if h < ws.StartHour || h >= ws.EndHour {
			return fmt.Errorf("break hour %d outside work hours [%d,%d)", h, ws.StartHour, ws.EndHour)
		}
	}
	return nil
}

// CoversHour reports whether hour falls inside working hours and outside
// breaks.
func (ws WorkSchedule) CoversHour(hour int) bool {
	if hour < ws.StartHour || hour >= ws.EndHour {
		return false
	}
	for _, b := range ws.BreakHours {
		if b == hour {
			return false
		}
	}
	return true
}

// IsBreakHour reports whether hour is one of the configured break hours.
func (ws WorkSchedule) IsBreakHour(hour int) bool {
	for _, b := range ws.BreakHours {
		if b == hour {
			return true
		}
	}
	return false
}

// Therapist models a single worker's mutable state.
type Therapist struct {
	ID     TherapistID     `json:"id"`
	Name   string          `json:"name"`
	Status TherapistStatus `json:"status"`

	Energy    int `json:"energy"`     // current energy, always in [0, MaxEnergy]
	MaxEnergy int `json:"max_energy"` // upper clamp for recovery

	Skill          float64      `json:"skill"` // in [0,1], grows through training
	Level          int          `json:"level"`
	XP             int          `json:"xp"` // monotonically non-decreasing
	Certifications []string     `json:"certifications,omitempty"`
	Schedule       WorkSchedule `json:"schedule"`

	// BurnoutRecoveryDays counts day boundaries spent recovering while
	// burned out. Owned by the ResourceProcessor.
	BurnoutRecoveryDays int `json:"burnout_recovery_days,omitempty"`
}

// HasCertification reports whether the therapist holds cert.
func (th *Therapist) HasCertification(cert string) bool {
	for _, c := range th.Certifications {
		if c == cert {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the therapist.
func (th *Therapist) Clone() *Therapist {
	cp := *th
	cp.Certifications = append([]string(nil), th.Certifications...)
	cp.Schedule.BreakHours = append([]int(nil), th.Schedule.BreakHours...)
	return &cp
}

// Client models a single customer's mutable state.
type Client struct {
	ID     ClientID     `json:"id"`
	Name   string       `json:"name"`
	Status ClientStatus `json:"status"`

	Satisfaction float64 `json:"satisfaction"` // in [0,100]
	DaysWaiting  int     `json:"days_waiting"`

	TreatmentProgress int `json:"treatment_progress"` // sessions completed so far
	SessionsNeeded    int `json:"sessions_needed"`    // sessions to reach completed

	// Availability is a weekly mask: one bitmask of hours per weekday
	// (index 0 = the weekday of simulation day 1). Bit h set means the
	// client can attend at hour h.
	Availability [7]uint32 `json:"availability"`

	PreferredTimeOfDay TimeOfDay `json:"preferred_time_of_day"`
	PrefersVirtual     bool      `json:"prefers_virtual"`
	RequiredCert       string    `json:"required_cert,omitempty"` // certification the assigned therapist must hold

	CadenceDays    int    `json:"cadence_days"`     // required days between sessions
	LastSessionDay int    `json:"last_session_day"` // 0 = never seen
	Insurance      bool   `json:"insurance"`        // insurance panel vs private pay
	DropReason     string `json:"drop_reason,omitempty"`
}

// AvailableAt reports whether the weekly mask admits (day, hour).
func (c *Client) AvailableAt(day, hour int) bool {
	weekday := (day - 1) % 7
	return c.Availability[weekday]&(1<<uint(hour)) != 0
}

// Clone returns a copy of the client.
func (c *Client) Clone() *Client {
	cp := *c
	return &cp
}

// AllHoursMask is an availability mask covering every hour of the day.
const AllHoursMask uint32 = (1 << 24) - 1

// QualityModifier is a signed fractional delta applied to session quality,
// tagged with its source for reporting.
type QualityModifier struct {
	Delta  float64 `json:"delta"`
	Source string  `json:"source"`
}

// Session models a scheduled appointment.
type Session struct {
	ID          SessionID     `json:"id"`
	TherapistID TherapistID   `json:"therapist_id"`
	ClientID    ClientID      `json:"client_id"`
	Day         int           `json:"day"`
	Hour        int           `json:"hour"`
	Duration    int           `json:"duration_minutes"`
	Virtual     bool          `json:"virtual"`
	Status      SessionStatus `json:"status"`

	Quality   float64           `json:"quality"` // running value in [0,1]
	Modifiers []QualityModifier `json:"modifiers,omitempty"`
}

// StartTime returns the session's scheduled start.
func (s *Session) StartTime() SimTime {
	return SimTime{Day: s.Day, Hour: s.Hour}
}

// EndTime returns the instant the session finishes.
func (s *Session) EndTime() SimTime {
	return s.StartTime().AddMinutes(s.Duration)
}

// OccupiedHours returns how many whole hour slots the session spans:
// ceil(Duration/60), starting at Hour.
func (s *Session) OccupiedHours() int {
	return (s.Duration + minutesPerHour - 1) / minutesPerHour
}

// OccupiesHour reports whether the session covers (day, hour) for room and
// therapist conflict purposes. Cancelled and completed sessions occupy
// nothing.
func (s *Session) OccupiesHour(day, hour int) bool {
	if s.Status == SessionCancelled || s.Status == SessionCompleted {
		return false
	}
	if s.Day != day {
		return false
	}
	return hour >= s.Hour && hour < s.Hour+s.OccupiedHours()
}

// AddModifier applies a quality delta, recording it and clamping the
// running quality to [0,1].
func (s *Session) AddModifier(delta float64, source string) {
	s.Modifiers = append(s.Modifiers, QualityModifier{Delta: delta, Source: source})
	s.Quality += delta
	if s.Quality < 0 {
		s.Quality = 0
	}
	if s.Quality > 1 {
		s.Quality = 1
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Modifiers = append([]QualityModifier(nil), s.Modifiers...)
	return &cp
}

// ActiveTraining tracks one therapist's progress through a program.
type ActiveTraining struct {
	ID             string      `json:"id"`
	TherapistID    TherapistID `json:"therapist_id"`
	ProgramID      ProgramID   `json:"program_id"`
	HoursCompleted int         `json:"hours_completed"`
}

// TrainingProgram is a read-only catalog entry.
type TrainingProgram struct {
	ID                  ProgramID `json:"id" yaml:"id"`
	Name                string    `json:"name" yaml:"name"`
	TotalHours          int       `json:"total_hours" yaml:"total_hours"`
	GrantsCertification string    `json:"grants_certification,omitempty" yaml:"grants_certification,omitempty"`
	SkillDelta          float64   `json:"skill_delta" yaml:"skill_delta"`
}

// Building is the read-only facility capacity input to the scheduler.
type Building struct {
	Name  string `json:"name" yaml:"name"`
	Rooms int    `json:"rooms" yaml:"rooms"`
	Tier  int    `json:"tier" yaml:"tier"`
}
