// Package scenario defines the YAML scenario format: the initial
// therapists, clients, facility, training catalog, and pre-booked sessions
// a simulation starts from, plus a small set of engine config overrides.
package scenario

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/clinicsim/clinicsim/sim"
)

// Spec is the top-level scenario configuration.
// Loaded from YAML via Load(path).
type Spec struct {
	Seed int64 `yaml:"seed"`
	Days int   `yaml:"days"`

	Building   sim.Building          `yaml:"building"`
	Reputation float64               `yaml:"reputation,omitempty"`
	Therapists []TherapistSpec       `yaml:"therapists"`
	Clients    []ClientSpec          `yaml:"clients"`
	Programs   []sim.TrainingProgram `yaml:"programs,omitempty"`
	Sessions   []SessionSpec         `yaml:"sessions,omitempty"`

	Overrides Overrides `yaml:"config,omitempty"`
}

// TherapistSpec defines one initial therapist.
type TherapistSpec struct {
	ID             string           `yaml:"id"`
	Name           string           `yaml:"name,omitempty"`
	MaxEnergy      int              `yaml:"max_energy,omitempty"` // default 100
	Skill          float64          `yaml:"skill,omitempty"`
	Level          int              `yaml:"level,omitempty"` // default derived from xp
	XP             int              `yaml:"xp,omitempty"`
	Certifications []string         `yaml:"certifications,omitempty"`
	Schedule       sim.WorkSchedule `yaml:"schedule"`
}

// ClientSpec defines one initial client.
type ClientSpec struct {
	ID                 string  `yaml:"id"`
	Name               string  `yaml:"name,omitempty"`
	Satisfaction       float64 `yaml:"satisfaction,omitempty"` // default 75
	SessionsNeeded     int     `yaml:"sessions_needed,omitempty"`
	DaysWaiting        int     `yaml:"days_waiting,omitempty"`
	PreferredTimeOfDay string  `yaml:"preferred_time_of_day,omitempty"` // morning|afternoon|evening
	PrefersVirtual     bool    `yaml:"prefers_virtual,omitempty"`
	RequiredCert       string  `yaml:"required_cert,omitempty"`
	CadenceDays        int     `yaml:"cadence_days,omitempty"` // default 7
	Insurance          bool    `yaml:"insurance,omitempty"`
	AvailableHours     []int   `yaml:"available_hours,omitempty"` // applied to every weekday; empty = all hours
}

// SessionSpec defines one pre-booked session, validated at build time.
type SessionSpec struct {
	TherapistID string `yaml:"therapist_id"`
	ClientID    string `yaml:"client_id"`
	Day         int    `yaml:"day"`
	Hour        int    `yaml:"hour"`
	Duration    int    `yaml:"duration_minutes,omitempty"`
	Virtual     bool   `yaml:"virtual,omitempty"`
}

// Overrides tweaks a subset of engine config knobs; nil fields keep the
// defaults.
type Overrides struct {
	TelehealthUnlocked *bool `yaml:"telehealth_unlocked,omitempty"`
	BusinessStartHour  *int  `yaml:"business_start_hour,omitempty"`
	BusinessEndHour    *int  `yaml:"business_end_hour,omitempty"`
	MinutesPerTick     *int  `yaml:"minutes_per_tick,omitempty"`
	MaxWaitDays        *int  `yaml:"max_wait_days,omitempty"`
	DailyTrainingHours *int  `yaml:"daily_training_hours,omitempty"`
	OvernightHours     *int  `yaml:"overnight_hours,omitempty"`
}

// Load reads and validates a scenario spec from a YAML file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ApplyDefaults fills zero-valued fields with the engine defaults. Load
// applies it automatically; programmatic spec builders call it directly.
func (s *Spec) ApplyDefaults() {
	if s.Seed == 0 {
		s.Seed = 42
	}
	if s.Days == 0 {
		s.Days = 7
	}
	if s.Building.Rooms == 0 {
		s.Building.Rooms = 3
	}
	for i := range s.Therapists {
		t := &s.Therapists[i]
		if t.MaxEnergy == 0 {
			t.MaxEnergy = 100
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		if t.Schedule.EndHour == 0 {
			t.Schedule = sim.WorkSchedule{StartHour: 8, EndHour: 18}
		}
	}
	for i := range s.Clients {
		c := &s.Clients[i]
		if c.Satisfaction == 0 {
			c.Satisfaction = 75
		}
		if c.SessionsNeeded == 0 {
			c.SessionsNeeded = 8
		}
		if c.CadenceDays == 0 {
			c.CadenceDays = 7
		}
		if c.Name == "" {
			c.Name = c.ID
		}
		if c.PreferredTimeOfDay == "" {
			c.PreferredTimeOfDay = string(sim.Morning)
		}
	}
}

// Validate checks structural invariants and cross-references.
func (s *Spec) Validate() error {
	if len(s.Therapists) == 0 {
		return fmt.Errorf("scenario needs at least one therapist")
	}
	therapists := make(map[string]bool, len(s.Therapists))
	for _, t := range s.Therapists {
		if t.ID == "" {
			return fmt.Errorf("therapist with empty id")
		}
		if therapists[t.ID] {
			return fmt.Errorf("duplicate therapist id %q", t.ID)
		}
		therapists[t.ID] = true
		if err := t.Schedule.Validate(); err != nil {
			return fmt.Errorf("therapist %s: %w", t.ID, err)
		}
	}
	clients := make(map[string]bool, len(s.Clients))
	for _, c := range s.Clients {
		if c.ID == "" {
			return fmt.Errorf("client with empty id")
		}
		if clients[c.ID] {
			return fmt.Errorf("duplicate client id %q", c.ID)
		}
		clients[c.ID] = true
		switch sim.TimeOfDay(c.PreferredTimeOfDay) {
		case sim.Morning, sim.Afternoon, sim.Evening:
		default:
			return fmt.Errorf("client %s: unknown preferred_time_of_day %q", c.ID, c.PreferredTimeOfDay)
		}
		for _, h := range c.AvailableHours {
			if h < 0 || h > 23 {
				return fmt.Errorf("client %s: available hour %d out of range", c.ID, h)
			}
		}
	}
	for i, sess := range s.Sessions {
		if !therapists[sess.TherapistID] {
			return fmt.Errorf("session %d references unknown therapist %q", i, sess.TherapistID)
		}
		if !clients[sess.ClientID] {
			return fmt.Errorf("session %d references unknown client %q", i, sess.ClientID)
		}
		if sess.Day < 1 || sess.Hour < 0 || sess.Hour > 23 {
			return fmt.Errorf("session %d has invalid slot day=%d hour=%d", i, sess.Day, sess.Hour)
		}
	}
	return nil
}

// Config returns the engine defaults with the spec's overrides applied.
func (s *Spec) Config() sim.Config {
	cfg := sim.DefaultConfig()
	o := s.Overrides
	if o.TelehealthUnlocked != nil {
		cfg.Booking.TelehealthUnlocked = *o.TelehealthUnlocked
	}
	if o.BusinessStartHour != nil {
		cfg.Clock.BusinessStartHour = *o.BusinessStartHour
	}
	if o.BusinessEndHour != nil {
		cfg.Clock.BusinessEndHour = *o.BusinessEndHour
	}
	if o.MinutesPerTick != nil {
		cfg.Clock.MinutesPerTick = *o.MinutesPerTick
	}
	if o.MaxWaitDays != nil {
		cfg.Spawn.MaxWaitDays = *o.MaxWaitDays
	}
	if o.DailyTrainingHours != nil {
		cfg.Training.DailyHours = *o.DailyTrainingHours
	}
	if o.OvernightHours != nil {
		cfg.Energy.OvernightHours = *o.OvernightHours
	}
	return cfg
}

// BuildState materializes the initial practice state. Pre-booked sessions
// are created through the booking scheduler so they obey the same
// constraints as runtime bookings.
func (s *Spec) BuildState(cfg sim.Config) (*sim.PracticeState, error) {
	st := sim.NewPracticeState()
	st.Building = s.Building
	st.Reputation = s.Reputation

	for _, t := range s.Therapists {
		th := &sim.Therapist{
			ID:             sim.TherapistID(t.ID),
			Name:           t.Name,
			Status:         sim.TherapistAvailable,
			Energy:         t.MaxEnergy,
			MaxEnergy:      t.MaxEnergy,
			Skill:          t.Skill,
			XP:             t.XP,
			Level:          sim.LevelForXP(t.XP),
			Certifications: t.Certifications,
			Schedule:       t.Schedule,
		}
		if t.Level > th.Level {
			th.Level = t.Level
		}
		st.Therapists[th.ID] = th
	}

	for _, c := range s.Clients {
		cl := &sim.Client{
			ID:                 sim.ClientID(c.ID),
			Name:               c.Name,
			Status:             sim.ClientWaiting,
			Satisfaction:       c.Satisfaction,
			DaysWaiting:        c.DaysWaiting,
			SessionsNeeded:     c.SessionsNeeded,
			PreferredTimeOfDay: sim.TimeOfDay(c.PreferredTimeOfDay),
			PrefersVirtual:     c.PrefersVirtual,
			RequiredCert:       c.RequiredCert,
			CadenceDays:        c.CadenceDays,
			Insurance:          c.Insurance,
		}
		mask := sim.AllHoursMask
		if len(c.AvailableHours) > 0 {
			mask = 0
			for _, h := range c.AvailableHours {
				mask |= 1 << uint(h)
			}
		}
		for wd := 0; wd < 7; wd++ {
			cl.Availability[wd] = mask
		}
		st.Clients[cl.ID] = cl
	}

	for _, p := range s.Programs {
		prog := p
		st.Programs[prog.ID] = &prog
	}

	booking := sim.NewBookingScheduler(cfg.Booking)
	for i, sess := range s.Sessions {
		_, res := booking.Book(st, sim.BookingRequest{
			TherapistID: sim.TherapistID(sess.TherapistID),
			ClientID:    sim.ClientID(sess.ClientID),
			Day:         sess.Day,
			Hour:        sess.Hour,
			Duration:    sess.Duration,
			Virtual:     sess.Virtual,
		})
		if !res.OK {
			return nil, fmt.Errorf("pre-booked session %d rejected: %s", i, res.Reason)
		}
	}

	logrus.Infof("scenario built: %d therapists, %d clients, %d pre-booked sessions",
		len(st.Therapists), len(st.Clients), len(st.Sessions))
	return st, nil
}
