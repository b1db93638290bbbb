// Practice is the thin orchestration layer tying the clock to the
// components: it subscribes the resource processor to advances, routes
// day-boundary notifications to the orchestrator, and applies session
// outcome results to shared state. Components themselves stay synchronous
// and pure.

package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Practice owns the full simulation: state, clock, and every component.
type Practice struct {
	cfg   Config
	state *PracticeState
	rng   *PartitionedRNG

	clock        *Clock
	booking      *BookingScheduler
	suggestions  *SuggestionEngine
	processor    *ResourceProcessor
	outcome      *OutcomeEngine
	orchestrator *DayOrchestrator
	metrics      *Metrics

	qualityRNG *rand.Rand
}

// NewPractice wires a practice from config, initial state, and a seed.
// Subscriber order is fixed: resource accrual first, then day boundaries,
// then session effects.
func NewPractice(cfg Config, state *PracticeState, seed int64) *Practice {
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	start := SimTime{Day: 1, Hour: cfg.Clock.BusinessStartHour}

	p := &Practice{
		cfg:        cfg,
		state:      state,
		rng:        rng,
		metrics:    NewMetrics(),
		qualityRNG: rng.ForSubsystem(SubsystemQuality),
	}
	p.clock = NewClock(cfg.Clock, state, start)
	p.booking = NewBookingScheduler(cfg.Booking)
	p.suggestions = NewSuggestionEngine(cfg.Suggestion, cfg.Clock, p.booking)
	p.processor = NewResourceProcessor(cfg.Energy, cfg.Training)
	p.outcome = NewOutcomeEngine(cfg.Economy)
	p.orchestrator = NewDayOrchestrator(cfg.Spawn, p.processor, rng, state)

	p.clock.Subscribe(func(res AdvanceResult) {
		p.processor.OnAdvance(p.state, res)
	})
	p.clock.SetBoundaryHandler(p)
	p.clock.OnSessionStart(p.onSessionStart)
	p.clock.OnSessionEnd(p.onSessionEnd)
	return p
}

// Accessors for collaborators (HTTP surface, CLI).

func (p *Practice) Clock() *Clock                 { return p.clock }
func (p *Practice) Booking() *BookingScheduler    { return p.booking }
func (p *Practice) Processor() *ResourceProcessor { return p.processor }
func (p *Practice) Metrics() *Metrics             { return p.metrics }
func (p *Practice) Now() SimTime                  { return p.clock.Now() }

// State returns the live state. Mutations must flow through the clock and
// the component operations, never directly.
func (p *Practice) State() *PracticeState { return p.state }

// Snapshot returns a deep copy of the state for read-only consumers.
func (p *Practice) Snapshot() *PracticeState { return p.state.Snapshot() }

// DayEnded implements BoundaryHandler, delegating to the orchestrator and
// folding the day report into metrics and reputation.
func (p *Practice) DayEnded(day int) {
	before := len(p.orchestrator.Reports)
	p.orchestrator.DayEnded(day)
	if len(p.orchestrator.Reports) == before {
		return // re-delivery, already processed
	}
	report := *p.orchestrator.LastReport()
	p.metrics.RecordDayEnd(report)
	p.state.Reputation -= float64(len(report.Dropped)) * 0.5
	if p.state.Reputation < 0 {
		p.state.Reputation = 0
	}
}

// DayStarted implements BoundaryHandler.
func (p *Practice) DayStarted(day int) {
	p.orchestrator.DayStarted(day)
}

// Book validates and creates a session.
func (p *Practice) Book(req BookingRequest) (*Session, CheckResult) {
	return p.booking.Book(p.state, req)
}

// Cancel cancels a scheduled session.
func (p *Practice) Cancel(id SessionID) CheckResult {
	res := p.booking.Cancel(p.state, id)
	if res.OK {
		p.metrics.SessionsCancelled++
	}
	return res
}

// Reschedule moves a scheduled session to a new slot, all-or-nothing.
func (p *Practice) Reschedule(id SessionID, day, hour int, virtual bool) CheckResult {
	return p.booking.Reschedule(p.state, id, day, hour, virtual)
}

// Enroll puts a therapist on a training program.
func (p *Practice) Enroll(id TherapistID, program ProgramID) CheckResult {
	return p.processor.Enroll(p.state, id, program)
}

// Suggest returns the advisory booking ranking for the current time.
func (p *Practice) Suggest() SuggestionResult {
	return p.suggestions.Suggest(p.state, p.clock.Now())
}

// AutoBook books suggestions in ranked order, at most one per client so a
// single urgent client cannot absorb the whole list, revalidating each
// against the state as it evolves. Returns the number booked.
func (p *Practice) AutoBook() int {
	booked := 0
	taken := make(map[ClientID]bool)
	for _, sug := range p.Suggest().Suggestions {
		if taken[sug.ClientID] {
			continue
		}
		_, res := p.Book(BookingRequest{
			TherapistID: sug.TherapistID,
			ClientID:    sug.ClientID,
			Day:         sug.Day,
			Hour:        sug.Hour,
			Virtual:     sug.Virtual,
		})
		if res.OK {
			booked++
			taken[sug.ClientID] = true
		}
	}
	return booked
}

// RunDays advances the simulation by n whole days, skipping between
// sessions and ticking through in-progress ones.
func (p *Practice) RunDays(n int) {
	endDay := p.clock.Now().Day + n
	for p.clock.Now().Day < endDay {
		if p.state.AnyInProgress() {
			p.clock.Tick()
			continue
		}
		if !p.clock.SkipToNextSession() {
			p.clock.Tick()
		}
	}
}

// onSessionStart seeds the session's running quality from therapist skill,
// energy, modality preference, and a small deterministic noise draw.
// Quality then accumulates through modifiers until completion.
func (p *Practice) onSessionStart(id SessionID) {
	s, ok := p.state.Sessions[id]
	if !ok {
		logrus.Warnf("session start effect for unknown session %s", id)
		return
	}
	th := p.state.Therapists[s.TherapistID]
	cl := p.state.Clients[s.ClientID]
	if th == nil || cl == nil {
		logrus.Warnf("session %s references missing entities", id)
		return
	}

	s.Quality = 0.5
	s.AddModifier(0.3*th.Skill, "skill")
	if th.MaxEnergy > 0 {
		ratio := float64(th.Energy) / float64(th.MaxEnergy)
		if ratio < 0.3 {
			s.AddModifier(-0.2, "low energy")
		} else {
			s.AddModifier(0.1*ratio, "energy")
		}
	}
	if s.Virtual == cl.PrefersVirtual {
		s.AddModifier(0.05, "modality match")
	}
	s.AddModifier((p.qualityRNG.Float64()-0.5)*0.1, "variance")
}

// onSessionEnd finalizes a session through the outcome engine and applies
// the returned result: updated records swapped in, payment and reputation
// recorded, therapist energy drained with a burnout check.
func (p *Practice) onSessionEnd(id SessionID) {
	s, ok := p.state.Sessions[id]
	if !ok || s.Status != SessionInProgress {
		return
	}
	th := p.state.Therapists[s.TherapistID]
	cl := p.state.Clients[s.ClientID]
	if th == nil || cl == nil {
		logrus.Warnf("session %s references missing entities; completing without outcome", id)
		s.Status = SessionCompleted
		return
	}

	firstSession := cl.TreatmentProgress == 0
	waitDays := cl.DaysWaiting

	result := p.outcome.Complete(s, th, cl)

	s.Status = SessionCompleted
	p.state.Therapists[th.ID] = result.Therapist
	p.state.Clients[cl.ID] = result.Client

	upTh := result.Therapist
	upTh.Energy -= p.cfg.Energy.SessionCostPerHour * s.OccupiedHours()
	if upTh.Energy < 0 {
		upTh.Energy = 0
	}
	switch {
	case upTh.Energy <= p.cfg.Energy.BurnoutThreshold:
		upTh.Status = TherapistBurnedOut
		logrus.Warnf("therapist %s burned out after session %s", upTh.ID, id)
	default:
		upTh.Status = TherapistAvailable
	}

	p.state.Reputation += result.SatisfactionDelta * 0.05
	if p.state.Reputation < 0 {
		p.state.Reputation = 0
	}

	p.metrics.RecordOutcome(result)
	if firstSession {
		p.metrics.WaitDays = append(p.metrics.WaitDays, waitDays)
	}
	logrus.Infof("session %s completed: quality=%.2f xp=%d payment=%s",
		id, result.Quality, result.XPGained, result.Payment.StringFixed(2))
}
