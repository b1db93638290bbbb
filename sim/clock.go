// Implements the simulation clock: monotonic time advancement, skip
// guards, session start/end detection, and day-boundary emission.
//
// The clock is the sole mutator of current simulated time. Every
// successful advance emits exactly one AdvanceResult to each subscriber,
// and exactly one DayEnded/DayStarted pair per day crossed, in order,
// before the call returns.

package sim

import (
	"github.com/sirupsen/logrus"
)

// AdvanceResult describes one successful time advancement.
type AdvanceResult struct {
	PreviousTime SimTime `json:"previous_time"`
	NewTime      SimTime `json:"new_time"`
}

// Minutes returns the elapsed simulated minutes of the advance.
func (r AdvanceResult) Minutes() int {
	return r.PreviousTime.MinutesUntil(r.NewTime)
}

// AdvanceSubscriber receives every AdvanceResult the clock emits.
type AdvanceSubscriber func(AdvanceResult)

// BoundaryHandler receives day-boundary notifications, one DayEnded then
// one DayStarted per day crossed, strictly in order.
type BoundaryHandler interface {
	DayEnded(day int)
	DayStarted(day int)
}

// Clock owns current simulated time and drives all time-triggered effects.
type Clock struct {
	cfg   ClockConfig
	state *PracticeState

	current SimTime
	paused  bool

	subscribers    []AdvanceSubscriber
	boundary       BoundaryHandler
	onSessionStart func(SessionID)
	onSessionEnd   func(SessionID)

	// Reentrancy guard: a Tick arriving while a prior tick's effects are
	// still being applied is queued and drained afterwards, never
	// interleaved.
	applying     bool
	pendingTicks int
}

// NewClock creates a clock over state starting at start.
func NewClock(cfg ClockConfig, state *PracticeState, start SimTime) *Clock {
	if cfg.MinutesPerTick <= 0 {
		cfg.MinutesPerTick = 1
	}
	return &Clock{cfg: cfg, state: state, current: start}
}

// Now returns the current simulated time.
func (c *Clock) Now() SimTime { return c.current }

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool { return c.paused }

// Pause stops Tick from advancing time until Resume is called.
func (c *Clock) Pause() { c.paused = true }

// Resume re-enables Tick.
func (c *Clock) Resume() { c.paused = false }

// Subscribe registers fn to receive every AdvanceResult. Subscribers are
// invoked in registration order.
func (c *Clock) Subscribe(fn AdvanceSubscriber) {
	c.subscribers = append(c.subscribers, fn)
}

// SetBoundaryHandler registers the day-boundary orchestrator.
func (c *Clock) SetBoundaryHandler(h BoundaryHandler) { c.boundary = h }

// OnSessionStart registers the effect fired when a session starts.
func (c *Clock) OnSessionStart(fn func(SessionID)) { c.onSessionStart = fn }

// OnSessionEnd registers the effect fired when a running session reaches
// its end time. The clock never computes outcomes itself.
func (c *Clock) OnSessionEnd(fn func(SessionID)) { c.onSessionEnd = fn }

// Tick advances simulated time by the configured step, unless paused.
// Returns nil when no advancement occurred. A tick arriving while another
// tick is being applied is queued and drained before the outer call
// returns.
func (c *Clock) Tick() *AdvanceResult {
	if c.paused {
		return nil
	}
	if c.applying {
		c.pendingTicks++
		return nil
	}
	c.applying = true
	defer func() { c.applying = false }()

	res := c.advance(c.current.AddMinutes(c.cfg.MinutesPerTick))
	for c.pendingTicks > 0 {
		c.pendingTicks--
		c.advance(c.current.AddMinutes(c.cfg.MinutesPerTick))
	}
	return res
}

// SkipTo attempts to jump directly to target.
//
// Guard 1: if any session is in progress, the skip is refused outright and
// nil is returned with zero side effects. Guard 2: if any scheduled
// session's start lies strictly after the current time and at or before
// target, the skip is clamped to the earliest such start; that session is
// started and the (clamped) result is still returned. Returns nil when no
// advancement occurred.
func (c *Clock) SkipTo(target SimTime) *AdvanceResult {
	if c.applying {
		return nil
	}
	if !target.After(c.current) {
		return nil
	}
	if c.state.AnyInProgress() {
		logrus.Debugf("skip to %s refused: session in progress", target)
		return nil
	}
	c.applying = true
	defer func() { c.applying = false }()
	return c.advance(target)
}

// SkipToNextSession jumps to the earliest scheduled session start at or
// after the current time today; when no session remains for the current
// business day, it jumps to the start of business hours on the next day.
// Starting a session scheduled exactly "now" is legal: the session starts,
// time is unchanged, and true is returned. Returns false only when blocked
// by the in-progress guard (or paused-by-application).
func (c *Clock) SkipToNextSession() bool {
	if c.applying {
		return false
	}
	if c.state.AnyInProgress() {
		logrus.Debug("skip to next session refused: session in progress")
		return false
	}

	target := SimTime{Day: c.current.Day + 1, Hour: c.cfg.BusinessStartHour}
	for _, s := range c.state.SessionList() {
		if s.Status != SessionScheduled || s.Day != c.current.Day {
			continue
		}
		if start := s.StartTime(); !start.Before(c.current) {
			target = start
			break
		}
	}

	if target.Equal(c.current) {
		// already at the start time: start the session without advancing
		c.applying = true
		defer func() { c.applying = false }()
		c.startDueSessions()
		return true
	}

	return c.SkipTo(target) != nil
}

// advance moves the clock to target (clamped to the earliest intervening
// scheduled session start and in-progress session end, so that neither is
// silently passed mid-step), emits the AdvanceResult, processes day
// boundaries in order, and fires session start/end effects. Callers hold
// the applying guard.
func (c *Clock) advance(target SimTime) *AdvanceResult {
	if !target.After(c.current) {
		return nil
	}
	if clamp, ok := c.earliestStartWithin(c.current, target); ok {
		target = clamp
	}
	if clamp, ok := c.earliestEndWithin(c.current, target); ok {
		target = clamp
	}

	prev := c.current
	c.current = target
	res := AdvanceResult{PreviousTime: prev, NewTime: target}
	logrus.Debugf("advance: %s -> %s", prev, target)

	for _, fn := range c.subscribers {
		fn(res)
	}
	if c.boundary != nil {
		for d := prev.Day; d < target.Day; d++ {
			c.boundary.DayEnded(d)
			c.boundary.DayStarted(d + 1)
		}
	}

	c.startDueSessions()
	c.endDueSessions()
	return &res
}

// earliestStartWithin returns the earliest scheduled session start in
// (after, upTo], if any.
func (c *Clock) earliestStartWithin(after, upTo SimTime) (SimTime, bool) {
	var best SimTime
	found := false
	for _, s := range c.state.SessionList() {
		if s.Status != SessionScheduled {
			continue
		}
		start := s.StartTime()
		if start.After(after) && !start.After(upTo) {
			if !found || start.Before(best) {
				best = start
				found = true
			}
		}
	}
	return best, found
}

// earliestEndWithin returns the earliest in-progress session end in
// (after, upTo], if any. Clamping here frees the therapist at the exact
// end minute, so recovery accounting does not depend on the tick size.
func (c *Clock) earliestEndWithin(after, upTo SimTime) (SimTime, bool) {
	var best SimTime
	found := false
	for _, s := range c.state.SessionList() {
		if s.Status != SessionInProgress {
			continue
		}
		end := s.EndTime()
		if end.After(after) && !end.After(upTo) {
			if !found || end.Before(best) {
				best = end
				found = true
			}
		}
	}
	return best, found
}

// startDueSessions moves scheduled sessions whose start time has been
// reached to in_progress, firing onSessionStart once per session.
func (c *Clock) startDueSessions() {
	for _, s := range c.state.SessionList() {
		if s.Status != SessionScheduled || s.StartTime().After(c.current) {
			continue
		}
		s.Status = SessionInProgress
		if th, ok := c.state.Therapists[s.TherapistID]; ok && th.Status != TherapistBurnedOut {
			th.Status = TherapistInSession
		}
		if cl, ok := c.state.Clients[s.ClientID]; ok && cl.Status == ClientWaiting {
			cl.Status = ClientInTreatment
		}
		logrus.Infof("<< session start: %s at %s", s.ID, c.current)
		if c.onSessionStart != nil {
			c.onSessionStart(s.ID)
		}
	}
}

// endDueSessions fires onSessionEnd for running sessions whose end time
// has been reached. Finalization is the outcome engine's job, via the
// registered effect.
func (c *Clock) endDueSessions() {
	for _, s := range c.state.SessionList() {
		if s.Status != SessionInProgress || s.EndTime().After(c.current) {
			continue
		}
		logrus.Infof("<< session end: %s at %s", s.ID, c.current)
		if c.onSessionEnd != nil {
			c.onSessionEnd(s.ID)
		}
	}
}
