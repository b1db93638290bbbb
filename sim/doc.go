// Package sim provides the core discrete-time simulation engine for a
// day-structured therapy practice.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - simtime.go: the SimTime value type and its arithmetic
//   - clock.go: time advancement, skip guards, and day-boundary emission
//   - practice.go: the orchestration layer wiring clock, processors, and state
//
// # Architecture
//
// The sim package owns all mutation of practice state from a single logical
// thread of control. The Clock is the sole driver: every Tick or SkipTo call
// produces at most one AdvanceResult, fanned out to subscribers in a fixed
// order. Components are synchronous pure computations over snapshots:
//   - scheduler.go: room/slot availability, booking, cancel, reschedule
//   - suggest.go: read-only advisory ranking of (client, slot, therapist)
//   - energy.go: remainder-carry energy recovery and training accrual
//   - outcome.go: session completion, XP/leveling, payment, satisfaction
//   - dayboundary.go: ordered end-of-day batch effects, idempotent per day
//
// Sub-packages:
//   - sim/scenario/: YAML scenario specs and loading
//   - sim/api/: read-only HTTP surface over a running practice
package sim
