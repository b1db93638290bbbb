package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// deterministicID mints a stable UUID from an entity kind and a
// per-component sequence counter, so that runs with the same seed and
// scenario produce bit-for-bit identical entity ids.
func deterministicID(kind string, n uint64) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s-%d", kind, n)).String()
}

// Identity types
type TherapistID string
type ClientID string
type SessionID string
type ProgramID string

// TherapistStatus represents the lifecycle state of a therapist.
type TherapistStatus string

const (
	TherapistAvailable  TherapistStatus = "available"
	TherapistInSession  TherapistStatus = "in_session"
	TherapistOnBreak    TherapistStatus = "on_break"
	TherapistInTraining TherapistStatus = "in_training"
	TherapistBurnedOut  TherapistStatus = "burned_out"
)

// ClientStatus represents the lifecycle state of a client.
// The dropped state is terminal: no transition leaves it.
type ClientStatus string

const (
	ClientWaiting     ClientStatus = "waiting"
	ClientInTreatment ClientStatus = "in_treatment"
	ClientCompleted   ClientStatus = "completed"
	ClientDropped     ClientStatus = "dropped"
)

// SessionStatus represents the lifecycle state of a session.
// Created as scheduled; the Clock moves it to in_progress at start time;
// the OutcomeEngine finalizes it to completed. cancelled is reachable only
// from scheduled.
type SessionStatus string

const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// TimeOfDay buckets an hour for preference matching.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// TimeOfDayFor buckets an hour of day: before 12 is morning, before 17 is
// afternoon, the rest is evening.
func TimeOfDayFor(hour int) TimeOfDay {
	switch {
	case hour < 12:
		return Morning
	case hour < 17:
		return Afternoon
	default:
		return Evening
	}
}

// CheckResult is the uniform shape for validation outcomes: OK with an
// empty reason, or not-OK with a human-readable reason. Validations never
// mutate state.
type CheckResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Pass returns a successful CheckResult.
func Pass() CheckResult { return CheckResult{OK: true} }

// Fail returns a failed CheckResult carrying reason.
func Fail(reason string) CheckResult { return CheckResult{OK: false, Reason: reason} }
