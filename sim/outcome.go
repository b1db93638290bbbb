// Implements the session outcome engine: XP and leveling from session
// quality, payment, and client satisfaction deltas. The engine is pure: it
// consumes the session's accumulated quality and returns a result object;
// the caller applies it.

package sim

import (
	"github.com/shopspring/decimal"
)

// SessionCompleteResult is the finalization of one completed session.
type SessionCompleteResult struct {
	SessionID SessionID `json:"session_id"`
	Quality   float64   `json:"quality"`

	XPGained  int  `json:"xp_gained"`
	LeveledUp bool `json:"leveled_up"`
	NewLevel  int  `json:"new_level"`

	Payment           decimal.Decimal `json:"payment"`
	SatisfactionDelta float64         `json:"satisfaction_delta"`

	Therapist *Therapist `json:"therapist"` // updated copy; caller applies
	Client    *Client    `json:"client"`    // updated copy; caller applies
}

// OutcomeEngine computes session finalization results.
type OutcomeEngine struct {
	cfg EconomyConfig

	privateRate     decimal.Decimal
	panelRate       decimal.Decimal
	virtualDiscount decimal.Decimal
	qualityBonus    decimal.Decimal
}

// NewOutcomeEngine creates an engine, parsing the config's decimal fields.
// Malformed decimal strings are programmer/config errors and panic via
// decimal.RequireFromString.
func NewOutcomeEngine(cfg EconomyConfig) *OutcomeEngine {
	return &OutcomeEngine{
		cfg:             cfg,
		privateRate:     decimal.RequireFromString(cfg.PrivateRate),
		panelRate:       decimal.RequireFromString(cfg.PanelRate),
		virtualDiscount: decimal.RequireFromString(cfg.VirtualDiscount),
		qualityBonus:    decimal.RequireFromString(cfg.QualityBonusWeight),
	}
}

// LevelForXP derives a therapist level from total XP:
// level(xp) = floor(sqrt(xp/10)) + 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return isqrt(xp/10) + 1
}

// XPForLevel returns the XP needed to reach level n: (n-1)^2 * 10.
func XPForLevel(n int) int {
	if n < 1 {
		n = 1
	}
	return (n - 1) * (n - 1) * 10
}

// isqrt is the integer square root (floor).
func isqrt(n int) int {
	if n < 2 {
		return n
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// Complete finalizes a session. Quality is the running value accumulated
// during the session; the engine consumes it without recomputation. The
// returned therapist and client records are clones; shared state is not
// touched.
func (oe *OutcomeEngine) Complete(s *Session, th *Therapist, cl *Client) SessionCompleteResult {
	quality := s.Quality
	if quality < 0 {
		quality = 0
	}
	if quality > 1 {
		quality = 1
	}

	// XP is monotonic in quality; leveling never resets XP.
	xpGained := int(float64(oe.cfg.BaseSessionXP)*(0.5+quality) + 0.5)
	levelBefore := LevelForXP(th.XP)
	levelAfter := LevelForXP(th.XP + xpGained)

	modalityMatch := s.Virtual == cl.PrefersVirtual
	satisfactionDelta := (quality - 0.5) * oe.cfg.SatisfactionScale
	if modalityMatch {
		satisfactionDelta += oe.cfg.ModalityBonus
	}

	upTh := th.Clone()
	upTh.XP += xpGained
	if levelAfter > levelBefore {
		upTh.Level = levelAfter
	}

	upCl := cl.Clone()
	upCl.Satisfaction = clampFloat(upCl.Satisfaction+satisfactionDelta, 0, 100)
	upCl.TreatmentProgress++
	upCl.DaysWaiting = 0
	upCl.LastSessionDay = s.Day
	if upCl.SessionsNeeded > 0 && upCl.TreatmentProgress >= upCl.SessionsNeeded {
		upCl.Status = ClientCompleted
	} else if upCl.Status != ClientDropped {
		upCl.Status = ClientInTreatment
	}

	return SessionCompleteResult{
		SessionID:         s.ID,
		Quality:           quality,
		XPGained:          xpGained,
		LeveledUp:         levelAfter > levelBefore,
		NewLevel:          max(levelBefore, levelAfter),
		Payment:           oe.payment(s, cl, quality),
		SatisfactionDelta: satisfactionDelta,
		Therapist:         upTh,
		Client:            upCl,
	}
}

// payment computes the session fee: panel rate for insurance clients,
// private rate otherwise, scaled by a quality bonus above baseline and a
// discount for virtual delivery. Rounded to cents.
func (oe *OutcomeEngine) payment(s *Session, cl *Client, quality float64) decimal.Decimal {
	rate := oe.privateRate
	if cl.Insurance {
		rate = oe.panelRate
	}
	bonus := decimal.NewFromFloat(quality - 0.5).Mul(oe.qualityBonus)
	amount := rate.Mul(decimal.NewFromInt(1).Add(bonus))
	if s.Virtual {
		amount = amount.Mul(oe.virtualDiscount)
	}
	return amount.Round(2)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
