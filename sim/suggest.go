// Implements the suggestion engine: a pure, read-only advisory layer that
// enumerates and scores candidate (client, slot, therapist) bookings over a
// rolling horizon. It consumes the booking scheduler's validation and never
// mutates state.

package sim

import (
	"fmt"
	"sort"
)

// Urgency buckets how soon a client's next session is needed.
type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyDueSoon Urgency = "due_soon"
	UrgencyNormal  Urgency = "normal"
)

var urgencyRank = map[Urgency]int{
	UrgencyOverdue: 0,
	UrgencyDueSoon: 1,
	UrgencyNormal:  2,
}

// MatchQuality buckets a suggestion's score.
type MatchQuality string

const (
	MatchExcellent MatchQuality = "excellent"
	MatchGood      MatchQuality = "good"
	MatchFair      MatchQuality = "fair"
)

// BookingSuggestion is one ranked candidate booking.
type BookingSuggestion struct {
	ClientID    ClientID     `json:"client_id"`
	TherapistID TherapistID  `json:"therapist_id"`
	Day         int          `json:"day"`
	Hour        int          `json:"hour"`
	Virtual     bool         `json:"virtual"`
	Score       float64      `json:"score"`
	Urgency     Urgency      `json:"urgency"`
	Match       MatchQuality `json:"match"`
}

// UnschedulableClient reports a client for whom no valid slot exists within
// the horizon, with the first violated constraint as the reason.
type UnschedulableClient struct {
	ClientID ClientID `json:"client_id"`
	Reason   string   `json:"reason"`
}

// SuggestionResult is the engine's full advisory output.
type SuggestionResult struct {
	Suggestions   []BookingSuggestion   `json:"suggestions"`
	Unschedulable []UnschedulableClient `json:"unschedulable"`
}

// SuggestionEngine scores candidate bookings for the acting party.
type SuggestionEngine struct {
	cfg     SuggestionConfig
	clock   ClockConfig
	booking *BookingScheduler
}

// NewSuggestionEngine creates an engine backed by the booking scheduler's
// availability checks.
func NewSuggestionEngine(cfg SuggestionConfig, clock ClockConfig, booking *BookingScheduler) *SuggestionEngine {
	return &SuggestionEngine{cfg: cfg, clock: clock, booking: booking}
}

// UrgencyFor buckets a client's follow-up need at the given day. Clients
// never seen are bucketed by how long they have been waiting against their
// cadence; seen clients by days since their last session.
func (se *SuggestionEngine) UrgencyFor(cl *Client, day int) Urgency {
	cadence := cl.CadenceDays
	if cadence <= 0 {
		cadence = 7
	}
	var until int // days until the next session is due
	if cl.LastSessionDay == 0 {
		until = cadence - cl.DaysWaiting
	} else {
		until = cl.LastSessionDay + cadence - day
	}
	switch {
	case until < 0:
		return UrgencyOverdue
	case until <= se.cfg.DueSoonWindow:
		return UrgencyDueSoon
	default:
		return UrgencyNormal
	}
}

// matchFor buckets a score.
func (se *SuggestionEngine) matchFor(score float64) MatchQuality {
	switch {
	case score >= se.cfg.ExcellentCutoff:
		return MatchExcellent
	case score >= se.cfg.GoodCutoff:
		return MatchGood
	default:
		return MatchFair
	}
}

// Suggest enumerates candidate bookings for every waiting or
// due-for-follow-up client over the configured horizon, scores them, and
// returns at most MaxSuggestions sorted by urgency, then score descending,
// with a stable tie-break by client id. Clients with no valid candidate are
// reported as unschedulable.
func (se *SuggestionEngine) Suggest(st *PracticeState, now SimTime) SuggestionResult {
	snap := st.Snapshot()
	var result SuggestionResult
	var all []BookingSuggestion

	for _, cl := range snap.ClientList() {
		urgency := se.UrgencyFor(cl, now.Day)
		switch cl.Status {
		case ClientWaiting:
			// always a candidate
		case ClientInTreatment:
			if urgency == UrgencyNormal {
				continue // not yet due for follow-up
			}
		default:
			continue
		}

		candidates, firstReason := se.candidatesFor(snap, cl, now, urgency)
		if len(candidates) == 0 {
			result.Unschedulable = append(result.Unschedulable, UnschedulableClient{
				ClientID: cl.ID,
				Reason:   firstReason,
			})
			continue
		}
		all = append(all, candidates...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if urgencyRank[all[i].Urgency] != urgencyRank[all[j].Urgency] {
			return urgencyRank[all[i].Urgency] < urgencyRank[all[j].Urgency]
		}
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].ClientID < all[j].ClientID
	})
	if len(all) > se.cfg.MaxSuggestions {
		all = all[:se.cfg.MaxSuggestions]
	}
	result.Suggestions = all
	return result
}

// candidatesFor enumerates (therapist, day, hour, modality) combinations
// for one client, returning the scored valid candidates and, when there
// are none, the first violated constraint.
func (se *SuggestionEngine) candidatesFor(st *PracticeState, cl *Client, now SimTime, urgency Urgency) ([]BookingSuggestion, string) {
	var out []BookingSuggestion
	firstReason := ""
	note := func(res CheckResult) {
		if firstReason == "" {
			firstReason = res.Reason
		}
	}

	modalities := []bool{false}
	if se.booking.cfg.TelehealthUnlocked {
		modalities = append(modalities, true)
	}

	for day := now.Day; day < now.Day+se.cfg.DaysAhead; day++ {
		for hour := se.clock.BusinessStartHour; hour < se.clock.BusinessEndHour; hour++ {
			if day == now.Day && hour <= now.Hour {
				continue // slots in the past are not candidates
			}
			for _, th := range st.TherapistList() {
				if cl.RequiredCert != "" && !th.HasCertification(cl.RequiredCert) {
					note(Fail(fmt.Sprintf("therapist %s lacks certification %s", th.ID, cl.RequiredCert)))
					continue
				}
				for _, virtual := range modalities {
					req := BookingRequest{
						TherapistID: th.ID,
						ClientID:    cl.ID,
						Day:         day,
						Hour:        hour,
						Virtual:     virtual,
					}
					if res := se.booking.Validate(st, req); !res.OK {
						note(res)
						continue
					}
					score := se.score(st, cl, th, day, hour, virtual, urgency)
					out = append(out, BookingSuggestion{
						ClientID:    cl.ID,
						TherapistID: th.ID,
						Day:         day,
						Hour:        hour,
						Virtual:     virtual,
						Score:       score,
						Urgency:     urgency,
						Match:       se.matchFor(score),
					})
				}
			}
		}
	}
	if len(out) == 0 && firstReason == "" {
		firstReason = "no bookable slot within horizon"
	}
	return out, firstReason
}

// score computes the weighted match score in [0,1]. Certification is a
// hard requirement checked before scoring, so a scored candidate always
// earns the certification weight.
func (se *SuggestionEngine) score(st *PracticeState, cl *Client, th *Therapist, day, hour int, virtual bool, urgency Urgency) float64 {
	score := se.cfg.CertWeight

	if TimeOfDayFor(hour) == cl.PreferredTimeOfDay {
		score += se.cfg.TimeOfDayWeight
	}
	if virtual == cl.PrefersVirtual {
		score += se.cfg.ModalityWeight
	}
	switch urgency {
	case UrgencyOverdue:
		score += se.cfg.UrgencyWeight
	case UrgencyDueSoon:
		score += se.cfg.UrgencyWeight / 2
	}

	if virtual {
		score += se.cfg.HeadroomWeight
	} else if st.Building.Rooms > 0 {
		avail := ComputeRoomAvailability(st.Building, st.SessionList(), day, hour)
		score += se.cfg.HeadroomWeight * float64(avail.RoomsAvailable) / float64(st.Building.Rooms)
	}
	return score
}
