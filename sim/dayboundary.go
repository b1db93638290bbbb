// Implements the day-boundary orchestrator: the fixed-order batch effects
// fired once per day crossing. Order per day: waiting-list decay and
// dropout, new-client spawn, training progression, overnight recovery.
// Each boundary is idempotent per day number.

package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Drop reasons surfaced on client records and in reports.
const (
	DropReasonWaitedTooLong         = "waited too long"
	DropReasonSatisfactionExhausted = "satisfaction exhausted"
)

// DroppedClient flags one client removed from the waiting list.
type DroppedClient struct {
	ClientID ClientID `json:"client_id"`
	Reason   string   `json:"reason"`
}

// DayEndReport summarizes one day's boundary effects.
type DayEndReport struct {
	Day      int                    `json:"day"`
	Dropped  []DroppedClient        `json:"dropped,omitempty"`
	Spawned  []ClientID             `json:"spawned,omitempty"`
	Training TrainingProgressResult `json:"training"`
}

// DayOrchestrator sequences end-of-day and start-of-day batch effects. The
// last-processed-day guards are owned exclusively by this component.
type DayOrchestrator struct {
	cfg       SpawnConfig
	processor *ResourceProcessor
	rng       *rand.Rand
	state     *PracticeState

	lastEnded   int
	lastStarted int

	// Per-orchestrator id counter for deterministic client ids.
	nextID uint64

	Reports []DayEndReport
}

// NewDayOrchestrator creates an orchestrator over state. Spawn randomness
// draws from the rng's spawn subsystem.
func NewDayOrchestrator(cfg SpawnConfig, processor *ResourceProcessor, rng *PartitionedRNG, state *PracticeState) *DayOrchestrator {
	return &DayOrchestrator{
		cfg:       cfg,
		processor: processor,
		rng:       rng.ForSubsystem(SubsystemSpawn),
		state:     state,
	}
}

// DayEnded runs the end-of-day batch for day. Re-delivery of an already
// processed day is a no-op.
func (o *DayOrchestrator) DayEnded(day int) {
	if day <= o.lastEnded {
		logrus.Warnf("day %d end re-delivered; already processed", day)
		return
	}
	o.lastEnded = day

	report := DayEndReport{Day: day}
	report.Dropped = o.decayWaitingList()
	report.Spawned = o.spawnClients(day)
	report.Training = o.processor.ProcessDailyTraining(o.state)
	o.processor.EndOfDay(o.state)

	o.Reports = append(o.Reports, report)
	logrus.Infof("day %d ended: %d dropped, %d spawned, %d trainings completed",
		day, len(report.Dropped), len(report.Spawned), len(report.Training.Completed))
}

// DayStarted normalizes state for the new day. Idempotent per day number.
func (o *DayOrchestrator) DayStarted(day int) {
	if day <= o.lastStarted {
		logrus.Warnf("day %d start re-delivered; already processed", day)
		return
	}
	o.lastStarted = day
	o.processor.StartOfDay(o.state)
	logrus.Infof("day %d started", day)
}

// LastReport returns the most recent day-end report, or nil before the
// first boundary.
func (o *DayOrchestrator) LastReport() *DayEndReport {
	if len(o.Reports) == 0 {
		return nil
	}
	return &o.Reports[len(o.Reports)-1]
}

// decayWaitingList updates satisfaction and days-waiting for every waiting
// client and drops those past their limit. Dropping is terminal.
func (o *DayOrchestrator) decayWaitingList() []DroppedClient {
	var dropped []DroppedClient
	for _, cl := range o.state.ClientList() {
		if cl.Status != ClientWaiting {
			continue
		}
		cl.DaysWaiting++
		cl.Satisfaction = clampFloat(cl.Satisfaction-o.cfg.WaitDecay, 0, 100)

		reason := ""
		switch {
		case cl.DaysWaiting >= o.cfg.MaxWaitDays:
			reason = DropReasonWaitedTooLong
		case cl.Satisfaction <= 0:
			reason = DropReasonSatisfactionExhausted
		default:
			continue
		}
		cl.Status = ClientDropped
		cl.DropReason = reason
		dropped = append(dropped, DroppedClient{ClientID: cl.ID, Reason: reason})
		logrus.Infof("client %s dropped: %s", cl.ID, reason)
	}
	return dropped
}

// spawnClients probabilistically adds new waiting clients. The chance
// grows with the day number and the practice's reputation, capped at
// MaxChance.
func (o *DayOrchestrator) spawnClients(day int) []ClientID {
	chance := o.cfg.BaseChance + float64(day)*o.cfg.DayRamp + o.state.Reputation*o.cfg.ReputationWeight
	chance = clampFloat(chance, 0, o.cfg.MaxChance)
	if o.rng.Float64() >= chance {
		return nil
	}

	cl := o.newClient()
	o.state.Clients[cl.ID] = cl
	logrus.Infof("client %s spawned on day %d", cl.ID, day)
	return []ClientID{cl.ID}
}

// newClient mints a waiting client with randomized preferences drawn from
// the spawn RNG stream.
func (o *DayOrchestrator) newClient() *Client {
	o.nextID++
	id := deterministicID("client", o.nextID)
	cl := &Client{
		ID:                 ClientID(id),
		Name:               fmt.Sprintf("client-%s", id[:8]),
		Status:             ClientWaiting,
		Satisfaction:       60 + o.rng.Float64()*40,
		SessionsNeeded:     4 + o.rng.Intn(9),
		PreferredTimeOfDay: []TimeOfDay{Morning, Afternoon, Evening}[o.rng.Intn(3)],
		PrefersVirtual:     o.rng.Float64() < 0.3,
		CadenceDays:        7,
		Insurance:          o.rng.Float64() < 0.6,
	}
	// each weekday: available for most hours, with a few masked out
	for wd := 0; wd < 7; wd++ {
		mask := AllHoursMask
		for i := 0; i < 4; i++ {
			mask &^= 1 << uint(o.rng.Intn(24))
		}
		cl.Availability[wd] = mask
	}
	return cl
}
