// Implements the resource processor: incremental energy recovery with
// exact remainder-carry accounting, overnight rest, burnout recovery, and
// daily training progression.
//
// Recovery is computed in integer milli-energy so that the same total
// elapsed idle time yields the same total recovery no matter how finely or
// coarsely the clock advances.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const milliPerUnit = 1000

// CompletedTraining reports one training that finished during daily
// progression.
type CompletedTraining struct {
	TrainingID           string      `json:"training_id"`
	TherapistID          TherapistID `json:"therapist_id"`
	ProgramID            ProgramID   `json:"program_id"`
	CertificationGranted string      `json:"certification_granted,omitempty"`
	SkillDelta           float64     `json:"skill_delta"`
}

// TrainingProgressResult is the outcome of one daily training pass.
type TrainingProgressResult struct {
	Completed []CompletedTraining `json:"completed"`
	Active    []*ActiveTraining   `json:"active"` // still in progress, orphans passed through unchanged
}

// ResourceProcessor owns incremental per-therapist state accounting. The
// remainder carries and the burnout recovery counters are owned exclusively
// by this component.
type ResourceProcessor struct {
	cfg  EnergyConfig
	tcfg TrainingConfig

	// remainders holds the sub-unit milli-energy carried between recovery
	// computations, keyed by therapist.
	remainders map[TherapistID]int

	// Per-processor id counter for deterministic training ids.
	nextID uint64
}

// NewResourceProcessor creates a processor with the given configs.
func NewResourceProcessor(cfg EnergyConfig, tcfg TrainingConfig) *ResourceProcessor {
	return &ResourceProcessor{
		cfg:        cfg,
		tcfg:       tcfg,
		remainders: make(map[TherapistID]int),
	}
}

// OnAdvance accrues energy recovery over one clock advancement. Minutes in
// a therapist's scheduled break hours recover at the break rate; minutes in
// training recover at the training rate; other idle minutes at the idle
// rate. Therapists in session recover nothing, but their remainder carry is
// preserved. Idle therapists are flagged on_break while the clock sits
// inside one of their scheduled break hours.
func (rp *ResourceProcessor) OnAdvance(st *PracticeState, res AdvanceResult) {
	if res.Minutes() <= 0 {
		return
	}
	inTraining := st.InTrainingIDs()
	for _, th := range st.TherapistList() {
		if th.Status == TherapistInSession {
			continue
		}
		milli := rp.accruedMilli(th, inTraining[th.ID], res.PreviousTime, res.NewTime)
		rp.credit(th, milli)
		switch th.Status {
		case TherapistAvailable:
			if th.Schedule.IsBreakHour(res.NewTime.Hour) {
				th.Status = TherapistOnBreak
			}
		case TherapistOnBreak:
			if !th.Schedule.IsBreakHour(res.NewTime.Hour) {
				th.Status = TherapistAvailable
			}
		}
	}
}

// accruedMilli integrates the recovery rate over [from, to), partitioned at
// hour boundaries since the rate depends on whether each hour is a
// scheduled break.
func (rp *ResourceProcessor) accruedMilli(th *Therapist, training bool, from, to SimTime) int {
	if training {
		// training rate applies to the whole interval
		return from.MinutesUntil(to) * rp.cfg.TrainingRateMilli
	}
	total := 0
	for cur := from; cur.Before(to); {
		hourEnd := SimTime{Day: cur.Day, Hour: cur.Hour}.AddMinutes(minutesPerHour)
		if to.Before(hourEnd) {
			hourEnd = to
		}
		rate := rp.cfg.IdleRateMilli
		if th.Schedule.IsBreakHour(cur.Hour) {
			rate = rp.cfg.BreakRateMilli
		}
		total += cur.MinutesUntil(hourEnd) * rate
		cur = hourEnd
	}
	return total
}

// credit applies milli-energy to a therapist through the remainder carry:
// whole units recovered now, the sub-unit fraction preserved for the next
// call. Energy is clamped to [0, MaxEnergy].
func (rp *ResourceProcessor) credit(th *Therapist, milli int) int {
	sum := milli + rp.remainders[th.ID]
	recovered := sum / milliPerUnit
	rp.remainders[th.ID] = sum % milliPerUnit
	th.Energy += recovered
	if th.Energy > th.MaxEnergy {
		th.Energy = th.MaxEnergy
	}
	if th.Energy < 0 {
		th.Energy = 0
	}
	return recovered
}

// ResetCarries zeroes every remainder. Called at both day boundaries.
func (rp *ResourceProcessor) ResetCarries() {
	for id := range rp.remainders {
		delete(rp.remainders, id)
	}
}

// EndOfDay applies the overnight rest recovery, advances burnout recovery
// counters, and resets the remainder carries.
func (rp *ResourceProcessor) EndOfDay(st *PracticeState) {
	overnight := rp.cfg.OvernightHours * minutesPerHour * rp.cfg.IdleRateMilli / milliPerUnit
	for _, th := range st.TherapistList() {
		if th.Status == TherapistBurnedOut {
			th.BurnoutRecoveryDays++
			if th.BurnoutRecoveryDays >= rp.cfg.BurnoutDays {
				th.BurnoutRecoveryDays = 0
				th.Status = TherapistAvailable
				logrus.Infof("therapist %s recovered from burnout", th.ID)
			}
			continue
		}
		th.Energy += overnight
		if th.Energy > th.MaxEnergy {
			th.Energy = th.MaxEnergy
		}
	}
	rp.ResetCarries()
}

// StartOfDay normalizes working therapists to full energy, burned-out ones
// excepted, and resets the remainder carries.
func (rp *ResourceProcessor) StartOfDay(st *PracticeState) {
	for _, th := range st.TherapistList() {
		if th.Status == TherapistBurnedOut {
			continue
		}
		th.Energy = th.MaxEnergy
		if th.Status == TherapistInSession {
			// no session survives a day boundary (skips are blocked while
			// one is in progress); recover the status just in case
			logrus.Warnf("therapist %s still marked in_session at day start", th.ID)
			th.Status = TherapistAvailable
		}
	}
	rp.ResetCarries()
}

// Enroll starts a therapist on a training program. The therapist must be
// available and not already enrolled.
func (rp *ResourceProcessor) Enroll(st *PracticeState, id TherapistID, program ProgramID) CheckResult {
	th, ok := st.Therapists[id]
	if !ok {
		return Fail(fmt.Sprintf("unknown therapist %s", id))
	}
	if _, ok := st.Programs[program]; !ok {
		return Fail(fmt.Sprintf("unknown program %s", program))
	}
	if st.InTrainingIDs()[id] {
		return Fail(fmt.Sprintf("therapist %s is already in training", id))
	}
	if th.Status != TherapistAvailable {
		return Fail(fmt.Sprintf("therapist %s is %s", id, th.Status))
	}
	th.Status = TherapistInTraining
	rp.nextID++
	st.Trainings = append(st.Trainings, &ActiveTraining{
		ID:          deterministicID("training", rp.nextID),
		TherapistID: id,
		ProgramID:   program,
	})
	logrus.Infof("therapist %s enrolled in %s", id, program)
	return Pass()
}

// ProcessDailyTraining advances every active training by the daily hour
// budget. Completed trainings grant their program's certification and
// skill delta and release the therapist. Orphaned trainings, referencing a
// missing therapist or program, are passed through unchanged.
func (rp *ResourceProcessor) ProcessDailyTraining(st *PracticeState) TrainingProgressResult {
	var result TrainingProgressResult
	for _, tr := range st.Trainings {
		th, thOK := st.Therapists[tr.TherapistID]
		prog, progOK := st.Programs[tr.ProgramID]
		if !thOK || !progOK {
			logrus.Warnf("orphaned training %s (therapist=%s program=%s)", tr.ID, tr.TherapistID, tr.ProgramID)
			result.Active = append(result.Active, tr)
			continue
		}

		tr.HoursCompleted += rp.tcfg.DailyHours
		if tr.HoursCompleted < prog.TotalHours {
			result.Active = append(result.Active, tr)
			continue
		}

		if prog.GrantsCertification != "" && !th.HasCertification(prog.GrantsCertification) {
			th.Certifications = append(th.Certifications, prog.GrantsCertification)
		}
		th.Skill += prog.SkillDelta
		if th.Skill > 1 {
			th.Skill = 1
		}
		if th.Status == TherapistInTraining {
			th.Status = TherapistAvailable
		}
		logrus.Infof("therapist %s completed training %s", th.ID, prog.ID)
		result.Completed = append(result.Completed, CompletedTraining{
			TrainingID:           tr.ID,
			TherapistID:          tr.TherapistID,
			ProgramID:            tr.ProgramID,
			CertificationGranted: prog.GrantsCertification,
			SkillDelta:           prog.SkillDelta,
		})
	}
	st.Trainings = result.Active
	return result
}
