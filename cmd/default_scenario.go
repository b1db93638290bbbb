package cmd

import (
	"github.com/clinicsim/clinicsim/sim"
	"github.com/clinicsim/clinicsim/sim/scenario"
)

// DefaultScenario returns the built-in demo used when no --scenario file is
// given: a three-room practice with two therapists, a small waiting list,
// and one training program.
func DefaultScenario() *scenario.Spec {
	telehealth := true
	spec := &scenario.Spec{
		Seed: 42,
		Days: 14,
		Building: sim.Building{
			Name:  "Main Street Clinic",
			Rooms: 3,
			Tier:  1,
		},
		Reputation: 10,
		Therapists: []scenario.TherapistSpec{
			{
				ID:    "t-alvarez",
				Name:  "Dr. Alvarez",
				Skill: 0.6,
				Schedule: sim.WorkSchedule{
					StartHour:  8,
					EndHour:    17,
					BreakHours: []int{12},
				},
				Certifications: []string{"cbt"},
			},
			{
				ID:    "t-okafor",
				Name:  "Dr. Okafor",
				Skill: 0.4,
				Schedule: sim.WorkSchedule{
					StartHour:  9,
					EndHour:    18,
					BreakHours: []int{13},
				},
			},
		},
		Clients: []scenario.ClientSpec{
			{ID: "c-ibarra", PreferredTimeOfDay: "morning", SessionsNeeded: 6, Insurance: true},
			{ID: "c-lindqvist", PreferredTimeOfDay: "afternoon", SessionsNeeded: 8, PrefersVirtual: true},
			{ID: "c-mutai", PreferredTimeOfDay: "morning", SessionsNeeded: 4, RequiredCert: "cbt"},
			{ID: "c-perrin", PreferredTimeOfDay: "evening", SessionsNeeded: 10, Insurance: true},
		},
		Programs: []sim.TrainingProgram{
			{ID: "p-emdr", Name: "EMDR Foundations", TotalHours: 12, GrantsCertification: "emdr", SkillDelta: 0.1},
		},
		Sessions: []scenario.SessionSpec{
			{TherapistID: "t-alvarez", ClientID: "c-ibarra", Day: 1, Hour: 9},
			{TherapistID: "t-okafor", ClientID: "c-perrin", Day: 1, Hour: 10},
		},
	}
	spec.Overrides.TelehealthUnlocked = &telehealth

	// run defaults/validation exactly like a loaded file
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		// the built-in demo is static; a validation failure here is a bug
		panic(err)
	}
	return spec
}
