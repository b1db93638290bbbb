// Tracks practice-wide statistics for final reporting.

package sim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Useful for evaluating practice performance and debugging behavior over
// time.
type Metrics struct {
	SessionsCompleted int             // number of sessions finalized
	SessionsCancelled int             // number of sessions cancelled before starting
	Revenue           decimal.Decimal // sum of session payments
	LevelUps          int             // therapist level-ups observed
	ClientsSpawned    int             // clients added by the day orchestrator
	ClientsDropped    int             // clients lost from the waiting list
	TrainingsFinished int             // trainings completed

	QualitySum float64 // sum of completed session qualities
	WaitDays   []int   // days-waiting observed at each client's first session
}

// NewMetrics returns a zeroed metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{Revenue: decimal.Zero}
}

// RecordOutcome folds one session completion into the aggregates.
func (m *Metrics) RecordOutcome(res SessionCompleteResult) {
	m.SessionsCompleted++
	m.Revenue = m.Revenue.Add(res.Payment)
	m.QualitySum += res.Quality
	if res.LeveledUp {
		m.LevelUps++
	}
}

// RecordDayEnd folds one day-end report into the aggregates.
func (m *Metrics) RecordDayEnd(report DayEndReport) {
	m.ClientsSpawned += len(report.Spawned)
	m.ClientsDropped += len(report.Dropped)
	m.TrainingsFinished += len(report.Training.Completed)
}

// AverageQuality returns the mean quality of completed sessions.
func (m *Metrics) AverageQuality() float64 {
	if m.SessionsCompleted == 0 {
		return 0
	}
	return m.QualitySum / float64(m.SessionsCompleted)
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(days int) {
	fmt.Println("=== Practice Metrics ===")
	fmt.Printf("Days simulated       : %d\n", days)
	fmt.Printf("Sessions completed   : %d\n", m.SessionsCompleted)
	fmt.Printf("Sessions cancelled   : %d\n", m.SessionsCancelled)
	fmt.Printf("Revenue              : %s\n", m.Revenue.StringFixed(2))
	fmt.Printf("Therapist level-ups  : %d\n", m.LevelUps)
	fmt.Printf("Clients spawned      : %d\n", m.ClientsSpawned)
	fmt.Printf("Clients dropped      : %d\n", m.ClientsDropped)
	fmt.Printf("Trainings finished   : %d\n", m.TrainingsFinished)
	if m.SessionsCompleted > 0 {
		fmt.Printf("Average quality      : %.3f\n", m.AverageQuality())
	}
	if len(m.WaitDays) > 0 {
		fmt.Printf("Wait days p50        : %.1f\n", CalculatePercentile(m.WaitDays, 50))
		fmt.Printf("Wait days p95        : %.1f\n", CalculatePercentile(m.WaitDays, 95))
	}
}
