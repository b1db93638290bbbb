// Defines SimTime, the immutable simulated-time value the whole engine is
// ordered by. The Clock owns the single "current" instance; everything else
// treats SimTime as a plain value.

package sim

import "fmt"

const (
	minutesPerHour = 60
	hoursPerDay    = 24
	minutesPerDay  = minutesPerHour * hoursPerDay
)

// SimTime is a point in simulated time: day (1-based), hour (0-23),
// minute (0-59). Totally ordered by (Day, Hour, Minute).
type SimTime struct {
	Day    int `json:"day" yaml:"day"`
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
}

// NewSimTime builds a SimTime without normalization. Callers passing
// out-of-range components get what they asked for; use AddMinutes for
// normalized arithmetic.
func NewSimTime(day, hour, minute int) SimTime {
	return SimTime{Day: day, Hour: hour, Minute: minute}
}

// TotalMinutes converts t to an absolute minute count since day 1, 00:00.
func (t SimTime) TotalMinutes() int {
	return (t.Day-1)*minutesPerDay + t.Hour*minutesPerHour + t.Minute
}

// FromTotalMinutes is the inverse of TotalMinutes. Negative inputs are
// clamped to the epoch (day 1, 00:00).
func FromTotalMinutes(total int) SimTime {
	if total < 0 {
		total = 0
	}
	return SimTime{
		Day:    total/minutesPerDay + 1,
		Hour:   (total % minutesPerDay) / minutesPerHour,
		Minute: total % minutesPerHour,
	}
}

// Cmp returns -1, 0, or +1 as t is before, equal to, or after other.
func (t SimTime) Cmp(other SimTime) int {
	a, b := t.TotalMinutes(), other.TotalMinutes()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether t is strictly earlier than other.
func (t SimTime) Before(other SimTime) bool { return t.Cmp(other) < 0 }

// After reports whether t is strictly later than other.
func (t SimTime) After(other SimTime) bool { return t.Cmp(other) > 0 }

// Equal reports whether t and other are the same instant.
func (t SimTime) Equal(other SimTime) bool { return t.Cmp(other) == 0 }

// AddMinutes returns t advanced by m minutes, normalized across hour and
// day rollovers. m may be negative.
func (t SimTime) AddMinutes(m int) SimTime {
	return FromTotalMinutes(t.TotalMinutes() + m)
}

// MinutesUntil returns the number of simulated minutes from t to other.
// Negative when other is earlier than t.
func (t SimTime) MinutesUntil(other SimTime) int {
	return other.TotalMinutes() - t.TotalMinutes()
}

// StartOfDay returns 00:00 on t's day.
func (t SimTime) StartOfDay() SimTime {
	return SimTime{Day: t.Day}
}

func (t SimTime) String() string {
	return fmt.Sprintf("day %d %02d:%02d", t.Day, t.Hour, t.Minute)
}
