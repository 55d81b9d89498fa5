// Package intervention implements the trigger/filter/apply mechanism of
// spec.md §4.7: day- or rate-threshold triggers with hysteresis, and the
// vaccination/self-isolation/school-closure intervention kinds dispatched
// generically over the entity.Entity capability set.
package intervention

// TriggerKind is the closed sum type of trigger thresholds (spec.md §4.7):
// a day index crossing, or a new-daily-cases rate crossing.
type TriggerKind int

const (
	DayTrigger TriggerKind = iota
	RateTrigger
)

// Trigger is a boolean condition with on/off thresholds controlling whether
// a set of interventions is currently active. On and off crossings must be
// distinct events (hysteresis), so Trigger remembers its own active state
// across calls to Update.
type Trigger struct {
	Kind TriggerKind

	OnDay, OffDay   int
	OnRate, OffRate float64

	active bool
}

// Update evaluates the trigger against today's day index and new-daily-
// cases rate and returns the new active state. Turning on requires
// crossing the "on" threshold while currently off; turning off requires
// crossing the "off" threshold while currently on — a trigger sitting
// between its two thresholds holds its previous state (spec.md §4.7,
// Testable scenario #4).
func (t *Trigger) Update(day int, dailyRate float64) bool {
	switch t.Kind {
	case DayTrigger:
		if !t.active && day >= t.OnDay {
			t.active = true
		} else if t.active && day >= t.OffDay {
			t.active = false
		}
	case RateTrigger:
		if !t.active && dailyRate >= t.OnRate {
			t.active = true
		} else if t.active && dailyRate <= t.OffRate {
			t.active = false
		}
	}
	return t.active
}

// IsActive returns the trigger's current state without re-evaluating it.
func (t *Trigger) IsActive() bool {
	return t.active
}
