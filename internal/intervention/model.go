package intervention

import "github.com/kentwait/loimos/internal/entity"

// Model is the full set of triggers and intervention specs active in a
// scenario (spec.md §4.7). Person-targeted and location-targeted specs are
// tracked separately since their Signal and Apply targets differ, but both
// share the same trigger vector so a single rate crossing can gate, say,
// self-isolation for people and school closure for locations at once.
type Model struct {
	Triggers []*Trigger
	OnPerson []*Spec
	OnLoc    []*Spec
}

// NewModel constructs a Model from the declared triggers and specs. Specs
// reference triggers by index into triggers; callers build both from the
// same intervention config file, so indices are assumed valid.
func NewModel(triggers []*Trigger, onPerson, onLoc []*Spec) *Model {
	return &Model{Triggers: triggers, OnPerson: onPerson, OnLoc: onLoc}
}

// UpdateTriggers evaluates every trigger against today's day index and
// new-daily-cases rate, returning the indices of triggers that just turned
// on and just turned off this call (spec.md §4.7, §4.6 step "Intervene").
func (m *Model) UpdateTriggers(day int, dailyRate float64) (turnedOn, turnedOff []int) {
	for i, t := range m.Triggers {
		was := t.IsActive()
		now := t.Update(day, dailyRate)
		if now && !was {
			turnedOn = append(turnedOn, i)
		} else if was && !now {
			turnedOff = append(turnedOff, i)
		}
	}
	return turnedOn, turnedOff
}

// RollCompliancePerson rolls the once-per-load compliance coin flip for
// every person-targeted spec, regardless of current trigger state. Called
// once when a Person is constructed.
func (m *Model) RollCompliancePerson(p entity.Entity) {
	for _, s := range m.OnPerson {
		s.RollCompliance(p)
	}
}

// RollComplianceLocation is RollCompliancePerson's location counterpart.
func (m *Model) RollComplianceLocation(l entity.Entity) {
	for _, s := range m.OnLoc {
		s.RollCompliance(l)
	}
}

// ApplyPerson applies every person-targeted spec gated by triggerIndex
// whose Test passes for p, given sig.
func (m *Model) ApplyPerson(triggerIndex int, p entity.Entity, sig Signal) {
	for _, s := range m.OnPerson {
		if s.TriggerIndex == triggerIndex && s.Test(p, sig) {
			s.Apply(p)
		}
	}
}

// RevertPerson reverts every person-targeted spec gated by triggerIndex.
func (m *Model) RevertPerson(triggerIndex int, p entity.Entity) {
	for _, s := range m.OnPerson {
		if s.TriggerIndex == triggerIndex {
			s.Revert(p)
		}
	}
}

// ApplyLocation is ApplyPerson's location counterpart.
func (m *Model) ApplyLocation(triggerIndex int, l entity.Entity, sig Signal) {
	for _, s := range m.OnLoc {
		if s.TriggerIndex == triggerIndex && s.Test(l, sig) {
			s.Apply(l)
		}
	}
}

// RevertLocation is RevertPerson's location counterpart.
func (m *Model) RevertLocation(triggerIndex int, l entity.Entity) {
	for _, s := range m.OnLoc {
		if s.TriggerIndex == triggerIndex {
			s.Revert(l)
		}
	}
}
