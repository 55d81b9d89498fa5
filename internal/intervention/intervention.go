package intervention

import "github.com/kentwait/loimos/internal/entity"

// Kind is the closed sum type of intervention kinds named in spec.md §4.7.
type Kind int

const (
	Vaccination Kind = iota
	SelfIsolation
	SchoolClosure
)

// Signal carries the kind-specific facts the caller must already know
// about an entity before calling Test — whether it's already been
// considered for this intervention, whether the entity's current disease
// state is symptomatic, whether a location is a school. Intervention
// stays agnostic of disease.Model and scenario attribute schemas this way.
type Signal struct {
	Vaccinated  bool
	Symptomatic bool
	IsSchool    bool
}

// Spec is one declared intervention: a trigger-gated rule with a
// compliance probability rolled once per entity at load time (spec.md
// §4.7 intro). Index both keys the entity's compliance bitmap and the
// visit-filter map installed by this intervention, so apply/revert are
// exact inverses regardless of how many interventions an entity carries.
type Spec struct {
	Kind         Kind
	Index        int
	TriggerIndex int
	Compliance   float64

	// VaccinatedAttr/SusceptibilityAttr/VaccinatedSusceptibility apply to
	// Vaccination only: Apply sets attrs[VaccinatedAttr] = true and
	// attrs[SusceptibilityAttr] = VaccinatedSusceptibility.
	VaccinatedAttr           string
	SusceptibilityAttr       string
	VaccinatedSusceptibility float64
}

// RollCompliance draws this entity's once-per-load compliance coin flip
// (spec.md §4.7: "a compliance probability, rolled once per entity at
// load"). Called through Model.RollCompliancePerson/RollComplianceLocation
// when the entity is constructed, for every declared Spec regardless of
// whether its trigger is active yet.
func (s *Spec) RollCompliance(e entity.Entity) {
	e.SetComplies(s.Index, e.RNG().Float64() < s.Compliance)
}

// Test reports whether e is eligible for this intervention today: it must
// have rolled compliant at load, and satisfy the kind-specific condition
// in sig (spec.md §4.7 per-kind descriptions).
func (s *Spec) Test(e entity.Entity, sig Signal) bool {
	if !e.Complies(s.Index) {
		return false
	}
	switch s.Kind {
	case Vaccination:
		return !sig.Vaccinated
	case SelfIsolation:
		return sig.Symptomatic
	case SchoolClosure:
		return sig.IsSchool
	default:
		return false
	}
}

// Apply installs this intervention's effect on e. Vaccination mutates the
// person's attribute vector directly and is not reverted (a vaccination
// is not undone by a trigger turning back off); self-isolation and school
// closure install a visit filter under s.Index that RejectAll rejects.
func (s *Spec) Apply(e entity.Entity) {
	switch s.Kind {
	case Vaccination:
		attrs := e.Attrs()
		if s.VaccinatedAttr != "" {
			attrs[s.VaccinatedAttr] = true
		}
		if s.SusceptibilityAttr != "" {
			attrs[s.SusceptibilityAttr] = s.VaccinatedSusceptibility
		}
	case SelfIsolation, SchoolClosure:
		installFilter(e, s.Index, RejectAll)
	}
}

// Revert undoes Apply where the effect is reversible. Vaccination has no
// revert: it is a one-time, permanent state change.
func (s *Spec) Revert(e entity.Entity) {
	switch s.Kind {
	case SelfIsolation, SchoolClosure:
		revertFilter(e, s.Index)
	}
}

// RejectAll is the visit filter installed by self-isolation and school
// closure: every visit naming the entity as a party is suppressed.
func RejectAll(entity.Visit) bool { return true }

// filterable is satisfied by both *entity.Person and *entity.Location;
// Apply/Revert dispatch through it rather than widening the Entity
// interface itself, since not every Entity owns a visit-filter set.
type filterable interface {
	InstallFilter(interventionIndex int, filter entity.VisitFilter)
	RevertFilter(interventionIndex int)
}

func installFilter(e entity.Entity, index int, filter entity.VisitFilter) {
	if f, ok := e.(filterable); ok {
		f.InstallFilter(index, filter)
	}
}

func revertFilter(e entity.Entity, index int) {
	if f, ok := e.(filterable); ok {
		f.RevertFilter(index)
	}
}
