package entity

import (
	"math/rand"

	"github.com/kentwait/loimos/internal/disease"
	"github.com/kentwait/loimos/internal/ids"
)

// Person is the owning partition's in-memory representation of one person
// (spec.md §3). VisitsByDay has a fixed length W, the schedule periodicity
// (typically 7); VisitsByDay[d] is sorted by start time.
type Person struct {
	PersonID ids.GlobalID

	DiseaseState       disease.StateID
	NextState          disease.StateID
	SecondsLeftInState disease.Duration

	VisitsByDay [][]Visit

	// Interactions accumulates this day's exposures; cleared at end of day.
	Interactions []Interaction

	// LastInfectorID is the InfectiousID of the interaction chosen by the
	// end-of-day exposure roll, valid only for the day it was set (spec.md
	// §4.5 step 1's "record the chosen interaction" for transition output).
	LastInfectorID ids.GlobalID

	attrs      Attributes
	rng        *rand.Rand
	compliance map[int]bool
	filters    filterSet
}

// NewPerson creates a Person with an empty W-day schedule and the given
// per-agent RNG stream.
func NewPerson(id ids.GlobalID, scheduleDays int, startState disease.StateID, attrs Attributes, rng *rand.Rand) *Person {
	return &Person{
		PersonID:           id,
		DiseaseState:       startState,
		NextState:          startState,
		SecondsLeftInState: disease.PositiveInfinity,
		VisitsByDay:        make([][]Visit, scheduleDays),
		attrs:              attrs,
		rng:                rng,
		compliance:         make(map[int]bool),
		filters:            make(filterSet),
	}
}

func (p *Person) ID() ids.GlobalID     { return p.PersonID }
func (p *Person) Attrs() Attributes    { return p.attrs }
func (p *Person) RNG() *rand.Rand      { return p.rng }

func (p *Person) Complies(interventionIndex int) bool {
	return p.compliance[interventionIndex]
}

func (p *Person) SetComplies(interventionIndex int, compliant bool) {
	p.compliance[interventionIndex] = compliant
}

// InstallFilter installs a visit filter under interventionIndex (e.g.
// self-isolation cancelling this person's whole schedule). Idempotent.
func (p *Person) InstallFilter(interventionIndex int, filter VisitFilter) {
	p.filters.install(interventionIndex, filter)
}

// RevertFilter removes the filter installed under interventionIndex, if any.
func (p *Person) RevertFilter(interventionIndex int) {
	p.filters.revert(interventionIndex)
}

// VisitRejected reports whether any installed filter rejects v.
func (p *Person) VisitRejected(v Visit) bool {
	return p.filters.rejects(v)
}

// AddInteraction accumulates one exposure candidate for today.
func (p *Person) AddInteraction(i Interaction) {
	p.Interactions = append(p.Interactions, i)
}

// ClearInteractions empties the day's accumulated interactions
// (spec.md §4.5 step 3).
func (p *Person) ClearInteractions() {
	p.Interactions = p.Interactions[:0]
}
