package entity

import (
	"math/rand"

	"github.com/kentwait/loimos/internal/ids"
)

// Location is the owning partition's in-memory representation of one
// location (spec.md §3). Events is transient, cleared every day.
type Location struct {
	LocationID ids.GlobalID

	Events []Event

	attrs      Attributes
	rng        *rand.Rand
	compliance map[int]bool
	filters    filterSet
}

// NewLocation creates a Location with an empty events buffer and the given
// per-agent RNG stream.
func NewLocation(id ids.GlobalID, attrs Attributes, rng *rand.Rand) *Location {
	return &Location{
		LocationID: id,
		attrs:      attrs,
		rng:        rng,
		compliance: make(map[int]bool),
		filters:    make(filterSet),
	}
}

func (l *Location) ID() ids.GlobalID  { return l.LocationID }
func (l *Location) Attrs() Attributes { return l.attrs }
func (l *Location) RNG() *rand.Rand   { return l.rng }

func (l *Location) Complies(interventionIndex int) bool {
	return l.compliance[interventionIndex]
}

func (l *Location) SetComplies(interventionIndex int, compliant bool) {
	l.compliance[interventionIndex] = compliant
}

// InstallFilter installs a visit filter under interventionIndex (e.g.
// school closure rejecting all visits to this location). Idempotent.
func (l *Location) InstallFilter(interventionIndex int, filter VisitFilter) {
	l.filters.install(interventionIndex, filter)
}

// RevertFilter removes the filter installed under interventionIndex, if any.
func (l *Location) RevertFilter(interventionIndex int) {
	l.filters.revert(interventionIndex)
}

// VisitRejected reports whether any installed filter rejects v.
func (l *Location) VisitRejected(v Visit) bool {
	return l.filters.rejects(v)
}

// PushEvent appends an event to today's buffer.
func (l *Location) PushEvent(e Event) {
	l.Events = append(l.Events, e)
}

// ClearEvents empties the day's accumulated events (spec.md §4.4 step 6).
func (l *Location) ClearEvents() {
	l.Events = l.Events[:0]
}
