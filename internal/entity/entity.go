package entity

import (
	"math/rand"

	"github.com/kentwait/loimos/internal/ids"
)

// VisitFilter is an intervention-installed predicate that suppresses a
// visit (spec.md §4.7, §9 "Visit-filter lifecycle"). It returns true if the
// visit should be rejected.
type VisitFilter func(v Visit) bool

// Entity is the thin capability set Person and Location share (spec.md §9):
// a unique id, an attribute vector, a per-agent RNG stream, and an
// intervention-compliance bitmap. The intervention dispatcher in
// internal/intervention is generic over Entity.
type Entity interface {
	ID() ids.GlobalID
	Attrs() Attributes
	RNG() *rand.Rand
	// Complies reports whether this entity rolled compliant with the
	// intervention at interventionIndex (rolled once at load time).
	Complies(interventionIndex int) bool
	SetComplies(interventionIndex int, compliant bool)
}

// filterSet is the shared "filters keyed by installing intervention index"
// implementation used by both Person and Location (spec.md §9).
type filterSet map[int]VisitFilter

// install is idempotent: reinstalling an already-present filter under the
// same index simply replaces it (spec.md §9).
func (f filterSet) install(interventionIndex int, filter VisitFilter) {
	f[interventionIndex] = filter
}

func (f filterSet) revert(interventionIndex int) {
	delete(f, interventionIndex)
}

// rejects reports whether any installed filter rejects v.
func (f filterSet) rejects(v Visit) bool {
	for _, filter := range f {
		if filter(v) {
			return true
		}
	}
	return false
}
