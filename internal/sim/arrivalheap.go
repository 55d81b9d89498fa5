package sim

import (
	"container/heap"

	"github.com/kentwait/loimos/internal/disease"
	"github.com/kentwait/loimos/internal/ids"
)

// arrivalEntry is one visitor currently present at a location, tracked from
// its ARRIVAL event until the matching DEPARTURE pops it off its heap
// (spec.md §4.4 step 3-4).
type arrivalEntry struct {
	personID    ids.GlobalID
	state       disease.StateID
	modifier    float64
	arrivalTime int
	partnerTime int // this visitor's own departure time
}

// arrivalHeap is a min-heap keyed by partnerTime (departure time). The
// invariant documented in spec.md §4.4 and §9 is that because ARRIVAL and
// DEPARTURE events are processed in sorted order and partner-time is fixed
// at dispatch, the visitor whose DEPARTURE event is being processed is
// always the current root of its heap (the earliest departure among those
// still present) — giving O(1) lookup instead of a linear scan on every
// departure.
type arrivalHeap []*arrivalEntry

func (h arrivalHeap) Len() int { return len(h) }

func (h arrivalHeap) Less(i, j int) bool {
	if h[i].partnerTime != h[j].partnerTime {
		return h[i].partnerTime < h[j].partnerTime // min-heap
	}
	// Equal departure times pop in person-id order, the same order
	// entity.Less gives their DEPARTURE events.
	return h[i].personID < h[j].personID
}

func (h arrivalHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *arrivalHeap) Push(x interface{}) {
	*h = append(*h, x.(*arrivalEntry))
}

func (h *arrivalHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// popDeparting pops the root of h and asserts it is the visitor named by
// personID at departureTime, the debug assertion spec.md §9 calls for. A
// mismatch means a departure arrived without a matching arrival, or the
// event stream was not sorted — both fatal per spec.md §4.4/§7.
func popDeparting(h *arrivalHeap, personID ids.GlobalID, departureTime int) *arrivalEntry {
	if h.Len() == 0 {
		panic(newInvariantError("departure without matching arrival", personID))
	}
	root := heap.Pop(h).(*arrivalEntry)
	if root.personID != personID || root.partnerTime != departureTime {
		panic(newInvariantError("heap root does not match departing visitor", personID))
	}
	return root
}
