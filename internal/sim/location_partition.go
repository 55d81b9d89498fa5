package sim

import (
	"container/heap"
	"sort"

	"github.com/kentwait/loimos/internal/contact"
	"github.com/kentwait/loimos/internal/disease"
	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
	"github.com/kentwait/loimos/internal/partition"
)

// LocationPartition owns a contiguous range of locations and runs the
// compute-phase pipeline of spec.md §4.4.
type LocationPartition struct {
	PartitionID ids.PartitionID
	Locations   []*entity.Location

	locPartitioner    partition.Partitioner
	personPartitioner partition.Partitioner
	disease           *disease.Model
	contact           contact.Model
}

// NewLocationPartition constructs a LocationPartition over locs, which must
// already be ordered by local index within this partition.
func NewLocationPartition(id ids.PartitionID, locs []*entity.Location, locPartitioner, personPartitioner partition.Partitioner, diseaseModel *disease.Model, contactModel contact.Model) *LocationPartition {
	return &LocationPartition{
		PartitionID:       id,
		Locations:         locs,
		locPartitioner:    locPartitioner,
		personPartitioner: personPartitioner,
		disease:           diseaseModel,
		contact:           contactModel,
	}
}

// ReceiveVisits drains every visit buffered for this partition and pushes
// a matching ARRIVAL/DEPARTURE event pair onto the target location's
// events buffer, after consulting that location's active visit filters
// (spec.md §4.4 visit-message handling).
func (lp *LocationPartition) ReceiveVisits(router *Router) {
	for _, v := range router.drainVisits(lp.PartitionID) {
		idx, err := lp.locPartitioner.LocalIndex(ids.GlobalID(v.LocationID), lp.PartitionID)
		if err != nil {
			panic(newInvariantError("visit routed to the wrong location partition", v.LocationID))
		}
		loc := lp.Locations[int(idx)]
		if loc.LocationID != v.LocationID {
			panic(newInvariantError("visit id disagrees with the located entity", v.LocationID))
		}
		if loc.VisitRejected(v) {
			continue
		}
		arrival, departure := entity.VisitToEvents(v)
		loc.PushEvent(arrival)
		loc.PushEvent(departure)
	}
}

// RunCompute runs the per-location compute-barrier pipeline of spec.md
// §4.4 steps 1-6 for every owned location, sending the resulting
// InteractionMessages through router.
func (lp *LocationPartition) RunCompute(router *Router) {
	for _, loc := range lp.Locations {
		lp.computeLocation(loc, router)
	}
}

func (lp *LocationPartition) computeLocation(loc *entity.Location, router *Router) {
	if loc.VisitRejected(entity.Visit{LocationID: loc.LocationID}) {
		// a full-closure intervention installs a filter rejecting the zero
		// value visit too, since it rejects unconditionally (step 1).
		loc.ClearEvents()
		return
	}

	events := append([]entity.Event(nil), loc.Events...)
	sort.Slice(events, func(i, j int) bool { return entity.Less(events[i], events[j]) })

	var susceptible, infectious arrivalHeap
	heap.Init(&susceptible)
	heap.Init(&infectious)
	pending := make(map[ids.GlobalID][]entity.Interaction)
	maxSimultaneous := loc.Attrs().Int("max_simultaneous_visits", 0)

	for _, ev := range events {
		isSusceptible := lp.disease.IsSusceptible(ev.PersonState)
		isInfectious := lp.disease.IsInfectious(ev.PersonState)

		switch ev.Type {
		case entity.Arrival:
			entry := &arrivalEntry{
				personID:    ev.PersonID,
				state:       ev.PersonState,
				modifier:    ev.TransmissionModifier,
				arrivalTime: ev.ScheduledTime,
				partnerTime: ev.PartnerTime,
			}
			if isSusceptible {
				heap.Push(&susceptible, entry)
			}
			if isInfectious {
				heap.Push(&infectious, entry)
			}
		case entity.Departure:
			if isSusceptible {
				popDeparting(&susceptible, ev.PersonID, ev.ScheduledTime)
				for _, other := range infectious {
					lp.recordInteraction(pending, loc, maxSimultaneous, susceptibleSide{
						id: ev.PersonID, state: ev.PersonState, modifier: ev.TransmissionModifier,
						arrivalTime: ev.PartnerTime, departureTime: ev.ScheduledTime,
					}, infectiousSide{id: other.personID, state: other.state, modifier: other.modifier, arrivalTime: other.arrivalTime})
				}
				router.SendInteractions(lp.personDest(ev.PersonID), InteractionMessage{
					PersonID:     ev.PersonID,
					Interactions: pending[ev.PersonID],
				})
				delete(pending, ev.PersonID)
			}
			if isInfectious {
				popDeparting(&infectious, ev.PersonID, ev.ScheduledTime)
				for _, other := range susceptible {
					lp.recordInteraction(pending, loc, maxSimultaneous, susceptibleSide{
						id: other.personID, state: other.state, modifier: other.modifier,
						arrivalTime: other.arrivalTime, departureTime: ev.ScheduledTime,
					}, infectiousSide{id: ev.PersonID, state: ev.PersonState, modifier: ev.TransmissionModifier, arrivalTime: ev.PartnerTime})
				}
			}
		}
	}

	loc.ClearEvents()
}

// susceptibleSide and infectiousSide are the two parties of one candidate
// interaction: whichever one just departed contributes its own
// arrival/departure times to the overlap-window calculation, the other
// contributes only its arrival time (it is still present).
type susceptibleSide struct {
	id            ids.GlobalID
	state         disease.StateID
	modifier      float64
	arrivalTime   int
	departureTime int
}

type infectiousSide struct {
	id          ids.GlobalID
	state       disease.StateID
	modifier    float64
	arrivalTime int
}

// recordInteraction appends one Interaction to pending for s, rolling the
// contact model and the disease model's propensity over the pair's
// overlap window `[max(s.arrivalTime, i.arrivalTime), s.departureTime]`
// (spec.md §4.4 step 4; whichever of the pair just departed determines the
// window's end since the other party is still present).
func (lp *LocationPartition) recordInteraction(pending map[ids.GlobalID][]entity.Interaction, loc *entity.Location, maxSimultaneous int, s susceptibleSide, i infectiousSide) {
	overlapStart := maxInt(s.arrivalTime, i.arrivalTime)
	overlapEnd := s.departureTime
	dt := float64(overlapEnd - overlapStart)
	if dt <= 0 {
		return
	}

	propensity := lp.disease.Propensity(s.state, i.state, dt, s.modifier, i.modifier)

	sideS := contact.EventSide{PersonState: int(s.state)}
	sideI := contact.EventSide{PersonState: int(i.state)}
	if !lp.contact.MadeContact(sideS, sideI, maxSimultaneous, loc.RNG()) {
		return
	}

	pending[s.id] = append(pending[s.id], entity.Interaction{
		Propensity:      propensity,
		InfectiousID:    i.id,
		InfectiousState: i.state,
		StartTime:       overlapStart,
		EndTime:         overlapEnd,
	})
}

func (lp *LocationPartition) personDest(id ids.GlobalID) ids.PartitionID {
	p, err := lp.personPartitioner.PartitionOf(id)
	if err != nil {
		panic(newInvariantError("interaction addressed to an unknown person", id))
	}
	return p
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
