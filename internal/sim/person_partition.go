package sim

import (
	"math"

	"github.com/kentwait/loimos/internal/disease"
	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
	"github.com/kentwait/loimos/internal/partition"
)

const secondsPerDay = 86400

// DaySummary is one PersonPartition's contribution to the Coordinator's
// end-of-day reduction: a per-state histogram slice (indexed by
// disease.StateID) and a count of people newly exposed today, used to
// drive intervention rate triggers (spec.md §4.5, §4.6 step 4-5).
type DaySummary struct {
	Histogram    []int
	NewExposures int
}

// PersonPartition owns a contiguous range of people and runs the
// visit-phase and end-of-day pipelines of spec.md §4.5.
type PersonPartition struct {
	PartitionID ids.PartitionID
	People      []*entity.Person

	personPartitioner partition.Partitioner
	locPartitioner    partition.Partitioner
	disease           *disease.Model
	scheduleDays      int

	susceptibilityAttr string
	infectivityAttr    string
}

// NewPersonPartition constructs a PersonPartition over people, which must
// already be ordered by local index within this partition.
func NewPersonPartition(id ids.PartitionID, people []*entity.Person, personPartitioner, locPartitioner partition.Partitioner, diseaseModel *disease.Model, scheduleDays int, susceptibilityAttr, infectivityAttr string) *PersonPartition {
	return &PersonPartition{
		PartitionID:        id,
		People:             people,
		personPartitioner:  personPartitioner,
		locPartitioner:     locPartitioner,
		disease:            diseaseModel,
		scheduleDays:       scheduleDays,
		susceptibilityAttr: susceptibilityAttr,
		infectivityAttr:    infectivityAttr,
	}
}

// RunVisitPhase dispatches every owned person's visits for today, overlaid
// with their current disease state and transmission modifier (spec.md
// §4.5 visit phase).
func (pp *PersonPartition) RunVisitPhase(day int, router *Router) {
	weekday := ((day % pp.scheduleDays) + pp.scheduleDays) % pp.scheduleDays
	for _, p := range pp.People {
		for _, v := range p.VisitsByDay[weekday] {
			if p.VisitRejected(v) {
				continue
			}
			v.StateAtDispatch = p.DiseaseState
			v.TransmissionModifier = pp.modifierFor(p)
			dest, err := pp.locPartitioner.PartitionOf(v.LocationID)
			if err != nil {
				panic(newInvariantError("visit addressed to an unknown location", v.LocationID))
			}
			router.SendVisit(dest, v)
		}
	}
}

// modifierFor returns the transmission modifier to overlay on a dispatched
// visit: susceptibility_attr if the person is currently susceptible,
// infectivity_attr if currently infectious, else 1 (spec.md §4.5).
func (pp *PersonPartition) modifierFor(p *entity.Person) float64 {
	switch {
	case pp.disease.IsSusceptible(p.DiseaseState):
		return p.Attrs().Float64(pp.susceptibilityAttr, 1)
	case pp.disease.IsInfectious(p.DiseaseState):
		return p.Attrs().Float64(pp.infectivityAttr, 1)
	default:
		return 1
	}
}

// ReceiveInteractions drains every InteractionMessage buffered for this
// partition and appends it to the named person's accumulating list
// (spec.md §4.5 interaction-receive phase: "ordering between messages is
// not required for correctness").
func (pp *PersonPartition) ReceiveInteractions(router *Router) {
	for _, msg := range router.drainInteractions(pp.PartitionID) {
		idx, err := pp.personPartitioner.LocalIndex(msg.PersonID, pp.PartitionID)
		if err != nil {
			panic(newInvariantError("interaction message routed to the wrong person partition", msg.PersonID))
		}
		pp.People[int(idx)].Interactions = append(pp.People[int(idx)].Interactions, msg.Interactions...)
	}
}

// RunEndOfDay runs spec.md §4.5's end-of-day steps for every owned person
// and returns this partition's contribution to the daily state-count
// reduction. The `-ln U(0,1)` exposure roll, the weighted interaction
// pick and the timed-transition draws all use each person's own per-agent
// RNG stream, never a shared one, preserving the determinism spec.md §5
// requires.
func (pp *PersonPartition) RunEndOfDay(numStates int) DaySummary {
	summary := DaySummary{Histogram: make([]int, numStates)}
	for _, p := range pp.People {
		if pp.disease.IsSusceptible(p.DiseaseState) && len(p.Interactions) > 0 {
			if pp.rollExposure(p) {
				summary.NewExposures++
			}
		}

		p.SecondsLeftInState -= secondsPerDay
		if p.SecondsLeftInState <= 0 {
			p.DiseaseState = p.NextState
			p.NextState, p.SecondsLeftInState = pp.disease.TransitionFrom(p.DiseaseState, p.RNG())
		}

		p.ClearInteractions()
		summary.Histogram[p.DiseaseState]++
	}
	return summary
}

// rollExposure performs the Poisson exposure trial of spec.md §4.5 step 1:
// S is the sum of this person's accumulated interaction propensities;
// r = -ln(U(0,1))/S; exposure occurs iff r <= 1. On exposure, a specific
// interaction is chosen by a weighted pick over the same propensities and
// the person's next_state/seconds_left_in_state are set so the timer step
// immediately below actualizes the exposure transition.
func (pp *PersonPartition) rollExposure(p *entity.Person) bool {
	var sum float64
	for _, in := range p.Interactions {
		sum += in.Propensity
	}
	if sum <= 0 {
		return false
	}

	rng := p.RNG()
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	r := -math.Log(u) / sum
	if r > 1 {
		return false
	}

	pick := rng.Float64() * sum
	var cdf float64
	chosen := p.Interactions[len(p.Interactions)-1]
	for _, in := range p.Interactions {
		cdf += in.Propensity
		if pick < cdf {
			chosen = in
			break
		}
	}
	p.LastInfectorID = chosen.InfectiousID

	p.NextState, _ = pp.disease.TransitionFrom(p.DiseaseState, rng)
	p.SecondsLeftInState = -1
	return true
}

// SeedInfection forces localIdx's person into an immediate exposure, used
// by the Coordinator's seed-infections step (spec.md §4.6 step 1): it
// injects a synthetic interaction of infinite propensity so the exposure
// roll below always succeeds, rather than special-casing the Poisson math.
func (pp *PersonPartition) SeedInfection(localIdx int) {
	p := pp.People[localIdx]
	if !pp.disease.IsSusceptible(p.DiseaseState) {
		return
	}
	p.AddInteraction(entity.Interaction{
		Propensity:   math.Inf(1),
		InfectiousID: p.PersonID,
	})
}
