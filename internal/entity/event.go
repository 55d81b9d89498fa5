package entity

import (
	"github.com/kentwait/loimos/internal/disease"
	"github.com/kentwait/loimos/internal/ids"
)

// EventType distinguishes an arrival at a location from a departure
// (spec.md §3).
type EventType int

const (
	Arrival EventType = iota
	Departure
)

// Event is the arrival or departure derived from a Visit, the unit
// LocationPartition's compute phase processes (spec.md §3).
type Event struct {
	Type                 EventType
	PersonID             ids.GlobalID
	PersonState          disease.StateID
	TransmissionModifier float64
	ScheduledTime        int
	// PartnerTime is the matching arrival's (for a departure) or
	// departure's (for an arrival) time, set at dispatch time. The
	// min-heaps of present visitors in LocationPartition are keyed on this
	// field, not on ScheduledTime (spec.md §4.4 heap invariant).
	PartnerTime int
}

// Less implements the total order of spec.md §3: by ScheduledTime, then
// Type (departures before arrivals at equal time), then PersonID, then
// PersonState.
func Less(a, b Event) bool {
	if a.ScheduledTime != b.ScheduledTime {
		return a.ScheduledTime < b.ScheduledTime
	}
	if a.Type != b.Type {
		// Departure == 1, Arrival == 0: departures sort first.
		return a.Type > b.Type
	}
	if a.PersonID != b.PersonID {
		return a.PersonID < b.PersonID
	}
	return a.PersonState < b.PersonState
}

// VisitToEvents synthesizes the (arrival, departure) Event pair for an
// accepted Visit, each holding the other's time as PartnerTime
// (spec.md §4.4).
func VisitToEvents(v Visit) (arrival, departure Event) {
	arrival = Event{
		Type:                 Arrival,
		PersonID:             v.PersonID,
		PersonState:          v.StateAtDispatch,
		TransmissionModifier: v.TransmissionModifier,
		ScheduledTime:        v.VisitStartSec,
		PartnerTime:          v.VisitEndSec,
	}
	departure = Event{
		Type:                 Departure,
		PersonID:             v.PersonID,
		PersonState:          v.StateAtDispatch,
		TransmissionModifier: v.TransmissionModifier,
		ScheduledTime:        v.VisitEndSec,
		PartnerTime:          v.VisitStartSec,
	}
	return arrival, departure
}
