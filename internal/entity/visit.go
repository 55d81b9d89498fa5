// Package entity defines the Person, Location, Visit, Event, and
// Interaction value types shared by the partitioned actors (spec.md §3).
package entity

import (
	"github.com/kentwait/loimos/internal/disease"
	"github.com/kentwait/loimos/internal/ids"
)

const secondsPerDay = 86400

// Visit is an immutable scheduled presence of a person at a location
// (spec.md §3). 0 <= VisitStartSec < VisitEndSec <= 86400.
type Visit struct {
	LocationID           ids.GlobalID
	PersonID             ids.GlobalID
	StateAtDispatch      disease.StateID
	VisitStartSec        int
	VisitEndSec          int
	TransmissionModifier float64
}

// SplitAtMidnight splits a visit that crosses the day boundary into two
// Visits, one ending at the boundary and one starting at it (spec.md §3
// and Testable Property #3). A visit wholly inside one day is returned
// unchanged as a single-element slice.
func SplitAtMidnight(v Visit) []Visit {
	if v.VisitEndSec <= secondsPerDay {
		return []Visit{v}
	}
	first := v
	first.VisitEndSec = secondsPerDay
	second := v
	second.VisitStartSec = 0
	second.VisitEndSec = v.VisitEndSec - secondsPerDay
	return []Visit{first, second}
}
