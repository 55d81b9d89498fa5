package entity

import (
	"github.com/kentwait/loimos/internal/disease"
	"github.com/kentwait/loimos/internal/ids"
)

// Interaction is one record of a potential infection event between a
// susceptible visitor and one infectious co-present visitor at a location
// (spec.md §3).
type Interaction struct {
	Propensity       float64
	InfectiousID     ids.GlobalID
	InfectiousState  disease.StateID
	StartTime        int
	EndTime          int
}
