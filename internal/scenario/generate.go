package scenario

import (
	"math/rand"
	"sort"

	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
)

const secondsPerDay = 86400

// GenerateOnTheFly procedurally builds a Scenario for spec.md §6's
// on-the-fly CLI mode, in lieu of reading people.csv/locations.csv/
// visits.csv from disk: pw×ph people populate a lw×lh location grid, each
// person assigned the location nearest their grid position as a "home"
// they visit most days, plus a handful of visits to locations picked
// uniformly at random from the whole grid to approximate avgVisitsPerDay. This generator has no real-world library
// analogue in the pack (it is synthetic test-data generation, not a domain
// concern) — see DESIGN.md for why math/rand alone is used here.
func GenerateOnTheFly(peopleWidth, peopleHeight, locWidth, locHeight, avgVisitsPerDay, scheduleDays int, rng *rand.Rand) *Scenario {
	numPeople := peopleWidth * peopleHeight
	numLocations := locWidth * locHeight

	people := make([]PersonRecord, numPeople)
	for i := 0; i < numPeople; i++ {
		people[i] = PersonRecord{
			ID: ids.GlobalID(i),
			Attrs: entity.Attributes{
				"age": 1 + rng.Intn(90),
			},
		}
	}

	locations := make([]LocationRecord, numLocations)
	for i := 0; i < numLocations; i++ {
		locations[i] = LocationRecord{
			ID: ids.GlobalID(i),
			Attrs: entity.Attributes{
				"max_simultaneous_visits": 10 + rng.Intn(40),
				"is_school":               i%20 == 0,
			},
		}
	}

	byDay := make(map[ids.GlobalID][][]entity.Visit, numPeople)
	for p := 0; p < numPeople; p++ {
		px, py := p%peopleWidth, p/peopleWidth
		homeX := px * locWidth / max1(peopleWidth)
		homeY := py * locHeight / max1(peopleHeight)
		home := ids.GlobalID(homeY*locWidth + homeX)

		table := make([][]entity.Visit, scheduleDays)
		for d := 0; d < scheduleDays; d++ {
			n := poissonish(rng, avgVisitsPerDay)
			day := make([]entity.Visit, 0, n)
			for k := 0; k < n; k++ {
				dest := home
				if k > 0 {
					dest = ids.GlobalID(rng.Intn(numLocations))
				}
				start := rng.Intn(secondsPerDay - 60)
				dur := 300 + rng.Intn(7200)
				end := start + dur
				if end > secondsPerDay {
					end = secondsPerDay
				}
				day = append(day, entity.Visit{
					LocationID:    dest,
					PersonID:      ids.GlobalID(p),
					VisitStartSec: start,
					VisitEndSec:   end,
				})
			}
			sort.Slice(day, func(i, j int) bool { return day[i].VisitStartSec < day[j].VisitStartSec })
			table[d] = day
		}
		byDay[ids.GlobalID(p)] = table
	}

	return &Scenario{
		People:       people,
		Locations:    locations,
		VisitsByDay:  byDay,
		ScheduleDays: scheduleDays,
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// poissonish returns a small random count centered on mean without pulling
// in a distributions library for a single synthetic-data knob: mean plus a
// uniform symmetric jitter of up to mean/2+1 either way, floored at 0.
func poissonish(rng *rand.Rand, mean int) int {
	if mean <= 0 {
		return 0
	}
	jitter := mean/2 + 1
	n := mean + rng.Intn(2*jitter+1) - jitter
	if n < 0 {
		return 0
	}
	return n
}
