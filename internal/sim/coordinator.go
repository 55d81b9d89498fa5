package sim

import (
	"math/rand"
	"sync"

	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
	"github.com/kentwait/loimos/internal/intervention"
)

// HistogramRow is one (day, state) output row (spec.md §6: "summary.csv
// with header day,state,total_in_state,change_in_state").
type HistogramRow struct {
	Day           int
	State         int
	TotalInState  int
	ChangeInState int
}

// Coordinator orchestrates the strict four-phase daily barrier of spec.md
// §4.6: Visit -> Compute -> EndDay -> Summarize/Intervene -> NextDay.
type Coordinator struct {
	People    []*PersonPartition
	Locations []*LocationPartition
	Router    *Router

	Interventions *intervention.Model
	NumStates     int

	NumDays   int
	SeedDays  int
	SeedCount int
	SeedRNG   *rand.Rand

	prevHistogram []int
}

// NewCoordinator builds a Coordinator over already-constructed partitions
// sharing router for cross-partition messages.
func NewCoordinator(people []*PersonPartition, locations []*LocationPartition, router *Router, interventions *intervention.Model, numStates, numDays, seedDays, seedCount int, seed int64) *Coordinator {
	return &Coordinator{
		People:        people,
		Locations:     locations,
		Router:        router,
		Interventions: interventions,
		NumStates:     numStates,
		NumDays:       numDays,
		SeedDays:      seedDays,
		SeedCount:     seedCount,
		SeedRNG:       rand.New(rand.NewSource(seed)),
		prevHistogram: make([]int, numStates),
	}
}

// Run drives every simulated day and returns the full set of output rows
// in day order, ready for internal/output to write.
func (c *Coordinator) Run() []HistogramRow {
	var rows []HistogramRow
	for day := 0; day < c.NumDays; day++ {
		if day < c.SeedDays {
			c.seedInfections()
		}

		c.runPhase(func(pp *PersonPartition) { pp.RunVisitPhase(day, c.Router) })
		c.Router.FlushAll()
		c.runLocationPhase(func(lp *LocationPartition) { lp.ReceiveVisits(c.Router) })
		c.runLocationPhase(func(lp *LocationPartition) { lp.RunCompute(c.Router) })
		c.Router.FlushAll()
		c.runPhase(func(pp *PersonPartition) { pp.ReceiveInteractions(c.Router) })

		histogram, newExposures := c.reduceEndOfDay()
		rows = append(rows, c.summarizeDay(day, histogram)...)

		totalPeople := sumInts(histogram)
		rate := 0.0
		if totalPeople > 0 {
			rate = float64(newExposures) / float64(totalPeople)
		}
		c.intervene(day, rate)

		c.prevHistogram = histogram
	}
	return rows
}

// seedInfections picks c.SeedCount distinct person ids without replacement
// from a seeded global RNG and forces an immediate exposure on each,
// spread across whichever PersonPartition owns each id (spec.md §4.6
// step 1). The draw uses a reservoir-style rejection sample against a
// seen-id set, grounded on the teacher's rand.Perm use in spreader.go's
// PathogenTransmitter, generalized since the population here can be much
// larger than a Perm-sized slice is practical for.
func (c *Coordinator) seedInfections() {
	total := 0
	for _, pp := range c.People {
		total += len(pp.People)
	}
	k := c.SeedCount
	if k > total {
		k = total
	}

	seen := make(map[int]struct{}, k)
	for len(seen) < k {
		idx := c.SeedRNG.Intn(total)
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
	}

	for idx := range seen {
		pp, localIdx := c.locatePersonByFlatIndex(idx)
		pp.SeedInfection(localIdx)
	}
}

// locatePersonByFlatIndex maps a [0, total) flat index into its owning
// PersonPartition and local index, walking partitions in order.
func (c *Coordinator) locatePersonByFlatIndex(flat int) (*PersonPartition, int) {
	for _, pp := range c.People {
		if flat < len(pp.People) {
			return pp, flat
		}
		flat -= len(pp.People)
	}
	panic(newInvariantError("seed-infection index out of range", ids.GlobalID(flat)))
}

// runPhase fans RunVisitPhase/ReceiveInteractions-shaped work out across
// every PersonPartition concurrently and waits for all of them, matching
// the teacher's si_simulation.go per-host goroutine + sync.WaitGroup
// fan-out/fan-in pattern.
func (c *Coordinator) runPhase(fn func(*PersonPartition)) {
	var wg sync.WaitGroup
	wg.Add(len(c.People))
	for _, pp := range c.People {
		pp := pp
		go func() {
			defer wg.Done()
			fn(pp)
		}()
	}
	wg.Wait()
}

func (c *Coordinator) runLocationPhase(fn func(*LocationPartition)) {
	var wg sync.WaitGroup
	wg.Add(len(c.Locations))
	for _, lp := range c.Locations {
		lp := lp
		go func() {
			defer wg.Done()
			fn(lp)
		}()
	}
	wg.Wait()
}

// reduceEndOfDay runs every PersonPartition's end-of-day step concurrently
// and sums their per-state histograms and new-exposure counts (spec.md
// §4.5 last paragraph: "contribute the histogram ... via a sum
// reduction").
func (c *Coordinator) reduceEndOfDay() (histogram []int, newExposures int) {
	summaries := make([]DaySummary, len(c.People))
	var wg sync.WaitGroup
	wg.Add(len(c.People))
	for i, pp := range c.People {
		i, pp := i, pp
		go func() {
			defer wg.Done()
			summaries[i] = pp.RunEndOfDay(c.NumStates)
		}()
	}
	wg.Wait()

	histogram = make([]int, c.NumStates)
	for _, s := range summaries {
		for state, count := range s.Histogram {
			histogram[state] += count
		}
		newExposures += s.NewExposures
	}
	return histogram, newExposures
}

// summarizeDay produces the output rows for one day's histogram, skipping
// states whose total and change are both zero (spec.md §6: "one row per
// (day, state) with nonzero total or change").
func (c *Coordinator) summarizeDay(day int, histogram []int) []HistogramRow {
	var rows []HistogramRow
	for state, total := range histogram {
		change := total - c.prevHistogram[state]
		if total == 0 && change == 0 {
			continue
		}
		rows = append(rows, HistogramRow{Day: day, State: state, TotalInState: total, ChangeInState: change})
	}
	return rows
}

// intervene updates every trigger from today's totals and broadcasts
// apply/revert to the appropriate collective for each crossing (spec.md
// §4.6 step 5).
func (c *Coordinator) intervene(day int, rate float64) {
	turnedOn, turnedOff := c.Interventions.UpdateTriggers(day, rate)
	for _, idx := range turnedOn {
		c.broadcastApply(idx)
	}
	for _, idx := range turnedOff {
		c.broadcastRevert(idx)
	}
}

func (c *Coordinator) broadcastApply(triggerIndex int) {
	for _, pp := range c.People {
		for _, p := range pp.People {
			c.Interventions.ApplyPerson(triggerIndex, p, c.personSignal(pp, p))
		}
	}
	for _, lp := range c.Locations {
		for _, loc := range lp.Locations {
			c.Interventions.ApplyLocation(triggerIndex, loc, c.locationSignal(loc))
		}
	}
}

func (c *Coordinator) broadcastRevert(triggerIndex int) {
	for _, pp := range c.People {
		for _, p := range pp.People {
			c.Interventions.RevertPerson(triggerIndex, p)
		}
	}
	for _, lp := range c.Locations {
		for _, loc := range lp.Locations {
			c.Interventions.RevertLocation(triggerIndex, loc)
		}
	}
}

func (c *Coordinator) personSignal(pp *PersonPartition, p *entity.Person) intervention.Signal {
	return intervention.Signal{
		Vaccinated:  p.Attrs().Bool("vaccinated", false),
		Symptomatic: pp.disease.States[p.DiseaseState].Symptomatic,
	}
}

func (c *Coordinator) locationSignal(loc *entity.Location) intervention.Signal {
	return intervention.Signal{IsSchool: loc.Attrs().Bool("is_school", false)}
}

func sumInts(vs []int) int {
	total := 0
	for _, v := range vs {
		total += v
	}
	return total
}
