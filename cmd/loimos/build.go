package main

import (
	"math/rand"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/config"
	"github.com/kentwait/loimos/internal/contact"
	"github.com/kentwait/loimos/internal/disease"
	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
	"github.com/kentwait/loimos/internal/intervention"
	"github.com/kentwait/loimos/internal/partition"
	"github.com/kentwait/loimos/internal/rng"
	"github.com/kentwait/loimos/internal/scenario"
	"github.com/kentwait/loimos/internal/sim"
)

// susceptibilityAttr/infectivityAttr name the dynamic attribute entries a
// scenario's people.textproto schema (or the on-the-fly generator) is
// expected to populate for spec.md §3's "susceptibility multiplier,
// infectivity multiplier"; a vaccination intervention's susceptibility_attr
// can name the same key to mutate it.
const (
	susceptibilityAttr = "susceptibility_multiplier"
	infectivityAttr    = "infectivity_multiplier"
)

// buildCoordinator assembles a ready-to-run *sim.Coordinator from cfg,
// dispatching on Mode for scenario acquisition (loaded from disk, or
// generated) but sharing every downstream construction step.
func buildCoordinator(cfg *config.Config) (*sim.Coordinator, error) {
	diseaseModel, err := config.LoadDiseaseModel(cfg.DiseaseModelPath)
	if err != nil {
		return nil, errors.Wrap(err, "disease model")
	}

	interventions, err := loadInterventions(cfg)
	if err != nil {
		return nil, err
	}

	var contactModel contact.Model = contact.Constant{}
	if cfg.MinMaxAlpha {
		contactModel = contact.MinMaxAlpha{}
	}

	var scen *scenario.Scenario
	var peoplePartitioner, locPartitioner partition.Partitioner
	numPeoplePartitions := cfg.NumPeoplePartitions
	numLocPartitions := cfg.NumLocationPartitions

	switch cfg.Mode {
	case config.RealDataMode:
		scen, peoplePartitioner, locPartitioner, err = loadRealDataScenario(cfg)
		if err != nil {
			return nil, err
		}
	case config.OnTheFlyMode:
		numLocPartitions = cfg.LocPartitionWidth * cfg.LocPartitionHeight
		seedRNG := rand.New(rand.NewSource(cfg.Seed))
		scen = scenario.GenerateOnTheFly(cfg.PeopleWidth, cfg.PeopleHeight, cfg.LocationWidth, cfg.LocationHeight, cfg.AvgVisitsPerDay, 7, seedRNG)
		peoplePartitioner, err = partition.NewStride(len(scen.People), numPeoplePartitions)
		if err != nil {
			return nil, errors.Wrap(err, "people partitioner")
		}
		locPartitioner, err = partition.NewStride(len(scen.Locations), numLocPartitions)
		if err != nil {
			return nil, errors.Wrap(err, "location partitioner")
		}
	}

	people, err := buildPeople(scen, peoplePartitioner, diseaseModel, interventions, scen.ScheduleDays, cfg.Seed)
	if err != nil {
		return nil, err
	}
	locations, err := buildLocations(scen, locPartitioner, interventions, cfg.Seed)
	if err != nil {
		return nil, err
	}

	router := sim.NewRouter(numPeoplePartitions, numLocPartitions, 256)
	if err := enableAggregation(router); err != nil {
		return nil, err
	}

	personPartitions := make([]*sim.PersonPartition, numPeoplePartitions)
	for p := 0; p < numPeoplePartitions; p++ {
		personPartitions[p] = sim.NewPersonPartition(ids.PartitionID(p), people[p], peoplePartitioner, locPartitioner, diseaseModel, scen.ScheduleDays, susceptibilityAttr, infectivityAttr)
	}
	locationPartitions := make([]*sim.LocationPartition, numLocPartitions)
	for p := 0; p < numLocPartitions; p++ {
		locationPartitions[p] = sim.NewLocationPartition(ids.PartitionID(p), locations[p], locPartitioner, peoplePartitioner, diseaseModel, contactModel)
	}

	seedCount := cfg.SeedCount
	if seedCount <= 0 {
		total := len(scen.People)
		seedCount = total / 1000
		if seedCount < 1 {
			seedCount = 1
		}
	}

	coord := sim.NewCoordinator(personPartitions, locationPartitions, router, interventions, len(diseaseModel.States), cfg.NumDays, cfg.SeedDays, seedCount, cfg.Seed)
	return coord, nil
}

func loadInterventions(cfg *config.Config) (*intervention.Model, error) {
	if cfg.InterventionPath == "" {
		return intervention.NewModel(nil, nil, nil), nil
	}
	m, err := config.LoadInterventionModel(cfg.InterventionPath)
	if err != nil {
		return nil, errors.Wrap(err, "intervention model")
	}
	return m, nil
}

func enableAggregation(router *sim.Router) error {
	visitCfg, err := config.ParseAggregatorEnv("HC_VISIT_PARAMS")
	if err != nil {
		return errors.Wrap(err, "HC_VISIT_PARAMS")
	}
	interactCfg, err := config.ParseAggregatorEnv("HC_INTERACT_PARAMS")
	if err != nil {
		return errors.Wrap(err, "HC_INTERACT_PARAMS")
	}
	if visitCfg.Use || interactCfg.Use {
		router.EnableAggregation(visitCfg, interactCfg)
	}
	return nil
}

// loadRealDataScenario reads people.csv/locations.csv/visits.csv plus their
// schema files from cfg.ScenarioDir (spec.md §6 scenario layout) and builds
// partitioners from each schema's declared partition_offsets when present,
// falling back to an even stride over the loaded record count.
func loadRealDataScenario(cfg *config.Config) (*scenario.Scenario, partition.Partitioner, partition.Partitioner, error) {
	loader := scenario.CSVLoader{}
	dir := cfg.ScenarioDir

	peopleSchema, err := scenario.LoadSchema(filepath.Join(dir, "people.textproto"))
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "people schema")
	}
	locationsSchema, err := scenario.LoadSchema(filepath.Join(dir, "locations.textproto"))
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "locations schema")
	}
	visitsSchema, err := scenario.LoadSchema(filepath.Join(dir, "visits.textproto"))
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "visits schema")
	}

	scen, err := scenario.Load(loader,
		filepath.Join(dir, "people.csv"), peopleSchema,
		filepath.Join(dir, "locations.csv"), locationsSchema,
		filepath.Join(dir, "visits.csv"), visitsSchema,
		cfg.NumDistinctVisitDays)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "scenario data")
	}

	peoplePartitioner, err := partitionerFromSchema(peopleSchema, len(scen.People), cfg.NumPeoplePartitions)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "people partitioner")
	}
	locPartitioner, err := partitionerFromSchema(locationsSchema, len(scen.Locations), cfg.NumLocationPartitions)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "location partitioner")
	}
	return scen, peoplePartitioner, locPartitioner, nil
}

func partitionerFromSchema(s scenario.Schema, numEntities, numPartitions int) (partition.Partitioner, error) {
	if len(s.PartitionOffsets) > 0 {
		offsets := make([]ids.GlobalID, len(s.PartitionOffsets))
		for i, o := range s.PartitionOffsets {
			offsets[i] = ids.GlobalID(o)
		}
		return partition.NewExplicit(offsets)
	}
	return partition.NewStride(numEntities, numPartitions)
}

// buildPeople constructs every Person, assigns its health starting state
// and per-agent RNG, installs its schedule, rolls intervention compliance,
// and buckets the result into numPartitions partition-local slices ordered
// by local index (spec.md §3, §4.7 "compliance ... rolled once per entity
// at load").
func buildPeople(scen *scenario.Scenario, p partition.Partitioner, diseaseModel *disease.Model, interventions *intervention.Model, scheduleDays int, seed int64) ([][]*entity.Person, error) {
	numPartitions := p.NumPartitions()
	out := make([][]*entity.Person, numPartitions)
	for part := 0; part < numPartitions; part++ {
		size, err := p.SizeOf(ids.PartitionID(part))
		if err != nil {
			return nil, err
		}
		out[part] = make([]*entity.Person, size)
	}

	for _, rec := range scen.People {
		partID, err := p.PartitionOf(rec.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "person %d", rec.ID)
		}
		localIdx, err := p.LocalIndex(rec.ID, partID)
		if err != nil {
			return nil, errors.Wrapf(err, "person %d", rec.ID)
		}

		age := rec.Attrs.Int("age", 0)
		startState := diseaseModel.HealthyStateFor(age)
		person := entity.NewPerson(rec.ID, scheduleDays, startState, rec.Attrs, rng.ForAgent(seed, rec.ID))
		if table, ok := scen.VisitsByDay[rec.ID]; ok {
			person.VisitsByDay = table
		}
		interventions.RollCompliancePerson(person)

		out[partID][localIdx] = person
	}
	return out, nil
}

// buildLocations is buildPeople's Location counterpart.
func buildLocations(scen *scenario.Scenario, p partition.Partitioner, interventions *intervention.Model, seed int64) ([][]*entity.Location, error) {
	numPartitions := p.NumPartitions()
	out := make([][]*entity.Location, numPartitions)
	for part := 0; part < numPartitions; part++ {
		size, err := p.SizeOf(ids.PartitionID(part))
		if err != nil {
			return nil, err
		}
		out[part] = make([]*entity.Location, size)
	}

	for _, rec := range scen.Locations {
		partID, err := p.PartitionOf(rec.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "location %d", rec.ID)
		}
		localIdx, err := p.LocalIndex(rec.ID, partID)
		if err != nil {
			return nil, errors.Wrapf(err, "location %d", rec.ID)
		}

		loc := entity.NewLocation(rec.ID, rec.Attrs, rng.ForAgent(seed, rec.ID))
		interventions.RollComplianceLocation(loc)

		out[partID][localIdx] = loc
	}
	return out, nil
}
