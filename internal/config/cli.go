// Package config parses Loimos's command-line surface, environment
// variables, and declarative model files (spec.md §6), assembling the
// values cmd/loimos wires into the rest of the engine. None of this package
// is itself part of the simulation core (spec.md §1's "command-line
// parsing ... treated as an external collaborator").
package config

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Mode selects one of spec.md §6's two CLI invocation modes.
type Mode int

const (
	// RealDataMode reads a prebuilt scenario from disk.
	RealDataMode Mode = iota
	// OnTheFlyMode generates a population/location grid procedurally.
	OnTheFlyMode
)

// Config is everything parsed from argv (spec.md §6's two positional
// surfaces), independent of mode. Fields unused by the selected Mode are
// left zero.
type Config struct {
	Mode Mode

	// Real-data mode.
	NumPeoplePartitions   int
	NumLocationPartitions int
	NumDays               int
	NumDistinctVisitDays  int
	OutputDir             string
	DiseaseModelPath      string
	ScenarioDir           string

	// On-the-fly mode.
	PeopleWidth, PeopleHeight     int
	LocationWidth, LocationHeight int
	AvgVisitsPerDay               int
	LocPartitionWidth             int
	LocPartitionHeight            int

	// Shared flags.
	MinMaxAlpha      bool
	InterventionPath string

	// Seed and initial-infection sizing. Not named in spec.md §6's CLI
	// grammar (which fixes the run's other parameters but leaves the RNG
	// seed and seed-infection sizing to the caller, the way the teacher's
	// bin/contagion/main.go exposes its own "-seed" flag beyond what
	// EvoEpiConfig covers); default Seed to the current time the same way,
	// and SeedDays/SeedCount to one day and 0.1% of the population
	// (floored at 1) absent an explicit override.
	Seed      int64
	SeedDays  int
	SeedCount int
}

// ParseArgs parses argv (not including the program name, i.e. os.Args[1:])
// into a Config. The grammar puts positional arguments before the optional
// "-m"/"--min-max-alpha" and "-i <path>" flags (spec.md §6), which the
// stdlib flag package cannot parse directly since it stops scanning flags
// at the first non-flag token; this extracts every flag ("-m"/
// "--min-max-alpha", "-i", "-seed", "-seed-days", "-seed-count") by a
// manual scan first, wherever it appears; grounded on the teacher's own
// preference for manual token splitting over a flags library when the format does not fit one
// (config_parser.go's LoadFitnessMatrix).
func ParseArgs(argv []string) (*Config, error) {
	var positional []string
	var minMaxAlpha bool
	var interventionPath string
	seed := time.Now().UTC().UnixNano()
	seedDays := 1
	seedCount := 0 // 0 means "let the caller pick a population-proportional default"

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "-m", "--min-max-alpha":
			minMaxAlpha = true
		case "-i":
			if i+1 >= len(argv) {
				return nil, errors.New("config: -i requires an intervention model path")
			}
			interventionPath = argv[i+1]
			i++
		case "-seed":
			if i+1 >= len(argv) {
				return nil, errors.New("config: -seed requires an integer value")
			}
			v, err := strconv.ParseInt(argv[i+1], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "config: -seed")
			}
			seed = v
			i++
		case "-seed-days":
			if i+1 >= len(argv) {
				return nil, errors.New("config: -seed-days requires an integer value")
			}
			v, err := strconv.Atoi(argv[i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "config: -seed-days")
			}
			seedDays = v
			i++
		case "-seed-count":
			if i+1 >= len(argv) {
				return nil, errors.New("config: -seed-count requires an integer value")
			}
			v, err := strconv.Atoi(argv[i+1])
			if err != nil {
				return nil, errors.Wrapf(err, "config: -seed-count")
			}
			seedCount = v
			i++
		default:
			positional = append(positional, argv[i])
		}
	}

	if len(positional) == 0 {
		return nil, errors.New("config: missing mode argument (0 = real-data, 1 = on-the-fly)")
	}
	mode, err := strconv.Atoi(positional[0])
	if err != nil || (mode != 0 && mode != 1) {
		return nil, errors.Errorf("config: mode argument must be 0 or 1, got %q", positional[0])
	}
	rest := positional[1:]

	cfg := &Config{
		Mode:             Mode(mode),
		MinMaxAlpha:      minMaxAlpha,
		InterventionPath: interventionPath,
		Seed:             seed,
		SeedDays:         seedDays,
		SeedCount:        seedCount,
	}

	switch cfg.Mode {
	case RealDataMode:
		const want = 7
		if len(rest) != want {
			return nil, errors.Errorf("config: real-data mode expects %d positional arguments, got %d", want, len(rest))
		}
		ints, err := parseInts(rest[:4])
		if err != nil {
			return nil, err
		}
		cfg.NumPeoplePartitions = ints[0]
		cfg.NumLocationPartitions = ints[1]
		cfg.NumDays = ints[2]
		cfg.NumDistinctVisitDays = ints[3]
		cfg.OutputDir = rest[4]
		cfg.DiseaseModelPath = rest[5]
		cfg.ScenarioDir = rest[6]
	case OnTheFlyMode:
		const want = 11
		if len(rest) != want {
			return nil, errors.Errorf("config: on-the-fly mode expects %d positional arguments, got %d", want, len(rest))
		}
		ints, err := parseInts(rest[:9])
		if err != nil {
			return nil, err
		}
		cfg.PeopleWidth = ints[0]
		cfg.PeopleHeight = ints[1]
		cfg.LocationWidth = ints[2]
		cfg.LocationHeight = ints[3]
		cfg.AvgVisitsPerDay = ints[4]
		cfg.LocPartitionWidth = ints[5]
		cfg.LocPartitionHeight = ints[6]
		cfg.NumPeoplePartitions = ints[7]
		cfg.NumDays = ints[8]
		cfg.OutputDir = rest[9]
		cfg.DiseaseModelPath = rest[10]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "config: argument %d (%q) is not an integer", i, f)
		}
		out[i] = v
	}
	return out, nil
}

// Validate checks dimension and count invariants spec.md §7.1 requires be
// caught before any simulation tick, beyond what positional-count parsing
// already guarantees.
func (c *Config) Validate() error {
	if c.NumDays <= 0 {
		return errors.Errorf("config: num_days must be positive, got %d", c.NumDays)
	}
	if c.NumPeoplePartitions <= 0 {
		return errors.Errorf("config: num_people_partitions must be positive, got %d", c.NumPeoplePartitions)
	}
	switch c.Mode {
	case RealDataMode:
		if c.NumLocationPartitions <= 0 {
			return errors.Errorf("config: num_location_partitions must be positive, got %d", c.NumLocationPartitions)
		}
		if c.NumDistinctVisitDays <= 0 {
			return errors.Errorf("config: num_distinct_visit_days must be positive, got %d", c.NumDistinctVisitDays)
		}
	case OnTheFlyMode:
		if c.PeopleWidth <= 0 || c.PeopleHeight <= 0 {
			return errors.Errorf("config: people grid dimensions must be positive, got %dx%d", c.PeopleWidth, c.PeopleHeight)
		}
		if c.LocationWidth <= 0 || c.LocationHeight <= 0 {
			return errors.Errorf("config: location grid dimensions must be positive, got %dx%d", c.LocationWidth, c.LocationHeight)
		}
		if c.LocPartitionWidth <= 0 || c.LocPartitionHeight <= 0 {
			return errors.Errorf("config: location partition block dimensions must be positive, got %dx%d", c.LocPartitionWidth, c.LocPartitionHeight)
		}
		if c.LocationWidth%c.LocPartitionWidth != 0 || c.LocationHeight%c.LocPartitionHeight != 0 {
			return errors.Errorf("config: location grid %dx%d does not divide evenly into %dx%d partition blocks",
				c.LocationWidth, c.LocationHeight, c.LocPartitionWidth, c.LocPartitionHeight)
		}
	}
	return nil
}
