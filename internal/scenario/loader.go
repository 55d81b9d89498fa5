package scenario

import (
	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
)

// PersonRecord and LocationRecord are a loader's row-level output: a
// stable id plus whatever dynamic attributes the schema declared for it
// (spec.md §3 "dynamic attribute vector ... determined at load time").
type PersonRecord struct {
	ID    ids.GlobalID
	Attrs entity.Attributes
}

type LocationRecord struct {
	ID    ids.GlobalID
	Attrs entity.Attributes
}

// VisitRecord is one row of visits.csv, not yet split at midnight.
type VisitRecord struct {
	PersonID   ids.GlobalID
	LocationID ids.GlobalID
	StartSec   int
	EndSec     int
}

// Loader is the external Scenario-loading contract (spec.md §6). A CSV
// implementation is provided; the interface lets a future textproto or
// database-backed loader slot in without touching internal/sim.
type Loader interface {
	LoadPeople(path string, schema Schema) ([]PersonRecord, error)
	LoadLocations(path string, schema Schema) ([]LocationRecord, error)
	LoadVisits(path string, schema Schema) ([]VisitRecord, error)
	// LoadOffsets reads a `.cache` file of count 64-bit offsets (spec.md
	// §6). sentinel values (UINT64_MAX encoded) are preserved as -1.
	LoadOffsets(path string, count int) ([]int64, error)
}
