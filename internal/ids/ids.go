// Package ids defines the small integer id types shared across Loimos'
// partitioned actors. Keeping them as distinct types (rather than bare int)
// stops a location id from being passed where a person id is expected.
package ids

// GlobalID identifies an entity (person or location) across the whole run,
// independent of which partition currently owns it.
type GlobalID int64

// LocalIndex identifies an entity's position within its owning partition's
// dense slice.
type LocalIndex int64

// PartitionID identifies one partition within a collective (the People
// collective or the Locations collective each number their partitions
// independently starting at 0).
type PartitionID int32

// DayIndex is the zero-based simulated day counter.
type DayIndex int
