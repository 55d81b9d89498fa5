// Package scenario loads the external population/location/visit data the
// spec.md §6 "Scenario layout" describes into the in-memory records the
// Coordinator hands to PersonPartition/LocationPartition at construction.
// This is one of the engine's declared external collaborators (spec.md
// §1): a loader implementation and a Scenario value, not the core
// simulation.
package scenario

// ColumnRole is the closed set of column roles spec.md §6 names for a
// people/locations/visits schema file: "ignore, unique_id, foreign_id,
// start_time, duration, int32, int64, uint32, uint64, double, bool,
// string, label".
type ColumnRole string

const (
	RoleIgnore    ColumnRole = "ignore"
	RoleUniqueID  ColumnRole = "unique_id"
	RoleForeignID ColumnRole = "foreign_id"
	RoleStartTime ColumnRole = "start_time"
	RoleDuration  ColumnRole = "duration"
	RoleInt32     ColumnRole = "int32"
	RoleInt64     ColumnRole = "int64"
	RoleUint32    ColumnRole = "uint32"
	RoleUint64    ColumnRole = "uint64"
	RoleDouble    ColumnRole = "double"
	RoleBool      ColumnRole = "bool"
	RoleString    ColumnRole = "string"
	RoleLabel     ColumnRole = "label"
)

// Column describes one CSV column's role and optional default. Spec.md §6
// describes this schema as a `.textproto` message; since the pack carries
// no generated protobuf bindings for a custom schema, this engine encodes
// the same fields as TOML (see DESIGN.md for the substitution rationale
// shared with the disease/intervention model files).
type Column struct {
	Name    string     `toml:"name"`
	Role    ColumnRole `toml:"role"`
	Default string     `toml:"default"`
}

// Schema is one people/locations/visits schema file's parsed contents.
type Schema struct {
	Columns          []Column `toml:"column"`
	PartitionOffsets []int64  `toml:"partition_offsets"`
	NumRows          int      `toml:"num_rows"`
}
