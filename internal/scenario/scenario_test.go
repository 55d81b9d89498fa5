package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kentwait/loimos/internal/ids"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writeFile(%s): %v", name, err)
	}
	return path
}

func personSchema() Schema {
	return Schema{Columns: []Column{
		{Name: "id", Role: RoleUniqueID},
		{Name: "age", Role: RoleInt32},
	}}
}

func locationSchema() Schema {
	return Schema{Columns: []Column{
		{Name: "id", Role: RoleUniqueID},
		{Name: "is_school", Role: RoleBool},
	}}
}

func visitSchema() Schema {
	return Schema{Columns: []Column{
		{Name: "person_id", Role: RoleForeignID},
		{Name: "location_id", Role: RoleForeignID},
		{Name: "start_time", Role: RoleStartTime},
		{Name: "duration", Role: RoleDuration},
	}}
}

func TestCSVLoaderLoadPeople(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "people.csv", "id,age\n1,30\n2,45\n")

	records, err := CSVLoader{}.LoadPeople(path, personSchema())
	if err != nil {
		t.Fatalf("LoadPeople: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != ids.GlobalID(1) || records[0].Attrs.Int("age", 0) != 30 {
		t.Errorf("first record = %+v, want id=1 age=30", records[0])
	}
	if records[1].ID != ids.GlobalID(2) || records[1].Attrs.Int("age", 0) != 45 {
		t.Errorf("second record = %+v, want id=2 age=45", records[1])
	}
}

func TestCSVLoaderLoadLocationsBoolColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "locations.csv", "id,is_school\n10,1\n11,0\n")

	records, err := CSVLoader{}.LoadLocations(path, locationSchema())
	if err != nil {
		t.Fatalf("LoadLocations: %v", err)
	}
	if !records[0].Attrs.Bool("is_school", false) {
		t.Errorf("location 10 should be a school")
	}
	if records[1].Attrs.Bool("is_school", false) {
		t.Errorf("location 11 should not be a school")
	}
}

func TestCSVLoaderLoadVisitsComputesEndSec(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "visits.csv", "person_id,location_id,start_time,duration\n1,10,1000,500\n")

	records, err := CSVLoader{}.LoadVisits(path, visitSchema())
	if err != nil {
		t.Fatalf("LoadVisits: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].PersonID != 1 || records[0].LocationID != 10 {
		t.Errorf("record ids = %+v, want person=1 location=10", records[0])
	}
	if records[0].StartSec != 1000 || records[0].EndSec != 1500 {
		t.Errorf("record times = [%d, %d), want [1000, 1500)", records[0].StartSec, records[0].EndSec)
	}
}

func TestSchemaDecodesTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "schema.toml", `
num_rows = 2

[[column]]
name = "id"
role = "unique_id"

[[column]]
name = "age"
role = "int32"
default = "0"
`)
	s, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if s.NumRows != 2 || len(s.Columns) != 2 {
		t.Fatalf("s = %+v, want NumRows=2 and 2 columns", s)
	}
	if s.Columns[0].Role != RoleUniqueID || s.Columns[1].Role != RoleInt32 {
		t.Errorf("columns = %+v, roles mismatch", s.Columns)
	}
}

func TestReadOffsetCacheTranslatesSentinel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "visits.cache")
	raw := []byte{
		0, 0, 0, 0, 0, 0, 0, 0, // offset 0
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // sentinel
		10, 0, 0, 0, 0, 0, 0, 0, // offset 10
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("write cache: %v", err)
	}

	offsets, err := readOffsetCache(path, 3)
	if err != nil {
		t.Fatalf("readOffsetCache: %v", err)
	}
	want := []int64{0, sentinelOffset, 10}
	for i, w := range want {
		if offsets[i] != w {
			t.Errorf("offsets[%d] = %d, want %d", i, offsets[i], w)
		}
	}
}

func TestLoadSplitsMidnightCrossingVisitAndBucketsByWeekday(t *testing.T) {
	dir := t.TempDir()
	peoplePath := writeFile(t, dir, "people.csv", "id,age\n1,30\n")
	locationsPath := writeFile(t, dir, "locations.csv", "id,is_school\n10,0\n")
	// Person 1 has two visits to location 10: one wholly inside a day
	// (start 0, dur 3600) and one crossing midnight (start 86000, dur 1000).
	visitsPath := writeFile(t, dir, "visits.csv",
		"person_id,location_id,start_time,duration\n1,10,0,3600\n1,10,86000,1000\n")

	scen, err := Load(CSVLoader{}, peoplePath, personSchema(), locationsPath, locationSchema(), visitsPath, visitSchema(), 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(scen.People) != 1 || len(scen.Locations) != 1 {
		t.Fatalf("scen = %+v, want 1 person and 1 location", scen)
	}

	table := scen.VisitsByDay[ids.GlobalID(1)]
	if len(table) != 7 {
		t.Fatalf("got %d weekday buckets, want 7", len(table))
	}

	var total int
	for _, day := range table {
		total += len(day)
	}
	// The midnight-crossing visit splits into two, so three Visits total
	// come out of the two source rows.
	if total != 3 {
		t.Errorf("got %d total visits across all weekdays, want 3", total)
	}
}

func TestLoadVisitsMissingForeignColumnsFails(t *testing.T) {
	badSchema := Schema{Columns: []Column{
		{Name: "start_time", Role: RoleStartTime},
		{Name: "duration", Role: RoleDuration},
	}}
	dir := t.TempDir()
	path := writeFile(t, dir, "visits.csv", "start_time,duration\n0,100\n")

	if _, err := CSVLoader{}.LoadVisits(path, badSchema); err == nil {
		t.Errorf("LoadVisits with no foreign_id columns should fail")
	}
}
