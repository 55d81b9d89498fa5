package scenario

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
)

// CSVLoader reads people.csv/locations.csv/visits.csv row by row with a
// bufio.Scanner and manual column splitting, the same style as the
// teacher's config_parser.go (bufio.Scanner + strings.Split, no csv
// package, since every field here is a bare scalar with no quoting or
// embedded commas to worry about).
type CSVLoader struct{}

// LoadSchema parses a schema file's TOML encoding (see schema.go's
// doc comment on the textproto-to-TOML substitution), the same
// github.com/BurntSushi/toml call the teacher uses for its SingleHostConfig
// and EvoEpiConfig files.
func LoadSchema(path string) (Schema, error) {
	var s Schema
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Schema{}, errors.Wrapf(err, "scenario: cannot parse schema %s", path)
	}
	return s, nil
}

func (CSVLoader) LoadPeople(path string, schema Schema) ([]PersonRecord, error) {
	rows, err := scanRows(path)
	if err != nil {
		return nil, err
	}
	records := make([]PersonRecord, 0, len(rows))
	for i, row := range rows {
		id, attrs, err := parseEntityRow(row, schema)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario: people.csv row %d", i)
		}
		records = append(records, PersonRecord{ID: id, Attrs: attrs})
	}
	return records, nil
}

func (CSVLoader) LoadLocations(path string, schema Schema) ([]LocationRecord, error) {
	rows, err := scanRows(path)
	if err != nil {
		return nil, err
	}
	records := make([]LocationRecord, 0, len(rows))
	for i, row := range rows {
		id, attrs, err := parseEntityRow(row, schema)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario: locations.csv row %d", i)
		}
		records = append(records, LocationRecord{ID: id, Attrs: attrs})
	}
	return records, nil
}

// LoadVisits parses visits.csv, one VisitRecord per row, using the
// schema's foreign_id/foreign_id/start_time/duration roles to pick out
// person id, location id, start second, and duration (end = start +
// duration). Visit CSV is sorted by (person_id, start_time) at source
// (spec.md §6); this loader trusts that ordering rather than re-sorting.
func (CSVLoader) LoadVisits(path string, schema Schema) ([]VisitRecord, error) {
	rows, err := scanRows(path)
	if err != nil {
		return nil, err
	}
	var personCol, locationCol, startCol, durationCol = -1, -1, -1, -1
	foreignSeen := 0
	for i, c := range schema.Columns {
		switch c.Role {
		case RoleForeignID:
			if foreignSeen == 0 {
				personCol = i
			} else {
				locationCol = i
			}
			foreignSeen++
		case RoleStartTime:
			startCol = i
		case RoleDuration:
			durationCol = i
		}
	}
	if personCol < 0 || locationCol < 0 || startCol < 0 || durationCol < 0 {
		return nil, errors.Errorf("scenario: visits schema missing one of foreign_id (x2), start_time, duration")
	}

	records := make([]VisitRecord, 0, len(rows))
	for i, row := range rows {
		person, err := strconv.ParseInt(row[personCol], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario: visits.csv row %d person id", i)
		}
		location, err := strconv.ParseInt(row[locationCol], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario: visits.csv row %d location id", i)
		}
		start, err := strconv.Atoi(row[startCol])
		if err != nil {
			return nil, errors.Wrapf(err, "scenario: visits.csv row %d start_time", i)
		}
		duration, err := strconv.Atoi(row[durationCol])
		if err != nil {
			return nil, errors.Wrapf(err, "scenario: visits.csv row %d duration", i)
		}
		records = append(records, VisitRecord{
			PersonID:   ids.GlobalID(person),
			LocationID: ids.GlobalID(location),
			StartSec:   start,
			EndSec:     start + duration,
		})
	}
	return records, nil
}

// LoadOffsets reads count 64-bit little-endian offsets from path, the
// `.cache` format of spec.md §6, via encoding/binary directly — a small,
// fixed-width format with no library call warranted (see DESIGN.md).
func (CSVLoader) LoadOffsets(path string, count int) ([]int64, error) {
	return readOffsetCache(path, count)
}

// scanRows splits path's CSV body into comma-separated fields per line,
// skipping a leading header row and blank lines, grounded on the
// teacher's LoadFitnessMatrix bufio.Scanner loop in config_parser.go.
func scanRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario: cannot open %s", path)
	}
	defer f.Close()

	var rows [][]string
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			continue // header row
		}
		rows = append(rows, strings.Split(line, ","))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scenario: error scanning %s", path)
	}
	return rows, nil
}

// parseEntityRow extracts the unique_id column and builds an Attributes
// map from every other typed column, per schema.
func parseEntityRow(row []string, schema Schema) (ids.GlobalID, entity.Attributes, error) {
	attrs := make(entity.Attributes, len(schema.Columns))
	var id ids.GlobalID
	var sawID bool

	for i, c := range schema.Columns {
		if i >= len(row) {
			return 0, nil, errors.Errorf("row has fewer columns than schema declares (col %q)", c.Name)
		}
		field := row[i]

		switch c.Role {
		case RoleIgnore:
			continue
		case RoleUniqueID:
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return 0, nil, errors.Wrapf(err, "unique_id column %q", c.Name)
			}
			id = ids.GlobalID(v)
			sawID = true
		case RoleInt32, RoleInt64, RoleUint32, RoleUint64:
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				v = 0
			}
			attrs[c.Name] = int(v)
		case RoleDouble:
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				v = 0
			}
			attrs[c.Name] = v
		case RoleBool:
			attrs[c.Name] = field == "1" || strings.EqualFold(field, "true")
		case RoleString, RoleLabel, RoleForeignID:
			attrs[c.Name] = field
		}
	}
	if !sawID {
		return 0, nil, errors.New("row's schema declares no unique_id column")
	}
	return id, attrs, nil
}
