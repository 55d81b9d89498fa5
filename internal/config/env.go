package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/aggregator"
)

// ParseAggregatorEnv parses one of HC_VISIT_PARAMS/HC_INTERACT_PARAMS
// (spec.md §6): "use:1|0,buffer_size,threshold,flush_period,node_level:1|0".
// An unset variable returns the zero Config (use=false, a pure pass-through),
// matching the teacher's manual comma/colon field splitting in
// config_parser.go's LoadFitnessMatrix rather than reaching for a flags or
// env-parsing library for a five-field ad hoc format.
func ParseAggregatorEnv(name string) (aggregator.Config, error) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return aggregator.Config{}, nil
	}

	fields := strings.Split(raw, ",")
	if len(fields) != 5 {
		return aggregator.Config{}, errors.Errorf("config: %s must have 5 comma-separated fields, got %d", name, len(fields))
	}

	use, err := parseKeyedBool(fields[0], "use")
	if err != nil {
		return aggregator.Config{}, errors.Wrapf(err, "config: %s", name)
	}
	bufferSize, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return aggregator.Config{}, errors.Wrapf(err, "config: %s buffer_size", name)
	}
	threshold, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return aggregator.Config{}, errors.Wrapf(err, "config: %s threshold", name)
	}
	flushSeconds, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return aggregator.Config{}, errors.Wrapf(err, "config: %s flush_period", name)
	}
	nodeLevel, err := parseKeyedBool(fields[4], "node_level")
	if err != nil {
		return aggregator.Config{}, errors.Wrapf(err, "config: %s", name)
	}

	return aggregator.Config{
		Use:         use,
		BufferSize:  bufferSize,
		Threshold:   threshold,
		FlushPeriod: time.Duration(flushSeconds * float64(time.Second)),
		NodeLevel:   nodeLevel,
	}, nil
}

// parseKeyedBool parses a "key:1" or "key:0" field, tolerating a bare "1"/"0"
// with no key prefix.
func parseKeyedBool(field, key string) (bool, error) {
	field = strings.TrimSpace(field)
	if idx := strings.Index(field, ":"); idx >= 0 {
		field = field[idx+1:]
	}
	switch field {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, errors.Errorf("%s must be 1 or 0, got %q", key, field)
	}
}
