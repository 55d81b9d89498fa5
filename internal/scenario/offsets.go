package scenario

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"
)

// sentinelOffset is the `.cache` file's UINT64_MAX marker for "this person
// has no visit on this weekday" (spec.md §6). Go has no unsigned 64-bit
// sentinel that fits cleanly in an int64, so it is translated to -1 at
// read time; callers must treat -1 as "absent", never as a real offset.
const sentinelOffset int64 = -1

// readOffsetCache reads count consecutive 64-bit little-endian integers
// from path. This is a small fixed-width binary format (spec.md §6: "P+1
// ... 64-bit byte offsets"), read directly with encoding/binary rather
// than through a library — see DESIGN.md.
func readOffsetCache(path string, count int) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario: cannot open offset cache %s", path)
	}
	defer f.Close()

	out := make([]int64, count)
	for i := 0; i < count; i++ {
		var raw uint64
		if err := binary.Read(f, binary.LittleEndian, &raw); err != nil {
			return nil, errors.Wrapf(err, "scenario: cannot read offset %d from %s", i, path)
		}
		if raw == math.MaxUint64 {
			out[i] = sentinelOffset
			continue
		}
		out[i] = int64(raw)
	}
	return out, nil
}
