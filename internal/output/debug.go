package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/ids"
)

// DebugWriter writes the optional per-partition side files named in
// spec.md §6 (exposures_chare_<i>.csv, transitions_chare_<i>.csv,
// interactions_chare_<i>.csv), one instance per chare index, mirroring the
// teacher's instance-numbered file naming (csv_logger.go's
// ".%03d.%s.csv" suffix pattern).
type DebugWriter struct {
	dir   string
	chare int

	exposures    bytes.Buffer
	transitions  bytes.Buffer
	interactions bytes.Buffer
}

// NewDebugWriter constructs a DebugWriter for chare index i under dir. It
// writes nothing to disk until Close.
func NewDebugWriter(dir string, i int) *DebugWriter {
	return &DebugWriter{dir: dir, chare: i}
}

func (d *DebugWriter) WriteExposure(day int, personID ids.GlobalID, infectiousID ids.GlobalID) {
	fmt.Fprintf(&d.exposures, "%d,%d,%d\n", day, personID, infectiousID)
}

func (d *DebugWriter) WriteTransition(day int, personID ids.GlobalID, from, to int) {
	fmt.Fprintf(&d.transitions, "%d,%d,%d,%d\n", day, personID, from, to)
}

func (d *DebugWriter) WriteInteraction(day int, personID, infectiousID ids.GlobalID, propensity float64) {
	fmt.Fprintf(&d.interactions, "%d,%d,%d,%f\n", day, personID, infectiousID, propensity)
}

// Close flushes each of the three buffers to its own file, skipping any
// that received no rows.
func (d *DebugWriter) Close() error {
	files := []struct {
		name string
		buf  *bytes.Buffer
	}{
		{"exposures", &d.exposures},
		{"transitions", &d.transitions},
		{"interactions", &d.interactions},
	}
	for _, f := range files {
		if f.buf.Len() == 0 {
			continue
		}
		path := filepath.Join(d.dir, fmt.Sprintf("%s_chare_%d.csv", f.name, d.chare))
		if err := os.WriteFile(path, f.buf.Bytes(), 0644); err != nil {
			return errors.Wrapf(err, "output: cannot write %s", path)
		}
	}
	return nil
}
