// Package output writes the per-day state histogram summary (spec.md §6)
// and, when enabled, the optional debug side files. Grounded on the
// teacher's csv_logger.go: buffer rows in memory, flush with one
// AppendToFile call per file.
package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/sim"
)

// Writer is the summary-output contract (spec.md §6 "Output writer").
type Writer interface {
	WriteHistogramRow(row sim.HistogramRow) error
	Close() error
}

// CSVWriter writes summary.csv with header
// "day,state,total_in_state,change_in_state", buffering rows and flushing
// them to disk on Close, matching the teacher's buffer-then-AppendToFile
// style in csv_logger.go.
type CSVWriter struct {
	path string
	buf  bytes.Buffer
}

// NewCSVWriter creates summary.csv under dir, writing the header
// immediately and truncating any existing file (a fresh run replaces its
// own prior output rather than appending to it).
func NewCSVWriter(dir string) (*CSVWriter, error) {
	path := filepath.Join(dir, "summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "output: cannot create %s", path)
	}
	if _, err := f.WriteString("day,state,total_in_state,change_in_state\n"); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "output: cannot write header to %s", path)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, "output: cannot close %s", path)
	}
	return &CSVWriter{path: path}, nil
}

// WriteHistogramRow buffers one row; call Close to flush.
func (w *CSVWriter) WriteHistogramRow(row sim.HistogramRow) error {
	fmt.Fprintf(&w.buf, "%d,%d,%d,%d\n", row.Day, row.State, row.TotalInState, row.ChangeInState)
	return nil
}

// Close appends every buffered row to summary.csv.
func (w *CSVWriter) Close() error {
	if w.buf.Len() == 0 {
		return nil
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "output: cannot reopen %s", w.path)
	}
	defer f.Close()
	if _, err := f.Write(w.buf.Bytes()); err != nil {
		return errors.Wrapf(err, "output: cannot flush %s", w.path)
	}
	return nil
}

// WriteAll is a convenience that writes every row and closes the writer.
func WriteAll(w Writer, rows []sim.HistogramRow) error {
	for _, row := range rows {
		if err := w.WriteHistogramRow(row); err != nil {
			return err
		}
	}
	return w.Close()
}
