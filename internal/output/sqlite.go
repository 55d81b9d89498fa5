package output

import (
	"database/sql"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/sim"
)

// SQLiteWriter writes the summary histogram to summary.db, one row per
// (day, state), grounded on the teacher's sqlite_logger.go: open the
// database, create the table up front, insert with a prepared statement.
type SQLiteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewSQLiteWriter creates summary.db under dir and its "histogram" table,
// replacing any existing file's contents.
func NewSQLiteWriter(dir string) (*SQLiteWriter, error) {
	path := filepath.Join(dir, "summary.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "output: cannot open %s", path)
	}
	if _, err := db.Exec(`
		drop table if exists histogram;
		create table histogram (
			day integer not null,
			state integer not null,
			total_in_state integer not null,
			change_in_state integer not null
		);
	`); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "output: cannot create histogram table in %s", path)
	}
	stmt, err := db.Prepare(`insert into histogram (day, state, total_in_state, change_in_state) values (?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "output: cannot prepare insert for %s", path)
	}
	return &SQLiteWriter{db: db, stmt: stmt}, nil
}

func (w *SQLiteWriter) WriteHistogramRow(row sim.HistogramRow) error {
	_, err := w.stmt.Exec(row.Day, row.State, row.TotalInState, row.ChangeInState)
	return errors.Wrap(err, "output: sqlite insert")
}

func (w *SQLiteWriter) Close() error {
	if err := w.stmt.Close(); err != nil {
		w.db.Close()
		return errors.Wrap(err, "output: closing sqlite statement")
	}
	return errors.Wrap(w.db.Close(), "output: closing sqlite database")
}

// MultiWriter fans out every row to each of Writers in order, closing all
// of them even if one fails, and returning the first error encountered.
type MultiWriter struct {
	Writers []Writer
}

func (m MultiWriter) WriteHistogramRow(row sim.HistogramRow) error {
	for _, w := range m.Writers {
		if err := w.WriteHistogramRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiWriter) Close() error {
	var first error
	for _, w := range m.Writers {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
