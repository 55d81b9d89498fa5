package sim

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/ids"
)

// InvariantError marks one of the fatal conditions spec.md §7 calls out:
// a visit routed to the wrong partition, a departure without a matching
// arrival, or an event stream that disagrees with the located entity.
// These are bugs in the scenario or in this engine, never recoverable
// mid-run, so callers panic with one. Nothing recovers the panic: it
// aborts the whole process (spec.md §7: "partitions abort the entire run
// on fatal errors").
type InvariantError struct {
	Reason   string
	EntityID ids.GlobalID
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s (entity %d)", e.Reason, e.EntityID)
}

func newInvariantError(reason string, id ids.GlobalID) error {
	return errors.WithStack(&InvariantError{Reason: reason, EntityID: id})
}
