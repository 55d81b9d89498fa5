// Package aggregator implements the optional transport shim of spec.md
// §4.8: coalescing small point-to-point messages per destination partition
// to amortize send overhead, flushing on a size, fraction, or time
// threshold, whichever comes first.
package aggregator

import (
	"sync"
	"time"

	"github.com/kentwait/loimos/internal/ids"
)

// Config is the aggregator's tunable policy, parsed from the
// HC_VISIT_PARAMS/HC_INTERACT_PARAMS environment variables (spec.md §6):
// "use:1|0,buffer_size,threshold,flush_period,node_level:1|0".
type Config struct {
	Use         bool
	BufferSize  int
	Threshold   float64
	FlushPeriod time.Duration
	NodeLevel   bool
}

// Flusher is called with a destination's accumulated message batch. It is
// the caller's actual send step; the aggregator never interprets payloads.
type Flusher func(dest ids.PartitionID, batch [][]byte)

type bucket struct {
	batch       [][]byte
	bytes       int
	firstInsert time.Time
}

// Aggregator buffers outgoing messages by destination partition and flushes
// a destination transparently to the recipient: flush may reorder messages
// from different senders relative to each other, never relative to the
// same sender (spec.md §4.8, §5 ordering guarantees), since a single
// destination's bucket is always flushed as one ordered batch.
type Aggregator struct {
	cfg    Config
	flush  Flusher
	mu     sync.Mutex
	bucket map[ids.PartitionID]*bucket

	stop chan struct{}
	wg   sync.WaitGroup
}

// New constructs an Aggregator. If cfg.Use is false, Send flushes every
// message immediately and Start/Stop are no-ops — the aggregator is a
// pure pass-through, matching the "use:0" configuration.
func New(cfg Config, flush Flusher) *Aggregator {
	return &Aggregator{
		cfg:    cfg,
		flush:  flush,
		bucket: make(map[ids.PartitionID]*bucket),
		stop:   make(chan struct{}),
	}
}

// Start launches the background periodic-tick goroutine that drives
// time-threshold flushes (spec.md §4.8: "a process-wide periodic tick
// drives (c)"). A no-op when the aggregator is disabled.
func (a *Aggregator) Start() {
	if !a.cfg.Use || a.cfg.FlushPeriod <= 0 {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ticker := time.NewTicker(a.cfg.FlushPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.flushExpired()
			case <-a.stop:
				return
			}
		}
	}()
}

// Stop halts the background ticker and flushes every remaining bucket, so
// no message is lost at shutdown.
func (a *Aggregator) Stop() {
	if a.cfg.Use && a.cfg.FlushPeriod > 0 {
		close(a.stop)
		a.wg.Wait()
	}
	a.FlushAll()
}

// Send enqueues payload for dest, flushing immediately (inline, not via the
// background goroutine) if doing so crosses the size or fraction threshold.
func (a *Aggregator) Send(dest ids.PartitionID, payload []byte) {
	if !a.cfg.Use {
		a.flush(dest, [][]byte{payload})
		return
	}

	a.mu.Lock()
	b, ok := a.bucket[dest]
	if !ok {
		b = &bucket{firstInsert: time.Now()}
		a.bucket[dest] = b
	}
	b.batch = append(b.batch, payload)
	b.bytes += len(payload)

	fraction := 0.0
	if a.cfg.BufferSize > 0 {
		fraction = float64(b.bytes) / float64(a.cfg.BufferSize)
	}
	shouldFlush := (a.cfg.BufferSize > 0 && b.bytes >= a.cfg.BufferSize) ||
		(a.cfg.Threshold > 0 && fraction >= a.cfg.Threshold)

	var drained [][]byte
	if shouldFlush {
		drained = b.batch
		delete(a.bucket, dest)
	}
	a.mu.Unlock()

	if drained != nil {
		a.flush(dest, drained)
	}
}

// flushExpired flushes every bucket whose first insert is older than
// FlushPeriod, driven by the background ticker.
func (a *Aggregator) flushExpired() {
	now := time.Now()
	var toFlush []struct {
		dest  ids.PartitionID
		batch [][]byte
	}

	a.mu.Lock()
	for dest, b := range a.bucket {
		if now.Sub(b.firstInsert) >= a.cfg.FlushPeriod {
			toFlush = append(toFlush, struct {
				dest  ids.PartitionID
				batch [][]byte
			}{dest, b.batch})
			delete(a.bucket, dest)
		}
	}
	a.mu.Unlock()

	for _, f := range toFlush {
		a.flush(f.dest, f.batch)
	}
}

// FlushAll flushes every non-empty bucket regardless of threshold, used at
// phase barriers where the spec requires all sends to complete before the
// next phase starts (spec.md §5: "all visit sends complete before any
// compute step starts").
func (a *Aggregator) FlushAll() {
	a.mu.Lock()
	drained := a.bucket
	a.bucket = make(map[ids.PartitionID]*bucket)
	a.mu.Unlock()

	for dest, b := range drained {
		if len(b.batch) > 0 {
			a.flush(dest, b.batch)
		}
	}
}
