package sim

import (
	"bytes"
	"encoding/gob"

	"github.com/kentwait/loimos/internal/aggregator"
	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
)

// InteractionMessage is the end-of-visit-window bundle a LocationPartition
// flushes to the PersonPartition owning a susceptible visitor (spec.md
// §4.4 step 5).
type InteractionMessage struct {
	PersonID     ids.GlobalID
	Interactions []entity.Interaction
}

// Router is the in-process channel fabric connecting PersonPartitions and
// LocationPartitions, one buffered channel per destination partition per
// message kind — the same role the teacher's per-host `c`/`d` channels
// play in si_simulation.go, generalized from one fixed pair of channels to
// one pair per partition. A phase barrier (the Coordinator's WaitGroups)
// guarantees every sender for a phase has finished before the receiving
// phase starts draining, so channels never need to be closed or resized
// between days.
type Router struct {
	visitInbox       []chan entity.Visit
	interactionInbox []chan InteractionMessage

	// visitAgg/interactionAgg are the optional HC_VISIT_PARAMS/
	// HC_INTERACT_PARAMS aggregator shim (spec.md §4.8, §6); nil unless
	// EnableAggregation was called, in which case SendVisit/SendInteractions
	// route through them instead of writing the channel directly.
	visitAgg       *aggregator.Aggregator
	interactionAgg *aggregator.Aggregator
}

// NewRouter allocates generously-buffered channels for numPersonPartitions
// and numLocationPartitions. Buffer size only affects whether a send
// blocks momentarily waiting for the receiver to drain; it has no bearing
// on correctness since draining always happens after the phase barrier.
func NewRouter(numPersonPartitions, numLocationPartitions, bufferHint int) *Router {
	r := &Router{
		visitInbox:       make([]chan entity.Visit, numLocationPartitions),
		interactionInbox: make([]chan InteractionMessage, numPersonPartitions),
	}
	for i := range r.visitInbox {
		r.visitInbox[i] = make(chan entity.Visit, bufferHint)
	}
	for i := range r.interactionInbox {
		r.interactionInbox[i] = make(chan InteractionMessage, bufferHint)
	}
	return r
}

// EnableAggregation routes SendVisit/SendInteractions through a pair of
// aggregator.Aggregators (spec.md §6's HC_VISIT_PARAMS/HC_INTERACT_PARAMS)
// instead of writing straight to the destination channel. Each aggregator's
// Flusher decodes its gob-encoded batch and delivers to the same channels
// SendVisit/SendInteractions would have written to directly, so draining
// behaves identically either way once FlushAll has run.
func (r *Router) EnableAggregation(visitCfg, interactionCfg aggregator.Config) {
	r.visitAgg = aggregator.New(visitCfg, func(dest ids.PartitionID, batch [][]byte) {
		for _, raw := range batch {
			var v entity.Visit
			if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&v); err != nil {
				panic(newInvariantError("aggregated visit message failed to decode", v.PersonID))
			}
			r.visitInbox[dest] <- v
		}
	})
	r.interactionAgg = aggregator.New(interactionCfg, func(dest ids.PartitionID, batch [][]byte) {
		for _, raw := range batch {
			var msg InteractionMessage
			if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&msg); err != nil {
				panic(newInvariantError("aggregated interaction message failed to decode", msg.PersonID))
			}
			r.interactionInbox[dest] <- msg
		}
	})
	r.visitAgg.Start()
	r.interactionAgg.Start()
}

// FlushAll drains any aggregator buffering immediately, guaranteeing every
// send so far has reached its destination channel. The Coordinator calls
// this at each phase barrier (spec.md §5: "all visit sends complete before
// any compute step starts"), since an aggregator may otherwise hold a
// dispatched message below its flush threshold indefinitely.
func (r *Router) FlushAll() {
	if r.visitAgg != nil {
		r.visitAgg.FlushAll()
	}
	if r.interactionAgg != nil {
		r.interactionAgg.FlushAll()
	}
}

// Close stops any background aggregator tickers. Call once at shutdown.
func (r *Router) Close() {
	if r.visitAgg != nil {
		r.visitAgg.Stop()
	}
	if r.interactionAgg != nil {
		r.interactionAgg.Stop()
	}
}

// SendVisit delivers v to the location partition dest. Sent during the
// visit phase; may grow the channel's pending backlog beyond bufferHint,
// which blocks the sending goroutine until the receiver starts draining —
// acceptable since draining only starts after all visit sends, per the
// happens-before guarantee in spec.md §5.
func (r *Router) SendVisit(dest ids.PartitionID, v entity.Visit) {
	if r.visitAgg != nil {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(v); err != nil {
			panic(newInvariantError("visit message failed to encode for aggregation", v.PersonID))
		}
		r.visitAgg.Send(dest, buf.Bytes())
		return
	}
	r.visitInbox[dest] <- v
}

// SendInteractions delivers msg to the person partition dest.
func (r *Router) SendInteractions(dest ids.PartitionID, msg InteractionMessage) {
	if r.interactionAgg != nil {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
			panic(newInvariantError("interaction message failed to encode for aggregation", msg.PersonID))
		}
		r.interactionAgg.Send(dest, buf.Bytes())
		return
	}
	r.interactionInbox[dest] <- msg
}

// drainVisits removes every visit currently buffered for partition id
// without blocking, used once all visit-phase senders have completed.
func (r *Router) drainVisits(id ids.PartitionID) []entity.Visit {
	ch := r.visitInbox[id]
	var out []entity.Visit
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}

// drainInteractions removes every interaction message currently buffered
// for partition id without blocking.
func (r *Router) drainInteractions(id ids.PartitionID) []InteractionMessage {
	ch := r.interactionInbox[id]
	var out []InteractionMessage
	for {
		select {
		case m := <-ch:
			out = append(out, m)
		default:
			return out
		}
	}
}
