package sim

import (
	"testing"
	"time"

	"github.com/kentwait/loimos/internal/aggregator"
	"github.com/kentwait/loimos/internal/entity"
	"github.com/kentwait/loimos/internal/ids"
)

func TestRouterDirectSendAndDrain(t *testing.T) {
	r := NewRouter(1, 1, 4)
	v := entity.Visit{LocationID: 0, PersonID: 7, VisitStartSec: 100, VisitEndSec: 200}
	r.SendVisit(0, v)

	got := r.drainVisits(0)
	if len(got) != 1 || got[0] != v {
		t.Fatalf("drainVisits = %+v, want [%+v]", got, v)
	}
}

func TestRouterAggregatedSendRequiresFlush(t *testing.T) {
	r := NewRouter(1, 1, 4)
	// Large buffer size and long flush period: nothing should reach the
	// destination channel until FlushAll is called explicitly.
	cfg := aggregator.Config{Use: true, BufferSize: 1 << 20, Threshold: 1, FlushPeriod: time.Hour}
	r.EnableAggregation(cfg, cfg)
	defer r.Close()

	v := entity.Visit{LocationID: 0, PersonID: 3, VisitStartSec: 10, VisitEndSec: 20}
	r.SendVisit(0, v)

	if got := r.drainVisits(0); len(got) != 0 {
		t.Fatalf("drainVisits before FlushAll = %+v, want none", got)
	}

	r.FlushAll()

	got := r.drainVisits(0)
	if len(got) != 1 || got[0] != v {
		t.Fatalf("drainVisits after FlushAll = %+v, want [%+v]", got, v)
	}
}

func TestRouterAggregatedInteractionsRoundtrip(t *testing.T) {
	r := NewRouter(1, 1, 4)
	cfg := aggregator.Config{Use: true, BufferSize: 1 << 20, Threshold: 1, FlushPeriod: time.Hour}
	r.EnableAggregation(cfg, cfg)
	defer r.Close()

	msg := InteractionMessage{
		PersonID: ids.GlobalID(5),
		Interactions: []entity.Interaction{
			{Propensity: 0.5, InfectiousID: 1, StartTime: 0, EndTime: 100},
		},
	}
	r.SendInteractions(0, msg)
	r.FlushAll()

	got := r.drainInteractions(0)
	if len(got) != 1 {
		t.Fatalf("got %d interaction messages, want 1", len(got))
	}
	if got[0].PersonID != msg.PersonID || len(got[0].Interactions) != 1 || got[0].Interactions[0] != msg.Interactions[0] {
		t.Errorf("drainInteractions = %+v, want %+v", got[0], msg)
	}
}
