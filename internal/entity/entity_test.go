package entity

import "testing"

func TestSplitAtMidnight(t *testing.T) {
	v := Visit{LocationID: 3, PersonID: 7, VisitStartSec: 86000, VisitEndSec: 87000}
	parts := SplitAtMidnight(v)
	if len(parts) != 2 {
		t.Fatalf("expected visit crossing midnight to split into 2, got %d", len(parts))
	}
	if parts[0].VisitStartSec != 86000 || parts[0].VisitEndSec != 86400 {
		t.Errorf("first part = [%d, %d), want [86000, 86400)", parts[0].VisitStartSec, parts[0].VisitEndSec)
	}
	if parts[1].VisitStartSec != 0 || parts[1].VisitEndSec != 600 {
		t.Errorf("second part = [%d, %d), want [0, 600)", parts[1].VisitStartSec, parts[1].VisitEndSec)
	}
}

func TestSplitAtMidnightNoOp(t *testing.T) {
	v := Visit{VisitStartSec: 0, VisitEndSec: 3600}
	parts := SplitAtMidnight(v)
	if len(parts) != 1 || parts[0] != v {
		t.Errorf("expected a same-day visit to pass through unchanged, got %v", parts)
	}
}

func TestEventTotalOrder(t *testing.T) {
	departure := Event{Type: Departure, ScheduledTime: 100, PersonID: 5}
	arrival := Event{Type: Arrival, ScheduledTime: 100, PersonID: 1}
	if !Less(departure, arrival) {
		t.Errorf("expected departures to sort before arrivals at equal time")
	}
	if Less(arrival, departure) {
		t.Errorf("Less should not be symmetric here")
	}
}

func TestVisitFilterIdempotentInstall(t *testing.T) {
	loc := NewLocation(1, Attributes{}, nil)
	rejectAll := func(Visit) bool { return true }
	loc.InstallFilter(9, rejectAll)
	loc.InstallFilter(9, rejectAll)
	if !loc.VisitRejected(Visit{}) {
		t.Errorf("expected installed filter to reject visits")
	}
	loc.RevertFilter(9)
	if loc.VisitRejected(Visit{}) {
		t.Errorf("expected reverted filter to stop rejecting visits")
	}
}
