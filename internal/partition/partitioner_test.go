package partition

import (
	"testing"

	"github.com/kentwait/loimos/internal/ids"
)

func TestExplicitPartitionOf(t *testing.T) {
	offsets := []ids.GlobalID{0, 3, 3, 7, 10}
	p, err := NewExplicit(offsets)
	if err != nil {
		t.Fatalf("unexpected error building partitioner: %s", err)
	}

	cases := []struct {
		id   ids.GlobalID
		want ids.PartitionID
	}{
		{0, 0}, {2, 0}, {3, 2}, {4, 2}, {6, 2}, {7, 3}, {9, 3},
	}
	for _, c := range cases {
		got, err := p.PartitionOf(c.id)
		if err != nil {
			t.Errorf("PartitionOf(%d): unexpected error %s", c.id, err)
			continue
		}
		if got != c.want {
			t.Errorf("PartitionOf(%d) = %d, want %d", c.id, got, c.want)
		}
	}

	if size, err := p.SizeOf(1); err != nil || size != 0 {
		t.Errorf("SizeOf(1) = %d, %v, want 0, nil", size, err)
	}

	if _, err := p.PartitionOf(10); err == nil {
		t.Errorf("PartitionOf(10): expected out-of-range error, got none")
	}
}

func TestRoundtrip(t *testing.T) {
	offsets := []ids.GlobalID{0, 3, 3, 7, 10}
	p, err := NewExplicit(offsets)
	if err != nil {
		t.Fatalf("unexpected error building partitioner: %s", err)
	}
	for g := ids.GlobalID(0); g < 10; g++ {
		part, err := p.PartitionOf(g)
		if err != nil {
			t.Fatalf("PartitionOf(%d): %s", g, err)
		}
		local, err := p.LocalIndex(g, part)
		if err != nil {
			t.Fatalf("LocalIndex(%d, %d): %s", g, part, err)
		}
		back, err := p.GlobalID(local, part)
		if err != nil {
			t.Fatalf("GlobalID(%d, %d): %s", local, part, err)
		}
		if back != g {
			t.Errorf("roundtrip(%d) = %d, want %d", g, back, g)
		}
	}
}

func TestStrideDistributesRemainder(t *testing.T) {
	p, err := NewStride(10, 3)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	sizes := make([]int, 3)
	for part := 0; part < 3; part++ {
		sizes[part], err = p.SizeOf(ids.PartitionID(part))
		if err != nil {
			t.Fatalf("SizeOf(%d): %s", part, err)
		}
	}
	total := sizes[0] + sizes[1] + sizes[2]
	if total != 10 {
		t.Errorf("sizes sum to %d, want 10", total)
	}
	if sizes[0] < sizes[1] || sizes[1] < sizes[2] {
		t.Errorf("expected non-increasing partition sizes for remainder distribution, got %v", sizes)
	}
}

func TestStrideRejectsNonPositivePartitions(t *testing.T) {
	if _, err := NewStride(10, 0); err == nil {
		t.Errorf("expected error for zero partitions, got none")
	}
}
