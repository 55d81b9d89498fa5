// Package partition implements the bidirectional mapping between an
// entity's global id and its (partition, local index) home, either from an
// explicit offsets table or from a uniform stride.
package partition

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/ids"
)

// Partitioner is the contract shared by the explicit-offsets and uniform
// stride partitioning schemes. All four methods are pure functions of the
// offsets table and are safe to call concurrently from every partition.
type Partitioner interface {
	// PartitionOf returns the id of the partition that owns globalID.
	PartitionOf(globalID ids.GlobalID) (ids.PartitionID, error)
	// LocalIndex returns globalID's position within partitionID's slice.
	LocalIndex(globalID ids.GlobalID, partitionID ids.PartitionID) (ids.LocalIndex, error)
	// GlobalID returns the global id of the entity at localIndex within
	// partitionID's slice.
	GlobalID(localIndex ids.LocalIndex, partitionID ids.PartitionID) (ids.GlobalID, error)
	// SizeOf returns the number of entities owned by partitionID.
	SizeOf(partitionID ids.PartitionID) (int, error)
	// NumPartitions returns the number of partitions in this collective.
	NumPartitions() int
}

// offsetPartitioner backs Partitioner with an explicit, monotonic
// non-decreasing offsets table: partition p owns global ids
// [offsets[p], offsets[p+1]).
type offsetPartitioner struct {
	offsets []ids.GlobalID
}

// NewExplicit builds a Partitioner from a sorted offsets vector of length
// numPartitions+1. offsets must be monotonic non-decreasing; a size-0
// partition (offsets[p] == offsets[p+1]) is allowed.
func NewExplicit(offsets []ids.GlobalID) (Partitioner, error) {
	if len(offsets) < 2 {
		return nil, errors.Errorf("partitioner: offsets table needs at least 2 entries, got %d", len(offsets))
	}
	for p := 1; p < len(offsets); p++ {
		if offsets[p] < offsets[p-1] {
			return nil, errors.Errorf("partitioner: offsets not monotonic non-decreasing at index %d: %d < %d", p, offsets[p], offsets[p-1])
		}
	}
	return &offsetPartitioner{offsets: offsets}, nil
}

// NewStride builds a Partitioner that divides numEntities as evenly as
// possible across numPartitions, with any remainder distributed one-per
// partition starting from partition 0.
func NewStride(numEntities int, numPartitions int) (Partitioner, error) {
	if numPartitions <= 0 {
		return nil, errors.Errorf("partitioner: numPartitions must be positive, got %d", numPartitions)
	}
	if numEntities < 0 {
		return nil, errors.Errorf("partitioner: numEntities must be non-negative, got %d", numEntities)
	}
	base := numEntities / numPartitions
	extra := numEntities % numPartitions
	offsets := make([]ids.GlobalID, numPartitions+1)
	cur := ids.GlobalID(0)
	for p := 0; p < numPartitions; p++ {
		offsets[p] = cur
		size := base
		if p < extra {
			size++
		}
		cur += ids.GlobalID(size)
	}
	offsets[numPartitions] = cur
	return &offsetPartitioner{offsets: offsets}, nil
}

func (o *offsetPartitioner) NumPartitions() int {
	return len(o.offsets) - 1
}

// PartitionOf returns upper_bound(offsets, id) - 1, i.e. the partition whose
// half-open range contains globalID.
func (o *offsetPartitioner) PartitionOf(globalID ids.GlobalID) (ids.PartitionID, error) {
	if globalID < o.offsets[0] || globalID >= o.offsets[len(o.offsets)-1] {
		return 0, errors.Errorf("partitioner: global id %d out of range [%d, %d)", globalID, o.offsets[0], o.offsets[len(o.offsets)-1])
	}
	// upper_bound: first offset strictly greater than globalID.
	idx := sort.Search(len(o.offsets), func(i int) bool {
		return o.offsets[i] > globalID
	})
	return ids.PartitionID(idx - 1), nil
}

func (o *offsetPartitioner) LocalIndex(globalID ids.GlobalID, partitionID ids.PartitionID) (ids.LocalIndex, error) {
	if err := o.checkPartition(partitionID); err != nil {
		return 0, err
	}
	lo, hi := o.offsets[partitionID], o.offsets[partitionID+1]
	if globalID < lo || globalID >= hi {
		return 0, errors.Errorf("partitioner: global id %d not owned by partition %d [%d, %d)", globalID, partitionID, lo, hi)
	}
	return ids.LocalIndex(globalID - lo), nil
}

func (o *offsetPartitioner) GlobalID(localIndex ids.LocalIndex, partitionID ids.PartitionID) (ids.GlobalID, error) {
	if err := o.checkPartition(partitionID); err != nil {
		return 0, err
	}
	lo, hi := o.offsets[partitionID], o.offsets[partitionID+1]
	g := lo + ids.GlobalID(localIndex)
	if g < lo || g >= hi {
		return 0, errors.Errorf("partitioner: local index %d out of range for partition %d (size %d)", localIndex, partitionID, hi-lo)
	}
	return g, nil
}

func (o *offsetPartitioner) SizeOf(partitionID ids.PartitionID) (int, error) {
	if err := o.checkPartition(partitionID); err != nil {
		return 0, err
	}
	return int(o.offsets[partitionID+1] - o.offsets[partitionID]), nil
}

func (o *offsetPartitioner) checkPartition(partitionID ids.PartitionID) error {
	if partitionID < 0 || int(partitionID) >= o.NumPartitions() {
		return errors.Errorf("partitioner: partition id %d out of range [0, %d)", partitionID, o.NumPartitions())
	}
	return nil
}
