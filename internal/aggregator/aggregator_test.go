package aggregator

import (
	"sync"
	"testing"
	"time"

	"github.com/kentwait/loimos/internal/ids"
)

func TestSendPassesThroughWhenDisabled(t *testing.T) {
	var mu sync.Mutex
	var got [][]byte
	a := New(Config{Use: false}, func(dest ids.PartitionID, batch [][]byte) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, batch...)
	})
	a.Send(1, []byte("hello"))
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || string(got[0]) != "hello" {
		t.Errorf("expected disabled aggregator to flush every send immediately, got %v", got)
	}
}

func TestSendFlushesOnBufferSize(t *testing.T) {
	var mu sync.Mutex
	flushes := 0
	a := New(Config{Use: true, BufferSize: 10}, func(dest ids.PartitionID, batch [][]byte) {
		mu.Lock()
		defer mu.Unlock()
		flushes++
	})
	a.Send(1, make([]byte, 4))
	a.Send(1, make([]byte, 4))
	mu.Lock()
	if flushes != 0 {
		t.Errorf("expected no flush before buffer_size is reached, got %d flushes", flushes)
	}
	mu.Unlock()
	a.Send(1, make([]byte, 4)) // 12 bytes total, crosses buffer_size=10
	mu.Lock()
	defer mu.Unlock()
	if flushes != 1 {
		t.Errorf("expected exactly one flush once buffer_size is crossed, got %d", flushes)
	}
}

func TestBucketsAreIndependentPerDestination(t *testing.T) {
	var mu sync.Mutex
	flushedDest := map[ids.PartitionID]int{}
	a := New(Config{Use: true, BufferSize: 10}, func(dest ids.PartitionID, batch [][]byte) {
		mu.Lock()
		defer mu.Unlock()
		flushedDest[dest]++
	})
	a.Send(1, make([]byte, 11))
	a.Send(2, make([]byte, 4))
	mu.Lock()
	defer mu.Unlock()
	if flushedDest[1] != 1 {
		t.Errorf("expected destination 1 to flush on crossing buffer_size, got %d", flushedDest[1])
	}
	if flushedDest[2] != 0 {
		t.Errorf("expected destination 2's small buffer to remain unflushed, got %d", flushedDest[2])
	}
}

func TestFlushAllDrainsEveryBucket(t *testing.T) {
	var mu sync.Mutex
	flushed := map[ids.PartitionID][][]byte{}
	a := New(Config{Use: true, BufferSize: 1000}, func(dest ids.PartitionID, batch [][]byte) {
		mu.Lock()
		defer mu.Unlock()
		flushed[dest] = batch
	})
	a.Send(1, []byte("a"))
	a.Send(2, []byte("b"))
	a.FlushAll()
	mu.Lock()
	defer mu.Unlock()
	if len(flushed[1]) != 1 || len(flushed[2]) != 1 {
		t.Errorf("expected FlushAll to drain both destinations, got %v", flushed)
	}
}

func TestPeriodicTickFlushesExpiredBuckets(t *testing.T) {
	var mu sync.Mutex
	flushes := 0
	a := New(Config{Use: true, BufferSize: 1 << 30, FlushPeriod: 10 * time.Millisecond}, func(dest ids.PartitionID, batch [][]byte) {
		mu.Lock()
		defer mu.Unlock()
		flushes++
	})
	a.Start()
	a.Send(1, []byte("x"))
	time.Sleep(60 * time.Millisecond)
	a.Stop()

	mu.Lock()
	defer mu.Unlock()
	if flushes == 0 {
		t.Errorf("expected the periodic tick to flush the expired bucket")
	}
}
