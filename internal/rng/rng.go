// Package rng derives per-agent random streams from a single global seed so
// that an agent's draws are reproducible regardless of which partition
// happens to host it (spec.md "Determinism").
package rng

import (
	"hash/fnv"
	"math/rand"

	"github.com/kentwait/loimos/internal/ids"
)

// ForAgent returns a *rand.Rand seeded deterministically from globalSeed and
// the agent's global id. Two runs with the same globalSeed and id always
// produce the same stream, independent of partition placement.
func ForAgent(globalSeed int64, id ids.GlobalID) *rand.Rand {
	return rand.New(rand.NewSource(combine(globalSeed, int64(id))))
}

// combine mixes the two seeds with an FNV pass rather than simple XOR so
// that nearby ids (0, 1, 2, ...) don't produce nearby, correlated seeds.
func combine(globalSeed, id int64) int64 {
	h := fnv.New64a()
	var buf [16]byte
	putInt64(buf[0:8], globalSeed)
	putInt64(buf[8:16], id)
	_, _ = h.Write(buf[:])
	return int64(h.Sum64())
}

func putInt64(b []byte, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * uint(i)))
	}
}
