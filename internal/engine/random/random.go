// Package random provides dice.Roller implementations for the resolution engine.
//
// Production code uses the toolkit's crypto-backed dice.DefaultRoller. The seeded roller
// reproduces the same draws for the same seed, and the scripted roller replays a fixed
// sequence for tests.
package random

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// Seeded is a PCG-backed roller. Draws are serialized by a mutex so concurrent resolutions
// never observe torn generator state.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ dice.Roller = (*Seeded)(nil)

// NewSeeded creates a deterministic roller for seed
func NewSeeded(seed int64) *Seeded {
	// #nosec G404 -- reproducible draws are the point of this roller
	return &Seeded{rng: rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))}
}

// Roll returns a uniform integer in [1, size]
func (s *Seeded) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size: %d", size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(size) + 1, nil
}

// RollN returns count uniform integers in [1, size]
func (s *Seeded) RollN(count, size int) ([]int, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid dice count: %d", count)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid die size: %d", size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, count)
	for i := range out {
		out[i] = s.rng.IntN(size) + 1
	}
	return out, nil
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}

// New returns the toolkit's crypto roller for seed 0, and a seeded roller otherwise
func New(seed int64) dice.Roller {
	if seed == 0 {
		return dice.DefaultRoller
	}
	return NewSeeded(seed)
}
