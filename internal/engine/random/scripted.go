package random

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// Scripted replays a fixed sequence of values. Each value is clamped into [1, size] of the
// die it is used for. When the script runs out it starts again from the beginning.
type Scripted struct {
	mu     sync.Mutex
	values []int
	next   int
	sizes  []int
}

var _ dice.Roller = (*Scripted)(nil)

// NewScripted creates a roller that returns values in order
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// Fixed creates a roller that always returns value
func Fixed(value int) *Scripted {
	return NewScripted(value)
}

// Roll returns the next scripted value for a die of size
func (s *Scripted) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size: %d", size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.take(size), nil
}

// RollN returns count scripted values for dice of size
func (s *Scripted) RollN(count, size int) ([]int, error) {
	if count <= 0 || size <= 0 {
		return nil, fmt.Errorf("invalid roll: %dd%d", count, size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, count)
	for i := range out {
		out[i] = s.take(size)
	}
	return out, nil
}

// Sizes returns the die sizes requested so far
func (s *Scripted) Sizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.sizes...)
}

func (s *Scripted) take(size int) int {
	s.sizes = append(s.sizes, size)
	if len(s.values) == 0 {
		return 1
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	switch {
	case v < 1:
		return 1
	case v > size:
		return size
	default:
		return v
	}
}
