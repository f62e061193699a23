// Package sample holds the only sources of randomness used by the engine.
package sample

import (
	"math/rand/v2"
)

// Source is a uniform generator over [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded PCG generator.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Index draws a uniform index in [0,n). n must be positive.
func Index(src Source, n int) int {
	i := int(src.Float64() * float64(n))
	if i >= n {
		// guards against a misbehaving source returning 1.0
		i = n - 1
	}
	return i
}

// Pick returns a uniformly chosen element, or false when items is empty.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[Index(src, len(items))], true
}

// Shuffle returns a Fisher-Yates shuffled copy of items.
func Shuffle[T any](src Source, items []T) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := Index(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sequence replays fixed draws in order and wraps around. Used for seeded tests.
type Sequence struct {
	Values []float64
	pos    int
}

func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

// Draws reports how many values have been consumed.
func (s *Sequence) Draws() int { return s.pos }
