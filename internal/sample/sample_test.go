package sample

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPick_Empty(t *testing.T) {
	_, ok := Pick[string](&Sequence{Values: []float64{0.5}}, nil)
	assert.False(t, ok)
}

func TestPick_UsesFloor(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	cases := []struct {
		draw float64
		want string
	}{
		{0, "a"},
		{0.24, "a"},
		{0.25, "b"},
		{0.74, "c"},
		{0.999, "d"},
		{1.0, "d"},
	}
	for _, tc := range cases {
		got, ok := Pick(&Sequence{Values: []float64{tc.draw}}, items)
		require.True(t, ok)
		assert.Equal(t, tc.want, got, "draw %v", tc.draw)
	}
}

func TestShuffle_IsPermutationAndLeavesInputAlone(t *testing.T) {
	in := []string{"A", "B", "C", "D", "E"}
	out := Shuffle(NewSource(7), in)

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, in)
	sorted := append([]string(nil), out...)
	sort.Strings(sorted)
	assert.Equal(t, in, sorted)
}

func TestShuffle_AllZeroDrawsRotate(t *testing.T) {
	// j is always 0, so every step swaps position i with the front.
	out := Shuffle(&Sequence{Values: []float64{0}}, []int{1, 2, 3, 4})
	assert.Equal(t, []int{2, 3, 4, 1}, out)
}

func TestShuffle_HighDrawsKeepOrder(t *testing.T) {
	out := Shuffle(&Sequence{Values: []float64{0.999}}, []int{1, 2, 3, 4})
	assert.Equal(t, []int{1, 2, 3, 4}, out)
}

func TestNewSource_Deterministic(t *testing.T) {
	a, b := NewSource(42), NewSource(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSequence_Wraps(t *testing.T) {
	s := &Sequence{Values: []float64{0.1, 0.2}}
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.2, s.Float64())
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 3, s.Draws())
}
