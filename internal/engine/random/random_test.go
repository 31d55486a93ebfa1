package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeded_Reproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)

	first, err := a.RollN(50, 20)
	require.NoError(t, err)
	second, err := b.RollN(50, 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for _, v := range first {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 20)
	}
}

func TestSeeded_InvalidInput(t *testing.T) {
	s := NewSeeded(1)
	_, err := s.Roll(0)
	assert.Error(t, err)
	_, err = s.RollN(0, 6)
	assert.Error(t, err)
}

func TestScripted(t *testing.T) {
	s := NewScripted(3, 7, 150)

	v, err := s.Roll(100)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	vals, err := s.RollN(2, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 6}, vals, "values above the die size are clamped")

	v, err = s.Roll(100)
	require.NoError(t, err)
	assert.Equal(t, 3, v, "script wraps around")

	assert.Equal(t, []int{100, 6, 6, 100}, s.Sizes())
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(0))
	_, ok := New(7).(*Seeded)
	assert.True(t, ok)
}
