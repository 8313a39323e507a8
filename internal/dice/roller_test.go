package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomRoller_Between(t *testing.T) {
	r := NewRandomRoller()

	for i := 0; i < 100; i++ {
		n, err := r.Between(1, 13)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 13)
	}

	// Degenerate range always returns its single value
	n, err := r.Between(7, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = r.Between(5, 1)
	assert.Error(t, err)
}

func TestRandomRoller_WeightedIndex(t *testing.T) {
	r := NewRandomRoller()

	t.Run("single weight always wins", func(t *testing.T) {
		idx, err := r.WeightedIndex([]float64{1.5})
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("zero weights never picked", func(t *testing.T) {
		weights := []float64{0, 0.8, 0}
		for i := 0; i < 50; i++ {
			idx, err := r.WeightedIndex(weights)
			require.NoError(t, err)
			assert.Equal(t, 1, idx)
		}
	})

	t.Run("heavy weight dominates", func(t *testing.T) {
		weights := []float64{0.001, 1000}
		hits := 0
		for i := 0; i < 200; i++ {
			idx, err := r.WeightedIndex(weights)
			require.NoError(t, err)
			if idx == 1 {
				hits++
			}
		}
		assert.Greater(t, hits, 190)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := r.WeightedIndex(nil)
		assert.Error(t, err)
		_, err = r.WeightedIndex([]float64{0, 0})
		assert.Error(t, err)
		_, err = r.WeightedIndex([]float64{1, -1})
		assert.Error(t, err)
	})
}

func TestRandomRoller_Chance(t *testing.T) {
	r := NewRandomRoller()

	always, err := r.Chance(1)
	require.NoError(t, err)
	assert.True(t, always)

	never, err := r.Chance(0)
	require.NoError(t, err)
	assert.False(t, never)

	_, err = r.Chance(1.5)
	assert.Error(t, err)
}

func TestMockRoller(t *testing.T) {
	m := NewMockRoller()
	m.SetRolls([]int{5, 13})
	m.SetWeightedIndexes([]int{1})
	m.SetChances([]bool{true})

	n, err := m.Between(1, 13)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = m.Between(1, 13)
	require.NoError(t, err)
	assert.Equal(t, 13, n)

	// Queue exhausted
	_, err = m.Between(1, 13)
	assert.Error(t, err)

	idx, err := m.WeightedIndex([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	ok, err := m.Chance(0.5)
	require.NoError(t, err)
	assert.True(t, ok)

	// Out-of-range pinned roll is a test bug, surfaced loudly
	m.SetRolls([]int{50})
	_, err = m.Between(0, 31)
	assert.Error(t, err)
}
