package dice

import (
	"fmt"
	"sync"
)

// MockRoller implements Roller for testing with predetermined results.
// Between pops the next pinned int, Chance and WeightedIndex pop pinned
// bools/indexes from their own queues.
type MockRoller struct {
	mu           sync.Mutex
	rolls        []int
	rollIndex    int
	indexes      []int
	indexIndex   int
	chances      []bool
	chancesIndex int
}

// NewMockRoller creates a new mock roller
func NewMockRoller() *MockRoller {
	return &MockRoller{}
}

// SetRolls sets the results returned by Between, in order
func (m *MockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// SetNextRoll appends a single Between result
func (m *MockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetWeightedIndexes sets the results returned by WeightedIndex, in order
func (m *MockRoller) SetWeightedIndexes(indexes []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes = indexes
	m.indexIndex = 0
}

// SetChances sets the results returned by Chance, in order
func (m *MockRoller) SetChances(chances []bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chances = chances
	m.chancesIndex = 0
}

// Reset clears all pinned results
func (m *MockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = nil
	m.rollIndex = 0
	m.indexes = nil
	m.indexIndex = 0
	m.chances = nil
	m.chancesIndex = 0
}

// Between implements Roller.Between
func (m *MockRoller) Between(min, max int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++

	if roll < min || roll > max {
		return 0, fmt.Errorf("predetermined roll %d outside [%d, %d]", roll, min, max)
	}
	return roll, nil
}

// WeightedIndex implements Roller.WeightedIndex
func (m *MockRoller) WeightedIndex(weights []float64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexIndex >= len(m.indexes) {
		return 0, fmt.Errorf("no more predetermined indexes available (used %d of %d)", m.indexIndex, len(m.indexes))
	}

	idx := m.indexes[m.indexIndex]
	m.indexIndex++

	if idx < 0 || idx >= len(weights) {
		return 0, fmt.Errorf("predetermined index %d outside weight slice of len %d", idx, len(weights))
	}
	return idx, nil
}

// Chance implements Roller.Chance
func (m *MockRoller) Chance(p float64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.chancesIndex >= len(m.chances) {
		return false, fmt.Errorf("no more predetermined chances available (used %d of %d)", m.chancesIndex, len(m.chances))
	}

	res := m.chances[m.chancesIndex]
	m.chancesIndex++
	return res, nil
}
