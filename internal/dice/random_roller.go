package dice

import (
	"errors"
	"math/rand"
)

// randomRoller implements Roller using math/rand
type randomRoller struct{}

// NewRandomRoller creates a new random roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// Between implements Roller.Between
func (r *randomRoller) Between(min, max int) (int, error) {
	if max < min {
		return 0, errors.New("invalid range")
	}
	return min + rand.Intn(max-min+1), nil
}

// WeightedIndex implements Roller.WeightedIndex
func (r *randomRoller) WeightedIndex(weights []float64) (int, error) {
	if len(weights) == 0 {
		return 0, errors.New("no weights provided")
	}

	var total float64
	for _, w := range weights {
		if w < 0 {
			return 0, errors.New("negative weight")
		}
		total += w
	}
	if total <= 0 {
		return 0, errors.New("weights sum to zero")
	}

	target := rand.Float64() * total
	for i, w := range weights {
		target -= w
		if target < 0 {
			return i, nil
		}
	}

	// Floating point drift can leave target at exactly zero
	return len(weights) - 1, nil
}

// Chance implements Roller.Chance
func (r *randomRoller) Chance(p float64) (bool, error) {
	if p < 0 || p > 1 {
		return false, errors.New("probability out of range")
	}
	return rand.Float64() < p, nil
}
