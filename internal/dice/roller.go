package dice

// Roller provides an interface for the game's random draws
// This allows us to inject different implementations for testing
type Roller interface {
	// Between rolls a uniform integer in [min, max] inclusive
	Between(min, max int) (int, error)

	// WeightedIndex picks an index with probability proportional to its weight
	WeightedIndex(weights []float64) (int, error)

	// Chance returns true with probability p in [0, 1]
	Chance(p float64) (bool, error)
}
