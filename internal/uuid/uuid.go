// uuid generates acquisition ids behind an interface so tests can pin them
package uuid

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator is an interface for generating unique ids
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements the Generator interface using Google's UUID package
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// SequenceGenerator hands out predictable ids ("id-1", "id-2", ...) so tests
// can assert on acquisition ids
type SequenceGenerator struct {
	mu sync.Mutex
	n  int
}

// New returns the next id in the sequence
func (g *SequenceGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// NewSequenceGenerator creates a new SequenceGenerator starting at id-1
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}
