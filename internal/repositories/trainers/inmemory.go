package trainers

import (
	"context"
	"sync"

	"github.com/flaree/pokecord-bot-discord/internal/domain/trainer"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the trainer repository
type InMemoryRepository struct {
	mu     sync.RWMutex
	states map[string]*trainer.State
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		states: make(map[string]*trainer.State),
	}
}

// Get returns the owner's state, or defaults if none is stored
func (r *InMemoryRepository) Get(ctx context.Context, ownerID string) (*trainer.State, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.states[ownerID]
	if !exists {
		return trainer.Defaults(ownerID), nil
	}
	return state.Clone(), nil
}

// Save stores the owner's state
func (r *InMemoryRepository) Save(ctx context.Context, state *trainer.State) error {
	if state == nil {
		return pokerr.InvalidArgument("state cannot be nil")
	}
	if state.OwnerID == "" {
		return pokerr.InvalidArgument("owner ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state.OwnerID] = state.Clone()
	return nil
}
