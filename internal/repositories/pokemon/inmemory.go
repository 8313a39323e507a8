package pokemon

import (
	"context"
	"sync"

	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/uuid"
)

// InMemoryRepository is an in-memory implementation of the collection store.
// Useful for testing and development.
type InMemoryRepository struct {
	mu            sync.RWMutex
	rows          map[string]*pokemon.Instance
	ownerOrder    map[string][]string
	uuidGenerator uuid.Generator
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		rows:          make(map[string]*pokemon.Instance),
		ownerOrder:    make(map[string][]string),
		uuidGenerator: uuid.NewGoogleUUIDGenerator(),
	}
}

// NewInMemoryRepositoryWithGenerator creates an in-memory repository with a
// pinned id generator for tests
func NewInMemoryRepositoryWithGenerator(gen uuid.Generator) *InMemoryRepository {
	repo := NewInMemoryRepository()
	repo.uuidGenerator = gen
	return repo
}

// Insert stores a new instance
func (r *InMemoryRepository) Insert(ctx context.Context, instance *pokemon.Instance) (string, error) {
	if instance == nil {
		return "", pokerr.InvalidArgument("instance cannot be nil")
	}
	if instance.OwnerID == "" {
		return "", pokerr.InvalidArgument("instance owner ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if instance.ID == "" {
		instance.ID = r.uuidGenerator.New()
	}
	if _, exists := r.rows[instance.ID]; exists {
		return "", pokerr.AlreadyExistsf("pokemon with acquisition id '%s' already exists", instance.ID).
			WithMeta("acquisition_id", instance.ID)
	}

	r.rows[instance.ID] = instance.Clone()
	r.ownerOrder[instance.OwnerID] = append(r.ownerOrder[instance.OwnerID], instance.ID)
	return instance.ID, nil
}

// ListByOwner returns the owner's pokemon in acquisition order
func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*pokemon.Instance, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.ownerOrder[ownerID]
	result := make([]*pokemon.Instance, 0, len(ids))
	for _, id := range ids {
		if inst, ok := r.rows[id]; ok {
			result = append(result, inst.Clone())
		}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

// GetBySlot returns the instance at the 1-based slot
func (r *InMemoryRepository) GetBySlot(ctx context.Context, ownerID string, slot int) (*pokemon.Instance, error) {
	if slot <= 0 {
		return nil, pokerr.InvalidArgumentf("slot must be greater than 0, got %d", slot)
	}

	instances, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if slot > len(instances) {
		return nil, pokerr.NotFoundf("no pokemon at slot %d", slot).
			WithMeta("slot", slot).
			WithMeta("collection_size", len(instances))
	}
	return instances[slot-1], nil
}

// Update upserts an instance under its acquisition id
func (r *InMemoryRepository) Update(ctx context.Context, instance *pokemon.Instance) error {
	if instance == nil {
		return pokerr.InvalidArgument("instance cannot be nil")
	}
	if instance.ID == "" {
		return pokerr.InvalidArgument("acquisition id is required")
	}
	if instance.OwnerID == "" {
		return pokerr.InvalidArgument("instance owner ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rows[instance.ID]; !exists {
		r.ownerOrder[instance.OwnerID] = append(r.ownerOrder[instance.OwnerID], instance.ID)
	}
	r.rows[instance.ID] = instance.Clone()
	return nil
}

// Delete removes an instance by acquisition id
func (r *InMemoryRepository) Delete(ctx context.Context, acquisitionID string) error {
	if acquisitionID == "" {
		return pokerr.InvalidArgument("acquisition id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inst, exists := r.rows[acquisitionID]
	if !exists {
		return pokerr.NotFoundf("pokemon with acquisition id '%s' not found", acquisitionID).
			WithMeta("acquisition_id", acquisitionID)
	}

	delete(r.rows, acquisitionID)
	order := r.ownerOrder[inst.OwnerID]
	for i, id := range order {
		if id == acquisitionID {
			r.ownerOrder[inst.OwnerID] = append(order[:i:i], order[i+1:]...)
			break
		}
	}
	return nil
}
