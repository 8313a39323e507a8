package pokemon

//go:generate mockgen -destination=mock/mock.go -package=mockpokemon -source=interface.go

import (
	"context"

	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
)

// Repository is the collection store: one row per owned pokemon, keyed by
// acquisition id, listed per owner in acquisition order. Slot numbers are
// always derived by indexing 1-based into ListByOwner's result, never stored.
//
// Writes for a single owner are serialized by the caller; the repository only
// guarantees safety for concurrent readers.
type Repository interface {
	// Insert stores a new instance and returns its acquisition id.
	// An empty instance ID is filled in from the id generator.
	Insert(ctx context.Context, instance *pokemon.Instance) (string, error)

	// ListByOwner returns the owner's pokemon in acquisition order
	ListByOwner(ctx context.Context, ownerID string) ([]*pokemon.Instance, error)

	// GetBySlot returns the instance at the 1-based slot, recomputed from
	// the current listing
	GetBySlot(ctx context.Context, ownerID string, slot int) (*pokemon.Instance, error)

	// Update upserts an instance under its acquisition id
	Update(ctx context.Context, instance *pokemon.Instance) error

	// Delete removes an instance by acquisition id
	Delete(ctx context.Context, acquisitionID string) error
}
