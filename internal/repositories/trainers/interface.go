package trainers

//go:generate mockgen -destination=mock/mock.go -package=mocktrainers -source=interface.go

import (
	"context"

	"github.com/flaree/pokecord-bot-discord/internal/domain/trainer"
)

// Repository persists the per-owner progress record. Get never fails on a
// missing owner: an owner who has never played gets the defaults.
type Repository interface {
	// Get returns the owner's state, or defaults if none is stored
	Get(ctx context.Context, ownerID string) (*trainer.State, error)

	// Save stores the owner's state
	Save(ctx context.Context, state *trainer.State) error
}
