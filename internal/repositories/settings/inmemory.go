package settings

import (
	"context"
	"sync"

	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the settings repository
type InMemoryRepository struct {
	mu     sync.RWMutex
	guilds map[string]*GuildSettings
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		guilds: make(map[string]*GuildSettings),
	}
}

// Get returns the guild's settings, or defaults if none are stored
func (r *InMemoryRepository) Get(ctx context.Context, guildID string) (*GuildSettings, error) {
	if guildID == "" {
		return nil, pokerr.InvalidArgument("guild ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.guilds[guildID]
	if !exists {
		return Defaults(guildID), nil
	}
	return stored.Clone(), nil
}

// Save stores the guild's settings
func (r *InMemoryRepository) Save(ctx context.Context, settings *GuildSettings) error {
	if settings == nil {
		return pokerr.InvalidArgument("settings cannot be nil")
	}
	if settings.GuildID == "" {
		return pokerr.InvalidArgument("guild ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.guilds[settings.GuildID] = settings.Clone()
	return nil
}
