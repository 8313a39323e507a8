package settings

import (
	"context"
	"sync"
)

// Cache is a read-through cache over a settings Repository. Every message
// the bot sees consults guild settings, so reads come from memory; writes go
// through to the backing store and invalidate the cached entry.
//
// Refresh contract: a cached entry is dropped on every Save through this
// cache and on explicit Invalidate. Writes that bypass the cache (another
// process) are not observed until then.
type Cache struct {
	repo Repository

	mu      sync.RWMutex
	entries map[string]*GuildSettings
}

// NewCache creates a read-through cache over the given repository
func NewCache(repo Repository) *Cache {
	if repo == nil {
		panic("settings repository cannot be nil")
	}
	return &Cache{
		repo:    repo,
		entries: make(map[string]*GuildSettings),
	}
}

// Get returns the guild's settings, loading them on a cache miss. Callers
// get their own copy; mutate it and Save, the cached entry is untouched.
func (c *Cache) Get(ctx context.Context, guildID string) (*GuildSettings, error) {
	c.mu.RLock()
	cached, ok := c.entries[guildID]
	c.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	loaded, err := c.repo.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[guildID] = loaded
	c.mu.Unlock()
	return loaded.Clone(), nil
}

// Save writes through to the repository and invalidates the cached entry
func (c *Cache) Save(ctx context.Context, settings *GuildSettings) error {
	if err := c.repo.Save(ctx, settings); err != nil {
		return err
	}
	c.Invalidate(settings.GuildID)
	return nil
}

// Invalidate drops the cached entry for a guild
func (c *Cache) Invalidate(guildID string) {
	c.mu.Lock()
	delete(c.entries, guildID)
	c.mu.Unlock()
}
