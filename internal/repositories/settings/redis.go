package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

// redisRepo implements Repository using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed settings repository
func NewRedisRepository(client redis.UniversalClient) Repository {
	if client == nil {
		panic("Redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) key(guildID string) string {
	return fmt.Sprintf("guild:%s:settings", guildID)
}

// Get returns the guild's settings, or defaults if none are stored
func (r *redisRepo) Get(ctx context.Context, guildID string) (*GuildSettings, error) {
	if guildID == "" {
		return nil, pokerr.InvalidArgument("guild ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(guildID)).Result()
	if err == redis.Nil {
		return Defaults(guildID), nil
	}
	if err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to get guild settings")
	}

	var settings GuildSettings
	if err := json.Unmarshal([]byte(jsonData), &settings); err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to unmarshal guild settings")
	}
	return &settings, nil
}

// Save stores the guild's settings
func (r *redisRepo) Save(ctx context.Context, settings *GuildSettings) error {
	if settings == nil {
		return pokerr.InvalidArgument("settings cannot be nil")
	}
	if settings.GuildID == "" {
		return pokerr.InvalidArgument("guild ID is required")
	}

	jsonData, err := json.Marshal(settings)
	if err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to marshal guild settings")
	}

	if err := r.client.Set(ctx, r.key(settings.GuildID), jsonData, 0).Err(); err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to save guild settings")
	}
	return nil
}
