package trainers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flaree/pokecord-bot-discord/internal/domain/trainer"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

// TrainerData is the serialized form of a trainer state in Redis. The
// pokedex map is keyed by stringified species id because JSON objects only
// take string keys.
type TrainerData struct {
	OwnerID      string         `json:"owner_id"`
	HasStarter   bool           `json:"has_starter"`
	SelectedSlot int            `json:"pokeid"`
	LastProgress time.Time      `json:"timestamp"`
	Silence      bool           `json:"silence"`
	Locale       string         `json:"locale,omitempty"`
	Pokedex      map[string]int `json:"pokeids,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// redisRepo implements Repository using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed trainer repository
func NewRedisRepository(client redis.UniversalClient) Repository {
	if client == nil {
		panic("Redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

// key generates the Redis key for a trainer state
func (r *redisRepo) key(ownerID string) string {
	return fmt.Sprintf("trainer:%s:state", ownerID)
}

// Get returns the owner's state, or defaults if none is stored
func (r *redisRepo) Get(ctx context.Context, ownerID string) (*trainer.State, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(ownerID)).Result()
	if err == redis.Nil {
		return trainer.Defaults(ownerID), nil
	}
	if err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to get trainer state")
	}

	var data TrainerData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to unmarshal trainer state")
	}

	return fromTrainerData(&data)
}

// Save stores the owner's state
func (r *redisRepo) Save(ctx context.Context, state *trainer.State) error {
	if state == nil {
		return pokerr.InvalidArgument("state cannot be nil")
	}
	if state.OwnerID == "" {
		return pokerr.InvalidArgument("owner ID is required")
	}

	data := toTrainerData(state)
	data.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to marshal trainer state")
	}

	if err := r.client.Set(ctx, r.key(state.OwnerID), jsonData, 0).Err(); err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to save trainer state")
	}
	return nil
}

func toTrainerData(state *trainer.State) *TrainerData {
	dex := make(map[string]int, len(state.Pokedex))
	for id, count := range state.Pokedex {
		dex[strconv.Itoa(id)] = count
	}
	return &TrainerData{
		OwnerID:      state.OwnerID,
		HasStarter:   state.HasStarter,
		SelectedSlot: state.SelectedSlot,
		LastProgress: state.LastProgress,
		Silence:      state.Silence,
		Locale:       state.Locale,
		Pokedex:      dex,
	}
}

func fromTrainerData(data *TrainerData) (*trainer.State, error) {
	dex := make(map[int]int, len(data.Pokedex))
	for idStr, count := range data.Pokedex {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, pokerr.Internalf("corrupt pokedex key %q", idStr)
		}
		dex[id] = count
	}

	state := &trainer.State{
		OwnerID:      data.OwnerID,
		HasStarter:   data.HasStarter,
		SelectedSlot: data.SelectedSlot,
		LastProgress: data.LastProgress,
		Silence:      data.Silence,
		Locale:       data.Locale,
		Pokedex:      dex,
	}
	if state.SelectedSlot < 1 {
		state.SelectedSlot = 1
	}
	return state, nil
}
