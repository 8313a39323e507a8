package pokemon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/uuid"
)

// listFetchConcurrency bounds the parallel row fetches when listing an owner
const listFetchConcurrency = 8

// PokemonData is the serialized form of an owned pokemon in Redis
type PokemonData struct {
	AcquisitionID string            `json:"acquisition_id"`
	OwnerID       string            `json:"owner_id"`
	SpeciesID     int               `json:"id"`
	Level         int               `json:"level"`
	XP            int               `json:"xp"`
	Stats         pokemon.StatBlock `json:"stats"`
	IVs           pokemon.StatBlock `json:"ivs"`
	Gender        pokemon.Gender    `json:"gender"`
	Nickname      string            `json:"nickname,omitempty"`
	CaughtAt      time.Time         `json:"caught_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// redisRepo implements Repository using Redis: a JSON row per instance plus a
// per-owner list index that preserves acquisition order
type redisRepo struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
}

// NewRedisRepository creates a new Redis-backed collection store
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.UUIDGenerator == nil {
		cfg.UUIDGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return &redisRepo{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
	}
}

// key generates the Redis key for a pokemon row
func (r *redisRepo) key(acquisitionID string) string {
	return fmt.Sprintf("pokemon:%s", acquisitionID)
}

// ownerKey generates the Redis key for an owner's ordered id list
func (r *redisRepo) ownerKey(ownerID string) string {
	return fmt.Sprintf("trainer:%s:pokemon", ownerID)
}

// Insert stores a new instance and appends it to the owner's list
func (r *redisRepo) Insert(ctx context.Context, instance *pokemon.Instance) (string, error) {
	if instance == nil {
		return "", pokerr.InvalidArgument("instance cannot be nil")
	}
	if instance.OwnerID == "" {
		return "", pokerr.InvalidArgument("instance owner ID is required")
	}
	if instance.ID == "" {
		instance.ID = r.uuidGenerator.New()
	}

	exists, err := r.client.Exists(ctx, r.key(instance.ID)).Result()
	if err != nil {
		return "", pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to check pokemon existence")
	}
	if exists > 0 {
		return "", pokerr.AlreadyExistsf("pokemon with acquisition id '%s' already exists", instance.ID).
			WithMeta("acquisition_id", instance.ID)
	}

	data := r.toData(instance)
	data.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to marshal pokemon")
	}

	// Row and list index written together
	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(instance.ID), jsonData, 0)
	pipe.RPush(ctx, r.ownerKey(instance.OwnerID), instance.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to insert pokemon")
	}

	return instance.ID, nil
}

// ListByOwner returns the owner's pokemon in acquisition order
func (r *redisRepo) ListByOwner(ctx context.Context, ownerID string) ([]*pokemon.Instance, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.LRange(ctx, r.ownerKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to list pokemon ids")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	instances := make([]*pokemon.Instance, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listFetchConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			inst, err := r.get(gctx, id)
			if err != nil {
				return err
			}
			instances[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return instances, nil
}

// GetBySlot returns the instance at the 1-based slot
func (r *redisRepo) GetBySlot(ctx context.Context, ownerID string, slot int) (*pokemon.Instance, error) {
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
func (r *redisRepo) Update(ctx context.Context, instance *pokemon.Instance) error {
	if instance == nil {
		return pokerr.InvalidArgument("instance cannot be nil")
	}
	if instance.ID == "" {
		return pokerr.InvalidArgument("acquisition id is required")
	}
	if instance.OwnerID == "" {
		return pokerr.InvalidArgument("instance owner ID is required")
	}

	exists, err := r.client.Exists(ctx, r.key(instance.ID)).Result()
	if err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to check pokemon existence")
	}

	data := r.toData(instance)
	data.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to marshal pokemon")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(instance.ID), jsonData, 0)
	if exists == 0 {
		// Upsert of an unseen id creates the row and indexes it
		pipe.RPush(ctx, r.ownerKey(instance.OwnerID), instance.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to update pokemon")
	}

	return nil
}

// Delete removes an instance and its list index entry
func (r *redisRepo) Delete(ctx context.Context, acquisitionID string) error {
	if acquisitionID == "" {
		return pokerr.InvalidArgument("acquisition id is required")
	}

	// Need the owner to clean the list index
	inst, err := r.get(ctx, acquisitionID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(acquisitionID))
	pipe.LRem(ctx, r.ownerKey(inst.OwnerID), 1, acquisitionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to delete pokemon")
	}

	return nil
}

// get fetches and decodes a single row
func (r *redisRepo) get(ctx context.Context, acquisitionID string) (*pokemon.Instance, error) {
	jsonData, err := r.client.Get(ctx, r.key(acquisitionID)).Result()
	if err == redis.Nil {
		return nil, pokerr.NotFoundf("pokemon with acquisition id '%s' not found", acquisitionID).
			WithMeta("acquisition_id", acquisitionID)
	}
	if err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to get pokemon")
	}

	var data PokemonData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to unmarshal pokemon")
	}
	return r.fromData(&data), nil
}

// toData converts an entity to the storage struct
func (r *redisRepo) toData(inst *pokemon.Instance) *PokemonData {
	return &PokemonData{
		AcquisitionID: inst.ID,
		OwnerID:       inst.OwnerID,
		SpeciesID:     inst.SpeciesID,
		Level:         inst.Level,
		XP:            inst.XP,
		Stats:         inst.Stats,
		IVs:           inst.IVs,
		Gender:        inst.Gender,
		Nickname:      inst.Nickname,
		CaughtAt:      inst.CaughtAt,
	}
}

// fromData converts a storage struct back to an entity
func (r *redisRepo) fromData(data *PokemonData) *pokemon.Instance {
	return &pokemon.Instance{
		ID:        data.AcquisitionID,
		OwnerID:   data.OwnerID,
		SpeciesID: data.SpeciesID,
		Level:     data.Level,
		XP:        data.XP,
		Stats:     data.Stats,
		IVs:       data.IVs,
		Gender:    data.Gender,
		Nickname:  data.Nickname,
		CaughtAt:  data.CaughtAt,
	}
}
