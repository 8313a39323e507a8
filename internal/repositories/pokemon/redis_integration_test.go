package pokemon_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	pokerepo "github.com/flaree/pokecord-bot-discord/internal/repositories/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/testutils"
	"github.com/flaree/pokecord-bot-discord/internal/uuid"
)

func setupRedisRepo(t *testing.T) pokerepo.Repository {
	t.Helper()
	client := testutils.CreateTestRedisClientOrSkip(t)
	return pokerepo.NewRedisRepository(&pokerepo.RedisRepoConfig{
		Client:        client,
		UUIDGenerator: uuid.NewSequenceGenerator(),
	})
}

func TestRedisRepository_RoundTrip(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	inst := testutils.CreateTestInstance("", "owner-1", 25, 7)
	inst.Nickname = "Sparky"
	id, err := repo.Insert(ctx, inst)
	require.NoError(t, err)

	owned, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, id, owned[0].ID)
	assert.Equal(t, 25, owned[0].SpeciesID)
	assert.Equal(t, 7, owned[0].Level)
	assert.Equal(t, "Sparky", owned[0].Nickname)
	assert.Equal(t, inst.IVs, owned[0].IVs)
	assert.Equal(t, inst.Gender, owned[0].Gender)
}

func TestRedisRepository_OrderSurvivesDeletes(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	ids := make([]string, 0, 4)
	for _, speciesID := range []int{1, 25, 81, 122} {
		id, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", speciesID, 5))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, repo.Delete(ctx, ids[0]))
	require.NoError(t, repo.Delete(ctx, ids[2]))

	owned, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, 25, owned[0].SpeciesID)
	assert.Equal(t, 122, owned[1].SpeciesID)

	err = repo.Delete(ctx, ids[0])
	assert.True(t, pokerr.IsNotFound(err))
}

func TestRedisRepository_UpdatePersists(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", 1, 15))
	require.NoError(t, err)

	inst, err := repo.GetBySlot(ctx, "owner-1", 1)
	require.NoError(t, err)
	inst.Level = 16
	inst.SpeciesID = 2
	inst.XP = 0
	require.NoError(t, repo.Update(ctx, inst))

	reloaded, err := repo.GetBySlot(ctx, "owner-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.SpeciesID)
	assert.Equal(t, 16, reloaded.Level)
}

func TestRedisRepository_EmptyOwner(t *testing.T) {
	repo := setupRedisRepo(t)
	ctx := context.Background()

	owned, err := repo.ListByOwner(ctx, "owner-with-nothing")
	require.NoError(t, err)
	assert.Empty(t, owned)
}
