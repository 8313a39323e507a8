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

func TestInMemoryRepository_InsertAssignsIDs(t *testing.T) {
	repo := pokerepo.NewInMemoryRepositoryWithGenerator(uuid.NewSequenceGenerator())
	ctx := context.Background()

	id1, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", 1, 5))
	require.NoError(t, err)
	id2, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", 25, 7))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	_, err = repo.Insert(ctx, testutils.CreateTestInstance(id1, "owner-1", 1, 5))
	assert.True(t, pokerr.Is(err, pokerr.CodeAlreadyExists))
}

func TestInMemoryRepository_ListPreservesAcquisitionOrder(t *testing.T) {
	repo := pokerepo.NewInMemoryRepositoryWithGenerator(uuid.NewSequenceGenerator())
	ctx := context.Background()

	for i, speciesID := range []int{1, 25, 81} {
		_, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", speciesID, i+1))
		require.NoError(t, err)
	}
	// Another owner's pokemon never leak into the listing
	_, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-2", 122, 9))
	require.NoError(t, err)

	owned, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 3)
	assert.Equal(t, []int{1, 25, 81}, []int{owned[0].SpeciesID, owned[1].SpeciesID, owned[2].SpeciesID})
}

func TestInMemoryRepository_GetBySlot(t *testing.T) {
	repo := pokerepo.NewInMemoryRepositoryWithGenerator(uuid.NewSequenceGenerator())
	ctx := context.Background()

	_, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", 1, 5))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", 25, 7))
	require.NoError(t, err)

	inst, err := repo.GetBySlot(ctx, "owner-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 25, inst.SpeciesID)

	_, err = repo.GetBySlot(ctx, "owner-1", 3)
	assert.True(t, pokerr.IsNotFound(err))

	_, err = repo.GetBySlot(ctx, "owner-1", 0)
	assert.True(t, pokerr.IsInvalidArgument(err))
}

func TestInMemoryRepository_DeleteShiftsSlots(t *testing.T) {
	repo := pokerepo.NewInMemoryRepositoryWithGenerator(uuid.NewSequenceGenerator())
	ctx := context.Background()

	ids := make([]string, 0, 3)
	for _, speciesID := range []int{1, 25, 81} {
		id, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", speciesID, 5))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, repo.Delete(ctx, ids[1]))

	owned, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	// The survivors close the gap, keeping acquisition order
	assert.Equal(t, 1, owned[0].SpeciesID)
	assert.Equal(t, 81, owned[1].SpeciesID)

	err = repo.Delete(ctx, ids[1])
	assert.True(t, pokerr.IsNotFound(err))
}

func TestInMemoryRepository_UpdateUpserts(t *testing.T) {
	repo := pokerepo.NewInMemoryRepositoryWithGenerator(uuid.NewSequenceGenerator())
	ctx := context.Background()

	id, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", 1, 5))
	require.NoError(t, err)

	inst, err := repo.GetBySlot(ctx, "owner-1", 1)
	require.NoError(t, err)
	inst.Level = 16
	inst.SpeciesID = 2
	require.NoError(t, repo.Update(ctx, inst))

	reloaded, err := repo.GetBySlot(ctx, "owner-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 16, reloaded.Level)
	assert.Equal(t, 2, reloaded.SpeciesID)
	assert.Equal(t, id, reloaded.ID)

	// Upserting an unseen id appends it to the owner's order
	fresh := testutils.CreateTestInstance("traded-1", "owner-1", 25, 30)
	require.NoError(t, repo.Update(ctx, fresh))
	owned, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "traded-1", owned[1].ID)
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := pokerepo.NewInMemoryRepositoryWithGenerator(uuid.NewSequenceGenerator())
	ctx := context.Background()

	_, err := repo.Insert(ctx, testutils.CreateTestInstance("", "owner-1", 1, 5))
	require.NoError(t, err)

	inst, err := repo.GetBySlot(ctx, "owner-1", 1)
	require.NoError(t, err)
	inst.Level = 99

	reloaded, err := repo.GetBySlot(ctx, "owner-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Level, "mutating a returned instance must not touch the store")
}
