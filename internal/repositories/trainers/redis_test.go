package trainers

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaree/pokecord-bot-discord/internal/domain/trainer"
)

func TestRedisGet_MissingOwnerReturnsDefaults(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	mock.ExpectGet("trainer:owner-1:state").RedisNil()

	state, err := repo.Get(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", state.OwnerID)
	assert.False(t, state.HasStarter)
	assert.Equal(t, 1, state.SelectedSlot)
	assert.Empty(t, state.Pokedex)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisGet_ParsesStoredState(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	stored := `{
		"owner_id": "owner-1",
		"has_starter": true,
		"pokeid": 3,
		"timestamp": "2024-03-01T12:00:00Z",
		"silence": true,
		"locale": "japanese",
		"pokeids": {"1": 2, "25": 1}
	}`
	mock.ExpectGet("trainer:owner-1:state").SetVal(stored)

	state, err := repo.Get(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.True(t, state.HasStarter)
	assert.Equal(t, 3, state.SelectedSlot)
	assert.True(t, state.Silence)
	assert.Equal(t, "japanese", state.Locale)
	assert.Equal(t, map[int]int{1: 2, 25: 1}, state.Pokedex)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), state.LastProgress.UTC())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisGet_RepairsZeroSelection(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	mock.ExpectGet("trainer:owner-1:state").SetVal(`{"owner_id": "owner-1", "pokeid": 0}`)

	state, err := repo.Get(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.SelectedSlot, "stored selections below 1 are repaired on load")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSave_WritesOwnerKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	state := trainer.Defaults("owner-1")
	state.HasStarter = true
	state.RecordCatch(25)

	// The payload carries an updated_at stamp, so match on the key only
	mock.CustomMatch(func(expected, actual []interface{}) error {
		return nil
	}).ExpectSet("trainer:owner-1:state", `ignored`, 0).SetVal("OK")

	require.NoError(t, repo.Save(context.Background(), state))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSave_RejectsBadInput(t *testing.T) {
	db, _ := redismock.NewClientMock()
	repo := NewRedisRepository(db)

	assert.Error(t, repo.Save(context.Background(), nil))
	assert.Error(t, repo.Save(context.Background(), &trainer.State{}))
}
