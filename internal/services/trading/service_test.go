package trading_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/flaree/pokecord-bot-discord/internal/bank"
	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/dice"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/locks"
	pokerepo "github.com/flaree/pokecord-bot-discord/internal/repositories/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/trainers"
	trainersvc "github.com/flaree/pokecord-bot-discord/internal/services/trainer"
	"github.com/flaree/pokecord-bot-discord/internal/services/trading"
	mocktrading "github.com/flaree/pokecord-bot-discord/internal/services/trading/mock"
	"github.com/flaree/pokecord-bot-discord/internal/testutils"
	"github.com/flaree/pokecord-bot-discord/internal/uuid"
)

const channelID = "chan-1"

type fixture struct {
	svc         trading.Service
	trainer     trainersvc.Service
	prompter    *mocktrading.MockPrompter
	ledger      *bank.InMemoryLedger
	pokemonRepo pokerepo.Repository
	trainerRepo trainers.Repository
	catalog     *catalog.Catalog
}

func setup(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	prompter := mocktrading.NewMockPrompter(ctrl)
	pokemonRepo := pokerepo.NewInMemoryRepositoryWithGenerator(uuid.NewSequenceGenerator())
	trainerRepo := trainers.NewInMemoryRepository()
	ledger := bank.NewInMemoryLedger(1000)
	cat := testutils.CreateTestCatalog(t)
	ownerLocks := locks.NewKeyed()

	// The real trainer service, so settlement exercises the same removal
	// path releasing does
	trainerService := trainersvc.NewService(&trainersvc.ServiceConfig{
		Catalog:     cat,
		Roller:      dice.NewMockRoller(),
		PokemonRepo: pokemonRepo,
		TrainerRepo: trainerRepo,
		OwnerLocks:  ownerLocks,
	})

	svc := trading.NewService(&trading.ServiceConfig{
		Catalog:     cat,
		PokemonRepo: pokemonRepo,
		Trainer:     trainerService,
		Ledger:      ledger,
		Prompter:    prompter,
		OwnerLocks:  ownerLocks,
	})
	return &fixture{
		svc:         svc,
		trainer:     trainerService,
		prompter:    prompter,
		ledger:      ledger,
		pokemonRepo: pokemonRepo,
		trainerRepo: trainerRepo,
		catalog:     cat,
	}
}

func (f *fixture) own(t *testing.T, ownerID string, speciesIDs ...int) {
	t.Helper()
	ctx := context.Background()
	for _, id := range speciesIDs {
		_, err := f.pokemonRepo.Insert(ctx, testutils.CreateTestInstance("", ownerID, id, 5))
		require.NoError(t, err)
	}
	require.NoError(t, f.trainerRepo.Save(ctx, testutils.CreateTestTrainer(ownerID)))
}

func TestTrade_Completed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1, 25)
	f.own(t, "bob", 81)
	f.ledger.SetBalance("bob", 500)

	// Alice keeps Pikachu selected; Bulbasaur in slot 1 carries a nickname
	// that travels with it
	_, err := f.trainer.Select(ctx, "alice", 2)
	require.NoError(t, err)
	_, err = f.trainer.Nickname(ctx, "alice", 1, "Bulby")
	require.NoError(t, err)
	offered, err := f.pokemonRepo.GetBySlot(ctx, "alice", 1)
	require.NoError(t, err)

	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), trading.SellerConfirmTimeout).
		Return(true, nil)
	f.prompter.EXPECT().
		AskInt(gomock.Any(), channelID, "alice", gomock.Any(), trading.SellerConfirmTimeout).
		Return(int64(100), nil)
	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "bob", gomock.Any(), trading.BuyerConfirmTimeout).
		Return(true, nil)

	result, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, trading.StatusCompleted, result.Status)
	assert.Equal(t, 1, result.Species.ID)
	assert.Equal(t, int64(100), result.Price)
	assert.Equal(t, int64(100), result.Credited)

	// Bob got the full pokemon under a new id, nickname included
	require.NotNil(t, result.Instance)
	assert.Equal(t, "bob", result.Instance.OwnerID)
	assert.NotEmpty(t, result.Instance.ID)
	assert.NotEqual(t, offered.ID, result.Instance.ID)
	assert.Equal(t, "Bulby", result.Instance.Nickname)
	assert.Equal(t, offered.IVs, result.Instance.IVs)
	assert.Equal(t, offered.Level, result.Instance.Level)

	bobOwned, err := f.pokemonRepo.ListByOwner(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobOwned, 2)
	assert.Equal(t, 1, bobOwned[1].SpeciesID)

	// Alice's selection followed Pikachu down a slot
	aliceState, err := f.trainerRepo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, aliceState.SelectedSlot)

	// Payment moved
	bobBalance, err := f.ledger.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(400), bobBalance)
	aliceBalance, err := f.ledger.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), aliceBalance)
}

func TestTrade_Free(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1)
	f.own(t, "bob", 81)

	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(true, nil)
	f.prompter.EXPECT().
		AskInt(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(int64(0), nil)
	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "bob", gomock.Any(), gomock.Any()).
		Return(true, nil)

	result, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, trading.StatusCompleted, result.Status)
	assert.Zero(t, result.Price)
	assert.Zero(t, result.Credited)
}

func TestTrade_BuyerDeclines(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1)
	f.own(t, "bob", 81)
	f.ledger.SetBalance("bob", 500)

	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(true, nil)
	f.prompter.EXPECT().
		AskInt(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(int64(50), nil)
	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "bob", gomock.Any(), gomock.Any()).
		Return(false, nil)

	result, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, trading.StatusDeclined, result.Status)

	// Nothing moved
	aliceOwned, err := f.pokemonRepo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, aliceOwned, 1)
	bobBalance, err := f.ledger.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(500), bobBalance)
}

func TestTrade_SellerCancels(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1)
	f.own(t, "bob", 81)

	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(false, nil)

	result, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, trading.StatusCancelled, result.Status)
}

func TestTrade_NegativePriceCancels(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1)
	f.own(t, "bob", 81)

	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(true, nil)
	f.prompter.EXPECT().
		AskInt(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(int64(-5), nil)

	result, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, trading.StatusCancelled, result.Status)
}

func TestTrade_SellerTimesOut(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1)
	f.own(t, "bob", 81)

	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(false, pokerr.Timeout("no answer in time"))

	result, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, trading.StatusTimedOut, result.Status)
}

func TestTrade_BuyerCannotAfford(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1)
	f.own(t, "bob", 81)
	f.ledger.SetBalance("bob", 10)

	// The buyer is never even asked
	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(true, nil)
	f.prompter.EXPECT().
		AskInt(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(int64(9999), nil)

	result, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, trading.StatusDeclined, result.Status)
	assert.Equal(t, "the buyer cannot afford that", result.Reason)
}

func TestTrade_DepositCapShortsTheSeller(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1)
	f.own(t, "bob", 81)
	f.ledger.SetBalance("alice", 950)
	f.ledger.SetBalance("bob", 500)

	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(true, nil)
	f.prompter.EXPECT().
		AskInt(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(int64(100), nil)
	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "bob", gomock.Any(), gomock.Any()).
		Return(true, nil)

	result, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, trading.StatusCompleted, result.Status)
	assert.Equal(t, int64(100), result.Price)
	assert.Equal(t, int64(50), result.Credited, "the ceiling ate half the payment")

	aliceBalance, err := f.ledger.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), aliceBalance)
	bobBalance, err := f.ledger.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(400), bobBalance, "the buyer still pays in full")
}

func TestTrade_SlotChangedDuringConversation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.own(t, "alice", 1, 25)
	f.own(t, "bob", 81)
	f.ledger.SetBalance("bob", 500)

	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(true, nil)
	f.prompter.EXPECT().
		AskInt(gomock.Any(), channelID, "alice", gomock.Any(), gomock.Any()).
		Return(int64(100), nil)
	// While the buyer mulls it over, the seller releases the offered
	// pokemon; Pikachu shifts into slot 1
	f.prompter.EXPECT().
		ConfirmYesNo(gomock.Any(), channelID, "bob", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, channelID, userID, question string, timeout time.Duration) (bool, error) {
			_, err := f.trainer.Release(ctx, "alice", 1)
			require.NoError(t, err)
			return true, nil
		})

	_, err := f.svc.Trade(ctx, channelID, "alice", "bob", 1)
	require.Error(t, err)
	assert.True(t, pokerr.IsConflict(err))

	// The buyer kept their money
	bobBalance, err := f.ledger.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(500), bobBalance)
}

func TestTrade_SelfTrade(t *testing.T) {
	f := setup(t)
	f.own(t, "alice", 1)

	_, err := f.svc.Trade(context.Background(), channelID, "alice", "alice", 1)
	assert.True(t, pokerr.IsInvalidArgument(err))
}

func TestTrade_EmptySlot(t *testing.T) {
	f := setup(t)
	f.own(t, "alice", 1)
	f.own(t, "bob", 81)

	_, err := f.svc.Trade(context.Background(), channelID, "alice", "bob", 4)
	assert.True(t, pokerr.IsNotFound(err))
}
