package trading

//go:generate mockgen -destination=mock/mock_service.go -package=mocktrading -source=service.go

import (
	"context"
	"strconv"
	"time"

	"github.com/flaree/pokecord-bot-discord/internal/bank"
	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/locks"
	pokerepo "github.com/flaree/pokecord-bot-discord/internal/repositories/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/services/trainer"
)

const (
	// SellerConfirmTimeout bounds the seller's yes/no and price prompts
	SellerConfirmTimeout = 20 * time.Second

	// BuyerConfirmTimeout bounds the buyer's accept prompt
	BuyerConfirmTimeout = 30 * time.Second
)

// Prompter asks a party a question and waits for their answer. The Discord
// layer implements it over message waits; tests swap in a mock.
type Prompter interface {
	// ConfirmYesNo asks userID a yes/no question in the channel. A
	// timeout error means they never answered.
	ConfirmYesNo(ctx context.Context, channelID, userID, question string, timeout time.Duration) (bool, error)

	// AskInt asks userID for a whole number in the channel
	AskInt(ctx context.Context, channelID, userID, question string, timeout time.Duration) (int64, error)
}

// Status classifies how a trade ended
type Status string

const (
	// StatusCompleted means the pokemon and payment both moved
	StatusCompleted Status = "completed"
	// StatusCancelled means the seller backed out or gave a bad price
	StatusCancelled Status = "cancelled"
	// StatusDeclined means the buyer said no or cannot afford the price
	StatusDeclined Status = "declined"
	// StatusTimedOut means a party never answered a prompt
	StatusTimedOut Status = "timed_out"
)

// Result reports a finished trade
type Result struct {
	Status Status

	// Species of the traded pokemon
	Species *pokemon.Species

	// Instance is the buyer's new copy, set only on completion
	Instance *pokemon.Instance

	// Price the parties agreed on
	Price int64

	// Credited is what the seller actually received; less than Price when
	// their balance hit the ceiling
	Credited int64

	// Reason carries a short human-readable cause for non-completed ends
	Reason string
}

// Service runs the two-party trade conversation and settlement
type Service interface {
	// Trade walks both parties through selling the seller's pokemon at
	// the slot to the buyer. Prompt conversation errors other than
	// timeouts are returned as-is; game-rule stops come back as a Result.
	Trade(ctx context.Context, channelID, sellerID, buyerID string, slot int) (*Result, error)
}

// ServiceConfig holds configuration for the trading service
type ServiceConfig struct {
	Catalog     *catalog.Catalog    // Required
	PokemonRepo pokerepo.Repository // Required
	Trainer     trainer.Service     // Required
	Ledger      bank.Ledger         // Required
	Prompter    Prompter            // Required
	OwnerLocks  *locks.Keyed        // Required, shared with the other owner-mutating services
}

type service struct {
	catalog     *catalog.Catalog
	pokemonRepo pokerepo.Repository
	trainer     trainer.Service
	ledger      bank.Ledger
	prompter    Prompter
	ownerLocks  *locks.Keyed
}

// NewService creates a new trading service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.PokemonRepo == nil {
		panic("pokemon repository is required")
	}
	if cfg.Trainer == nil {
		panic("trainer service is required")
	}
	if cfg.Ledger == nil {
		panic("ledger is required")
	}
	if cfg.Prompter == nil {
		panic("prompter is required")
	}

	if cfg.OwnerLocks == nil {
		panic("owner locks are required")
	}

	return &service{
		catalog:     cfg.Catalog,
		pokemonRepo: cfg.PokemonRepo,
		trainer:     cfg.Trainer,
		ledger:      cfg.Ledger,
		prompter:    cfg.Prompter,
		ownerLocks:  cfg.OwnerLocks,
	}
}

// Trade runs the conversation unlocked, then re-validates and settles under
// both parties' locks. Holding locks across prompts would let one slow
// answer freeze every other command both parties could run.
func (s *service) Trade(ctx context.Context, channelID, sellerID, buyerID string, slot int) (*Result, error) {
	if channelID == "" || sellerID == "" || buyerID == "" {
		return nil, pokerr.InvalidArgument("channel, seller and buyer IDs are required")
	}
	if sellerID == buyerID {
		return nil, pokerr.InvalidArgument("you cannot trade with yourself")
	}

	offered, err := s.pokemonRepo.GetBySlot(ctx, sellerID, slot)
	if err != nil {
		return nil, err
	}
	species, err := s.catalog.Get(offered.SpeciesID)
	if err != nil {
		return nil, err
	}
	display := offered.DisplayName(species, pokemon.DefaultLocale)

	confirmed, err := s.prompter.ConfirmYesNo(ctx, channelID, sellerID,
		"Are you sure you want to trade away "+display+"?", SellerConfirmTimeout)
	if err != nil {
		return s.promptEnded(err, species, "the seller never answered")
	}
	if !confirmed {
		return &Result{Status: StatusCancelled, Species: species, Reason: "the seller changed their mind"}, nil
	}

	price, err := s.prompter.AskInt(ctx, channelID, sellerID,
		"How much would you like to sell "+display+" for?", SellerConfirmTimeout)
	if err != nil {
		return s.promptEnded(err, species, "the seller never named a price")
	}
	if price < 0 {
		return &Result{Status: StatusCancelled, Species: species, Reason: "the price must not be negative"}, nil
	}

	if price > 0 {
		affordable, err := s.ledger.CanAfford(ctx, buyerID, price)
		if err != nil {
			return nil, err
		}
		if !affordable {
			return &Result{Status: StatusDeclined, Species: species, Price: price,
				Reason: "the buyer cannot afford that"}, nil
		}
	}

	accepted, err := s.prompter.ConfirmYesNo(ctx, channelID, buyerID,
		"Would you like to buy "+display+" for "+formatPrice(price)+"?", BuyerConfirmTimeout)
	if err != nil {
		return s.promptEnded(err, species, "the buyer never answered")
	}
	if !accepted {
		return &Result{Status: StatusDeclined, Species: species, Price: price,
			Reason: "the buyer declined"}, nil
	}

	return s.settle(ctx, sellerID, buyerID, slot, offered, species, price)
}

// promptEnded maps a prompt failure to a timed-out result, passing real
// errors through
func (s *service) promptEnded(err error, species *pokemon.Species, reason string) (*Result, error) {
	if pokerr.IsTimeout(err) {
		return &Result{Status: StatusTimedOut, Species: species, Reason: reason}, nil
	}
	return nil, err
}

// settle moves the pokemon and the payment under both parties' locks. The
// slot is re-validated first: the conversation ran unlocked, so the seller
// may have released or re-ordered their collection meanwhile.
func (s *service) settle(ctx context.Context, sellerID, buyerID string, slot int, offered *pokemon.Instance, species *pokemon.Species, price int64) (*Result, error) {
	s.ownerLocks.LockPair(sellerID, buyerID)
	defer s.ownerLocks.UnlockPair(sellerID, buyerID)

	current, err := s.pokemonRepo.GetBySlot(ctx, sellerID, slot)
	if err != nil {
		return nil, err
	}
	if current.ID != offered.ID {
		return nil, pokerr.Conflictf("slot %d no longer holds %s", slot,
			offered.DisplayName(species, pokemon.DefaultLocale)).
			WithMeta("expected_id", offered.ID).
			WithMeta("found_id", current.ID)
	}

	if price > 0 {
		if err := s.ledger.Withdraw(ctx, buyerID, price); err != nil {
			if pokerr.IsInsufficientFunds(err) {
				return &Result{Status: StatusDeclined, Species: species, Price: price,
					Reason: "the buyer cannot afford that"}, nil
			}
			return nil, err
		}
	}

	removed, err := s.trainer.RemoveAt(ctx, sellerID, slot)
	if err != nil {
		// The buyer has paid; a failure here is not recoverable in-band
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "trade settlement failed after payment")
	}

	traded := removed.Clone()
	traded.ID = ""
	traded.OwnerID = buyerID
	if _, err := s.pokemonRepo.Insert(ctx, traded); err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "trade settlement failed after removal")
	}

	var credited int64
	if price > 0 {
		credited, err = s.ledger.Deposit(ctx, sellerID, price)
		if err != nil {
			return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "trade settlement failed after transfer")
		}
	}

	return &Result{
		Status:   StatusCompleted,
		Species:  species,
		Instance: traded,
		Price:    price,
		Credited: credited,
	}, nil
}

func formatPrice(price int64) string {
	if price == 0 {
		return "free"
	}
	return strconv.FormatInt(price, 10) + " credits"
}
