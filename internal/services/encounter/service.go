package encounter

//go:generate mockgen -destination=mock/mock_service.go -package=mockencounter -source=service.go

import (
	"context"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/dice"
	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/locks"
	pokerepo "github.com/flaree/pokecord-bot-discord/internal/repositories/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/trainers"
	"github.com/flaree/pokecord-bot-discord/internal/services/spawner"
)

const (
	// MinWildLevel and MaxWildLevel bound the level rolled for a freshly
	// caught wild pokemon
	MinWildLevel = 1
	MaxWildLevel = 13

	// MaxIV is the upper bound of each rolled IV
	MaxIV = 31

	// closeGuessDistance is the edit distance at or under which a wrong
	// guess is reported as nearly right
	closeGuessDistance = 2
)

// Outcome classifies a catch attempt
type Outcome string

const (
	// OutcomeCaught means the guess matched and this caller won the claim
	OutcomeCaught Outcome = "caught"
	// OutcomeWrongGuess means a spawn was active but the name did not match
	OutcomeWrongGuess Outcome = "wrong_guess"
)

// CatchResult reports what happened to a catch attempt
type CatchResult struct {
	Outcome Outcome

	// Species of the active spawn. Set for wrong guesses too, so callers
	// can phrase the miss.
	Species *pokemon.Species

	// Instance is the minted pokemon, set only when caught
	Instance *pokemon.Instance

	// Slot the instance landed in, 1-based, set only when caught
	Slot int

	// NewDiscovery is true when the species entered the owner's pokedex
	// for the first time
	NewDiscovery bool

	// CloseGuess is true for wrong guesses within a small edit distance
	// of a valid name
	CloseGuess bool
}

// Service resolves catch attempts against active spawns
type Service interface {
	// AttemptCatch matches guess against the channel's active spawn.
	// Returns a not-found error when no spawn is active; concurrent
	// correct guessers race and exactly one gets OutcomeCaught.
	AttemptCatch(ctx context.Context, channelID, ownerID, guess string) (*CatchResult, error)

	// Hint returns the active spawn's default name with about half the
	// letters masked. Not-found error when no spawn is active.
	Hint(channelID string) (string, error)
}

// ServiceConfig holds configuration for the encounter service
type ServiceConfig struct {
	Catalog     *catalog.Catalog    // Required
	Roller      dice.Roller         // Required
	Spawner     spawner.Service     // Required
	PokemonRepo pokerepo.Repository // Required
	TrainerRepo trainers.Repository // Required
	OwnerLocks  *locks.Keyed        // Required, shared with the other owner-mutating services
}

type service struct {
	catalog     *catalog.Catalog
	roller      dice.Roller
	spawner     spawner.Service
	pokemonRepo pokerepo.Repository
	trainerRepo trainers.Repository
	ownerLocks  *locks.Keyed
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}
	if cfg.Spawner == nil {
		panic("spawner service is required")
	}
	if cfg.PokemonRepo == nil {
		panic("pokemon repository is required")
	}
	if cfg.TrainerRepo == nil {
		panic("trainer repository is required")
	}
	if cfg.OwnerLocks == nil {
		panic("owner locks are required")
	}

	return &service{
		catalog:     cfg.Catalog,
		roller:      cfg.Roller,
		spawner:     cfg.Spawner,
		pokemonRepo: cfg.PokemonRepo,
		trainerRepo: cfg.TrainerRepo,
		ownerLocks:  cfg.OwnerLocks,
	}
}

func (s *service) AttemptCatch(ctx context.Context, channelID, ownerID, guess string) (*CatchResult, error) {
	if channelID == "" || ownerID == "" {
		return nil, pokerr.InvalidArgument("channel and owner IDs are required")
	}
	guess = strings.TrimSpace(guess)
	if guess == "" {
		return nil, pokerr.InvalidArgument("guess is required")
	}

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !state.HasStarter {
		return nil, pokerr.Conflict("pick a starter before catching").
			WithMeta("owner_id", ownerID)
	}

	// Claim re-checks the guess under the spawner's lock, so of several
	// simultaneous correct guessers only one consumes the spawn
	spawn, claimed := s.spawner.Claim(channelID, func(sp *spawner.Spawn) bool {
		return s.catalog.Matches(sp.Species, guess)
	})
	if spawn == nil {
		return nil, pokerr.NotFoundf("no wild pokemon in channel %s", channelID)
	}
	if !claimed {
		return &CatchResult{
			Outcome:    OutcomeWrongGuess,
			Species:    spawn.Species,
			CloseGuess: s.isCloseGuess(spawn.Species, guess),
		}, nil
	}

	instance, err := s.mint(spawn.Species, ownerID)
	if err != nil {
		return nil, err
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	if _, err := s.pokemonRepo.Insert(ctx, instance); err != nil {
		return nil, pokerr.Wrapf(err, "failed to store caught %s", spawn.Species.DisplayName(pokemon.DefaultLocale))
	}

	owned, err := s.pokemonRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Re-read under the owner lock so the pokedex bump cannot race a
	// concurrent trainer mutation
	state, err = s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	newDiscovery := state.RecordCatch(spawn.Species.ID)
	if err := s.trainerRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	return &CatchResult{
		Outcome:      OutcomeCaught,
		Species:      spawn.Species,
		Instance:     instance,
		Slot:         len(owned),
		NewDiscovery: newDiscovery,
	}, nil
}

// mint rolls a fresh instance of the species: wild level, IVs and gender
func (s *service) mint(sp *pokemon.Species, ownerID string) (*pokemon.Instance, error) {
	level, err := s.roller.Between(MinWildLevel, MaxWildLevel)
	if err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to roll level")
	}

	var ivErr error
	ivs := pokemon.StatBlock{}.Each(func(int) int {
		iv, err := s.roller.Between(0, MaxIV)
		if err != nil {
			ivErr = err
		}
		return iv
	})
	if ivErr != nil {
		return nil, pokerr.WrapWithCode(ivErr, pokerr.CodeInternal, "failed to roll IVs")
	}

	gender, err := s.rollGender(sp)
	if err != nil {
		return nil, err
	}

	return &pokemon.Instance{
		OwnerID:   ownerID,
		SpeciesID: sp.ID,
		Level:     level,
		Stats:     sp.BaseStats,
		IVs:       ivs,
		Gender:    gender,
		CaughtAt:  time.Now().UTC(),
	}, nil
}

func (s *service) rollGender(sp *pokemon.Species) (pokemon.Gender, error) {
	if sp.GenderRatio.Genderless {
		return pokemon.GenderGenderless, nil
	}
	if sp.GenderRatio.MaleChance <= 0 {
		return pokemon.GenderUnknown, nil
	}
	male, err := s.roller.Chance(sp.GenderRatio.MaleChance)
	if err != nil {
		return "", pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to roll gender")
	}
	if male {
		return pokemon.GenderMale, nil
	}
	return pokemon.GenderFemale, nil
}

// isCloseGuess reports whether the guess is within a small edit distance of
// any valid name for the species
func (s *service) isCloseGuess(sp *pokemon.Species, guess string) bool {
	lowered := strings.ToLower(strings.TrimSpace(guess))
	for _, name := range s.catalog.ValidNames(sp) {
		if levenshtein.ComputeDistance(lowered, name) <= closeGuessDistance {
			return true
		}
	}
	return false
}

func (s *service) Hint(channelID string) (string, error) {
	spawn := s.spawner.ActiveSpawn(channelID)
	if spawn == nil {
		return "", pokerr.NotFoundf("no wild pokemon in channel %s", channelID)
	}

	name := spawn.Species.DisplayName(pokemon.DefaultLocale)
	masked := []rune(name)
	for i, r := range masked {
		if r == ' ' {
			continue
		}
		hide, err := s.roller.Chance(0.5)
		if err != nil {
			return "", pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to roll hint mask")
		}
		if hide {
			masked[i] = '_'
		}
	}
	return string(masked), nil
}
