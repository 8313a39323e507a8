package progression

//go:generate mockgen -destination=mock/mock_service.go -package=mockprogression -source=service.go

import (
	"context"
	"time"

	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/dice"
	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/locks"
	pokerepo "github.com/flaree/pokecord-bot-discord/internal/repositories/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/trainers"
)

const (
	// ProgressCooldown is the minimum gap between two xp grants for one owner
	ProgressCooldown = 10 * time.Second

	// MinXPGain and MaxXPGain bound the random part of an xp grant; the
	// pokemon's level is also folded in
	MinXPGain = 5
	MaxXPGain = 25

	// xpPerLevel scales the level-up threshold: a pokemon levels when its
	// xp reaches 25 times its current level
	xpPerLevel = 25

	// MinStatGain and MaxStatGain bound the per-stat bonus rolled on a
	// level-up that does not trigger an evolution
	MinStatGain = 1
	MaxStatGain = 3
)

// Outcome reports the effect of one activity xp grant
type Outcome struct {
	// Instance after the grant was applied
	Instance *pokemon.Instance

	// Species of the instance after the grant (the evolved species when
	// Evolved is set)
	Species *pokemon.Species

	// LeveledUp is true when the grant pushed the pokemon to its
	// threshold
	LeveledUp bool

	// Evolved is true when the level-up also triggered an evolution
	Evolved bool

	// EvolvedFrom is the pre-evolution species, set only when Evolved
	EvolvedFrom *pokemon.Species

	// Silenced mirrors the owner's announcement preference so callers
	// know whether to stay quiet about a level-up
	Silenced bool
}

// Service grants activity xp and applies level-ups and evolutions
type Service interface {
	// GrantActivityProgress awards xp to the owner's selected pokemon for
	// one qualifying message. Returns nil with no error when the owner is
	// on cooldown, has no starter, or has nothing eligible to train.
	GrantActivityProgress(ctx context.Context, ownerID string) (*Outcome, error)
}

// ServiceConfig holds configuration for the progression service
type ServiceConfig struct {
	Catalog     *catalog.Catalog    // Required
	Roller      dice.Roller         // Required
	PokemonRepo pokerepo.Repository // Required
	TrainerRepo trainers.Repository // Required
	OwnerLocks  *locks.Keyed        // Required, shared with the other owner-mutating services
	Cooldown    time.Duration       // zero means ProgressCooldown
}

type service struct {
	catalog     *catalog.Catalog
	roller      dice.Roller
	pokemonRepo pokerepo.Repository
	trainerRepo trainers.Repository
	ownerLocks  *locks.Keyed
	cooldown    time.Duration
}

// NewService creates a new progression service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
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

	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = ProgressCooldown
	}

	return &service{
		catalog:     cfg.Catalog,
		roller:      cfg.Roller,
		pokemonRepo: cfg.PokemonRepo,
		trainerRepo: cfg.TrainerRepo,
		ownerLocks:  cfg.OwnerLocks,
		cooldown:    cooldown,
	}
}

func (s *service) GrantActivityProgress(ctx context.Context, ownerID string) (*Outcome, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !state.HasStarter {
		return nil, nil
	}
	if time.Since(state.LastProgress) < s.cooldown {
		return nil, nil
	}

	// Stamp before computing the grant. A failure below still burns the
	// cooldown, which keeps retries from doubling up on xp.
	state.LastProgress = time.Now()
	if err := s.trainerRepo.Save(ctx, state); err != nil {
		return nil, err
	}

	owned, err := s.pokemonRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, nil
	}

	instance := s.pickTarget(owned, state.SelectedSlot)
	if instance == nil {
		return nil, nil
	}

	outcome, err := s.applyGrant(instance)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, nil
	}

	if err := s.pokemonRepo.Update(ctx, instance); err != nil {
		return nil, err
	}

	outcome.Silenced = state.Silence
	return outcome, nil
}

// pickTarget chooses which pokemon trains: the selected slot, unless it is
// out of range or at the level cap, in which case the first pokemon below
// the cap steps in
func (s *service) pickTarget(owned []*pokemon.Instance, selectedSlot int) *pokemon.Instance {
	if selectedSlot >= 1 && selectedSlot <= len(owned) {
		if target := owned[selectedSlot-1]; target.Level < pokemon.MaxLevel {
			return target
		}
	}
	for _, instance := range owned {
		if instance.Level < pokemon.MaxLevel {
			return instance
		}
	}
	return nil
}

// applyGrant rolls xp onto the instance and resolves at most one level-up
func (s *service) applyGrant(instance *pokemon.Instance) (*Outcome, error) {
	gain, err := s.roller.Between(MinXPGain, MaxXPGain)
	if err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to roll xp gain")
	}
	instance.XP += gain + instance.Level/2

	species, err := s.catalog.Get(instance.SpeciesID)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Instance: instance, Species: species}
	if instance.XP < instance.Level*xpPerLevel {
		return outcome, nil
	}

	instance.Level++
	instance.XP = 0
	outcome.LeveledUp = true

	rule := species.Evolution
	if rule != nil && instance.Level >= rule.MinLevel {
		evolved, err := s.catalog.Get(rule.Target)
		if err != nil {
			return nil, pokerr.Wrapf(err, "evolution target %d missing for species %d", rule.Target, species.ID)
		}
		// Evolution swaps the species and keeps everything the pokemon
		// has earned: stats, IVs, gender, nickname
		instance.SpeciesID = evolved.ID
		outcome.Evolved = true
		outcome.EvolvedFrom = species
		outcome.Species = evolved
		return outcome, nil
	}

	var rollErr error
	instance.Stats = instance.Stats.Each(func(current int) int {
		bonus, err := s.roller.Between(MinStatGain, MaxStatGain)
		if err != nil {
			rollErr = err
			return current
		}
		return current + bonus
	})
	if rollErr != nil {
		return nil, pokerr.WrapWithCode(rollErr, pokerr.CodeInternal, "failed to roll stat gains")
	}
	return outcome, nil
}
