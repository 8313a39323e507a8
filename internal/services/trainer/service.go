package trainer

//go:generate mockgen -destination=mock/mock_service.go -package=mocktrainer -source=service.go

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/dice"
	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/locks"
	pokerepo "github.com/flaree/pokecord-bot-discord/internal/repositories/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/trainers"
	"github.com/flaree/pokecord-bot-discord/internal/services/encounter"
)

// Entry pairs an owned instance with its resolved species and current slot
type Entry struct {
	Slot     int
	Instance *pokemon.Instance
	Species  *pokemon.Species
}

// PokedexEntry is one discovered species with its catch count
type PokedexEntry struct {
	Species *pokemon.Species
	Caught  int
}

// Service manages a trainer's collection and profile
type Service interface {
	// List returns the owner's pokemon in slot order
	List(ctx context.Context, ownerID string) ([]*Entry, error)

	// Current returns the owner's selected pokemon
	Current(ctx context.Context, ownerID string) (*Entry, error)

	// Select makes the 1-based slot the owner's default pokemon
	Select(ctx context.Context, ownerID string, slot int) (*Entry, error)

	// SelectLatest selects the most recently acquired pokemon
	SelectLatest(ctx context.Context, ownerID string) (*Entry, error)

	// Nickname renames the pokemon at the slot; empty clears the nickname
	Nickname(ctx context.Context, ownerID string, slot int, nickname string) (*Entry, error)

	// Release permanently removes the pokemon at the slot
	Release(ctx context.Context, ownerID string, slot int) (*Entry, error)

	// RemoveAt is the removal path Release wraps. The caller must already
	// hold the owner's lock; trading uses it while holding both parties'
	// locks. Selection shifting happens here so every removal agrees on
	// the rules.
	RemoveAt(ctx context.Context, ownerID string, slot int) (*pokemon.Instance, error)

	// StarterChoices lists the species the starter picker offers
	StarterChoices() []*pokemon.Species

	// PickStarter grants the named starter and opens the collection.
	// Fails once a starter has been picked.
	PickStarter(ctx context.Context, ownerID, name string) (*Entry, error)

	// HasStarter reports whether the owner has picked a starter
	HasStarter(ctx context.Context, ownerID string) (bool, error)

	// ToggleSilence flips level-up announcement suppression and returns
	// the new value
	ToggleSilence(ctx context.Context, ownerID string) (bool, error)

	// SetLocale changes which localized species names the owner sees
	SetLocale(ctx context.Context, ownerID, locale string) error

	// Locale returns the owner's display locale
	Locale(ctx context.Context, ownerID string) (string, error)

	// Pokedex returns the owner's discovered species in dex order
	Pokedex(ctx context.Context, ownerID string) ([]*PokedexEntry, error)

	// Search filters the owner's collection
	Search(ctx context.Context, ownerID string, filter *Filter) ([]*Entry, error)

	// SetIVs overwrites the IVs of the pokemon at the slot. Maintenance
	// command, restricted by the caller.
	SetIVs(ctx context.Context, ownerID string, slot int, ivs pokemon.StatBlock) (*Entry, error)

	// SetStats overwrites the stats of the pokemon at the slot.
	// Maintenance command, restricted by the caller.
	SetStats(ctx context.Context, ownerID string, slot int, stats pokemon.StatBlock) (*Entry, error)
}

// ServiceConfig holds configuration for the trainer service
type ServiceConfig struct {
	Catalog     *catalog.Catalog    // Required
	Roller      dice.Roller         // Required
	PokemonRepo pokerepo.Repository // Required
	TrainerRepo trainers.Repository // Required
	OwnerLocks  *locks.Keyed        // Required, shared with the other owner-mutating services
}

type service struct {
	catalog     *catalog.Catalog
	roller      dice.Roller
	pokemonRepo pokerepo.Repository
	trainerRepo trainers.Repository
	ownerLocks  *locks.Keyed
}

// NewService creates a new trainer service
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

	return &service{
		catalog:     cfg.Catalog,
		roller:      cfg.Roller,
		pokemonRepo: cfg.PokemonRepo,
		trainerRepo: cfg.TrainerRepo,
		ownerLocks:  cfg.OwnerLocks,
	}
}

// entry resolves the species for an instance at a slot
func (s *service) entry(slot int, instance *pokemon.Instance) (*Entry, error) {
	species, err := s.catalog.Get(instance.SpeciesID)
	if err != nil {
		return nil, pokerr.Wrapf(err, "species %d missing for pokemon %s", instance.SpeciesID, instance.ID)
	}
	return &Entry{Slot: slot, Instance: instance, Species: species}, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]*Entry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	owned, err := s.pokemonRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(owned))
	for i, instance := range owned {
		e, err := s.entry(i+1, instance)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *service) Current(ctx context.Context, ownerID string) (*Entry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	owned, err := s.pokemonRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, pokerr.NotFound("you do not own any pokemon")
	}

	// Repair a selection that points past the end of the collection
	if state.SelectedSlot < 1 || state.SelectedSlot > len(owned) {
		state.SelectedSlot = 1
		if err := s.trainerRepo.Save(ctx, state); err != nil {
			return nil, err
		}
	}
	return s.entry(state.SelectedSlot, owned[state.SelectedSlot-1])
}

func (s *service) Select(ctx context.Context, ownerID string, slot int) (*Entry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	return s.selectSlot(ctx, ownerID, slot)
}

func (s *service) SelectLatest(ctx context.Context, ownerID string) (*Entry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	owned, err := s.pokemonRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, pokerr.NotFound("you do not own any pokemon")
	}
	return s.selectSlot(ctx, ownerID, len(owned))
}

// selectSlot validates and persists the selection. Caller holds the owner lock.
func (s *service) selectSlot(ctx context.Context, ownerID string, slot int) (*Entry, error) {
	owned, err := s.pokemonRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if slot < 1 || slot > len(owned) {
		return nil, pokerr.InvalidArgumentf("slot %d is out of range, you own %d pokemon", slot, len(owned))
	}

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	state.SelectedSlot = slot
	if err := s.trainerRepo.Save(ctx, state); err != nil {
		return nil, err
	}
	return s.entry(slot, owned[slot-1])
}

func (s *service) Nickname(ctx context.Context, ownerID string, slot int, nickname string) (*Entry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}
	nickname = strings.TrimSpace(nickname)
	if utf8.RuneCountInString(nickname) > pokemon.MaxNicknameLen {
		return nil, pokerr.InvalidArgumentf("nicknames are capped at %d characters", pokemon.MaxNicknameLen)
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	instance, err := s.pokemonRepo.GetBySlot(ctx, ownerID, slot)
	if err != nil {
		return nil, err
	}
	instance.Nickname = nickname
	if err := s.pokemonRepo.Update(ctx, instance); err != nil {
		return nil, err
	}
	return s.entry(slot, instance)
}

func (s *service) Release(ctx context.Context, ownerID string, slot int) (*Entry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	instance, err := s.RemoveAt(ctx, ownerID, slot)
	if err != nil {
		return nil, err
	}
	return s.entry(slot, instance)
}

// RemoveAt deletes the pokemon at the 1-based slot and shifts the owner's
// selection so it keeps pointing at the same pokemon: removals below the
// selected slot pull it down one, removing the selected pokemon itself
// resets the selection to slot 1. Caller holds the owner lock.
//
// Every path that takes a pokemon away from an owner funnels through here,
// so trading and releasing cannot disagree about the selection rules.
func (s *service) RemoveAt(ctx context.Context, ownerID string, slot int) (*pokemon.Instance, error) {
	owned, err := s.pokemonRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if slot < 1 || slot > len(owned) {
		return nil, pokerr.InvalidArgumentf("slot %d is out of range, you own %d pokemon", slot, len(owned))
	}

	instance := owned[slot-1]
	if err := s.pokemonRepo.Delete(ctx, instance.ID); err != nil {
		return nil, err
	}

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	switch {
	case len(owned) == 1:
		// Collection is now empty; the starter gate closes again
		state.SelectedSlot = 1
		state.HasStarter = false
	case slot == state.SelectedSlot:
		state.SelectedSlot = 1
	case slot < state.SelectedSlot:
		state.SelectedSlot--
	}
	if err := s.trainerRepo.Save(ctx, state); err != nil {
		return nil, err
	}
	return instance, nil
}

func (s *service) StarterChoices() []*pokemon.Species {
	return s.catalog.Starters()
}

func (s *service) PickStarter(ctx context.Context, ownerID, name string) (*Entry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	species, err := s.catalog.FindByName(name)
	if err != nil {
		return nil, err
	}
	if !species.Starter {
		return nil, pokerr.InvalidArgumentf("%s is not a starter", species.DisplayName(pokemon.DefaultLocale))
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if state.HasStarter {
		return nil, pokerr.AlreadyExists("you have already picked a starter")
	}

	gender, err := s.rollGender(species)
	if err != nil {
		return nil, err
	}
	var ivErr error
	ivs := pokemon.StatBlock{}.Each(func(int) int {
		iv, err := s.roller.Between(0, encounter.MaxIV)
		if err != nil {
			ivErr = err
		}
		return iv
	})
	if ivErr != nil {
		return nil, pokerr.WrapWithCode(ivErr, pokerr.CodeInternal, "failed to roll IVs")
	}

	instance := &pokemon.Instance{
		OwnerID:   ownerID,
		SpeciesID: species.ID,
		Level:     1,
		Stats:     species.BaseStats,
		IVs:       ivs,
		Gender:    gender,
		CaughtAt:  time.Now().UTC(),
	}
	if _, err := s.pokemonRepo.Insert(ctx, instance); err != nil {
		return nil, err
	}

	state.HasStarter = true
	state.SelectedSlot = 1
	state.RecordCatch(species.ID)
	if err := s.trainerRepo.Save(ctx, state); err != nil {
		return nil, err
	}
	return &Entry{Slot: 1, Instance: instance, Species: species}, nil
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

func (s *service) HasStarter(ctx context.Context, ownerID string) (bool, error) {
	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return state.HasStarter, nil
}

func (s *service) ToggleSilence(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, pokerr.InvalidArgument("owner ID is required")
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return false, err
	}
	state.Silence = !state.Silence
	if err := s.trainerRepo.Save(ctx, state); err != nil {
		return false, err
	}
	return state.Silence, nil
}

func (s *service) SetLocale(ctx context.Context, ownerID, locale string) error {
	if ownerID == "" {
		return pokerr.InvalidArgument("owner ID is required")
	}
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return pokerr.InvalidArgument("locale is required")
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	state.Locale = locale
	return s.trainerRepo.Save(ctx, state)
}

func (s *service) Locale(ctx context.Context, ownerID string) (string, error) {
	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if state.Locale == "" {
		return pokemon.DefaultLocale, nil
	}
	return state.Locale, nil
}

func (s *service) Pokedex(ctx context.Context, ownerID string) ([]*PokedexEntry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	state, err := s.trainerRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// Walk the catalog in dex order so the output is stable
	entries := make([]*PokedexEntry, 0, len(state.Pokedex))
	for _, species := range s.catalog.All() {
		caught, ok := state.Pokedex[species.ID]
		if !ok {
			continue
		}
		entries = append(entries, &PokedexEntry{Species: species, Caught: caught})
	}
	return entries, nil
}

func (s *service) SetIVs(ctx context.Context, ownerID string, slot int, ivs pokemon.StatBlock) (*Entry, error) {
	return s.overwrite(ctx, ownerID, slot, func(instance *pokemon.Instance) {
		instance.IVs = ivs
	})
}

func (s *service) SetStats(ctx context.Context, ownerID string, slot int, stats pokemon.StatBlock) (*Entry, error) {
	return s.overwrite(ctx, ownerID, slot, func(instance *pokemon.Instance) {
		instance.Stats = stats
	})
}

func (s *service) overwrite(ctx context.Context, ownerID string, slot int, apply func(*pokemon.Instance)) (*Entry, error) {
	if ownerID == "" {
		return nil, pokerr.InvalidArgument("owner ID is required")
	}

	s.ownerLocks.Lock(ownerID)
	defer s.ownerLocks.Unlock(ownerID)

	instance, err := s.pokemonRepo.GetBySlot(ctx, ownerID, slot)
	if err != nil {
		return nil, err
	}
	apply(instance)
	if err := s.pokemonRepo.Update(ctx, instance); err != nil {
		return nil, err
	}
	return s.entry(slot, instance)
}
