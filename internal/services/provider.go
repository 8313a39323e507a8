package services

import (
	"github.com/flaree/pokecord-bot-discord/internal/bank"
	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/dice"
	"github.com/flaree/pokecord-bot-discord/internal/locks"
	pokerepo "github.com/flaree/pokecord-bot-discord/internal/repositories/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/settings"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/trainers"
	encounterService "github.com/flaree/pokecord-bot-discord/internal/services/encounter"
	progressionService "github.com/flaree/pokecord-bot-discord/internal/services/progression"
	spawnerService "github.com/flaree/pokecord-bot-discord/internal/services/spawner"
	trainerService "github.com/flaree/pokecord-bot-discord/internal/services/trainer"
	tradingService "github.com/flaree/pokecord-bot-discord/internal/services/trading"
)

// Provider holds all service instances
type Provider struct {
	SpawnerService     spawnerService.Service
	EncounterService   encounterService.Service
	ProgressionService progressionService.Service
	TrainerService     trainerService.Service
	TradingService     tradingService.Service

	Settings *settings.Cache
	Ledger   bank.Ledger
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Catalog  *catalog.Catalog        // Required
	Prompter tradingService.Prompter // Required

	// Optional; in-memory implementations are used when nil
	Roller       dice.Roller
	PokemonRepo  pokerepo.Repository
	TrainerRepo  trainers.Repository
	SettingsRepo settings.Repository
	Ledger       bank.Ledger

	// Optional spawn threshold overrides
	SpawnMin int
	SpawnMax int
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}

	// Use in-memory stores if none provided
	pokemonRepo := cfg.PokemonRepo
	if pokemonRepo == nil {
		pokemonRepo = pokerepo.NewInMemoryRepository()
	}

	trainerRepo := cfg.TrainerRepo
	if trainerRepo == nil {
		trainerRepo = trainers.NewInMemoryRepository()
	}

	settingsRepo := cfg.SettingsRepo
	if settingsRepo == nil {
		settingsRepo = settings.NewInMemoryRepository()
	}
	settingsCache := settings.NewCache(settingsRepo)

	ledger := cfg.Ledger
	if ledger == nil {
		ledger = bank.NewInMemoryLedger(bank.DefaultMaxBalance)
	}

	// One lock set serializes every mutation of an owner's collection,
	// across catching, training, releasing and trading
	ownerLocks := locks.NewKeyed()

	spawner := spawnerService.NewService(&spawnerService.ServiceConfig{
		Catalog:  cfg.Catalog,
		Roller:   roller,
		Settings: settingsCache,
		SpawnMin: cfg.SpawnMin,
		SpawnMax: cfg.SpawnMax,
	})

	encounter := encounterService.NewService(&encounterService.ServiceConfig{
		Catalog:     cfg.Catalog,
		Roller:      roller,
		Spawner:     spawner,
		PokemonRepo: pokemonRepo,
		TrainerRepo: trainerRepo,
		OwnerLocks:  ownerLocks,
	})

	progression := progressionService.NewService(&progressionService.ServiceConfig{
		Catalog:     cfg.Catalog,
		Roller:      roller,
		PokemonRepo: pokemonRepo,
		TrainerRepo: trainerRepo,
		OwnerLocks:  ownerLocks,
	})

	trainer := trainerService.NewService(&trainerService.ServiceConfig{
		Catalog:     cfg.Catalog,
		Roller:      roller,
		PokemonRepo: pokemonRepo,
		TrainerRepo: trainerRepo,
		OwnerLocks:  ownerLocks,
	})

	trading := tradingService.NewService(&tradingService.ServiceConfig{
		Catalog:     cfg.Catalog,
		PokemonRepo: pokemonRepo,
		Trainer:     trainer,
		Ledger:      ledger,
		Prompter:    cfg.Prompter,
		OwnerLocks:  ownerLocks,
	})

	return &Provider{
		SpawnerService:     spawner,
		EncounterService:   encounter,
		ProgressionService: progression,
		TrainerService:     trainer,
		TradingService:     trading,
		Settings:           settingsCache,
		Ledger:             ledger,
	}
}
