package testutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/domain/trainer"
)

// fixtureDex is a small dataset with the shapes the services care about: a
// starter with an evolution chain, a mid-chain species, a capped species
// with no evolution, a genderless species, a multi-locale name and a variant
// with an alias.
const fixtureDex = `[
	{
		"id": 1,
		"name": "Bulbasaur",
		"types": ["Grass", "Poison"],
		"stats": {"HP": 45, "Attack": 49, "Defence": 49, "Sp. Atk": 65, "Sp. Def": 65, "Speed": 45},
		"spawnchance": 0.4,
		"evolution": {"evolves_to": 2, "level": 16},
		"gender": {"male_chance": 0.875},
		"starter": true
	},
	{
		"id": 2,
		"name": "Ivysaur",
		"types": ["Grass", "Poison"],
		"stats": {"HP": 60, "Attack": 62, "Defence": 63, "Sp. Atk": 80, "Sp. Def": 80, "Speed": 60},
		"spawnchance": 0.25,
		"evolution": {"evolves_to": 3, "level": 32},
		"gender": {"male_chance": 0.875}
	},
	{
		"id": 3,
		"name": "Venusaur",
		"types": ["Grass", "Poison"],
		"stats": {"HP": 80, "Attack": 82, "Defence": 83, "Sp. Atk": 100, "Sp. Def": 100, "Speed": 80},
		"spawnchance": 0.1,
		"gender": {"male_chance": 0.875}
	},
	{
		"id": 25,
		"name": {"english": "Pikachu", "japanese": "ピカチュウ", "french": "Pikachu"},
		"types": ["Electric"],
		"stats": {"HP": 35, "Attack": 55, "Defence": 40, "Sp. Atk": 50, "Sp. Def": 50, "Speed": 90},
		"spawnchance": 0.45,
		"gender": {"male_chance": 0.5}
	},
	{
		"id": 81,
		"name": "Magnemite",
		"types": ["Electric", "Steel"],
		"stats": {"HP": 25, "Attack": 35, "Defence": 70, "Sp. Atk": 95, "Sp. Def": 55, "Speed": 45},
		"spawnchance": 0.4,
		"gender": {"genderless": true}
	},
	{
		"id": 122,
		"name": "Mr. Mime",
		"types": ["Psychic", "Fairy"],
		"stats": {"HP": 40, "Attack": 45, "Defence": 65, "Sp. Atk": 100, "Sp. Def": 120, "Speed": 90},
		"spawnchance": 0.3,
		"gender": {"male_chance": 0.5}
	},
	{
		"id": 10129,
		"name": "Magikarp",
		"types": ["Water"],
		"stats": {"HP": 20, "Attack": 10, "Defence": 55, "Sp. Atk": 15, "Sp. Def": 20, "Speed": 80},
		"spawnchance": 0.01,
		"variant": "Shiny",
		"alias": "Shiny Magikarp",
		"gender": {"male_chance": 0.5}
	}
]`

// CreateTestCatalog builds the fixture catalog
func CreateTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.NewFromJSON([]byte(fixtureDex))
	require.NoError(t, err)
	return c
}

// CreateTestInstance creates an owned pokemon with sensible defaults
func CreateTestInstance(id, ownerID string, speciesID, level int) *pokemon.Instance {
	return &pokemon.Instance{
		ID:        id,
		OwnerID:   ownerID,
		SpeciesID: speciesID,
		Level:     level,
		Stats:     pokemon.StatBlock{HP: 45, Attack: 49, Defence: 49, SpAtk: 65, SpDef: 65, Speed: 45},
		IVs:       pokemon.StatBlock{HP: 10, Attack: 11, Defence: 12, SpAtk: 13, SpDef: 14, Speed: 15},
		Gender:    pokemon.GenderMale,
		CaughtAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// CreateTestTrainer creates a trainer state that has already started playing
func CreateTestTrainer(ownerID string) *trainer.State {
	state := trainer.Defaults(ownerID)
	state.HasStarter = true
	return state
}
