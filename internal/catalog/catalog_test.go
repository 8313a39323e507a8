package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/dice"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

const testDex = `[
	{
		"id": 1,
		"name": "Bulbasaur",
		"types": ["Grass", "Poison"],
		"stats": {"HP": 45, "Attack": 49, "Defence": 49, "Sp. Atk": 65, "Sp. Def": 65, "Speed": 45},
		"spawnchance": 0.5,
		"evolution": {"evolves_to": 2, "level": 16},
		"gender": {"male_chance": 0.875},
		"starter": true
	},
	{
		"id": 2,
		"name": "Ivysaur",
		"types": ["Grass", "Poison"],
		"stats": {"HP": 60, "Attack": 62, "Defence": 63, "Sp. Atk": 80, "Sp. Def": 80, "Speed": 60},
		"spawnchance": 0.3,
		"gender": {"male_chance": 0.875}
	},
	{
		"id": 25,
		"name": {"english": "Pikachu", "japanese": "ピカチュウ"},
		"types": ["Electric"],
		"stats": {"HP": 35, "Attack": 55, "Defence": 40, "Sp. Atk": 50, "Sp. Def": 50, "Speed": 90},
		"spawnchance": 0.2,
		"gender": {"male_chance": 0.5}
	},
	{
		"id": 122,
		"name": "Mr. Mime",
		"types": ["Psychic", "Fairy"],
		"stats": {"HP": 40, "Attack": 45, "Defence": 65, "Sp. Atk": 100, "Sp. Def": 120, "Speed": 90},
		"spawnchance": 0.1,
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

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.NewFromJSON([]byte(testDex))
	require.NoError(t, err)
	return c
}

func TestLoad_BundledDataset(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 0)

	// Every evolution in the shipped data must resolve, which Load
	// already enforces; spot-check a known chain
	sp, err := c.Get(1)
	require.NoError(t, err)
	require.NotNil(t, sp.Evolution)
	target, err := c.Get(sp.Evolution.Target)
	require.NoError(t, err)
	assert.NotEmpty(t, target.Name.Default())
}

func TestNewFromJSON_Validation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty dataset", data: `[]`},
		{name: "invalid id", data: `[{"id": 0, "name": "X", "stats": {}, "spawnchance": 1}]`},
		{name: "non-positive weight", data: `[{"id": 1, "name": "X", "stats": {}, "spawnchance": 0}]`},
		{
			name: "duplicate id",
			data: `[{"id": 1, "name": "X", "stats": {}, "spawnchance": 1},
				{"id": 1, "name": "Y", "stats": {}, "spawnchance": 1}]`,
		},
		{
			name: "dangling evolution",
			data: `[{"id": 1, "name": "X", "stats": {}, "spawnchance": 1,
				"evolution": {"evolves_to": 99, "level": 16}}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.NewFromJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestGet_UnknownID(t *testing.T) {
	c := loadTestCatalog(t)

	_, err := c.Get(999)
	assert.True(t, pokerr.IsNotFound(err))
}

func TestChoose_Weighted(t *testing.T) {
	c := loadTestCatalog(t)
	roller := dice.NewMockRoller()

	// Index 2 of the dataset is Pikachu
	roller.SetWeightedIndexes([]int{2})
	sp, err := c.Choose(roller)
	require.NoError(t, err)
	assert.Equal(t, 25, sp.ID)
}

func TestStarters(t *testing.T) {
	c := loadTestCatalog(t)

	starters := c.Starters()
	require.Len(t, starters, 1)
	assert.Equal(t, 1, starters[0].ID)
}

func TestFindByName(t *testing.T) {
	c := loadTestCatalog(t)

	sp, err := c.FindByName("bulbasaur")
	require.NoError(t, err)
	assert.Equal(t, 1, sp.ID)

	// Variants are found by alias, not the base name they share
	sp, err = c.FindByName("Shiny Magikarp")
	require.NoError(t, err)
	assert.Equal(t, 10129, sp.ID)

	_, err = c.FindByName("missingno")
	assert.True(t, pokerr.IsNotFound(err))
}

func TestValidNames(t *testing.T) {
	c := loadTestCatalog(t)

	pikachu, err := c.Get(25)
	require.NoError(t, err)
	names := c.ValidNames(pikachu)
	assert.Contains(t, names, "pikachu")
	assert.Contains(t, names, "ピカチュウ")

	// Punctuation is stripped from the ends of the default name, so the
	// bare form works too
	mrMime, err := c.Get(122)
	require.NoError(t, err)
	names = c.ValidNames(mrMime)
	assert.Contains(t, names, "mr. mime")

	shiny, err := c.Get(10129)
	require.NoError(t, err)
	names = c.ValidNames(shiny)
	assert.Contains(t, names, "shiny magikarp")
}

func TestMatches(t *testing.T) {
	c := loadTestCatalog(t)

	pikachu, err := c.Get(25)
	require.NoError(t, err)

	assert.True(t, c.Matches(pikachu, "Pikachu"))
	assert.True(t, c.Matches(pikachu, "  pikachu  "))
	assert.True(t, c.Matches(pikachu, "ピカチュウ"))
	assert.False(t, c.Matches(pikachu, "raichu"))
	assert.False(t, c.Matches(pikachu, ""))
}
