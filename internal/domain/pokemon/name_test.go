package pokemon_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
)

func TestName_UnmarshalPlainString(t *testing.T) {
	var n pokemon.Name
	require.NoError(t, json.Unmarshal([]byte(`"Bulbasaur"`), &n))

	assert.Equal(t, "Bulbasaur", n.Default())
	assert.Equal(t, "Bulbasaur", n.Resolve("japanese"), "missing locales fall back to the default")
}

func TestName_UnmarshalLocaleMap(t *testing.T) {
	var n pokemon.Name
	require.NoError(t, json.Unmarshal([]byte(`{"english": "Pikachu", "japanese": "ピカチュウ"}`), &n))

	assert.Equal(t, "Pikachu", n.Default())
	assert.Equal(t, "ピカチュウ", n.Resolve("japanese"))
	assert.Equal(t, "Pikachu", n.Resolve("french"))
}

func TestName_UnmarshalMapWithoutDefaultLocale(t *testing.T) {
	var n pokemon.Name
	err := json.Unmarshal([]byte(`{"japanese": "ピカチュウ"}`), &n)
	assert.Error(t, err)
}

func TestInstance_DisplayName(t *testing.T) {
	sp := &pokemon.Species{ID: 25, Name: pokemon.NewName("Pikachu")}

	inst := &pokemon.Instance{SpeciesID: 25}
	assert.Equal(t, "Pikachu", inst.DisplayName(sp, pokemon.DefaultLocale))

	inst.Nickname = "Sparky"
	assert.Equal(t, "Sparky", inst.DisplayName(sp, pokemon.DefaultLocale))
}
