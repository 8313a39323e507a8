// Package catalog loads the bundled species dataset and answers the read-only
// questions the game asks of it: weighted spawn draws, evolution targets,
// starter choices and the valid-name sets used for catch matching.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flaree/pokecord-bot-discord/internal/dice"
	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

//go:embed data/pokedex.json
var pokedexJSON []byte

// punctuation matches Python's string.punctuation, which the original name
// matcher strips from the ends of the default name
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Catalog is the immutable species dataset, loaded once at startup
type Catalog struct {
	species []*pokemon.Species
	byID    map[int]*pokemon.Species
	weights []float64
}

// Load parses the bundled dataset
func Load() (*Catalog, error) {
	return NewFromJSON(pokedexJSON)
}

// NewFromJSON builds a catalog from raw dataset bytes. Exposed so tests can
// run against a small fixture dataset.
func NewFromJSON(data []byte) (*Catalog, error) {
	var species []*pokemon.Species
	if err := json.Unmarshal(data, &species); err != nil {
		return nil, fmt.Errorf("failed to parse pokedex data: %w", err)
	}
	if len(species) == 0 {
		return nil, fmt.Errorf("pokedex data contains no species")
	}

	c := &Catalog{
		species: species,
		byID:    make(map[int]*pokemon.Species, len(species)),
		weights: make([]float64, len(species)),
	}
	for i, sp := range species {
		if sp.ID <= 0 {
			return nil, fmt.Errorf("species %q has invalid id %d", sp.Name.Default(), sp.ID)
		}
		if sp.SpawnWeight <= 0 {
			return nil, fmt.Errorf("species %d has non-positive spawn weight", sp.ID)
		}
		if _, dup := c.byID[sp.ID]; dup {
			return nil, fmt.Errorf("duplicate species id %d", sp.ID)
		}
		c.byID[sp.ID] = sp
		c.weights[i] = sp.SpawnWeight
	}

	// Evolution targets must resolve
	for _, sp := range species {
		if sp.Evolution == nil {
			continue
		}
		if _, ok := c.byID[sp.Evolution.Target]; !ok {
			return nil, fmt.Errorf("species %d evolves into unknown species %d", sp.ID, sp.Evolution.Target)
		}
	}

	return c, nil
}

// Get returns the species with the given id
func (c *Catalog) Get(id int) (*pokemon.Species, error) {
	sp, ok := c.byID[id]
	if !ok {
		return nil, pokerr.NotFoundf("no species with id %d", id).
			WithMeta("species_id", id)
	}
	return sp, nil
}

// All returns every species in dataset order
func (c *Catalog) All() []*pokemon.Species {
	return c.species
}

// Len returns the number of species in the dataset
func (c *Catalog) Len() int {
	return len(c.species)
}

// Choose draws a species weighted by spawn weight
func (c *Catalog) Choose(roller dice.Roller) (*pokemon.Species, error) {
	idx, err := roller.WeightedIndex(c.weights)
	if err != nil {
		return nil, fmt.Errorf("failed to draw species: %w", err)
	}
	return c.species[idx], nil
}

// Starters returns the species offered by the starter picker
func (c *Catalog) Starters() []*pokemon.Species {
	var starters []*pokemon.Species
	for _, sp := range c.species {
		if sp.Starter {
			starters = append(starters, sp)
		}
	}
	return starters
}

// FindByName returns the first species whose display name, default name or
// alias matches (case-insensitive). Used by the forced-spawn command.
func (c *Catalog) FindByName(name string) (*pokemon.Species, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, pokerr.InvalidArgument("species name is required")
	}
	for _, sp := range c.species {
		if sp.Alias != "" && strings.ToLower(sp.Alias) == needle {
			return sp, nil
		}
		if sp.Alias == "" && strings.ToLower(sp.Name.Default()) == needle {
			return sp, nil
		}
	}
	return nil, pokerr.NotFoundf("no species named %q", name)
}

// ValidNames returns every guess accepted as a catch of this species, all
// lowercased: each localized name, the default name with surrounding
// punctuation stripped, and the alias if the species is a variant.
func (c *Catalog) ValidNames(sp *pokemon.Species) []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(n string) {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			return
		}
		if _, dup := seen[n]; dup {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}

	for _, name := range sp.Name.Locales {
		add(name)
	}
	add(strings.Trim(sp.Name.Default(), punctuation))
	if sp.Alias != "" {
		add(sp.Alias)
		add(strings.Trim(sp.Alias, punctuation))
	}
	return names
}

// Matches reports whether a guess catches the species
func (c *Catalog) Matches(sp *pokemon.Species, guess string) bool {
	needle := strings.ToLower(strings.TrimSpace(guess))
	for _, name := range c.ValidNames(sp) {
		if name == needle {
			return true
		}
	}
	return false
}
