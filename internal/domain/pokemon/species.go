package pokemon

// Gender of an owned pokemon, fixed at acquisition
type Gender string

const (
	GenderMale       Gender = "Male"
	GenderFemale     Gender = "Female"
	GenderGenderless Gender = "Genderless"
	GenderUnknown    Gender = "Unknown"
)

// GenderRatio describes how genders are drawn for a species
type GenderRatio struct {
	// Genderless species never roll a gender
	Genderless bool `json:"genderless,omitempty"`
	// MaleChance is the probability of rolling Male, in [0, 1].
	// Ignored when Genderless is set.
	MaleChance float64 `json:"male_chance,omitempty"`
}

// EvolutionRule maps a species to its successor once a minimum level is reached
type EvolutionRule struct {
	// Target is the species id evolved into
	Target int `json:"evolves_to"`
	// MinLevel is the level at which the evolution fires
	MinLevel int `json:"level"`
}

// Species is an immutable catalog entry describing one kind of pokemon
type Species struct {
	// ID is the national dex number
	ID int `json:"id"`

	// Name holds the localized display names
	Name Name `json:"name"`

	// Types are the elemental type tags, in dex order
	Types []string `json:"types"`

	// BaseStats is the stat block a freshly caught instance starts from
	BaseStats StatBlock `json:"stats"`

	// SpawnWeight drives the weighted spawn draw. The dataset derives it
	// from stat totals, so stronger species spawn less often.
	SpawnWeight float64 `json:"spawnchance"`

	// Variant tags special forms ("Mega", "Shiny"), empty for regular species
	Variant string `json:"variant,omitempty"`

	// Alias is the variant display name ("Mega Charizard"), empty otherwise
	Alias string `json:"alias,omitempty"`

	// Evolution is nil for species that do not evolve by level
	Evolution *EvolutionRule `json:"evolution,omitempty"`

	// GenderRatio drives the gender roll at acquisition
	GenderRatio GenderRatio `json:"gender"`

	// Starter marks species offered by the starter picker
	Starter bool `json:"starter,omitempty"`
}

// DisplayName returns the name to show for this species in the given locale,
// preferring the variant alias when one exists
func (s *Species) DisplayName(locale string) string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name.Resolve(locale)
}
