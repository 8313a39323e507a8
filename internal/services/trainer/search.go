package trainer

import (
	"context"
	"strings"

	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
)

// Filter narrows a collection search. Zero-value fields are ignored; set
// fields must all match.
type Filter struct {
	// Name matches case-insensitively against nicknames and every
	// localized species name
	Name string

	// SpeciesID matches the exact catalog id
	SpeciesID int

	// Level matches the exact level
	Level int

	// MinLevel matches levels at or above it
	MinLevel int

	// Type matches one of the species' elemental types, case-insensitive
	Type string

	// Variant matches the species variant tag ("Mega", "Shiny")
	Variant string

	// Gender matches the rolled gender
	Gender pokemon.Gender

	// MinTotalIV matches instances whose six IVs sum to at least this
	MinTotalIV int
}

// empty reports whether no field is set
func (f *Filter) empty() bool {
	return f.Name == "" && f.SpeciesID == 0 && f.Level == 0 && f.MinLevel == 0 &&
		f.Type == "" && f.Variant == "" && f.Gender == "" && f.MinTotalIV == 0
}

func (f *Filter) matches(e *Entry) bool {
	if f.Name != "" {
		needle := strings.ToLower(f.Name)
		if !strings.Contains(strings.ToLower(e.Instance.Nickname), needle) && !f.matchesSpeciesName(e, needle) {
			return false
		}
	}
	if f.SpeciesID != 0 && e.Species.ID != f.SpeciesID {
		return false
	}
	if f.Level != 0 && e.Instance.Level != f.Level {
		return false
	}
	if f.MinLevel != 0 && e.Instance.Level < f.MinLevel {
		return false
	}
	if f.Type != "" && !f.matchesType(e) {
		return false
	}
	if f.Variant != "" && !strings.EqualFold(e.Species.Variant, f.Variant) {
		return false
	}
	if f.Gender != "" && e.Instance.Gender != f.Gender {
		return false
	}
	if f.MinTotalIV != 0 && e.Instance.IVs.Total() < f.MinTotalIV {
		return false
	}
	return true
}

func (f *Filter) matchesSpeciesName(e *Entry, needle string) bool {
	if strings.Contains(strings.ToLower(e.Species.Alias), needle) {
		return true
	}
	for _, name := range e.Species.Name.Locales {
		if strings.Contains(strings.ToLower(name), needle) {
			return true
		}
	}
	return false
}

func (f *Filter) matchesType(e *Entry) bool {
	for _, t := range e.Species.Types {
		if strings.EqualFold(t, f.Type) {
			return true
		}
	}
	return false
}

func (s *service) Search(ctx context.Context, ownerID string, filter *Filter) ([]*Entry, error) {
	if filter == nil || filter.empty() {
		return nil, pokerr.InvalidArgument("at least one search filter is required")
	}

	entries, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	matched := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if filter.matches(e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
