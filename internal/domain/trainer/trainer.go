package trainer

import "time"

// State is the per-owner progress record. A missing record is equivalent to
// the zero-value defaults returned by Defaults.
type State struct {
	OwnerID string

	// HasStarter gates every collection command; catching cannot begin
	// until a starter has been picked
	HasStarter bool

	// SelectedSlot is the 1-based slot of the owner's default pokemon.
	// Collection mutations keep it pointing at an existing slot; it is
	// repaired to 1 if it is ever found out of range.
	SelectedSlot int

	// LastProgress is the timestamp of the last activity xp grant
	LastProgress time.Time

	// Silence suppresses level-up announcements for this owner
	Silence bool

	// Locale selects which localized species names the owner sees
	Locale string

	// Pokedex counts catches per species id. Presence of a key means the
	// species has been discovered.
	Pokedex map[int]int
}

// Defaults returns the state of an owner who has never played
func Defaults(ownerID string) *State {
	return &State{
		OwnerID:      ownerID,
		SelectedSlot: 1,
		Pokedex:      make(map[int]int),
	}
}

// RecordCatch bumps the pokedex counter and reports whether the species is a
// new discovery for this owner
func (s *State) RecordCatch(speciesID int) (newDiscovery bool) {
	if s.Pokedex == nil {
		s.Pokedex = make(map[int]int)
	}
	_, seen := s.Pokedex[speciesID]
	s.Pokedex[speciesID]++
	return !seen
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	cp := *s
	cp.Pokedex = make(map[int]int, len(s.Pokedex))
	for k, v := range s.Pokedex {
		cp.Pokedex[k] = v
	}
	return &cp
}
