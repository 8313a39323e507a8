package pokemon

import "time"

const (
	// MaxLevel is the hard level cap
	MaxLevel = 100

	// MaxNicknameLen is the longest accepted nickname
	MaxNicknameLen = 40
)

// Instance is one owned pokemon. Slot position is never stored here: it is
// always derived from the owner's current listing order.
type Instance struct {
	// ID is the acquisition id, unique across all owners and stable for
	// the lifetime of the instance. It is the storage key.
	ID string

	// OwnerID is the trainer that owns this instance
	OwnerID string

	// SpeciesID references the catalog entry. Evolution replaces it.
	SpeciesID int

	// Level in [1, MaxLevel]
	Level int

	// XP accumulated toward the next level, reset on level-up and evolution
	XP int

	// Stats is the current stat block: base stats plus accumulated
	// per-level bonuses. Preserved through evolution.
	Stats StatBlock

	// IVs are rolled once at acquisition, each in [0, 31], and never change
	IVs StatBlock

	// Gender is drawn once at acquisition and never changes
	Gender Gender

	// Nickname is optional free text set by the owner
	Nickname string

	// CaughtAt records acquisition time
	CaughtAt time.Time
}

// DisplayName returns the nickname when set, otherwise the species name
// resolved for the given locale
func (i *Instance) DisplayName(sp *Species, locale string) string {
	if i.Nickname != "" {
		return i.Nickname
	}
	if sp == nil {
		return ""
	}
	return sp.DisplayName(locale)
}

// Clone returns a deep copy of the instance
func (i *Instance) Clone() *Instance {
	cp := *i
	return &cp
}
