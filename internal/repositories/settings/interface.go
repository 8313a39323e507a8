package settings

//go:generate mockgen -destination=mock/mock.go -package=mocksettings -source=interface.go

import "context"

// GuildSettings is the per-guild configuration read by the game core
type GuildSettings struct {
	GuildID string `json:"guild_id"`

	// Toggle enables the game for the guild; everything is off by default
	Toggle bool `json:"toggle"`

	// ActiveChannels are the channel ids spawns may land in. Empty means
	// spawns land in whatever channel triggered them.
	ActiveChannels []string `json:"activechannels"`

	// SpawnMinMessages and SpawnMaxMessages bound the random message
	// threshold a spawn cycle draws. Zero values fall back to the
	// process-wide defaults.
	SpawnMinMessages int `json:"spawn_min,omitempty"`
	SpawnMaxMessages int `json:"spawn_max,omitempty"`
}

// Defaults returns the settings of a guild that was never configured
func Defaults(guildID string) *GuildSettings {
	return &GuildSettings{GuildID: guildID}
}

// Clone returns a deep copy of the settings
func (s *GuildSettings) Clone() *GuildSettings {
	cp := *s
	cp.ActiveChannels = append([]string(nil), s.ActiveChannels...)
	return &cp
}

// Repository persists guild settings. Get never fails on a missing guild: an
// unconfigured guild gets the defaults (game toggled off).
type Repository interface {
	Get(ctx context.Context, guildID string) (*GuildSettings, error)
	Save(ctx context.Context, settings *GuildSettings) error
}
