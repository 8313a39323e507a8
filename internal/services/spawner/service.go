package spawner

//go:generate mockgen -destination=mock/mock_service.go -package=mockspawner -source=service.go

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/dice"
	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/settings"
)

const (
	// DefaultSpawnMinMessages and DefaultSpawnMaxMessages bound the
	// random message threshold when a guild has not configured its own
	DefaultSpawnMinMessages = 20
	DefaultSpawnMaxMessages = 120

	// antiSpamWindow is how long the author who started a spawn cycle is
	// ignored, so one trainer cannot talk a spawn into existence alone
	antiSpamWindow = 5 * time.Second
)

// Spawn is a wild pokemon currently catchable in one channel
type Spawn struct {
	GuildID   string
	ChannelID string
	Species   *pokemon.Species
	SpawnedAt time.Time
}

// Service decides when and where wild pokemon appear and owns the active
// spawn slot per channel
type Service interface {
	// HandleMessage records one qualifying message and returns a Spawn
	// when the cycle threshold is crossed, nil otherwise
	HandleMessage(ctx context.Context, guildID, channelID, authorID string) (*Spawn, error)

	// ForceSpawn spawns a named species (random when name is empty) into
	// the channel, replacing any active spawn there
	ForceSpawn(ctx context.Context, guildID, channelID, speciesName string) (*Spawn, error)

	// ActiveSpawn returns the channel's active spawn, or nil
	ActiveSpawn(channelID string) *Spawn

	// Claim atomically tests the active spawn with match and clears the
	// slot when it passes. The returned spawn is nil when no spawn was
	// active; claimed is true only for the caller that consumed it.
	Claim(channelID string, match func(*Spawn) bool) (spawn *Spawn, claimed bool)

	// Clear drops the channel's active spawn, if any
	Clear(channelID string)

	// RunBackground spawns into a random eligible known guild every
	// interval until ctx is done, calling onSpawn for each spawn so the
	// caller can announce it. Blocks; run it on its own goroutine.
	RunBackground(ctx context.Context, interval time.Duration, onSpawn func(*Spawn))
}

// ServiceConfig holds configuration for the spawner service
type ServiceConfig struct {
	Catalog  *catalog.Catalog // Required
	Roller   dice.Roller      // Required
	Settings *settings.Cache  // Required
	SpawnMin int              // zero means DefaultSpawnMinMessages
	SpawnMax int              // zero means DefaultSpawnMaxMessages
}

// activity tracks one guild's progress toward its next spawn
type activity struct {
	amount        int
	threshold     int
	starterAuthor string
	startedAt     time.Time
}

type service struct {
	catalog  *catalog.Catalog
	roller   dice.Roller
	settings *settings.Cache
	spawnMin int
	spawnMax int

	mu       sync.Mutex
	activity map[string]*activity
	spawns   map[string]*Spawn
	// guilds that have produced qualifying messages; the background
	// spawner draws from these
	knownGuilds map[string]struct{}
}

// NewService creates a new spawner service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}
	if cfg.Settings == nil {
		panic("settings cache is required")
	}

	spawnMin := cfg.SpawnMin
	if spawnMin <= 0 {
		spawnMin = DefaultSpawnMinMessages
	}
	spawnMax := cfg.SpawnMax
	if spawnMax < spawnMin {
		spawnMax = DefaultSpawnMaxMessages
	}

	return &service{
		catalog:     cfg.Catalog,
		roller:      cfg.Roller,
		settings:    cfg.Settings,
		spawnMin:    spawnMin,
		spawnMax:    spawnMax,
		activity:    make(map[string]*activity),
		spawns:      make(map[string]*Spawn),
		knownGuilds: make(map[string]struct{}),
	}
}

// HandleMessage records one qualifying message for the guild
func (s *service) HandleMessage(ctx context.Context, guildID, channelID, authorID string) (*Spawn, error) {
	if guildID == "" || channelID == "" || authorID == "" {
		return nil, pokerr.InvalidArgument("guild, channel and author IDs are required")
	}

	guildSettings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !guildSettings.Toggle {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.knownGuilds[guildID] = struct{}{}

	state := s.activity[guildID]
	if state == nil {
		threshold, err := s.drawThreshold(guildSettings)
		if err != nil {
			return nil, err
		}
		s.activity[guildID] = &activity{
			amount:        1,
			threshold:     threshold,
			starterAuthor: authorID,
			startedAt:     time.Now(),
		}
		return nil, nil
	}

	// The cycle starter cannot pad the counter inside the window
	if authorID == state.starterAuthor && time.Since(state.startedAt) < antiSpamWindow {
		return nil, nil
	}

	state.amount++
	if state.amount <= state.threshold {
		return nil, nil
	}

	// Threshold crossed: consume the cycle and spawn
	delete(s.activity, guildID)

	targetChannel := channelID
	if len(guildSettings.ActiveChannels) > 0 {
		idx, err := s.roller.Between(0, len(guildSettings.ActiveChannels)-1)
		if err != nil {
			return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to pick spawn channel")
		}
		targetChannel = guildSettings.ActiveChannels[idx]
	}

	return s.spawnLocked(guildID, targetChannel)
}

// drawThreshold draws the message count this cycle must exceed
func (s *service) drawThreshold(guildSettings *settings.GuildSettings) (int, error) {
	min, max := s.spawnMin, s.spawnMax
	if guildSettings.SpawnMinMessages > 0 {
		min = guildSettings.SpawnMinMessages
	}
	if guildSettings.SpawnMaxMessages >= min {
		max = guildSettings.SpawnMaxMessages
	}
	if max < min {
		max = min
	}

	threshold, err := s.roller.Between(min, max)
	if err != nil {
		return 0, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to draw spawn threshold")
	}
	return threshold, nil
}

// spawnLocked places a weighted-random species into the channel.
// Caller holds s.mu.
func (s *service) spawnLocked(guildID, channelID string) (*Spawn, error) {
	species, err := s.catalog.Choose(s.roller)
	if err != nil {
		return nil, pokerr.WrapWithCode(err, pokerr.CodeInternal, "failed to choose species")
	}

	spawn := &Spawn{
		GuildID:   guildID,
		ChannelID: channelID,
		Species:   species,
		SpawnedAt: time.Now(),
	}
	// A fresh spawn replaces any unclaimed one; the old spawn becomes
	// uncatchable
	s.spawns[channelID] = spawn
	return spawn, nil
}

// ForceSpawn spawns a named or random species into the channel
func (s *service) ForceSpawn(ctx context.Context, guildID, channelID, speciesName string) (*Spawn, error) {
	if channelID == "" {
		return nil, pokerr.InvalidArgument("channel ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if speciesName == "" {
		return s.spawnLocked(guildID, channelID)
	}

	species, err := s.catalog.FindByName(speciesName)
	if err != nil {
		return nil, err
	}
	spawn := &Spawn{
		GuildID:   guildID,
		ChannelID: channelID,
		Species:   species,
		SpawnedAt: time.Now(),
	}
	s.spawns[channelID] = spawn
	return spawn, nil
}

// ActiveSpawn returns the channel's active spawn, or nil
func (s *service) ActiveSpawn(channelID string) *Spawn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawns[channelID]
}

// Claim atomically tests and clears the channel's spawn
func (s *service) Claim(channelID string, match func(*Spawn) bool) (*Spawn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spawn := s.spawns[channelID]
	if spawn == nil {
		return nil, false
	}
	if !match(spawn) {
		return spawn, false
	}

	delete(s.spawns, channelID)
	return spawn, true
}

// Clear drops the channel's active spawn
func (s *service) Clear(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.spawns, channelID)
}

// RunBackground spawns into a random eligible known guild every interval
func (s *service) RunBackground(ctx context.Context, interval time.Duration, onSpawn func(*Spawn)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			spawn, err := s.backgroundSpawn(ctx)
			if err != nil {
				log.Printf("background spawn failed: %v", err)
				continue
			}
			if spawn == nil {
				continue
			}
			log.Printf("background spawn: %s in channel %s", spawn.Species.DisplayName(pokemon.DefaultLocale), spawn.ChannelID)
			if onSpawn != nil {
				onSpawn(spawn)
			}
		}
	}
}

// backgroundSpawn picks a random known guild with the game enabled and a
// configured channel list and spawns there. Guilds the bot has not seen a
// message from are never picked.
func (s *service) backgroundSpawn(ctx context.Context) (*Spawn, error) {
	s.mu.Lock()
	guilds := make([]string, 0, len(s.knownGuilds))
	for id := range s.knownGuilds {
		guilds = append(guilds, id)
	}
	s.mu.Unlock()

	if len(guilds) == 0 {
		return nil, nil
	}

	idx, err := s.roller.Between(0, len(guilds)-1)
	if err != nil {
		return nil, err
	}
	guildID := guilds[idx]

	guildSettings, err := s.settings.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !guildSettings.Toggle || len(guildSettings.ActiveChannels) == 0 {
		return nil, nil
	}

	chIdx, err := s.roller.Between(0, len(guildSettings.ActiveChannels)-1)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnLocked(guildID, guildSettings.ActiveChannels[chIdx])
}
