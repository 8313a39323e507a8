package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/services"
	"github.com/flaree/pokecord-bot-discord/internal/services/spawner"
)

// Handler routes Discord messages into the game services
type Handler struct {
	ServiceProvider *services.Provider

	prefix  string
	ownerID string
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ServiceProvider *services.Provider
	Prefix          string
	// OwnerID is the Discord user allowed to run maintenance commands
	OwnerID string
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "!"
	}
	return &Handler{
		ServiceProvider: cfg.ServiceProvider,
		prefix:          prefix,
		ownerID:         cfg.OwnerID,
	}
}

// HandleMessageCreate is the single entry point for guild messages. Commands
// are dispatched by prefix; everything else counts as activity that earns xp
// and moves the guild toward its next spawn.
func (h *Handler) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		return
	}

	// Generous ceiling: a trade conversation alone can take over a minute
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if strings.HasPrefix(m.Content, h.prefix) {
		h.dispatchCommand(ctx, s, m, strings.TrimPrefix(m.Content, h.prefix))
		return
	}

	h.handleActivity(ctx, s, m)
}

// handleActivity awards xp for the message and ticks the spawn counter
func (h *Handler) handleActivity(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	guildSettings, err := h.ServiceProvider.Settings.Get(ctx, m.GuildID)
	if err != nil {
		log.Printf("failed to load settings for guild %s: %v", m.GuildID, err)
		return
	}
	if !guildSettings.Toggle {
		return
	}

	outcome, err := h.ServiceProvider.ProgressionService.GrantActivityProgress(ctx, m.Author.ID)
	if err != nil {
		log.Printf("failed to grant progress to %s: %v", m.Author.ID, err)
	} else if outcome != nil && outcome.LeveledUp && !outcome.Silenced {
		name := outcome.Instance.DisplayName(outcome.Species, pokemon.DefaultLocale)
		if outcome.Evolved {
			h.reply(s, m.ChannelID, fmt.Sprintf(
				"Congratulations <@%s>! Your %s has evolved into %s!",
				m.Author.ID,
				outcome.EvolvedFrom.DisplayName(pokemon.DefaultLocale),
				outcome.Species.DisplayName(pokemon.DefaultLocale),
			))
		} else {
			h.reply(s, m.ChannelID, fmt.Sprintf(
				"Congratulations <@%s>! %s has levelled up to level %d!",
				m.Author.ID, name, outcome.Instance.Level,
			))
		}
	}

	spawn, err := h.ServiceProvider.SpawnerService.HandleMessage(ctx, m.GuildID, m.ChannelID, m.Author.ID)
	if err != nil {
		log.Printf("spawn handling failed in guild %s: %v", m.GuildID, err)
		return
	}
	if spawn != nil {
		h.AnnounceSpawn(s, spawn)
	}
}

// AnnounceSpawn posts the wild pokemon embed into the spawn channel
func (h *Handler) AnnounceSpawn(s *discordgo.Session, spawn *spawner.Spawn) {
	embed := &discordgo.MessageEmbed{
		Title:       "A wild pokémon has appeared!",
		Description: fmt.Sprintf("Guess the pokémon and type %scatch <name> to catch it!", h.prefix),
		Color:       0xE74C3C,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Stuck? Try %shint", h.prefix),
		},
	}
	if _, err := s.ChannelMessageSendEmbed(spawn.ChannelID, embed); err != nil {
		log.Printf("failed to announce spawn in channel %s: %v", spawn.ChannelID, err)
	}
}

func (h *Handler) reply(s *discordgo.Session, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("failed to send message to channel %s: %v", channelID, err)
	}
}
