package discord

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/flaree/pokecord-bot-discord/internal/domain/pokemon"
	pokerr "github.com/flaree/pokecord-bot-discord/internal/errors"
	"github.com/flaree/pokecord-bot-discord/internal/services/encounter"
	trainerService "github.com/flaree/pokecord-bot-discord/internal/services/trainer"
	"github.com/flaree/pokecord-bot-discord/internal/services/trading"
)

// dispatchCommand routes one prefixed message. content has the prefix
// already stripped.
func (h *Handler) dispatchCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	var err error
	switch command {
	case "catch":
		err = h.cmdCatch(ctx, s, m, args)
	case "hint":
		err = h.cmdHint(s, m)
	case "starter":
		err = h.cmdStarter(ctx, s, m, args)
	case "list", "pokemon":
		err = h.cmdList(ctx, s, m)
	case "select":
		err = h.cmdSelect(ctx, s, m, args)
	case "current":
		err = h.cmdCurrent(ctx, s, m)
	case "nick", "nickname":
		err = h.cmdNickname(ctx, s, m, args)
	case "release":
		err = h.cmdRelease(ctx, s, m, args)
	case "trade":
		err = h.cmdTrade(ctx, s, m, args)
	case "pokedex":
		err = h.cmdPokedex(ctx, s, m)
	case "search":
		err = h.cmdSearch(ctx, s, m, args)
	case "silence":
		err = h.cmdSilence(ctx, s, m)
	case "locale":
		err = h.cmdLocale(ctx, s, m, args)
	case "pokeset":
		err = h.cmdPokeset(ctx, s, m, args)
	case "dev":
		err = h.cmdDev(ctx, s, m, args)
	default:
		return
	}

	if err != nil {
		h.replyError(s, m.ChannelID, err)
	}
}

// replyError turns a service error into a user-facing message. Internal
// errors get a generic line so details stay in the log.
func (h *Handler) replyError(s *discordgo.Session, channelID string, err error) {
	switch pokerr.GetCode(err) {
	case pokerr.CodeInternal, pokerr.CodeUnknown:
		// log the real cause, tell the user something went wrong
		log.Printf("command failed: %v", err)
		h.reply(s, channelID, "Something went wrong, try again later.")
	default:
		h.reply(s, channelID, err.Error())
	}
}

func (h *Handler) cmdCatch(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %scatch <name>", h.prefix))
		return nil
	}

	result, err := h.ServiceProvider.EncounterService.AttemptCatch(ctx, m.ChannelID, m.Author.ID, strings.Join(args, " "))
	if err != nil {
		if pokerr.IsNotFound(err) {
			h.reply(s, m.ChannelID, "There is no wild pokémon here right now.")
			return nil
		}
		return err
	}

	switch result.Outcome {
	case encounter.OutcomeCaught:
		name := result.Species.DisplayName(pokemon.DefaultLocale)
		msg := fmt.Sprintf("Congratulations <@%s>! You caught a level %d %s!",
			m.Author.ID, result.Instance.Level, name)
		if result.NewDiscovery {
			msg += " Added to the pokédex."
		}
		h.reply(s, m.ChannelID, msg)
	case encounter.OutcomeWrongGuess:
		if result.CloseGuess {
			h.reply(s, m.ChannelID, "That's not it, but you're close!")
		} else {
			h.reply(s, m.ChannelID, "That's not the pokémon!")
		}
	}
	return nil
}

func (h *Handler) cmdHint(s *discordgo.Session, m *discordgo.MessageCreate) error {
	hint, err := h.ServiceProvider.EncounterService.Hint(m.ChannelID)
	if err != nil {
		if pokerr.IsNotFound(err) {
			h.reply(s, m.ChannelID, "There is no wild pokémon here right now.")
			return nil
		}
		return err
	}
	h.reply(s, m.ChannelID, fmt.Sprintf("This wild pokémon is: `%s`", hint))
	return nil
}

func (h *Handler) cmdStarter(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) == 0 {
		choices := h.ServiceProvider.TrainerService.StarterChoices()
		names := make([]string, 0, len(choices))
		for _, sp := range choices {
			names = append(names, sp.DisplayName(pokemon.DefaultLocale))
		}
		h.reply(s, m.ChannelID, fmt.Sprintf(
			"Welcome to the world of pokémon! Pick your starter with %sstarter <name>. Choices: %s",
			h.prefix, strings.Join(names, ", "),
		))
		return nil
	}

	entry, err := h.ServiceProvider.TrainerService.PickStarter(ctx, m.Author.ID, strings.Join(args, " "))
	if err != nil {
		return err
	}
	h.reply(s, m.ChannelID, fmt.Sprintf("You picked %s as your starter!",
		entry.Species.DisplayName(pokemon.DefaultLocale)))
	return nil
}

func (h *Handler) cmdList(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	entries, err := h.ServiceProvider.TrainerService.List(ctx, m.Author.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("You do not own any pokémon yet. Pick a starter with %sstarter.", h.prefix))
		return nil
	}

	locale, err := h.ServiceProvider.TrainerService.Locale(ctx, m.Author.ID)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. %s | Level %d | XP %d\n",
			e.Slot, e.Instance.DisplayName(e.Species, locale), e.Instance.Level, e.Instance.XP)
	}
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's pokémon", m.Author.Username),
		Description: b.String(),
		Color:       0x3498DB,
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return err
	}
	return nil
}

func (h *Handler) cmdSelect(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sselect <slot|latest>", h.prefix))
		return nil
	}

	var entry *trainerService.Entry
	var err error
	if strings.EqualFold(args[0], "latest") {
		entry, err = h.ServiceProvider.TrainerService.SelectLatest(ctx, m.Author.ID)
	} else {
		slot, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			h.reply(s, m.ChannelID, "The slot must be a number.")
			return nil
		}
		entry, err = h.ServiceProvider.TrainerService.Select(ctx, m.Author.ID, slot)
	}
	if err != nil {
		return err
	}
	h.reply(s, m.ChannelID, fmt.Sprintf("You selected %s (slot %d).",
		entry.Instance.DisplayName(entry.Species, pokemon.DefaultLocale), entry.Slot))
	return nil
}

func (h *Handler) cmdCurrent(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	entry, err := h.ServiceProvider.TrainerService.Current(ctx, m.Author.ID)
	if err != nil {
		return err
	}

	inst := entry.Instance
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s (level %d)", inst.DisplayName(entry.Species, pokemon.DefaultLocale), inst.Level),
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Slot", Value: strconv.Itoa(entry.Slot), Inline: true},
			{Name: "XP", Value: fmt.Sprintf("%d / %d", inst.XP, inst.Level*25), Inline: true},
			{Name: "Gender", Value: string(inst.Gender), Inline: true},
			{Name: "Type", Value: strings.Join(entry.Species.Types, " / "), Inline: true},
			{Name: "IVs", Value: fmt.Sprintf("%d / 186", inst.IVs.Total()), Inline: true},
			{Name: "Stats", Value: fmt.Sprintf("%d total", inst.Stats.Total()), Inline: true},
		},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return err
	}
	return nil
}

func (h *Handler) cmdNickname(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %snick <slot> [nickname]", h.prefix))
		return nil
	}
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		h.reply(s, m.ChannelID, "The slot must be a number.")
		return nil
	}

	nickname := strings.Join(args[1:], " ")
	entry, err := h.ServiceProvider.TrainerService.Nickname(ctx, m.Author.ID, slot, nickname)
	if err != nil {
		return err
	}
	if nickname == "" {
		h.reply(s, m.ChannelID, fmt.Sprintf("Cleared the nickname of your %s.",
			entry.Species.DisplayName(pokemon.DefaultLocale)))
	} else {
		h.reply(s, m.ChannelID, fmt.Sprintf("Your %s is now called %s.",
			entry.Species.DisplayName(pokemon.DefaultLocale), nickname))
	}
	return nil
}

func (h *Handler) cmdRelease(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %srelease <slot>", h.prefix))
		return nil
	}
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		h.reply(s, m.ChannelID, "The slot must be a number.")
		return nil
	}

	entry, err := h.ServiceProvider.TrainerService.Release(ctx, m.Author.ID, slot)
	if err != nil {
		return err
	}
	h.reply(s, m.ChannelID, fmt.Sprintf("You released your level %d %s. Goodbye!",
		entry.Instance.Level, entry.Instance.DisplayName(entry.Species, pokemon.DefaultLocale)))
	return nil
}

func (h *Handler) cmdTrade(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 || len(m.Mentions) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %strade @buyer <slot>", h.prefix))
		return nil
	}
	buyer := m.Mentions[0]
	if buyer.Bot {
		h.reply(s, m.ChannelID, "Bots do not trade.")
		return nil
	}
	slot, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		h.reply(s, m.ChannelID, "The slot must be a number.")
		return nil
	}

	result, err := h.ServiceProvider.TradingService.Trade(ctx, m.ChannelID, m.Author.ID, buyer.ID, slot)
	if err != nil {
		return err
	}

	name := result.Species.DisplayName(pokemon.DefaultLocale)
	switch result.Status {
	case trading.StatusCompleted:
		msg := fmt.Sprintf("Trade complete! <@%s> sold %s to <@%s> for %d credits.",
			m.Author.ID, name, buyer.ID, result.Price)
		if result.Credited < result.Price {
			msg += fmt.Sprintf(" (Only %d credits fit in the seller's bank.)", result.Credited)
		}
		h.reply(s, m.ChannelID, msg)
	case trading.StatusTimedOut:
		h.reply(s, m.ChannelID, "The trade timed out: "+result.Reason)
	default:
		h.reply(s, m.ChannelID, "The trade fell through: "+result.Reason)
	}
	return nil
}

func (h *Handler) cmdPokedex(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	entries, err := h.ServiceProvider.TrainerService.Pokedex(ctx, m.Author.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		h.reply(s, m.ChannelID, "Your pokédex is empty. Go catch something!")
		return nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "#%d %s | caught %d\n", e.Species.ID,
			e.Species.DisplayName(pokemon.DefaultLocale), e.Caught)
	}
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's pokédex (%d species)", m.Author.Username, len(entries)),
		Description: b.String(),
		Color:       0xF1C40F,
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return err
	}
	return nil
}

// cmdSearch filters the caller's collection. Filters are key:value pairs,
// e.g. "search type:fire minlevel:20".
func (h *Handler) cmdSearch(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf(
			"Usage: %ssearch <filters>. Filters: name:, id:, level:, minlevel:, type:, variant:, gender:, miniv:", h.prefix))
		return nil
	}

	filter := &trainerService.Filter{}
	for _, arg := range args {
		key, value, found := strings.Cut(arg, ":")
		if !found {
			// Bare words search by name
			filter.Name = strings.TrimSpace(filter.Name + " " + arg)
			continue
		}
		switch strings.ToLower(key) {
		case "name":
			filter.Name = value
		case "id":
			filter.SpeciesID, _ = strconv.Atoi(value)
		case "level":
			filter.Level, _ = strconv.Atoi(value)
		case "minlevel":
			filter.MinLevel, _ = strconv.Atoi(value)
		case "type":
			filter.Type = value
		case "variant":
			filter.Variant = value
		case "gender":
			filter.Gender = parseGender(value)
		case "miniv":
			filter.MinTotalIV, _ = strconv.Atoi(value)
		}
	}

	entries, err := h.ServiceProvider.TrainerService.Search(ctx, m.Author.ID, filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		h.reply(s, m.ChannelID, "No pokémon matched your search.")
		return nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. %s | Level %d\n",
			e.Slot, e.Instance.DisplayName(e.Species, pokemon.DefaultLocale), e.Instance.Level)
	}
	h.reply(s, m.ChannelID, b.String())
	return nil
}

func (h *Handler) cmdSilence(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) error {
	silenced, err := h.ServiceProvider.TrainerService.ToggleSilence(ctx, m.Author.ID)
	if err != nil {
		return err
	}
	if silenced {
		h.reply(s, m.ChannelID, "Level-up messages are now hidden.")
	} else {
		h.reply(s, m.ChannelID, "Level-up messages are now shown.")
	}
	return nil
}

func (h *Handler) cmdLocale(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %slocale <language>", h.prefix))
		return nil
	}
	if err := h.ServiceProvider.TrainerService.SetLocale(ctx, m.Author.ID, args[0]); err != nil {
		return err
	}
	h.reply(s, m.ChannelID, fmt.Sprintf("Pokémon names will now use %s where available.", strings.ToLower(args[0])))
	return nil
}

// cmdPokeset adjusts per-guild settings. Requires the Manage Server
// permission.
func (h *Handler) cmdPokeset(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	allowed, err := memberHasPermission(s, m.GuildID, m.Author.ID, discordgo.PermissionManageServer)
	if err != nil {
		return err
	}
	if !allowed {
		h.reply(s, m.ChannelID, "You need the Manage Server permission for that.")
		return nil
	}
	if len(args) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %spokeset <toggle|channel|spawnchance> ...", h.prefix))
		return nil
	}

	guildSettings, err := h.ServiceProvider.Settings.Get(ctx, m.GuildID)
	if err != nil {
		return err
	}

	switch strings.ToLower(args[0]) {
	case "toggle":
		guildSettings.Toggle = !guildSettings.Toggle
		if err := h.ServiceProvider.Settings.Save(ctx, guildSettings); err != nil {
			return err
		}
		if guildSettings.Toggle {
			h.reply(s, m.ChannelID, "Pokémon spawning is now enabled in this server.")
		} else {
			h.reply(s, m.ChannelID, "Pokémon spawning is now disabled in this server.")
		}

	case "channel":
		// Toggle channel membership in the spawn whitelist
		channelID := m.ChannelID
		if len(m.MentionChannels) > 0 {
			channelID = m.MentionChannels[0].ID
		}
		removed := false
		channels := guildSettings.ActiveChannels[:0]
		for _, id := range guildSettings.ActiveChannels {
			if id == channelID {
				removed = true
				continue
			}
			channels = append(channels, id)
		}
		if !removed {
			channels = append(channels, channelID)
		}
		guildSettings.ActiveChannels = channels
		if err := h.ServiceProvider.Settings.Save(ctx, guildSettings); err != nil {
			return err
		}
		if removed {
			h.reply(s, m.ChannelID, fmt.Sprintf("<#%s> removed from the spawn channels.", channelID))
		} else {
			h.reply(s, m.ChannelID, fmt.Sprintf("<#%s> added to the spawn channels.", channelID))
		}

	case "spawnchance":
		if len(args) < 3 {
			h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %spokeset spawnchance <min> <max>", h.prefix))
			return nil
		}
		minMessages, err1 := strconv.Atoi(args[1])
		maxMessages, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil || minMessages < 1 || maxMessages < minMessages {
			h.reply(s, m.ChannelID, "Give two numbers with min at least 1 and max at least min.")
			return nil
		}
		guildSettings.SpawnMinMessages = minMessages
		guildSettings.SpawnMaxMessages = maxMessages
		if err := h.ServiceProvider.Settings.Save(ctx, guildSettings); err != nil {
			return err
		}
		h.reply(s, m.ChannelID, fmt.Sprintf("Spawns now need between %d and %d messages.", minMessages, maxMessages))

	default:
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %spokeset <toggle|channel|spawnchance> ...", h.prefix))
	}
	return nil
}

// cmdDev handles the maintenance commands, restricted to the bot owner
func (h *Handler) cmdDev(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if h.ownerID == "" || m.Author.ID != h.ownerID {
		return nil
	}
	if len(args) == 0 {
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sdev <spawn|ivs|stats> ...", h.prefix))
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "spawn":
		name := strings.Join(args[1:], " ")
		spawn, err := h.ServiceProvider.SpawnerService.ForceSpawn(ctx, m.GuildID, m.ChannelID, name)
		if err != nil {
			return err
		}
		h.AnnounceSpawn(s, spawn)

	case "ivs", "stats":
		if len(args) < 8 {
			h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sdev %s <slot> <hp> <atk> <def> <spatk> <spdef> <speed>", h.prefix, args[0]))
			return nil
		}
		values := make([]int, 7)
		for i := 0; i < 7; i++ {
			v, err := strconv.Atoi(args[i+1])
			if err != nil {
				h.reply(s, m.ChannelID, "All values must be numbers.")
				return nil
			}
			values[i] = v
		}
		block := pokemon.StatBlock{
			HP: values[1], Attack: values[2], Defence: values[3],
			SpAtk: values[4], SpDef: values[5], Speed: values[6],
		}
		var err error
		if args[0] == "ivs" {
			_, err = h.ServiceProvider.TrainerService.SetIVs(ctx, m.Author.ID, values[0], block)
		} else {
			_, err = h.ServiceProvider.TrainerService.SetStats(ctx, m.Author.ID, values[0], block)
		}
		if err != nil {
			return err
		}
		h.reply(s, m.ChannelID, "Done.")

	default:
		h.reply(s, m.ChannelID, fmt.Sprintf("Usage: %sdev <spawn|ivs|stats> ...", h.prefix))
	}
	return nil
}

func parseGender(value string) pokemon.Gender {
	switch strings.ToLower(value) {
	case "male", "m":
		return pokemon.GenderMale
	case "female", "f":
		return pokemon.GenderFemale
	case "genderless":
		return pokemon.GenderGenderless
	default:
		return pokemon.GenderUnknown
	}
}

// memberHasPermission checks a member's channel-independent guild permissions
func memberHasPermission(s *discordgo.Session, guildID, userID string, permission int64) (bool, error) {
	member, err := s.State.Member(guildID, userID)
	if err != nil {
		if member, err = s.GuildMember(guildID, userID); err != nil {
			return false, err
		}
	}

	guild, err := s.State.Guild(guildID)
	if err != nil {
		return false, err
	}
	if guild.OwnerID == userID {
		return true, nil
	}

	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID != roleID {
				continue
			}
			if role.Permissions&discordgo.PermissionAdministrator != 0 {
				return true, nil
			}
			if role.Permissions&permission != 0 {
				return true, nil
			}
		}
	}
	return false, nil
}
