package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig
	Redis   RedisConfig
	Game    GameConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string
	AppID   string
	GuildID string // Optional: for guild-specific commands
	Prefix  string
	// OwnerID gates the maintenance commands. Empty disables them.
	OwnerID string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GameConfig holds the gameplay tunables
type GameConfig struct {
	// SpawnMinMessages and SpawnMaxMessages bound the random message
	// threshold for guilds that have not configured their own
	SpawnMinMessages int
	SpawnMaxMessages int

	// BackgroundSpawnSeconds is the interval of the idle spawner; zero
	// disables it
	BackgroundSpawnSeconds int

	// BankMaxBalance is the currency ceiling per trainer
	BankMaxBalance int64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Discord: DiscordConfig{
			Token:   os.Getenv("DISCORD_TOKEN"),
			AppID:   os.Getenv("DISCORD_APP_ID"),
			GuildID: os.Getenv("DISCORD_GUILD_ID"),
			Prefix:  getEnvOrDefault("BOT_PREFIX", "!"),
			OwnerID: os.Getenv("BOT_OWNER_ID"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Game: GameConfig{
			SpawnMinMessages:       getEnvAsIntOrDefault("SPAWN_MIN_MESSAGES", 0),
			SpawnMaxMessages:       getEnvAsIntOrDefault("SPAWN_MAX_MESSAGES", 0),
			BackgroundSpawnSeconds: getEnvAsIntOrDefault("BACKGROUND_SPAWN_SECONDS", 0),
			BankMaxBalance:         int64(getEnvAsIntOrDefault("BANK_MAX_BALANCE", 0)),
		},
	}

	// Validate required fields
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
