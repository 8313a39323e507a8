package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/flaree/pokecord-bot-discord/internal/bank"
	"github.com/flaree/pokecord-bot-discord/internal/catalog"
	"github.com/flaree/pokecord-bot-discord/internal/config"
	"github.com/flaree/pokecord-bot-discord/internal/handlers/discord"
	pokerepo "github.com/flaree/pokecord-bot-discord/internal/repositories/pokemon"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/settings"
	"github.com/flaree/pokecord-bot-discord/internal/repositories/trainers"
	"github.com/flaree/pokecord-bot-discord/internal/services"
	"github.com/flaree/pokecord-bot-discord/internal/services/spawner"
	"github.com/flaree/pokecord-bot-discord/internal/uuid"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Bot Token: %s...%s", cfg.Discord.Token[:8], cfg.Discord.Token[len(cfg.Discord.Token)-4:])
	log.Printf("Application ID: %s", cfg.Discord.AppID)
	if cfg.Discord.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.Discord.GuildID)
	}

	// Load the species catalog
	dex, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load pokedex: %v", err)
	}
	log.Printf("Loaded %d species", dex.Len())

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	// Create service provider config
	providerConfig := &services.ProviderConfig{
		Catalog:  dex,
		Prompter: discord.NewMessagePrompter(dg),
		SpawnMin: cfg.Game.SpawnMinMessages,
		SpawnMax: cfg.Game.SpawnMaxMessages,
	}

	// Keep Redis client for cleanup
	var redisClient *redis.Client

	// Try to connect to Redis if URL is provided
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		log.Printf("Connecting to Redis at: %s", redisURL)

		opts, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			log.Printf("Failed to parse Redis URL: %v", parseErr)
			log.Println("Falling back to in-memory stores")
		} else {
			redisClient = redis.NewClient(opts)

			// Test connection
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

			if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
				cancel()
				log.Printf("Failed to connect to Redis: %v", pingErr)
				log.Println("Falling back to in-memory stores")
			} else {
				defer cancel()
				log.Println("Successfully connected to Redis")

				providerConfig.PokemonRepo = pokerepo.NewRedisRepository(&pokerepo.RedisRepoConfig{
					Client:        redisClient,
					UUIDGenerator: uuid.NewGoogleUUIDGenerator(),
				})
				providerConfig.TrainerRepo = trainers.NewRedisRepository(redisClient)
				providerConfig.SettingsRepo = settings.NewRedisRepository(redisClient)
				providerConfig.Ledger = bank.NewRedisLedger(&bank.RedisLedgerConfig{
					Client:     redisClient,
					MaxBalance: cfg.Game.BankMaxBalance,
				})

				log.Println("Using Redis for persistence")
			}
		}
	} else {
		log.Println("No REDIS_URL found, using in-memory stores")
	}

	// Create service provider
	serviceProvider := services.NewProvider(providerConfig)

	// Create Discord handler
	handler := discord.NewHandler(&discord.HandlerConfig{
		ServiceProvider: serviceProvider,
		Prefix:          cfg.Discord.Prefix,
		OwnerID:         cfg.Discord.OwnerID,
	})

	// Register message handler
	dg.AddHandler(handler.HandleMessageCreate)

	// Open connection to Discord
	err = dg.Open()
	if err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}
	defer func() {
		clientErr := dg.Close()
		if clientErr != nil {
			log.Printf("Failed to close Discord connection: %v", clientErr)
		}
	}()

	// Start the idle spawner if configured
	spawnCtx, stopSpawner := context.WithCancel(context.Background())
	defer stopSpawner()
	if cfg.Game.BackgroundSpawnSeconds > 0 {
		interval := time.Duration(cfg.Game.BackgroundSpawnSeconds) * time.Second
		go serviceProvider.SpawnerService.RunBackground(spawnCtx, interval, func(spawn *spawner.Spawn) {
			handler.AnnounceSpawn(dg, spawn)
		})
		log.Printf("Idle spawner running every %s", interval)
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	fmt.Println("Shutting down...")

	// Clean up Redis connection if we have one
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}
