package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vanitybot/pkg/bot"
	"vanitybot/pkg/cache"
	"vanitybot/pkg/config"
	"vanitybot/pkg/store"
	"vanitybot/pkg/surreal"
	"vanitybot/pkg/vanity"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

func main() {
	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	token := os.Getenv("DISCORD_TOKEN")
	log.Printf("TOKEN LOADED: %v", token != "")
	if token == "" {
		log.Fatal("Missing required environment variable: DISCORD_TOKEN")
	}

	assignments, closeStore := openStore(cfg)
	defer closeStore()

	// Create Discord Session
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	manager := vanity.NewManager(&bot.DiscordRoles{Session: dg}, assignments, vanity.Options{
		RolePosition: cfg.Vanity.RolePosition,
		SetNickname:  cfg.Vanity.SetNickname,
	})

	handler := bot.NewHandler(manager, bot.HandlerConfig{
		Sanitizer: vanity.Sanitizer{
			MaxLength: cfg.Vanity.MaxNameLength,
			Banned:    cfg.Vanity.BannedWords,
		},
		PaletteSwatch: cfg.Vanity.PaletteSwatch,
	})

	// Register Handlers
	dg.AddHandler(handler.InteractionCreate)

	// Open Connection
	if err := dg.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}
	defer dg.Close()

	// Optional: set this for instant command updates on a single guild
	guildID := os.Getenv("DISCORD_GUILD_ID")
	if _, err := bot.SyncSlashCommands(dg, dg.State.User.ID, guildID); err != nil {
		// Stale commands are better than no bot
		log.Printf("Sync error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interval := time.Duration(cfg.Cleanup.IntervalMinutes * float64(time.Minute))
	sweeper := vanity.NewSweeper(manager, bot.GuildIDs(dg), interval, vanity.RealClock)
	go sweeper.Run(ctx)

	log.Printf("Logged in as %s", dg.State.User.String())

	// Wait for signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

// openStore picks the storage backend and wraps it with Redis when REDIS_URL is set.
func openStore(cfg *config.Config) (store.Store, func()) {
	var (
		base    store.Store
		closers []func()
	)

	switch cfg.Storage.Backend {
	case "", "file":
		fs, err := store.NewFileStore(cfg.Storage.DataFile)
		if err != nil {
			log.Fatalf("Failed to load vanity assignments: %v", err)
		}
		base = fs
	case "surreal":
		client := connectSurreal()
		closers = append(closers, client.Close)
		ss, err := store.NewSurrealStore(client, "vanity_roles")
		if err != nil {
			log.Fatalf("Failed to create SurrealDB store: %v", err)
		}
		base = ss
	default:
		log.Fatalf("Unknown storage backend: %s", cfg.Storage.Backend)
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return base, closeAll
	}

	redisCache, err := cache.NewRedisCache(redisURL, cfg.Storage.RedisPrefix)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
		return base, closeAll
	}
	closers = append(closers, func() { redisCache.Close() })

	cached := store.NewCachedStore(base, redisCache)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cached.Warm(ctx); err != nil {
		log.Printf("Error warming Redis cache: %v", err)
	}
	log.Println("Redis cache enabled for vanity assignments")

	return cached, closeAll
}

func connectSurreal() *surreal.Client {
	surrealHost := os.Getenv("SURREAL_DB_HOST")
	surrealUser := os.Getenv("SURREAL_DB_USER")
	surrealPass := os.Getenv("SURREAL_DB_PASS")
	surrealNS := os.Getenv("SURREAL_DB_NAMESPACE")
	surrealDB := os.Getenv("SURREAL_DB_DATABASE")

	if surrealHost == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_HOST")
	}
	if surrealUser == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_USER")
	}
	if surrealPass == "" {
		log.Fatal("Missing required environment variable: SURREAL_DB_PASS")
	}
	if surrealNS == "" {
		surrealNS = "vanitybot" // Default
	}
	if surrealDB == "" {
		surrealDB = "roles" // Default
	}

	// Add protocol if missing
	if !strings.HasPrefix(surrealHost, "ws://") && !strings.HasPrefix(surrealHost, "wss://") {
		surrealHost = "wss://" + surrealHost + "/rpc"
	}

	log.Printf("Connecting to SurrealDB at %s (NS: %s, DB: %s)", surrealHost, surrealNS, surrealDB)
	client, err := surreal.NewClient(surrealHost, surrealUser, surrealPass, surrealNS, surrealDB)
	if err != nil {
		log.Fatalf("Failed to connect to SurrealDB: %v", err)
	}
	return client
}
