package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/windward-game/windward/internal/config"
	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/dependencies/random"
	"github.com/windward-game/windward/internal/feed"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/auth"
	"github.com/windward-game/windward/internal/services/combat"
	"github.com/windward-game/windward/internal/services/economy"
	"github.com/windward-game/windward/internal/services/fleet"
	"github.com/windward-game/windward/internal/services/loot"
	"github.com/windward-game/windward/internal/services/ratelimit"
	"github.com/windward-game/windward/internal/sim/enemyai"
	"github.com/windward-game/windward/internal/store"
	"github.com/windward-game/windward/internal/store/memory"
	redisstore "github.com/windward-game/windward/internal/store/redis"
	"github.com/windward-game/windward/internal/sweep"
)

// Store backend constants
const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

// DefaultSafeZones are the harbor regions hostile AI avoids. Ports double
// as spawn points, so the origin harbor is always protected.
var DefaultSafeZones = []model.SafeZone{
	{Name: "home-harbor", Center: model.Vec3{}, Radius: 150},
	{Name: "north-trading-post", Center: model.Vec3{X: 0, Z: 1200}, Radius: 120},
	{Name: "west-cove", Center: model.Vec3{X: -1100, Z: -300}, Radius: 120},
}

// App contains all wired application components
type App struct {
	// Storage
	Store store.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService      *auth.Service
	FleetService     *fleet.Service
	CombatService    *combat.Service
	LootService      *loot.Service
	EconomyService   *economy.Service
	RateLimitService *ratelimit.Service

	// Background workers
	FeedHub     *feed.Hub
	SweepRunner *sweep.Runner
	AIRunner    *enemyai.Runner
}

// Config holds configuration for the application factory
type Config struct {
	// App holds the loaded application configuration (optional)
	// If nil, defaults are used throughout.
	App *config.AppConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// SafeZones overrides the default harbor zones (optional)
	SafeZones []model.SafeZone
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	appCfg := cfg.App
	if appCfg == nil {
		loaded, err := config.Load("")
		if err != nil {
			return nil, err
		}
		appCfg = loaded
	}

	clk := clock.New()
	rnd := random.New()

	var st store.Store
	switch appCfg.Store.Backend {
	case StoreBackendMemory, "":
		st = memory.New(clk)
	case StoreBackendRedis:
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = appCfg.Store.RedisURL
		redisStore, err := redisstore.New(redisCfg, clk)
		if err != nil {
			return nil, err
		}
		st = redisStore
	default:
		return nil, errors.New("invalid store backend: must be 'memory' or 'redis'")
	}

	return newWithDependencies(st, clk, rnd, appCfg, cfg.SafeZones, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(st store.Store, clk clock.Clock, rnd random.Random, appCfg *config.AppConfig, zones []model.SafeZone, logger *slog.Logger) *App {
	if zones == nil {
		zones = DefaultSafeZones
	}

	authCfg := auth.Config{
		SessionDuration: appCfg.Game.SessionDuration,
		StartingGold:    appCfg.Game.StartingGold,
		SpawnPosition:   model.Vec3{},
	}

	authService := auth.New(st, clk, authCfg, logger)
	fleetService := fleet.New(st, clk, logger)
	combatService := combat.New(st, clk, rnd, appCfg.CombatConfig(), logger)
	lootService := loot.New(st, clk, appCfg.LootConfig(), logger)
	economyService := economy.New(st, logger)
	rateLimitService := ratelimit.New(st, clk, logger)

	feedHub := feed.NewHub(fleetService, st, clk, appCfg.Game.FeedTickInterval, logger)

	sweepCfg := sweep.Config{
		InactiveInterval:  appCfg.Sweep.InactiveInterval,
		InactiveThreshold: appCfg.Sweep.InactiveThreshold,
		WreckInterval:     appCfg.Sweep.WreckInterval,
		LootedWreckTTL:    appCfg.Sweep.LootedWreckTTL,
		UnlootedWreckTTL:  appCfg.Sweep.UnlootedWreckTTL,
		EventInterval:     appCfg.Sweep.EventInterval,
		EventTTL:          appCfg.Sweep.EventTTL,
		SessionInterval:   appCfg.Sweep.SessionInterval,
	}
	sweepRunner := sweep.NewRunner(st, authService, clk, sweepCfg, logger)

	aiRunner := enemyai.NewRunner(st, combatService, clk, rnd, enemyai.DefaultConfig(), zones, appCfg.Game.AITickInterval, logger)

	return &App{
		Store:            st,
		Clock:            clk,
		Random:           rnd,
		AuthService:      authService,
		FleetService:     fleetService,
		CombatService:    combatService,
		LootService:      lootService,
		EconomyService:   economyService,
		RateLimitService: rateLimitService,
		FeedHub:          feedHub,
		SweepRunner:      sweepRunner,
		AIRunner:         aiRunner,
	}
}
