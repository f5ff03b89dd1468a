package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/combat"
	"github.com/windward-game/windward/internal/services/loot"
)

// AppConfig holds the complete configuration for the server
type AppConfig struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`

	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Game   GameConfig   `mapstructure:"game"`
	Limits LimitsConfig `mapstructure:"limits"`
	Sweep  SweepConfig  `mapstructure:"sweep"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	// Backend is "memory" or "redis"
	Backend  string `mapstructure:"backend"`
	RedisURL string `mapstructure:"redis_url"`
}

// GameConfig carries the gameplay tuning constants.
type GameConfig struct {
	MaxDamage         int           `mapstructure:"max_damage"`
	CombatRange       float64       `mapstructure:"combat_range"`
	Cooldown          time.Duration `mapstructure:"cooldown"`
	LootRange         float64       `mapstructure:"loot_range"`
	StartingGold      int           `mapstructure:"starting_gold"`
	SessionDuration   time.Duration `mapstructure:"session_duration"`
	EnemyWreckGoldMin int           `mapstructure:"enemy_wreck_gold_min"`
	EnemyWreckGoldMax int           `mapstructure:"enemy_wreck_gold_max"`
	FeedTickInterval  time.Duration `mapstructure:"feed_tick_interval"`
	AITickInterval    time.Duration `mapstructure:"ai_tick_interval"`
}

type LimitsConfig struct {
	ActionPerUserMax    int           `mapstructure:"action_per_user_max"`
	ActionPerUserWindow time.Duration `mapstructure:"action_per_user_window"`
	SignupPerIPMax      int           `mapstructure:"signup_per_ip_max"`
	SignupPerIPWindow   time.Duration `mapstructure:"signup_per_ip_window"`
	GlobalActionMax     int           `mapstructure:"global_action_max"`
	GlobalActionWindow  time.Duration `mapstructure:"global_action_window"`
}

type SweepConfig struct {
	InactiveInterval  time.Duration `mapstructure:"inactive_interval"`
	InactiveThreshold time.Duration `mapstructure:"inactive_threshold"`
	WreckInterval     time.Duration `mapstructure:"wreck_interval"`
	LootedWreckTTL    time.Duration `mapstructure:"looted_wreck_ttl"`
	UnlootedWreckTTL  time.Duration `mapstructure:"unlooted_wreck_ttl"`
	EventInterval     time.Duration `mapstructure:"event_interval"`
	EventTTL          time.Duration `mapstructure:"event_ttl"`
	SessionInterval   time.Duration `mapstructure:"session_interval"`
}

// Load loads configuration from file and environment variables
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")

	v.SetDefault("game.max_damage", 50)
	v.SetDefault("game.combat_range", 50.0)
	v.SetDefault("game.cooldown", 2*time.Second)
	v.SetDefault("game.loot_range", 100.0)
	v.SetDefault("game.starting_gold", 500)
	v.SetDefault("game.session_duration", 24*time.Hour)
	v.SetDefault("game.enemy_wreck_gold_min", 50)
	v.SetDefault("game.enemy_wreck_gold_max", 150)
	v.SetDefault("game.feed_tick_interval", 200*time.Millisecond)
	v.SetDefault("game.ai_tick_interval", 500*time.Millisecond)

	v.SetDefault("limits.action_per_user_max", 30)
	v.SetDefault("limits.action_per_user_window", time.Minute)
	v.SetDefault("limits.signup_per_ip_max", 10)
	v.SetDefault("limits.signup_per_ip_window", time.Hour)
	v.SetDefault("limits.global_action_max", 5000)
	v.SetDefault("limits.global_action_window", time.Minute)

	v.SetDefault("sweep.inactive_interval", 5*time.Minute)
	v.SetDefault("sweep.inactive_threshold", 10*time.Minute)
	v.SetDefault("sweep.wreck_interval", time.Hour)
	v.SetDefault("sweep.looted_wreck_ttl", time.Hour)
	v.SetDefault("sweep.unlooted_wreck_ttl", 24*time.Hour)
	v.SetDefault("sweep.event_interval", 10*time.Second)
	v.SetDefault("sweep.event_ttl", 10*time.Second)
	v.SetDefault("sweep.session_interval", 5*time.Minute)

	v.AutomaticEnv()
	v.SetEnvPrefix("WINDWARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server.port out of range")
	}
	switch c.Store.Backend {
	case "memory", "redis":
	default:
		return errors.New("store.backend must be memory or redis")
	}
	if c.Store.Backend == "redis" && c.Store.RedisURL == "" {
		return errors.New("store.redis_url is required for the redis backend")
	}
	if c.Game.MaxDamage <= 0 {
		return errors.New("game.max_damage must be positive")
	}
	if c.Game.CombatRange <= 0 {
		return errors.New("game.combat_range must be positive")
	}
	if c.Game.Cooldown <= 0 {
		return errors.New("game.cooldown must be positive")
	}
	if c.Game.LootRange <= 0 {
		return errors.New("game.loot_range must be positive")
	}
	if c.Game.EnemyWreckGoldMin > c.Game.EnemyWreckGoldMax {
		return errors.New("game.enemy_wreck_gold_min exceeds max")
	}
	if c.Sweep.LootedWreckTTL > c.Sweep.UnlootedWreckTTL {
		return errors.New("sweep.looted_wreck_ttl exceeds unlooted_wreck_ttl")
	}
	return nil
}

// CombatConfig projects the gameplay constants into the combat service's
// own configuration type.
func (c *AppConfig) CombatConfig() combat.Config {
	return combat.Config{
		MaxDamage:         c.Game.MaxDamage,
		CombatRange:       c.Game.CombatRange,
		Cooldown:          c.Game.Cooldown,
		RespawnPosition:   model.Vec3{},
		EnemyWreckGoldMin: c.Game.EnemyWreckGoldMin,
		EnemyWreckGoldMax: c.Game.EnemyWreckGoldMax,
	}
}

// LootConfig projects the gameplay constants into the loot service's
// configuration type.
func (c *AppConfig) LootConfig() loot.Config {
	return loot.Config{LootRange: c.Game.LootRange}
}
