package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings. Players and registered players are kept forever; the
	// other entity types decay on their own if nothing cleans them first.
	GuestPlayerTTL time.Duration
	ShipwreckTTL   time.Duration
	CombatEventTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		GuestPlayerTTL: 7 * 24 * time.Hour,
		ShipwreckTTL:   48 * time.Hour,
		CombatEventTTL: 10 * time.Second,
	}
}
