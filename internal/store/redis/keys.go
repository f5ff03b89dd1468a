package redis

import (
	"fmt"

	"github.com/windward-game/windward/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "windward"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player keys
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// enemyShipKey returns the Redis key for an EnemyShip
func enemyShipKey(id model.EnemyShipID) string {
	return fmt.Sprintf("%s:enemy_ship:%s", keyPrefix, id)
}

// enemyShipsIndexKey returns the Redis key for the SET of all enemy ship keys
func enemyShipsIndexKey() string {
	return fmt.Sprintf("%s:idx:enemy_ships", keyPrefix)
}

// shipwreckKey returns the Redis key for a Shipwreck
func shipwreckKey(id model.ShipwreckID) string {
	return fmt.Sprintf("%s:shipwreck:%s", keyPrefix, id)
}

// shipwrecksIndexKey returns the Redis key for the SET of all shipwreck keys
func shipwrecksIndexKey() string {
	return fmt.Sprintf("%s:idx:shipwrecks", keyPrefix)
}

// combatEventKey returns the Redis key for a CombatEvent
func combatEventKey(id model.CombatEventID) string {
	return fmt.Sprintf("%s:combat_event:%s", keyPrefix, id)
}

// combatEventsIndexKey returns the Redis key for the SET of combat event keys
func combatEventsIndexKey() string {
	return fmt.Sprintf("%s:idx:combat_events", keyPrefix)
}

// rateLimitKey returns the Redis key for a rate-limit counter record
func rateLimitKey(scope model.RateLimitScope, identity, name string) string {
	return fmt.Sprintf("%s:rate_limit:%s:%s:%s", keyPrefix, scope, identity, name)
}

// globalCounterKey returns the Redis key for a global fixed-window counter
func globalCounterKey(name string) string {
	return fmt.Sprintf("%s:global_limit:%s", keyPrefix, name)
}
