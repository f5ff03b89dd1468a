package model

import (
	"errors"
	"fmt"
	"time"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerOffline  = errors.New("player is offline")
	ErrPlayerSunk     = errors.New("player ship is sunk")
	ErrPlayerNotSunk  = errors.New("player ship is not sunk")

	// Combat errors
	ErrInvalidDamage  = errors.New("damage out of range")
	ErrTargetNotFound = errors.New("target not found")
	ErrTargetSunk     = errors.New("target is already sunk")
	ErrTargetOffline  = errors.New("target is offline")
	ErrOutOfRange     = errors.New("target out of combat range")

	// Loot errors
	ErrShipwreckNotFound = errors.New("shipwreck not found")
	ErrAlreadyLooted     = errors.New("shipwreck already looted")
	ErrLootOutOfRange    = errors.New("shipwreck out of loot range")

	// Economy errors
	ErrUnknownShip = errors.New("unknown ship class")
	ErrShipLocked  = errors.New("ship class not unlocked")

	// Enemy errors
	ErrEnemyShipNotFound = errors.New("enemy ship not found")

	// Rate limit errors
	ErrRateLimitNotFound = errors.New("rate limit record not found")
)

// CooldownError reports a combat action fired before the cooldown window
// elapsed. Wait is the time remaining until the next shot is allowed.
type CooldownError struct {
	Wait time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cannon on cooldown for another %s", e.Wait)
}

// RateLimitError reports a call rejected by a rate limiter. Wait is the time
// remaining until the window resets.
type RateLimitError struct {
	Scope RateLimitScope
	Wait  time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded, retry in %s", e.Scope, e.Wait)
}
