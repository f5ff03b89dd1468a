package store

import (
	"context"
	"time"

	"github.com/windward-game/windward/internal/model"
)

// Store defines the interface for the shared game state tree.
//
// Per-record saves are atomic; nothing stronger is offered across records.
// Validators that need "debit gold AND append item" semantics must put both
// fields on the same record and issue a single save.
type Store interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Enemy ship operations
	SaveEnemyShip(ctx context.Context, ship *model.EnemyShip) error
	GetEnemyShip(ctx context.Context, id model.EnemyShipID) (*model.EnemyShip, error)
	ListEnemyShips(ctx context.Context) ([]*model.EnemyShip, error)
	DeleteEnemyShip(ctx context.Context, id model.EnemyShipID) error

	// Shipwreck operations
	SaveShipwreck(ctx context.Context, wreck *model.Shipwreck) error
	GetShipwreck(ctx context.Context, id model.ShipwreckID) (*model.Shipwreck, error)
	ListShipwrecks(ctx context.Context) ([]*model.Shipwreck, error)
	DeleteShipwreck(ctx context.Context, id model.ShipwreckID) error

	// Combat event operations (short-lived broadcast records)
	SaveCombatEvent(ctx context.Context, event *model.CombatEvent) error
	ListCombatEvents(ctx context.Context) ([]*model.CombatEvent, error)
	DeleteCombatEvent(ctx context.Context, id model.CombatEventID) error

	// Rate limit counters. Get/Save is read-then-write and therefore racy
	// under concurrent calls for the same identity; acceptable for per-user
	// and per-IP limits only.
	GetRateLimit(ctx context.Context, scope model.RateLimitScope, identity, name string) (*model.RateLimitRecord, error)
	SaveRateLimit(ctx context.Context, scope model.RateLimitScope, identity, name string, rec *model.RateLimitRecord) error

	// IncrGlobalCounter atomically increments the named global counter,
	// starting a fresh window when none is active. Unlike Get/Save above,
	// concurrent callers must never lose an increment.
	IncrGlobalCounter(ctx context.Context, name string, window time.Duration) (count int, resetTime time.Time, err error)
}
