package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// MaxHealth is the health every ship starts and respawns with.
const MaxHealth = 100

// Player represents a participant's ship and economy state.
//
// Movement fields (Position, Rotation, Destination) are written only by the
// owning client; combat and economy fields (Health, IsSunk, Gold, UnlockedShips)
// are written only by server validators. There is no cross-field transaction
// beyond a single save, so the two writer roles must not touch each other's
// fields.
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool

	// Movement state, owned by the client
	Position    Vec3
	Rotation    float64 // heading around the vertical axis, radians
	Destination *Vec3   // nil when holding position

	// Combat and economy state, owned by validators.
	// Invariant: Health == 0 exactly when IsSunk.
	Health         int
	IsSunk         bool
	Gold           int
	UnlockedShips  []ShipID
	ActiveShip     ShipID
	Inventory      []LootItem
	LastAttackTime time.Time

	// Presence. Players are never hard-deleted, only marked offline.
	IsOnline    bool
	LastUpdated time.Time
	CreatedAt   time.Time
}

// HasShip reports whether the player has unlocked the given ship class.
func (p *Player) HasShip(id ShipID) bool {
	for _, s := range p.UnlockedShips {
		if s == id {
			return true
		}
	}
	return false
}

// RegisteredPlayer extends Player with authentication data
// Stored separately so password material never travels with session state
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LootItem is a single item held in a player's inventory or a shipwreck.
// Key is unique per insertion (timestamp plus index at append time).
type LootItem struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
