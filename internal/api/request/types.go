package request

import (
	"time"

	"github.com/windward-game/windward/internal/model"
)

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateStateRequest is the request body for a movement report
type UpdateStateRequest struct {
	Position    model.Vec3  `json:"position"`
	Rotation    float64     `json:"rotation"`
	Destination *model.Vec3 `json:"destination,omitempty"`
}

// CombatActionRequest is the request body for firing a cannon. TargetKind
// is "player" or "enemy"; FiredAt is the client's claimed fire time.
type CombatActionRequest struct {
	TargetKind string    `json:"target_kind"`
	TargetID   string    `json:"target_id"`
	Damage     int       `json:"damage"`
	FiredAt    time.Time `json:"fired_at,omitempty"`
}

// LootActionRequest is the request body for looting a shipwreck
type LootActionRequest struct {
	ShipwreckID string `json:"shipwreck_id"`
}

// UnlockShipRequest is the request body for buying a ship class
type UnlockShipRequest struct {
	ShipID string `json:"ship_id"`
}

// SetActiveShipRequest is the request body for switching the active ship
type SetActiveShipRequest struct {
	ShipID string `json:"ship_id"`
}
