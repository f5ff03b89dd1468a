package model

import "time"

// EnemyShipID uniquely identifies an AI-controlled ship
type EnemyShipID string

// DefaultEnemyHealth is the health an enemy ship spawns with, including
// ships created lazily when a client first reports damage against them.
const DefaultEnemyHealth = 50

// EnemyShip is an AI-controlled hostile ship. Records are created lazily by
// the combat validator when first referenced, and converted to a Shipwreck
// when health reaches zero.
type EnemyShip struct {
	ID            EnemyShipID
	Health        int
	Position      Vec3
	Rotation      float64
	IsSunk        bool
	LastDamagedBy PlayerID
	LastDamagedAt time.Time
	CreatedAt     time.Time
}

// TargetKind distinguishes the two kinds of combat target.
type TargetKind string

const (
	TargetPlayer TargetKind = "player"
	TargetEnemy  TargetKind = "enemy"
)

// TargetRef is an explicit tagged reference to a combat target. The kind is
// decided at the call boundary rather than inferred from the shape of the ID.
type TargetRef struct {
	Kind TargetKind
	ID   string
}

// PlayerTarget builds a reference to a player ship.
func PlayerTarget(id PlayerID) TargetRef {
	return TargetRef{Kind: TargetPlayer, ID: string(id)}
}

// EnemyTarget builds a reference to an AI ship.
func EnemyTarget(id EnemyShipID) TargetRef {
	return TargetRef{Kind: TargetEnemy, ID: string(id)}
}
