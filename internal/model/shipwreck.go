package model

import "time"

// ShipwreckID uniquely identifies a shipwreck
type ShipwreckID string

// Loot is the contents of a shipwreck.
type Loot struct {
	Gold  int        `json:"gold"`
	Items []LootItem `json:"items"`
}

// Shipwreck is the lootable remnant left where a ship sank. A wreck can be
// looted exactly once; cleanup removes it after a retention window (one hour
// if looted, a day if not).
type Shipwreck struct {
	ID        ShipwreckID
	Position  Vec3
	Loot      Loot
	Looted    bool
	LootedBy  PlayerID
	LootedAt  time.Time
	CreatedAt time.Time
}
