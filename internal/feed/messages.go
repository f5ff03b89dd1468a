package feed

import (
	"time"

	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/fleet"
)

// Message is one frame on the feed.
type Message struct {
	Type       string       `json:"type"`
	Timestamp  time.Time    `json:"timestamp"`
	Players    []ShipState  `json:"players,omitempty"`
	EnemyShips []ShipState  `json:"enemy_ships,omitempty"`
	Shipwrecks []WreckState `json:"shipwrecks,omitempty"`
	Event      *EventState  `json:"event,omitempty"`
}

// ShipState is the observable state of one ship, player or AI.
type ShipState struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name,omitempty"`
	Position    model.Vec3  `json:"position"`
	Rotation    float64     `json:"rotation"`
	Destination *model.Vec3 `json:"destination,omitempty"`
	Health      int         `json:"health"`
	IsSunk      bool        `json:"is_sunk"`
	ActiveShip  string      `json:"active_ship,omitempty"`
}

// WreckState is the observable state of a shipwreck.
type WreckState struct {
	ID       string     `json:"id"`
	Position model.Vec3 `json:"position"`
	Looted   bool       `json:"looted"`
}

// EventState mirrors a combat event for observers.
type EventState struct {
	ID        string     `json:"id"`
	EventType string     `json:"event_type"`
	SourceID  string     `json:"source_id"`
	TargetID  string     `json:"target_id"`
	SourcePos model.Vec3 `json:"source_pos"`
	TargetPos model.Vec3 `json:"target_pos"`
	Damage    int        `json:"damage"`
	IsMiss    bool       `json:"is_miss"`
}

func worldMessage(snap *fleet.Snapshot, now time.Time) Message {
	msg := Message{Type: "world", Timestamp: now}
	for _, p := range snap.Players {
		msg.Players = append(msg.Players, ShipState{
			ID:          string(p.ID),
			DisplayName: p.DisplayName,
			Position:    p.Position,
			Rotation:    p.Rotation,
			Destination: p.Destination,
			Health:      p.Health,
			IsSunk:      p.IsSunk,
			ActiveShip:  string(p.ActiveShip),
		})
	}
	for _, e := range snap.EnemyShips {
		if e.IsSunk {
			continue
		}
		msg.EnemyShips = append(msg.EnemyShips, ShipState{
			ID:       string(e.ID),
			Position: e.Position,
			Rotation: e.Rotation,
			Health:   e.Health,
		})
	}
	for _, w := range snap.Shipwrecks {
		msg.Shipwrecks = append(msg.Shipwrecks, WreckState{
			ID:       string(w.ID),
			Position: w.Position,
			Looted:   w.Looted,
		})
	}
	return msg
}

func eventMessage(evt *model.CombatEvent) Message {
	return Message{
		Type:      "combat_event",
		Timestamp: evt.Timestamp,
		Event: &EventState{
			ID:        string(evt.ID),
			EventType: string(evt.Type),
			SourceID:  evt.SourceID,
			TargetID:  evt.TargetID,
			SourcePos: evt.SourcePos,
			TargetPos: evt.TargetPos,
			Damage:    evt.Damage,
			IsMiss:    evt.IsMiss,
		},
	}
}
