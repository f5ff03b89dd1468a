package response

import (
	"time"

	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/auth"
	"github.com/windward-game/windward/internal/services/combat"
	"github.com/windward-game/windward/internal/services/economy"
	"github.com/windward-game/windward/internal/services/loot"
)

// Player represents the caller's own player record in API responses
type Player struct {
	ID            string           `json:"id"`
	DisplayName   string           `json:"display_name"`
	IsGuest       bool             `json:"is_guest"`
	Position      model.Vec3       `json:"position"`
	Rotation      float64          `json:"rotation"`
	Destination   *model.Vec3      `json:"destination,omitempty"`
	Health        int              `json:"health"`
	IsSunk        bool             `json:"is_sunk"`
	Gold          int              `json:"gold"`
	UnlockedShips []string         `json:"unlocked_ships"`
	ActiveShip    string           `json:"active_ship"`
	Inventory     []model.LootItem `json:"inventory"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	ships := make([]string, len(p.UnlockedShips))
	for i, s := range p.UnlockedShips {
		ships[i] = string(s)
	}
	return Player{
		ID:            string(p.ID),
		DisplayName:   p.DisplayName,
		IsGuest:       p.IsGuest,
		Position:      p.Position,
		Rotation:      p.Rotation,
		Destination:   p.Destination,
		Health:        p.Health,
		IsSunk:        p.IsSunk,
		Gold:          p.Gold,
		UnlockedShips: ships,
		ActiveShip:    string(p.ActiveShip),
		Inventory:     p.Inventory,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// CombatActionResponse is the response after a validated cannon shot
type CombatActionResponse struct {
	Success   bool   `json:"success"`
	Damage    int    `json:"damage"`
	NewHealth int    `json:"new_health"`
	IsSunk    bool   `json:"is_sunk"`
	WreckID   string `json:"wreck_id,omitempty"`
}

// CombatActionFromResult converts a combat.ActionResult
func CombatActionFromResult(r *combat.ActionResult) CombatActionResponse {
	return CombatActionResponse{
		Success:   r.Success,
		Damage:    r.Damage,
		NewHealth: r.NewHealth,
		IsSunk:    r.IsSunk,
		WreckID:   string(r.WreckID),
	}
}

// LootResponse is the response after looting a shipwreck
type LootResponse struct {
	Gold    int              `json:"gold"`
	Items   []model.LootItem `json:"items"`
	NewGold int              `json:"new_gold"`
}

// LootFromResult converts a loot.Result
func LootFromResult(r *loot.Result) LootResponse {
	return LootResponse{Gold: r.Gold, Items: r.Items, NewGold: r.NewGold}
}

// UnlockShipResponse is the response after a ship unlock attempt
type UnlockShipResponse struct {
	Success           bool     `json:"success"`
	AlreadyOwned      bool     `json:"already_owned,omitempty"`
	InsufficientFunds bool     `json:"insufficient_funds,omitempty"`
	CurrentGold       int      `json:"current_gold,omitempty"`
	RequiredGold      int      `json:"required_gold,omitempty"`
	NewGold           int      `json:"new_gold"`
	UnlockedShips     []string `json:"unlocked_ships"`
}

// UnlockShipFromResult converts an economy.UnlockResult
func UnlockShipFromResult(r *economy.UnlockResult) UnlockShipResponse {
	ships := make([]string, len(r.UnlockedShips))
	for i, s := range r.UnlockedShips {
		ships[i] = string(s)
	}
	return UnlockShipResponse{
		Success:           r.Success,
		AlreadyOwned:      r.AlreadyOwned,
		InsufficientFunds: r.InsufficientFunds,
		CurrentGold:       r.CurrentGold,
		RequiredGold:      r.RequiredGold,
		NewGold:           r.NewGold,
		UnlockedShips:     ships,
	}
}

// WorldPlayer is another player's ship as visible to observers. Economy
// fields are deliberately absent.
type WorldPlayer struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	Position    model.Vec3  `json:"position"`
	Rotation    float64     `json:"rotation"`
	Destination *model.Vec3 `json:"destination,omitempty"`
	Health      int         `json:"health"`
	IsSunk      bool        `json:"is_sunk"`
	ActiveShip  string      `json:"active_ship"`
}

// WorldPlayerFromModel converts a model.Player to its public view
func WorldPlayerFromModel(p *model.Player) WorldPlayer {
	return WorldPlayer{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		Position:    p.Position,
		Rotation:    p.Rotation,
		Destination: p.Destination,
		Health:      p.Health,
		IsSunk:      p.IsSunk,
		ActiveShip:  string(p.ActiveShip),
	}
}

// WorldShipwreck is a shipwreck as visible to observers. Contents stay
// hidden until looted.
type WorldShipwreck struct {
	ID        string     `json:"id"`
	Position  model.Vec3 `json:"position"`
	Looted    bool       `json:"looted"`
	CreatedAt time.Time  `json:"created_at"`
}

// WorldShipwreckFromModel converts a model.Shipwreck to its public view
func WorldShipwreckFromModel(w *model.Shipwreck) WorldShipwreck {
	return WorldShipwreck{
		ID:        string(w.ID),
		Position:  w.Position,
		Looted:    w.Looted,
		CreatedAt: w.CreatedAt,
	}
}

// WorldEnemyShip is an AI ship as visible to observers
type WorldEnemyShip struct {
	ID       string     `json:"id"`
	Position model.Vec3 `json:"position"`
	Rotation float64    `json:"rotation"`
	Health   int        `json:"health"`
	IsSunk   bool       `json:"is_sunk"`
}

// WorldEnemyShipFromModel converts a model.EnemyShip to its public view
func WorldEnemyShipFromModel(e *model.EnemyShip) WorldEnemyShip {
	return WorldEnemyShip{
		ID:       string(e.ID),
		Position: e.Position,
		Rotation: e.Rotation,
		Health:   e.Health,
		IsSunk:   e.IsSunk,
	}
}

// ShipClass is a purchasable ship class
type ShipClass struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	AlwaysOwned bool   `json:"always_owned,omitempty"`
}
