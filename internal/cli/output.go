package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case CombatResult:
		o.printCombatResult(v)
	case LootResult:
		o.printLootResult(v)
	case UnlockResult:
		o.printUnlockResult(v)
	case WorldView:
		o.printWorldView(v)
	case WreckList:
		o.printWreckList(v)
	case ShipCatalog:
		o.printShipCatalog(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Vec3 is a position as it appears on the wire
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LootItem is one inventory item
type LootItem struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Player response type (matches API)
type Player struct {
	ID            string     `json:"id"`
	DisplayName   string     `json:"display_name"`
	IsGuest       bool       `json:"is_guest"`
	Position      Vec3       `json:"position"`
	Rotation      float64    `json:"rotation"`
	Health        int        `json:"health"`
	IsSunk        bool       `json:"is_sunk"`
	Gold          int        `json:"gold"`
	UnlockedShips []string   `json:"unlocked_ships"`
	ActiveShip    string     `json:"active_ship"`
	Inventory     []LootItem `json:"inventory"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// CombatResult response type
type CombatResult struct {
	Success   bool   `json:"success"`
	Damage    int    `json:"damage"`
	NewHealth int    `json:"new_health"`
	IsSunk    bool   `json:"is_sunk"`
	WreckID   string `json:"wreck_id,omitempty"`
}

// LootResult response type
type LootResult struct {
	Gold    int        `json:"gold"`
	Items   []LootItem `json:"items"`
	NewGold int        `json:"new_gold"`
}

// UnlockResult response type
type UnlockResult struct {
	Success           bool     `json:"success"`
	AlreadyOwned      bool     `json:"already_owned,omitempty"`
	InsufficientFunds bool     `json:"insufficient_funds,omitempty"`
	CurrentGold       int      `json:"current_gold,omitempty"`
	RequiredGold      int      `json:"required_gold,omitempty"`
	NewGold           int      `json:"new_gold"`
	UnlockedShips     []string `json:"unlocked_ships"`
}

// WorldShip is one ship in the public world view
type WorldShip struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Position    Vec3   `json:"position"`
	Health      int    `json:"health"`
	IsSunk      bool   `json:"is_sunk"`
	ActiveShip  string `json:"active_ship,omitempty"`
}

// WorldView response type
type WorldView struct {
	Players    []WorldShip `json:"players"`
	EnemyShips []WorldShip `json:"enemy_ships"`
}

// Wreck is one shipwreck in the public world view
type Wreck struct {
	ID       string `json:"id"`
	Position Vec3   `json:"position"`
	Looted   bool   `json:"looted"`
}

// WreckList response type
type WreckList struct {
	Shipwrecks []Wreck `json:"shipwrecks"`
}

// ShipClass is one entry of the purchasable catalog
type ShipClass struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	AlwaysOwned bool   `json:"always_owned,omitempty"`
}

// ShipCatalog response type
type ShipCatalog struct {
	Ships []ShipClass `json:"ships"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Guest: %s\n", guestStr)
	fmt.Printf("Position: (%.1f, %.1f)\n", p.Position.X, p.Position.Z)
	fmt.Printf("Health: %d", p.Health)
	if p.IsSunk {
		fmt.Print(" [sunk]")
	}
	fmt.Println()
	fmt.Printf("Gold: %d\n", p.Gold)
	fmt.Printf("Active Ship: %s\n", p.ActiveShip)
	if len(p.UnlockedShips) > 0 {
		fmt.Printf("Unlocked Ships:\n")
		for _, s := range p.UnlockedShips {
			fmt.Printf("  - %s\n", s)
		}
	}
	if len(p.Inventory) > 0 {
		fmt.Printf("Inventory (%d):\n", len(p.Inventory))
		for _, item := range p.Inventory {
			fmt.Printf("  - %s\n", item.Name)
		}
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printCombatResult(c CombatResult) {
	if c.Damage == 0 {
		fmt.Println("Shot missed")
		return
	}
	fmt.Printf("Hit for %d damage, target health %d\n", c.Damage, c.NewHealth)
	if c.IsSunk {
		fmt.Println("Target sunk!")
		if c.WreckID != "" {
			fmt.Printf("Wreck: %s\n", c.WreckID)
		}
	}
}

func (o *Output) printLootResult(l LootResult) {
	fmt.Printf("Looted %d gold\n", l.Gold)
	for _, item := range l.Items {
		fmt.Printf("  + %s\n", item.Name)
	}
	fmt.Printf("Gold: %d\n", l.NewGold)
}

func (o *Output) printUnlockResult(u UnlockResult) {
	switch {
	case u.AlreadyOwned:
		fmt.Println("Ship already owned")
	case u.InsufficientFunds:
		fmt.Printf("Not enough gold: have %d, need %d\n", u.CurrentGold, u.RequiredGold)
	case u.Success:
		fmt.Printf("Ship unlocked, %d gold remaining\n", u.NewGold)
	}
}

func (o *Output) printWorldView(w WorldView) {
	fmt.Printf("Players (%d):\n", len(w.Players))
	for _, p := range w.Players {
		o.printWorldShip(p)
	}
	if len(w.EnemyShips) > 0 {
		fmt.Printf("Hostiles (%d):\n", len(w.EnemyShips))
		for _, e := range w.EnemyShips {
			o.printWorldShip(e)
		}
	}
}

func (o *Output) printWorldShip(s WorldShip) {
	name := s.DisplayName
	if name == "" {
		name = s.ID
	}
	status := ""
	if s.IsSunk {
		status = " [sunk]"
	}
	fmt.Printf("  - %s at (%.1f, %.1f) hp %d%s\n", name, s.Position.X, s.Position.Z, s.Health, status)
}

func (o *Output) printWreckList(w WreckList) {
	fmt.Printf("Shipwrecks (%d):\n", len(w.Shipwrecks))
	for _, wr := range w.Shipwrecks {
		lootedStr := ""
		if wr.Looted {
			lootedStr = " [looted]"
		}
		fmt.Printf("  - %s at (%.1f, %.1f)%s\n", wr.ID, wr.Position.X, wr.Position.Z, lootedStr)
	}
}

func (o *Output) printShipCatalog(c ShipCatalog) {
	fmt.Printf("Ship Classes (%d):\n", len(c.Ships))
	for _, s := range c.Ships {
		priceStr := fmt.Sprintf("%d gold", s.Price)
		if s.AlwaysOwned {
			priceStr = "free"
		}
		fmt.Printf("  - %s (%s): %s\n", s.Name, s.ID, priceStr)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
