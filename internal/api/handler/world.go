package handler

import (
	"net/http"

	"github.com/windward-game/windward/internal/api/response"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/fleet"
)

// WorldHandler serves read-only world state
type WorldHandler struct {
	fleetService *fleet.Service
}

// NewWorldHandler creates a new world handler
func NewWorldHandler(fleetService *fleet.Service) *WorldHandler {
	return &WorldHandler{fleetService: fleetService}
}

// Players handles GET /api/v1/world/players
func (h *WorldHandler) Players(w http.ResponseWriter, r *http.Request) {
	snap, err := h.fleetService.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	players := make([]response.WorldPlayer, len(snap.Players))
	for i, p := range snap.Players {
		players[i] = response.WorldPlayerFromModel(p)
	}
	enemies := make([]response.WorldEnemyShip, 0, len(snap.EnemyShips))
	for _, e := range snap.EnemyShips {
		enemies = append(enemies, response.WorldEnemyShipFromModel(e))
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"players":     players,
		"enemy_ships": enemies,
	})
}

// Shipwrecks handles GET /api/v1/world/shipwrecks
func (h *WorldHandler) Shipwrecks(w http.ResponseWriter, r *http.Request) {
	snap, err := h.fleetService.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	wrecks := make([]response.WorldShipwreck, len(snap.Shipwrecks))
	for i, wr := range snap.Shipwrecks {
		wrecks[i] = response.WorldShipwreckFromModel(wr)
	}

	response.JSON(w, http.StatusOK, map[string]any{"shipwrecks": wrecks})
}

// Ships handles GET /api/v1/world/ships, the purchasable class catalog.
func (h *WorldHandler) Ships(w http.ResponseWriter, r *http.Request) {
	classes := make([]response.ShipClass, 0, len(model.ShipCatalog))
	for _, c := range model.ShipCatalog {
		classes = append(classes, response.ShipClass{
			ID:          string(c.ID),
			Name:        c.Name,
			Price:       c.Price,
			AlwaysOwned: c.AlwaysOwned,
		})
	}
	response.JSON(w, http.StatusOK, map[string]any{"ships": classes})
}
