package handler

import (
	"encoding/json"
	"net/http"

	"github.com/windward-game/windward/internal/api/middleware"
	"github.com/windward-game/windward/internal/api/request"
	"github.com/windward-game/windward/internal/api/response"
	"github.com/windward-game/windward/internal/metrics"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/combat"
	"github.com/windward-game/windward/internal/services/economy"
	"github.com/windward-game/windward/internal/services/loot"
)

// ActionHandler handles validated gameplay actions
type ActionHandler struct {
	combatService  *combat.Service
	lootService    *loot.Service
	economyService *economy.Service
}

// NewActionHandler creates a new action handler
func NewActionHandler(combatService *combat.Service, lootService *loot.Service, economyService *economy.Service) *ActionHandler {
	return &ActionHandler{
		combatService:  combatService,
		lootService:    lootService,
		economyService: economyService,
	}
}

// Combat handles POST /api/v1/actions/combat
func (h *ActionHandler) Combat(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CombatActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.TargetID == "" {
		WriteError(w, NewInvalidRequestError("target_id is required"))
		return
	}

	var target model.TargetRef
	switch model.TargetKind(req.TargetKind) {
	case model.TargetPlayer:
		target = model.PlayerTarget(model.PlayerID(req.TargetID))
	case model.TargetEnemy:
		target = model.EnemyTarget(model.EnemyShipID(req.TargetID))
	default:
		WriteError(w, NewInvalidRequestError("target_kind must be player or enemy"))
		return
	}

	result, err := h.combatService.ProcessAction(r.Context(), player.ID, target, req.Damage, req.FiredAt)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues("combat", "rejected").Inc()
		WriteError(w, err)
		return
	}

	metrics.ActionsTotal.WithLabelValues("combat", "applied").Inc()
	if result.IsSunk {
		metrics.ShipsSunkTotal.Inc()
	}
	response.JSON(w, http.StatusOK, response.CombatActionFromResult(result))
}

// Loot handles POST /api/v1/actions/loot
func (h *ActionHandler) Loot(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.LootActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ShipwreckID == "" {
		WriteError(w, NewInvalidRequestError("shipwreck_id is required"))
		return
	}

	result, err := h.lootService.Loot(r.Context(), player.ID, model.ShipwreckID(req.ShipwreckID))
	if err != nil {
		metrics.ActionsTotal.WithLabelValues("loot", "rejected").Inc()
		WriteError(w, err)
		return
	}

	metrics.ActionsTotal.WithLabelValues("loot", "applied").Inc()
	response.JSON(w, http.StatusOK, response.LootFromResult(result))
}

// UnlockShip handles POST /api/v1/actions/unlock-ship
func (h *ActionHandler) UnlockShip(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.UnlockShipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ShipID == "" {
		WriteError(w, NewInvalidRequestError("ship_id is required"))
		return
	}

	result, err := h.economyService.UnlockShip(r.Context(), player.ID, model.ShipID(req.ShipID))
	if err != nil {
		metrics.ActionsTotal.WithLabelValues("unlock_ship", "rejected").Inc()
		WriteError(w, err)
		return
	}

	metrics.ActionsTotal.WithLabelValues("unlock_ship", "applied").Inc()
	response.JSON(w, http.StatusOK, response.UnlockShipFromResult(result))
}

// ResetShip handles POST /api/v1/actions/reset-ship
func (h *ActionHandler) ResetShip(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	updated, err := h.combatService.ResetShip(r.Context(), player.ID)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues("reset_ship", "rejected").Inc()
		WriteError(w, err)
		return
	}

	metrics.ActionsTotal.WithLabelValues("reset_ship", "applied").Inc()
	response.JSON(w, http.StatusOK, response.PlayerFromModel(updated))
}

// SetActiveShip handles POST /api/v1/actions/active-ship
func (h *ActionHandler) SetActiveShip(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SetActiveShipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ShipID == "" {
		WriteError(w, NewInvalidRequestError("ship_id is required"))
		return
	}

	updated, err := h.economyService.SetActiveShip(r.Context(), player.ID, model.ShipID(req.ShipID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(updated))
}
