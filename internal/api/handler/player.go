package handler

import (
	"encoding/json"
	"net/http"

	"github.com/windward-game/windward/internal/api/middleware"
	"github.com/windward-game/windward/internal/api/request"
	"github.com/windward-game/windward/internal/api/response"
	"github.com/windward-game/windward/internal/services/auth"
	"github.com/windward-game/windward/internal/services/fleet"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService  *auth.Service
	fleetService *fleet.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, fleetService *fleet.Service) *PlayerHandler {
	return &PlayerHandler{
		authService:  authService,
		fleetService: fleetService,
	}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	sessionPlayer := middleware.MustGetPlayer(r.Context())

	// The session snapshot goes stale; serve the live record.
	player, err := h.fleetService.GetPlayer(r.Context(), sessionPlayer.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// UpdateState handles POST /api/v1/players/me/state
func (h *PlayerHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.UpdateStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	updated, err := h.fleetService.UpdateState(r.Context(), player.ID, req.Position, req.Rotation, req.Destination)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(updated))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	session := middleware.GetSession(r.Context())

	if session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	if err := h.fleetService.SetOffline(r.Context(), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
