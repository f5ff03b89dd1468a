package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/windward-game/windward/internal/api/handler"
	apimiddleware "github.com/windward-game/windward/internal/api/middleware"
	"github.com/windward-game/windward/internal/api/response"
	"github.com/windward-game/windward/internal/config"
	"github.com/windward-game/windward/internal/feed"
	"github.com/windward-game/windward/internal/middleware"
	"github.com/windward-game/windward/internal/services/auth"
	"github.com/windward-game/windward/internal/services/combat"
	"github.com/windward-game/windward/internal/services/economy"
	"github.com/windward-game/windward/internal/services/fleet"
	"github.com/windward-game/windward/internal/services/loot"
	"github.com/windward-game/windward/internal/services/ratelimit"
)

// RouterConfig holds the dependencies for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	FleetService     *fleet.Service
	CombatService    *combat.Service
	LootService      *loot.Service
	EconomyService   *economy.Service
	RateLimitService *ratelimit.Service
	FeedHub          *feed.Hub
	Limits           config.LimitsConfig
}

// NewRouter creates the API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(apimiddleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.FleetService)
	actionHandler := handler.NewActionHandler(cfg.CombatService, cfg.LootService, cfg.EconomyService)
	worldHandler := handler.NewWorldHandler(cfg.FleetService)

	authMW := apimiddleware.Auth(cfg.AuthService)
	signupLimit := ratelimit.Limit{
		Name:   "signup",
		Max:    cfg.Limits.SignupPerIPMax,
		Window: cfg.Limits.SignupPerIPWindow,
	}
	actionUserLimit := ratelimit.Limit{
		Name:   "action",
		Max:    cfg.Limits.ActionPerUserMax,
		Window: cfg.Limits.ActionPerUserWindow,
	}
	actionGlobalLimit := ratelimit.Limit{
		Name:   "action",
		Max:    cfg.Limits.GlobalActionMax,
		Window: cfg.Limits.GlobalActionWindow,
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes. Signup and login are throttled per remote address.
	public := api.NewRoute().Subrouter()
	public.Use(apimiddleware.IPRateLimit(cfg.RateLimitService, signupLimit))
	public.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	public.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Authenticated player routes
	players := api.NewRoute().Subrouter()
	players.Use(authMW)
	players.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/players/me/state", playerHandler.UpdateState).Methods(http.MethodPost)
	players.HandleFunc("/players/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Gameplay actions, rate limited per player and globally
	actions := api.PathPrefix("/actions").Subrouter()
	actions.Use(authMW)
	actions.Use(apimiddleware.ActionRateLimit(cfg.RateLimitService, actionUserLimit, actionGlobalLimit))
	actions.HandleFunc("/combat", actionHandler.Combat).Methods(http.MethodPost)
	actions.HandleFunc("/loot", actionHandler.Loot).Methods(http.MethodPost)
	actions.HandleFunc("/unlock-ship", actionHandler.UnlockShip).Methods(http.MethodPost)
	actions.HandleFunc("/reset-ship", actionHandler.ResetShip).Methods(http.MethodPost)
	actions.HandleFunc("/active-ship", actionHandler.SetActiveShip).Methods(http.MethodPost)

	// World views
	world := api.PathPrefix("/world").Subrouter()
	world.Use(authMW)
	world.HandleFunc("/players", worldHandler.Players).Methods(http.MethodGet)
	world.HandleFunc("/shipwrecks", worldHandler.Shipwrecks).Methods(http.MethodGet)
	world.HandleFunc("/ships", worldHandler.Ships).Methods(http.MethodGet)

	// Live feed. The hub authenticates via the same bearer/cookie token.
	feedRoute := api.NewRoute().Subrouter()
	feedRoute.Use(authMW)
	feedRoute.HandleFunc("/feed", cfg.FeedHub.ServeWS).Methods(http.MethodGet)

	api.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
