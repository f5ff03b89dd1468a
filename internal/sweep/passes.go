package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/metrics"
	"github.com/windward-game/windward/internal/store"
)

// SessionCleaner evicts expired sessions and reports how many went.
type SessionCleaner interface {
	CleanExpiredSessions() int
}

// Config holds sweep intervals and retention windows
type Config struct {
	InactiveInterval  time.Duration
	InactiveThreshold time.Duration

	WreckInterval    time.Duration
	LootedWreckTTL   time.Duration
	UnlootedWreckTTL time.Duration

	EventInterval time.Duration
	EventTTL      time.Duration

	SessionInterval time.Duration
}

// DefaultConfig returns default sweep configuration
func DefaultConfig() Config {
	return Config{
		InactiveInterval:  5 * time.Minute,
		InactiveThreshold: 10 * time.Minute,
		WreckInterval:     time.Hour,
		LootedWreckTTL:    time.Hour,
		UnlootedWreckTTL:  24 * time.Hour,
		EventInterval:     10 * time.Second,
		EventTTL:          10 * time.Second,
		SessionInterval:   5 * time.Minute,
	}
}

// Runner owns the maintenance sweeps.
type Runner struct {
	store    store.Store
	sessions SessionCleaner
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	sweepers []*Sweeper
}

// NewRunner creates the maintenance sweeps.
func NewRunner(store store.Store, sessions SessionCleaner, clock clock.Clock, cfg Config, logger *slog.Logger) *Runner {
	r := &Runner{store: store, sessions: sessions, clock: clock, logger: logger, cfg: cfg}
	r.sweepers = []*Sweeper{
		newSweeper("inactive-players", cfg.InactiveInterval, r.SweepInactivePlayers, logger),
		newSweeper("shipwrecks", cfg.WreckInterval, r.SweepShipwrecks, logger),
		newSweeper("combat-events", cfg.EventInterval, r.SweepCombatEvents, logger),
		newSweeper("expired-sessions", cfg.SessionInterval, r.SweepExpiredSessions, logger),
	}
	return r
}

// Start launches all sweep loops.
func (r *Runner) Start(ctx context.Context) {
	for _, s := range r.sweepers {
		s.Start(ctx)
	}
}

// Stop halts all sweep loops.
func (r *Runner) Stop() {
	for _, s := range r.sweepers {
		s.Stop()
	}
}

// SweepInactivePlayers marks players offline after the inactivity threshold.
// Player records are never deleted.
func (r *Runner) SweepInactivePlayers(ctx context.Context) error {
	players, err := r.store.ListPlayers(ctx)
	if err != nil {
		return err
	}

	now := r.clock.Now()
	marked := 0
	for _, p := range players {
		if !p.IsOnline || now.Sub(p.LastUpdated) <= r.cfg.InactiveThreshold {
			continue
		}
		p.IsOnline = false
		if err := r.store.SavePlayer(ctx, p); err != nil {
			return err
		}
		marked++
		metrics.PlayersMarkedOfflineTotal.Inc()
	}

	if marked > 0 {
		r.logger.Info("marked inactive players offline", slog.Int("count", marked))
	}
	return nil
}

// SweepShipwrecks deletes looted wrecks past the short retention window and
// unlooted wrecks past the long one.
func (r *Runner) SweepShipwrecks(ctx context.Context) error {
	wrecks, err := r.store.ListShipwrecks(ctx)
	if err != nil {
		return err
	}

	now := r.clock.Now()
	deleted := 0
	for _, w := range wrecks {
		// The looted window runs from the loot time, not creation.
		ttl, since := r.cfg.UnlootedWreckTTL, w.CreatedAt
		if w.Looted {
			ttl, since = r.cfg.LootedWreckTTL, w.LootedAt
		}
		if now.Sub(since) <= ttl {
			continue
		}
		if err := r.store.DeleteShipwreck(ctx, w.ID); err != nil {
			return err
		}
		deleted++
		metrics.SweepDeletionsTotal.WithLabelValues("shipwreck").Inc()
	}

	if deleted > 0 {
		r.logger.Info("deleted expired shipwrecks", slog.Int("count", deleted))
	}
	return nil
}

// SweepCombatEvents deletes broadcast events past their short lifetime. The
// Redis backend expires these on its own; this pass covers the memory
// backend.
func (r *Runner) SweepCombatEvents(ctx context.Context) error {
	events, err := r.store.ListCombatEvents(ctx)
	if err != nil {
		return err
	}

	now := r.clock.Now()
	for _, e := range events {
		if now.Sub(e.Timestamp) <= r.cfg.EventTTL {
			continue
		}
		if err := r.store.DeleteCombatEvent(ctx, e.ID); err != nil {
			return err
		}
		metrics.SweepDeletionsTotal.WithLabelValues("combat_event").Inc()
	}
	return nil
}

// SweepExpiredSessions evicts sessions whose tokens were never presented
// again after expiry.
func (r *Runner) SweepExpiredSessions(ctx context.Context) error {
	removed := r.sessions.CleanExpiredSessions()
	if removed > 0 {
		metrics.SweepDeletionsTotal.WithLabelValues("session").Add(float64(removed))
		r.logger.Info("evicted expired sessions", slog.Int("count", removed))
	}
	return nil
}
