package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/store"
)

// Limit describes one fixed-window limit.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
}

// Result reports the limiter's decision. Wait is zero when Allowed.
type Result struct {
	Allowed   bool
	Remaining int
	Wait      time.Duration
}

// Service enforces fixed-window rate limits. Per-user and per-IP counters
// are read-then-write and may under-count under concurrent calls for the
// same identity; the global counter goes through the store's atomic
// increment and never loses a call.
type Service struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new rate limit service
func New(store store.Store, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{store: store, clock: clock, logger: logger}
}

// AllowUser checks and counts one call for the given player.
func (s *Service) AllowUser(ctx context.Context, playerID model.PlayerID, limit Limit) (*Result, error) {
	return s.allowScoped(ctx, model.RateLimitUser, string(playerID), limit)
}

// AllowIP checks and counts one call for the given remote address. The raw
// address never reaches the store; it is hashed first.
func (s *Service) AllowIP(ctx context.Context, ip string, limit Limit) (*Result, error) {
	return s.allowScoped(ctx, model.RateLimitIP, HashIP(ip), limit)
}

// AllowGlobal checks and counts one call against the shared global window.
func (s *Service) AllowGlobal(ctx context.Context, limit Limit) (*Result, error) {
	count, resetTime, err := s.store.IncrGlobalCounter(ctx, limit.Name, limit.Window)
	if err != nil {
		return nil, err
	}
	if count > limit.Max {
		wait := resetTime.Sub(s.clock.Now())
		s.logger.Warn("global rate limit exceeded",
			slog.String("limit", limit.Name),
			slog.Int("count", count),
		)
		return &Result{Wait: wait}, &model.RateLimitError{Scope: model.RateLimitGlobal, Wait: wait}
	}
	return &Result{Allowed: true, Remaining: limit.Max - count}, nil
}

func (s *Service) allowScoped(ctx context.Context, scope model.RateLimitScope, identity string, limit Limit) (*Result, error) {
	now := s.clock.Now()

	rec, err := s.store.GetRateLimit(ctx, scope, identity, limit.Name)
	if errors.Is(err, model.ErrRateLimitNotFound) {
		rec = &model.RateLimitRecord{}
	} else if err != nil {
		return nil, err
	}

	if rec.Count == 0 || rec.Expired(now) {
		rec = &model.RateLimitRecord{Count: 0, ResetTime: now.Add(limit.Window)}
	}

	if rec.Count >= limit.Max {
		wait := rec.ResetTime.Sub(now)
		s.logger.Warn("rate limit exceeded",
			slog.String("scope", string(scope)),
			slog.String("limit", limit.Name),
			slog.Int("count", rec.Count),
		)
		return &Result{Wait: wait}, &model.RateLimitError{Scope: scope, Wait: wait}
	}

	rec.Count++
	if err := s.store.SaveRateLimit(ctx, scope, identity, limit.Name, rec); err != nil {
		return nil, err
	}

	return &Result{Allowed: true, Remaining: limit.Max - rec.Count}, nil
}

// HashIP reduces a remote address to a fixed-size opaque key.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
