package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/store"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Player    model.Player
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles authentication and session management. A player record is
// created on first login, spawned at the configured position with starting
// gold and the default ship.
type Service struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	cfg Config
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	StartingGold    int
	SpawnPosition   model.Vec3
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		StartingGold:    500,
		SpawnPosition:   model.Vec3{X: 0, Y: 0, Z: 0},
	}
}

// New creates a new AuthService
func New(store store.Store, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		store:    store,
		clock:    clock,
		logger:   logger,
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
}

// CreateGuestPlayer creates an anonymous player and session
func (s *Service) CreateGuestPlayer(ctx context.Context, displayName string) (*Session, error) {
	player := s.newPlayer(s.generateID("p_"), displayName, true)

	if err := s.store.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("guest player created",
		slog.String("player_id", string(player.ID)),
		slog.String("display_name", displayName),
	)

	return s.createSession(player)
}

// RegisterPlayer creates a registered player account and session
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error) {
	// Check if username exists
	_, err := s.store.GetRegisteredPlayerByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	player := s.newPlayer(s.generateID("p_"), displayName, false)
	now := s.clock.Now()

	registeredPlayer := &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err := s.store.SaveRegisteredPlayer(ctx, registeredPlayer); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username),
	)

	return s.createSession(player)
}

// Login authenticates a registered player and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	rp, err := s.store.GetRegisteredPlayerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	player, err := s.store.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, err
	}

	player.IsOnline = true
	player.LastUpdated = s.clock.Now()
	if err := s.store.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	return s.createSession(player)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// newPlayer builds a fresh player record with spawn defaults
func (s *Service) newPlayer(id string, displayName string, guest bool) *model.Player {
	now := s.clock.Now()
	return &model.Player{
		ID:            model.PlayerID(id),
		DisplayName:   displayName,
		IsGuest:       guest,
		Position:      s.cfg.SpawnPosition,
		Health:        model.MaxHealth,
		Gold:          s.cfg.StartingGold,
		UnlockedShips: []model.ShipID{model.ShipSloop},
		ActiveShip:    model.ShipSloop,
		IsOnline:      true,
		LastUpdated:   now,
		CreatedAt:     now,
	}
}

// createSession creates a new session for a player
func (s *Service) createSession(player *model.Player) (*Session, error) {
	token := s.generateID("sess_")
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		PlayerID:  player.ID,
		Player:    *player,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session, nil
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredSessions removes expired sessions and reports how many were
// evicted. The maintenance runner calls this periodically; ValidateSession
// only evicts tokens that are actually presented.
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
