package memory

import (
	"context"
	"sync"
	"time"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/store"
)

// Store is an in-memory implementation of the store interface
type Store struct {
	mu sync.RWMutex

	clock clock.Clock

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	enemyShips        map[model.EnemyShipID]*model.EnemyShip
	shipwrecks        map[model.ShipwreckID]*model.Shipwreck
	combatEvents      map[model.CombatEventID]*model.CombatEvent
	rateLimits        map[rateLimitKey]*model.RateLimitRecord
	globalCounters    map[string]*model.RateLimitRecord
}

type rateLimitKey struct {
	scope    model.RateLimitScope
	identity string
	name     string
}

// New creates a new in-memory store instance
func New(clk clock.Clock) *Store {
	return &Store{
		clock:             clk,
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		enemyShips:        make(map[model.EnemyShipID]*model.EnemyShip),
		shipwrecks:        make(map[model.ShipwreckID]*model.Shipwreck),
		combatEvents:      make(map[model.CombatEventID]*model.CombatEvent),
		rateLimits:        make(map[rateLimitKey]*model.RateLimitRecord),
		globalCounters:    make(map[string]*model.RateLimitRecord),
	}
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

// Player operations

func (s *Store) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *player
	s.players[player.ID] = &cp
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *player
	return &cp, nil
}

func (s *Store) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		cp := *p
		players = append(players, &cp)
	}
	return players, nil
}

// Registered player operations

func (s *Store) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rp
	s.registeredPlayers[rp.PlayerID] = &cp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Store) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *rp
	return &cp, nil
}

func (s *Store) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *rp
	return &cp, nil
}

// Enemy ship operations

func (s *Store) SaveEnemyShip(ctx context.Context, ship *model.EnemyShip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ship
	s.enemyShips[ship.ID] = &cp
	return nil
}

func (s *Store) GetEnemyShip(ctx context.Context, id model.EnemyShipID) (*model.EnemyShip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ship, ok := s.enemyShips[id]
	if !ok {
		return nil, model.ErrEnemyShipNotFound
	}
	cp := *ship
	return &cp, nil
}

func (s *Store) ListEnemyShips(ctx context.Context) ([]*model.EnemyShip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ships := make([]*model.EnemyShip, 0, len(s.enemyShips))
	for _, e := range s.enemyShips {
		cp := *e
		ships = append(ships, &cp)
	}
	return ships, nil
}

func (s *Store) DeleteEnemyShip(ctx context.Context, id model.EnemyShipID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.enemyShips, id)
	return nil
}

// Shipwreck operations

func (s *Store) SaveShipwreck(ctx context.Context, wreck *model.Shipwreck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *wreck
	s.shipwrecks[wreck.ID] = &cp
	return nil
}

func (s *Store) GetShipwreck(ctx context.Context, id model.ShipwreckID) (*model.Shipwreck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wreck, ok := s.shipwrecks[id]
	if !ok {
		return nil, model.ErrShipwreckNotFound
	}
	cp := *wreck
	return &cp, nil
}

func (s *Store) ListShipwrecks(ctx context.Context) ([]*model.Shipwreck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wrecks := make([]*model.Shipwreck, 0, len(s.shipwrecks))
	for _, w := range s.shipwrecks {
		cp := *w
		wrecks = append(wrecks, &cp)
	}
	return wrecks, nil
}

func (s *Store) DeleteShipwreck(ctx context.Context, id model.ShipwreckID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shipwrecks, id)
	return nil
}

// Combat event operations

func (s *Store) SaveCombatEvent(ctx context.Context, event *model.CombatEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.combatEvents[event.ID] = &cp
	return nil
}

func (s *Store) ListCombatEvents(ctx context.Context) ([]*model.CombatEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]*model.CombatEvent, 0, len(s.combatEvents))
	for _, e := range s.combatEvents {
		cp := *e
		events = append(events, &cp)
	}
	return events, nil
}

func (s *Store) DeleteCombatEvent(ctx context.Context, id model.CombatEventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.combatEvents, id)
	return nil
}

// Rate limit operations

func (s *Store) GetRateLimit(ctx context.Context, scope model.RateLimitScope, identity, name string) (*model.RateLimitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rateLimits[rateLimitKey{scope: scope, identity: identity, name: name}]
	if !ok {
		return nil, model.ErrRateLimitNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) SaveRateLimit(ctx context.Context, scope model.RateLimitScope, identity, name string, rec *model.RateLimitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.rateLimits[rateLimitKey{scope: scope, identity: identity, name: name}] = &cp
	return nil
}

// IncrGlobalCounter holds the write lock for the whole read-modify-write, so
// concurrent increments cannot be lost.
func (s *Store) IncrGlobalCounter(ctx context.Context, name string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	rec, ok := s.globalCounters[name]
	if !ok || rec.Expired(now) {
		rec = &model.RateLimitRecord{Count: 1, ResetTime: now.Add(window)}
		s.globalCounters[name] = rec
		return rec.Count, rec.ResetTime, nil
	}

	rec.Count++
	return rec.Count, rec.ResetTime, nil
}
