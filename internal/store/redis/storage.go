package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/store"
)

// Store is a Redis-backed implementation of the store interface
type Store struct {
	client *redis.Client
	clock  clock.Clock
	cfg    Config
}

// incrWindowScript atomically increments a fixed-window counter, arming the
// window TTL on the first increment. Returns {count, remaining_ms}.
var incrWindowScript = redis.NewScript(`
local c = redis.call('INCR', KEYS[1])
if c == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {c, ttl}
`)

// New creates a new Redis store instance
func New(cfg Config, clk clock.Clock) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		clock:  clk,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock) *Store {
	return &Store{
		client: client,
		clock:  clk,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

// Player operations

func (s *Store) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	// Guests decay eventually; registered players are kept forever
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, playersIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Store) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	players := make([]*model.Player, 0)
	err := s.listInto(ctx, playersIndexKey(), func(data []byte) error {
		var p model.Player
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		players = append(players, &p)
		return nil
	})
	return players, err
}

// Registered player operations

func (s *Store) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Pipeline keeps the record and its username index in step
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Store) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Enemy ship operations

func (s *Store) SaveEnemyShip(ctx context.Context, ship *model.EnemyShip) error {
	data, err := json.Marshal(ship)
	if err != nil {
		return err
	}

	key := enemyShipKey(ship.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, enemyShipsIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetEnemyShip(ctx context.Context, id model.EnemyShipID) (*model.EnemyShip, error) {
	data, err := s.client.Get(ctx, enemyShipKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEnemyShipNotFound
		}
		return nil, err
	}

	var ship model.EnemyShip
	if err := json.Unmarshal(data, &ship); err != nil {
		return nil, err
	}
	return &ship, nil
}

func (s *Store) ListEnemyShips(ctx context.Context) ([]*model.EnemyShip, error) {
	ships := make([]*model.EnemyShip, 0)
	err := s.listInto(ctx, enemyShipsIndexKey(), func(data []byte) error {
		var e model.EnemyShip
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		ships = append(ships, &e)
		return nil
	})
	return ships, err
}

func (s *Store) DeleteEnemyShip(ctx context.Context, id model.EnemyShipID) error {
	key := enemyShipKey(id)
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, enemyShipsIndexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

// Shipwreck operations

func (s *Store) SaveShipwreck(ctx context.Context, wreck *model.Shipwreck) error {
	data, err := json.Marshal(wreck)
	if err != nil {
		return err
	}

	key := shipwreckKey(wreck.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.ShipwreckTTL)
	pipe.SAdd(ctx, shipwrecksIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetShipwreck(ctx context.Context, id model.ShipwreckID) (*model.Shipwreck, error) {
	data, err := s.client.Get(ctx, shipwreckKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrShipwreckNotFound
		}
		return nil, err
	}

	var wreck model.Shipwreck
	if err := json.Unmarshal(data, &wreck); err != nil {
		return nil, err
	}
	return &wreck, nil
}

func (s *Store) ListShipwrecks(ctx context.Context) ([]*model.Shipwreck, error) {
	wrecks := make([]*model.Shipwreck, 0)
	err := s.listInto(ctx, shipwrecksIndexKey(), func(data []byte) error {
		var w model.Shipwreck
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		wrecks = append(wrecks, &w)
		return nil
	})
	return wrecks, err
}

func (s *Store) DeleteShipwreck(ctx context.Context, id model.ShipwreckID) error {
	key := shipwreckKey(id)
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, shipwrecksIndexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

// Combat event operations

func (s *Store) SaveCombatEvent(ctx context.Context, event *model.CombatEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := combatEventKey(event.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.CombatEventTTL)
	pipe.SAdd(ctx, combatEventsIndexKey(), key)
	pipe.Expire(ctx, combatEventsIndexKey(), s.cfg.CombatEventTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) ListCombatEvents(ctx context.Context) ([]*model.CombatEvent, error) {
	events := make([]*model.CombatEvent, 0)
	err := s.listInto(ctx, combatEventsIndexKey(), func(data []byte) error {
		var e model.CombatEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		events = append(events, &e)
		return nil
	})
	return events, err
}

func (s *Store) DeleteCombatEvent(ctx context.Context, id model.CombatEventID) error {
	key := combatEventKey(id)
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, combatEventsIndexKey(), key)
	_, err := pipe.Exec(ctx)
	return err
}

// Rate limit operations

func (s *Store) GetRateLimit(ctx context.Context, scope model.RateLimitScope, identity, name string) (*model.RateLimitRecord, error) {
	data, err := s.client.Get(ctx, rateLimitKey(scope, identity, name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRateLimitNotFound
		}
		return nil, err
	}

	var rec model.RateLimitRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) SaveRateLimit(ctx context.Context, scope model.RateLimitScope, identity, name string, rec *model.RateLimitRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// Let the record expire with its window so stale counters clean
	// themselves up
	ttl := rec.ResetTime.Sub(s.clock.Now())
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, rateLimitKey(scope, identity, name), data, ttl).Err()
}

func (s *Store) IncrGlobalCounter(ctx context.Context, name string, window time.Duration) (int, time.Time, error) {
	res, err := incrWindowScript.Run(ctx, s.client,
		[]string{globalCounterKey(name)}, window.Milliseconds()).Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected script result: %v", res)
	}

	count, _ := res[0].(int64)
	ttlMs, _ := res[1].(int64)
	resetTime := s.clock.Now().Add(time.Duration(ttlMs) * time.Millisecond)
	return int(count), resetTime, nil
}

// listInto fetches every member of an index set with MGET and decodes each
// present value. Members whose record has expired are skipped.
func (s *Store) listInto(ctx context.Context, indexKey string, decode func([]byte) error) error {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}

	for _, val := range values {
		if val == nil {
			continue // Record expired out from under the index
		}
		str, ok := val.(string)
		if !ok {
			continue
		}
		if err := decode([]byte(str)); err != nil {
			continue // Skip invalid data
		}
	}
	return nil
}
