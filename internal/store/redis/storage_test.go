package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/windward-game/windward/internal/dependencies/mocks"
	"github.com/windward-game/windward/internal/model"
)

type StoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	clock *mocks.MockClock
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.store = NewWithClient(client, DefaultConfig(), s.clock)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StoreSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Calico Jack",
		Position:    model.Vec3{X: 5, Z: -3},
		Health:      model.MaxHealth,
		Gold:        500,
	}

	err := s.store.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.store.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(500, retrieved.Gold)
	s.Equal(5.0, retrieved.Position.X)
}

func (s *StoreSuite) TestGetPlayerNotFound() {
	_, err := s.store.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StoreSuite) TestGuestPlayerTTL() {
	guest := &model.Player{ID: "guest-1", IsGuest: true}
	registered := &model.Player{ID: "registered-1", IsGuest: false}

	_ = s.store.SavePlayer(s.ctx, guest)
	_ = s.store.SavePlayer(s.ctx, registered)

	guestTTL := s.mini.TTL(playerKey(guest.ID))
	registeredTTL := s.mini.TTL(playerKey(registered.ID))

	s.True(guestTTL > 0, "Guest player should have TTL")
	s.Equal(time.Duration(0), registeredTTL, "Registered player should not have TTL")
}

func (s *StoreSuite) TestListPlayers() {
	_ = s.store.SavePlayer(s.ctx, &model.Player{ID: "player-1"})
	_ = s.store.SavePlayer(s.ctx, &model.Player{ID: "player-2"})

	players, err := s.store.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

// Registered player tests

func (s *StoreSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "annebonny",
		PasswordHash: "hash123",
	}
	_ = s.store.SaveRegisteredPlayer(s.ctx, rp)

	retrieved, err := s.store.GetRegisteredPlayerByUsername(s.ctx, "annebonny")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.PlayerID)
}

func (s *StoreSuite) TestGetRegisteredPlayerByUsernameNotFound() {
	_, err := s.store.GetRegisteredPlayerByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Enemy ship tests

func (s *StoreSuite) TestEnemyShipLifecycle() {
	ship := &model.EnemyShip{ID: "enemy-1", Health: model.DefaultEnemyHealth}
	s.Require().NoError(s.store.SaveEnemyShip(s.ctx, ship))

	ships, err := s.store.ListEnemyShips(s.ctx)
	s.Require().NoError(err)
	s.Len(ships, 1)

	s.Require().NoError(s.store.DeleteEnemyShip(s.ctx, "enemy-1"))
	_, err = s.store.GetEnemyShip(s.ctx, "enemy-1")
	s.ErrorIs(err, model.ErrEnemyShipNotFound)

	ships, _ = s.store.ListEnemyShips(s.ctx)
	s.Empty(ships)
}

// Shipwreck tests

func (s *StoreSuite) TestShipwreckLifecycle() {
	wreck := &model.Shipwreck{
		ID:   "wreck-1",
		Loot: model.Loot{Gold: 75, Items: []model.LootItem{{Key: "k1", Name: "rum"}}},
	}
	s.Require().NoError(s.store.SaveShipwreck(s.ctx, wreck))

	retrieved, err := s.store.GetShipwreck(s.ctx, "wreck-1")
	s.Require().NoError(err)
	s.Equal(75, retrieved.Loot.Gold)
	s.Len(retrieved.Loot.Items, 1)

	s.Require().NoError(s.store.DeleteShipwreck(s.ctx, "wreck-1"))
	_, err = s.store.GetShipwreck(s.ctx, "wreck-1")
	s.ErrorIs(err, model.ErrShipwreckNotFound)
}

// Combat event tests

func (s *StoreSuite) TestCombatEventExpiry() {
	event := &model.CombatEvent{ID: "event-1", Type: model.CombatEventCannonFire}
	s.Require().NoError(s.store.SaveCombatEvent(s.ctx, event))

	events, err := s.store.ListCombatEvents(s.ctx)
	s.Require().NoError(err)
	s.Len(events, 1)

	// After the TTL elapses the listing skips the expired record
	s.mini.FastForward(11 * time.Second)

	events, err = s.store.ListCombatEvents(s.ctx)
	s.Require().NoError(err)
	s.Empty(events)
}

// Rate limit tests

func (s *StoreSuite) TestRateLimitRoundTrip() {
	_, err := s.store.GetRateLimit(s.ctx, model.RateLimitIP, "abcd1234", "combat")
	s.ErrorIs(err, model.ErrRateLimitNotFound)

	rec := &model.RateLimitRecord{Count: 2, ResetTime: s.clock.Now().Add(time.Minute)}
	s.Require().NoError(s.store.SaveRateLimit(s.ctx, model.RateLimitIP, "abcd1234", "combat", rec))

	retrieved, err := s.store.GetRateLimit(s.ctx, model.RateLimitIP, "abcd1234", "combat")
	s.Require().NoError(err)
	s.Equal(2, retrieved.Count)
}

func (s *StoreSuite) TestRateLimitExpiresWithWindow() {
	rec := &model.RateLimitRecord{Count: 5, ResetTime: s.clock.Now().Add(time.Minute)}
	_ = s.store.SaveRateLimit(s.ctx, model.RateLimitUser, "player-1", "loot", rec)

	s.mini.FastForward(2 * time.Minute)

	_, err := s.store.GetRateLimit(s.ctx, model.RateLimitUser, "player-1", "loot")
	s.ErrorIs(err, model.ErrRateLimitNotFound)
}

func (s *StoreSuite) TestIncrGlobalCounter() {
	count, _, err := s.store.IncrGlobalCounter(s.ctx, "combat", time.Minute)
	s.Require().NoError(err)
	s.Equal(1, count)

	count, _, err = s.store.IncrGlobalCounter(s.ctx, "combat", time.Minute)
	s.Require().NoError(err)
	s.Equal(2, count)

	// New window after expiry
	s.mini.FastForward(2 * time.Minute)

	count, _, err = s.store.IncrGlobalCounter(s.ctx, "combat", time.Minute)
	s.Require().NoError(err)
	s.Equal(1, count)
}
