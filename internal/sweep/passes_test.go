package sweep_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/windward-game/windward/internal/dependencies/mocks"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/auth"
	"github.com/windward-game/windward/internal/store/memory"
	"github.com/windward-game/windward/internal/sweep"
	"github.com/windward-game/windward/internal/testutil"
)

type SweepSuite struct {
	suite.Suite

	ctx    context.Context
	clock  *mocks.MockClock
	store  *memory.Store
	auth   *auth.Service
	runner *sweep.Runner
}

func TestSweepSuite(t *testing.T) {
	suite.Run(t, new(SweepSuite))
}

func (s *SweepSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Unix(1700000000, 0))
	s.store = memory.New(s.clock)
	s.auth = auth.New(s.store, s.clock, auth.DefaultConfig(), testutil.NopLogger())
	s.runner = sweep.NewRunner(s.store, s.auth, s.clock, sweep.DefaultConfig(), testutil.NopLogger())
}

func (s *SweepSuite) TestInactivePlayersMarkedOffline() {
	stale := &model.Player{ID: "stale", IsOnline: true, LastUpdated: s.clock.Now()}
	s.Require().NoError(s.store.SavePlayer(s.ctx, stale))

	s.clock.Advance(11 * time.Minute)

	fresh := &model.Player{ID: "fresh", IsOnline: true, LastUpdated: s.clock.Now()}
	s.Require().NoError(s.store.SavePlayer(s.ctx, fresh))

	s.Require().NoError(s.runner.SweepInactivePlayers(s.ctx))

	got, err := s.store.GetPlayer(s.ctx, "stale")
	s.Require().NoError(err)
	s.False(got.IsOnline)

	got, err = s.store.GetPlayer(s.ctx, "fresh")
	s.Require().NoError(err)
	s.True(got.IsOnline)
}

func (s *SweepSuite) TestInactiveSweepNeverDeletes() {
	stale := &model.Player{ID: "stale", IsOnline: true, LastUpdated: s.clock.Now()}
	s.Require().NoError(s.store.SavePlayer(s.ctx, stale))

	s.clock.Advance(48 * time.Hour)
	s.Require().NoError(s.runner.SweepInactivePlayers(s.ctx))

	_, err := s.store.GetPlayer(s.ctx, "stale")
	s.NoError(err)
}

func (s *SweepSuite) TestLootedWreckKeptAtThirtyMinutes() {
	w := &model.Shipwreck{ID: "w1", Looted: true, CreatedAt: s.clock.Now(), LootedAt: s.clock.Now()}
	s.Require().NoError(s.store.SaveShipwreck(s.ctx, w))

	s.clock.Advance(30 * time.Minute)
	s.Require().NoError(s.runner.SweepShipwrecks(s.ctx))

	_, err := s.store.GetShipwreck(s.ctx, "w1")
	s.NoError(err)
}

func (s *SweepSuite) TestLootedWreckRemovedAfterAnHour() {
	w := &model.Shipwreck{ID: "w1", Looted: true, CreatedAt: s.clock.Now(), LootedAt: s.clock.Now()}
	s.Require().NoError(s.store.SaveShipwreck(s.ctx, w))

	s.clock.Advance(61 * time.Minute)
	s.Require().NoError(s.runner.SweepShipwrecks(s.ctx))

	_, err := s.store.GetShipwreck(s.ctx, "w1")
	s.ErrorIs(err, model.ErrShipwreckNotFound)
}

func (s *SweepSuite) TestLootedWreckWindowRunsFromLootTime() {
	w := &model.Shipwreck{ID: "w1", CreatedAt: s.clock.Now()}
	s.Require().NoError(s.store.SaveShipwreck(s.ctx, w))

	// Sat unlooted for two hours before someone claimed it.
	s.clock.Advance(2 * time.Hour)
	w.Looted = true
	w.LootedBy = "p1"
	w.LootedAt = s.clock.Now()
	s.Require().NoError(s.store.SaveShipwreck(s.ctx, w))

	s.clock.Advance(30 * time.Minute)
	s.Require().NoError(s.runner.SweepShipwrecks(s.ctx))
	_, err := s.store.GetShipwreck(s.ctx, "w1")
	s.NoError(err)

	s.clock.Advance(31 * time.Minute)
	s.Require().NoError(s.runner.SweepShipwrecks(s.ctx))
	_, err = s.store.GetShipwreck(s.ctx, "w1")
	s.ErrorIs(err, model.ErrShipwreckNotFound)
}

func (s *SweepSuite) TestUnlootedWreckKeptUntilDayPasses() {
	w := &model.Shipwreck{ID: "w1", CreatedAt: s.clock.Now()}
	s.Require().NoError(s.store.SaveShipwreck(s.ctx, w))

	s.clock.Advance(23 * time.Hour)
	s.Require().NoError(s.runner.SweepShipwrecks(s.ctx))
	_, err := s.store.GetShipwreck(s.ctx, "w1")
	s.NoError(err)

	s.clock.Advance(2 * time.Hour)
	s.Require().NoError(s.runner.SweepShipwrecks(s.ctx))
	_, err = s.store.GetShipwreck(s.ctx, "w1")
	s.ErrorIs(err, model.ErrShipwreckNotFound)
}

func (s *SweepSuite) TestExpiredSessionsEvicted() {
	abandoned, err := s.auth.CreateGuestPlayer(s.ctx, "Early")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	live, err := s.auth.CreateGuestPlayer(s.ctx, "Late")
	s.Require().NoError(err)

	s.Require().NoError(s.runner.SweepExpiredSessions(s.ctx))

	_, err = s.auth.ValidateSession(abandoned.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)

	_, err = s.auth.ValidateSession(live.Token)
	s.NoError(err)
}

func (s *SweepSuite) TestStaleCombatEventsRemoved() {
	e := &model.CombatEvent{ID: "evt-1", Timestamp: s.clock.Now()}
	s.Require().NoError(s.store.SaveCombatEvent(s.ctx, e))

	s.Require().NoError(s.runner.SweepCombatEvents(s.ctx))
	events, err := s.store.ListCombatEvents(s.ctx)
	s.Require().NoError(err)
	s.Len(events, 1)

	s.clock.Advance(11 * time.Second)
	s.Require().NoError(s.runner.SweepCombatEvents(s.ctx))
	events, err = s.store.ListCombatEvents(s.ctx)
	s.Require().NoError(err)
	s.Empty(events)
}
