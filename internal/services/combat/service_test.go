package combat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/windward-game/windward/internal/dependencies/mocks"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/combat"
	"github.com/windward-game/windward/internal/store/memory"
	"github.com/windward-game/windward/internal/testutil"
)

type CombatSuite struct {
	suite.Suite

	ctx     context.Context
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	store   *memory.Store
	service *combat.Service
}

func TestCombatSuite(t *testing.T) {
	suite.Run(t, new(CombatSuite))
}

func (s *CombatSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Unix(1700000000, 0))
	s.random = mocks.NewMockRandom()
	s.store = memory.New(s.clock)
	s.service = combat.New(s.store, s.clock, s.random, combat.DefaultConfig(), testutil.NopLogger())
}

func (s *CombatSuite) newPlayer(id model.PlayerID, pos model.Vec3) *model.Player {
	p := &model.Player{
		ID:          id,
		DisplayName: string(id),
		Position:    pos,
		Health:      model.MaxHealth,
		Gold:        500,
		IsOnline:    true,
		LastUpdated: s.clock.Now(),
		CreatedAt:   s.clock.Now(),
	}
	s.Require().NoError(s.store.SavePlayer(s.ctx, p))
	return p
}

func (s *CombatSuite) newEnemy(id model.EnemyShipID, pos model.Vec3, health int) *model.EnemyShip {
	e := &model.EnemyShip{
		ID:        id,
		Health:    health,
		Position:  pos,
		CreatedAt: s.clock.Now(),
	}
	s.Require().NoError(s.store.SaveEnemyShip(s.ctx, e))
	return e
}

func (s *CombatSuite) fire(actor model.PlayerID, target model.TargetRef, damage int) (*combat.ActionResult, error) {
	return s.service.ProcessAction(s.ctx, actor, target, damage, s.clock.Now())
}

func (s *CombatSuite) TestHitReducesTargetHealth() {
	s.newPlayer("p1", model.Vec3{})
	s.newPlayer("p2", model.Vec3{X: 30})

	res, err := s.fire("p1", model.PlayerTarget("p2"), 25)
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(75, res.NewHealth)
	s.False(res.IsSunk)

	target, err := s.store.GetPlayer(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(75, target.Health)
	s.False(target.IsSunk)
}

func (s *CombatSuite) TestDamageOutOfRangeRejectedWithoutWrite() {
	s.newPlayer("p1", model.Vec3{})
	s.newPlayer("p2", model.Vec3{X: 10})

	for _, damage := range []int{-1, 51, 1000} {
		_, err := s.fire("p1", model.PlayerTarget("p2"), damage)
		s.ErrorIs(err, model.ErrInvalidDamage)
	}

	target, err := s.store.GetPlayer(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(model.MaxHealth, target.Health)
}

func (s *CombatSuite) TestZeroDamageIsValidMiss() {
	s.newPlayer("p1", model.Vec3{})
	s.newPlayer("p2", model.Vec3{X: 10})

	res, err := s.fire("p1", model.PlayerTarget("p2"), 0)
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(model.MaxHealth, res.NewHealth)

	events, err := s.store.ListCombatEvents(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(model.CombatEventCannonFire, events[0].Type)
	s.True(events[0].IsMiss)
}

func (s *CombatSuite) TestOutOfCombatRange() {
	s.newPlayer("p1", model.Vec3{})
	s.newPlayer("p2", model.Vec3{X: 51})

	_, err := s.fire("p1", model.PlayerTarget("p2"), 10)
	s.ErrorIs(err, model.ErrOutOfRange)
}

func (s *CombatSuite) TestCooldownRejectionLeavesHealthUnchanged() {
	s.newPlayer("p1", model.Vec3{})
	s.newPlayer("p2", model.Vec3{X: 10})

	_, err := s.fire("p1", model.PlayerTarget("p2"), 10)
	s.Require().NoError(err)

	s.clock.Advance(500 * time.Millisecond)

	_, err = s.fire("p1", model.PlayerTarget("p2"), 10)
	var cooldownErr *model.CooldownError
	s.Require().ErrorAs(err, &cooldownErr)
	s.Equal(1500*time.Millisecond, cooldownErr.Wait)

	target, err := s.store.GetPlayer(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(90, target.Health)
}

func (s *CombatSuite) TestCooldownElapsedAllowsSecondShot() {
	s.newPlayer("p1", model.Vec3{})
	s.newPlayer("p2", model.Vec3{X: 10})

	_, err := s.fire("p1", model.PlayerTarget("p2"), 10)
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Second)

	res, err := s.fire("p1", model.PlayerTarget("p2"), 10)
	s.Require().NoError(err)
	s.Equal(80, res.NewHealth)
}

func (s *CombatSuite) TestHealthFloorsAtZeroAndSinks() {
	s.newPlayer("p1", model.Vec3{})
	target := s.newPlayer("p2", model.Vec3{X: 10})
	target.Health = 20
	s.Require().NoError(s.store.SavePlayer(s.ctx, target))

	res, err := s.fire("p1", model.PlayerTarget("p2"), 50)
	s.Require().NoError(err)
	s.Equal(0, res.NewHealth)
	s.True(res.IsSunk)
	s.NotEmpty(res.WreckID)

	got, err := s.store.GetPlayer(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(0, got.Health)
	s.True(got.IsSunk)
}

func (s *CombatSuite) TestSinkingPlayerSpillsHalfGoldIntoWreck() {
	s.newPlayer("p1", model.Vec3{})
	target := s.newPlayer("p2", model.Vec3{X: 10})
	target.Health = 10
	target.Gold = 800
	s.Require().NoError(s.store.SavePlayer(s.ctx, target))

	res, err := s.fire("p1", model.PlayerTarget("p2"), 10)
	s.Require().NoError(err)
	s.True(res.IsSunk)

	wreck, err := s.store.GetShipwreck(s.ctx, res.WreckID)
	s.Require().NoError(err)
	s.Equal(400, wreck.Loot.Gold)
	s.Equal(model.Vec3{X: 10}, wreck.Position)

	got, err := s.store.GetPlayer(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(400, got.Gold)
}

func (s *CombatSuite) TestSinkingEnemyCreatesWreckAtEnemyPosition() {
	s.newPlayer("p1", model.Vec3{})
	s.newEnemy("e1", model.Vec3{X: 20}, 18)
	s.random.QueueIntn(30)

	res, err := s.fire("p1", model.EnemyTarget("e1"), 20)
	s.Require().NoError(err)
	s.True(res.IsSunk)
	s.Equal(0, res.NewHealth)

	wreck, err := s.store.GetShipwreck(s.ctx, res.WreckID)
	s.Require().NoError(err)
	s.Equal(model.Vec3{X: 20}, wreck.Position)
	s.Equal(80, wreck.Loot.Gold)
	s.Require().Len(wreck.Loot.Items, 1)
}

func (s *CombatSuite) TestUnknownEnemyIsCreatedLazily() {
	s.newPlayer("p1", model.Vec3{X: 5})

	res, err := s.fire("p1", model.EnemyTarget("e-new"), 10)
	s.Require().NoError(err)
	s.Equal(model.DefaultEnemyHealth-10, res.NewHealth)

	enemy, err := s.store.GetEnemyShip(s.ctx, "e-new")
	s.Require().NoError(err)
	s.Equal(model.Vec3{X: 5}, enemy.Position)
	s.Equal(model.PlayerID("p1"), enemy.LastDamagedBy)
}

func (s *CombatSuite) TestActorChecks() {
	_, err := s.fire("ghost", model.PlayerTarget("p2"), 10)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	offline := s.newPlayer("off", model.Vec3{})
	offline.IsOnline = false
	s.Require().NoError(s.store.SavePlayer(s.ctx, offline))
	_, err = s.fire("off", model.PlayerTarget("p2"), 10)
	s.ErrorIs(err, model.ErrPlayerOffline)

	sunk := s.newPlayer("sunk", model.Vec3{})
	sunk.Health = 0
	sunk.IsSunk = true
	s.Require().NoError(s.store.SavePlayer(s.ctx, sunk))
	_, err = s.fire("sunk", model.PlayerTarget("p2"), 10)
	s.ErrorIs(err, model.ErrPlayerSunk)
}

func (s *CombatSuite) TestTargetChecks() {
	s.newPlayer("p1", model.Vec3{})

	_, err := s.fire("p1", model.PlayerTarget("missing"), 10)
	s.ErrorIs(err, model.ErrTargetNotFound)

	offline := s.newPlayer("off", model.Vec3{X: 10})
	offline.IsOnline = false
	s.Require().NoError(s.store.SavePlayer(s.ctx, offline))
	_, err = s.fire("p1", model.PlayerTarget("off"), 10)
	s.ErrorIs(err, model.ErrTargetOffline)

	sunk := s.newPlayer("down", model.Vec3{X: 10})
	sunk.Health = 0
	sunk.IsSunk = true
	s.Require().NoError(s.store.SavePlayer(s.ctx, sunk))
	_, err = s.fire("p1", model.PlayerTarget("down"), 10)
	s.ErrorIs(err, model.ErrTargetSunk)
}

func (s *CombatSuite) TestSinkEmitsSinkEvent() {
	s.newPlayer("p1", model.Vec3{})
	s.newEnemy("e1", model.Vec3{X: 10}, 15)
	s.random.QueueIntn(0)

	_, err := s.fire("p1", model.EnemyTarget("e1"), 20)
	s.Require().NoError(err)

	events, err := s.store.ListCombatEvents(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(model.CombatEventSink, events[0].Type)
	s.Equal("p1", events[0].SourceID)
	s.Equal("e1", events[0].TargetID)
}

func (s *CombatSuite) TestEnemyAttackSinksPlayer() {
	target := s.newPlayer("p1", model.Vec3{X: 10})
	target.Health = 5
	s.Require().NoError(s.store.SavePlayer(s.ctx, target))
	s.newEnemy("e1", model.Vec3{}, model.DefaultEnemyHealth)

	res, err := s.service.EnemyAttack(s.ctx, "e1", "p1", 10)
	s.Require().NoError(err)
	s.True(res.IsSunk)
	s.NotEmpty(res.WreckID)

	got, err := s.store.GetPlayer(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(0, got.Health)
	s.True(got.IsSunk)
}

func (s *CombatSuite) TestEnemyAttackOutOfRange() {
	s.newPlayer("p1", model.Vec3{X: 200})
	s.newEnemy("e1", model.Vec3{}, model.DefaultEnemyHealth)

	_, err := s.service.EnemyAttack(s.ctx, "e1", "p1", 10)
	s.ErrorIs(err, model.ErrOutOfRange)
}

func (s *CombatSuite) TestResetShip() {
	player := s.newPlayer("p1", model.Vec3{X: 40, Z: 40})
	player.Health = 0
	player.IsSunk = true
	player.Destination = &model.Vec3{X: 99}
	s.Require().NoError(s.store.SavePlayer(s.ctx, player))

	got, err := s.service.ResetShip(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.MaxHealth, got.Health)
	s.False(got.IsSunk)
	s.Equal(combat.DefaultConfig().RespawnPosition, got.Position)
	s.Nil(got.Destination)
}

func (s *CombatSuite) TestResetShipRejectedWhenAfloat() {
	s.newPlayer("p1", model.Vec3{})

	_, err := s.service.ResetShip(s.ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotSunk)
}
