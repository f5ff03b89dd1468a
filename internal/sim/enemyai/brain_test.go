package enemyai_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/windward-game/windward/internal/dependencies/mocks"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/sim/enemyai"
)

type BrainSuite struct {
	suite.Suite

	clock  *mocks.MockClock
	random *mocks.MockRandom
	brain  *enemyai.Brain
	ship   *model.EnemyShip
}

func TestBrainSuite(t *testing.T) {
	suite.Run(t, new(BrainSuite))
}

func (s *BrainSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Unix(1700000000, 0))
	s.random = mocks.NewMockRandom()
	s.brain = enemyai.NewBrain("e1", model.Vec3{}, enemyai.DefaultConfig(), s.random)
	s.ship = &model.EnemyShip{ID: "e1", Health: model.DefaultEnemyHealth}
}

func (s *BrainSuite) player(id model.PlayerID, pos model.Vec3) *model.Player {
	return &model.Player{ID: id, Position: pos, Health: model.MaxHealth, IsOnline: true}
}

func (s *BrainSuite) step(players []*model.Player, zones []model.SafeZone) enemyai.Decision {
	return s.brain.Step(s.clock.Now(), s.ship, players, zones)
}

func (s *BrainSuite) TestGuardUntilPlayerInAggroRange() {
	d := s.step([]*model.Player{s.player("p1", model.Vec3{X: 500})}, nil)
	s.NotEqual(enemyai.StateAttack, d.State)

	// Dwell elapsed, player sails into range.
	s.clock.Advance(2 * time.Second)
	d = s.step([]*model.Player{s.player("p1", model.Vec3{X: 100})}, nil)
	s.Equal(enemyai.StateAttack, d.State)
}

func (s *BrainSuite) TestAttackFiresInsideCombatDistance() {
	s.clock.Advance(2 * time.Second)
	target := s.player("p1", model.Vec3{X: 30})
	s.random.QueueIntn(4)

	d := s.step([]*model.Player{target}, nil)
	s.Equal(enemyai.StateAttack, d.State)
	s.Equal(model.PlayerID("p1"), d.Attack)
	s.Equal(enemyai.DefaultConfig().AttackDamageMin+4, d.Damage)
}

func (s *BrainSuite) TestAttackHonorsFireCooldown() {
	s.clock.Advance(2 * time.Second)
	target := s.player("p1", model.Vec3{X: 30})
	s.random.QueueIntn(0, 0)

	d := s.step([]*model.Player{target}, nil)
	s.NotEmpty(d.Attack)

	s.clock.Advance(time.Second)
	d = s.step([]*model.Player{target}, nil)
	s.Empty(d.Attack)

	s.clock.Advance(3 * time.Second)
	d = s.step([]*model.Player{target}, nil)
	s.NotEmpty(d.Attack)
}

func (s *BrainSuite) TestDisengageWhenTargetEntersSafeZone() {
	zones := []model.SafeZone{{Name: "harbor", Center: model.Vec3{X: 1000}, Radius: 100}}

	s.clock.Advance(2 * time.Second)
	d := s.step([]*model.Player{s.player("p1", model.Vec3{X: 100})}, zones)
	s.Require().Equal(enemyai.StateAttack, d.State)

	s.clock.Advance(2 * time.Second)
	d = s.step([]*model.Player{s.player("p1", model.Vec3{X: 1000})}, zones)
	s.NotEqual(enemyai.StateAttack, d.State)
}

func (s *BrainSuite) TestDisengageWhenTargetLeavesRange() {
	s.clock.Advance(2 * time.Second)
	d := s.step([]*model.Player{s.player("p1", model.Vec3{X: 100})}, nil)
	s.Require().Equal(enemyai.StateAttack, d.State)

	s.clock.Advance(2 * time.Second)
	d = s.step([]*model.Player{s.player("p1", model.Vec3{X: 300})}, nil)
	s.NotEqual(enemyai.StateAttack, d.State)
}

func (s *BrainSuite) TestEvadeOverridesAttack() {
	zones := []model.SafeZone{{Name: "harbor", Center: model.Vec3{}, Radius: 50}}

	s.clock.Advance(2 * time.Second)
	d := s.step([]*model.Player{s.player("p1", model.Vec3{X: 40})}, nil)
	s.Require().Equal(enemyai.StateAttack, d.State)

	// The ship itself is inside a zone now; evacuation wins immediately,
	// no dwell wait.
	d = s.step([]*model.Player{s.player("p1", model.Vec3{X: 40})}, zones)
	s.Equal(enemyai.StateEvadeSafe, d.State)

	// Steering points out of the zone with margin.
	s.Greater(model.Distance(d.Steering, model.Vec3{}), 50.0)
}

func (s *BrainSuite) TestPlayersInSafeZoneAreNotAcquired() {
	zones := []model.SafeZone{{Name: "harbor", Center: model.Vec3{X: 100}, Radius: 50}}

	s.clock.Advance(2 * time.Second)
	d := s.step([]*model.Player{s.player("p1", model.Vec3{X: 100})}, zones)
	s.NotEqual(enemyai.StateAttack, d.State)
}

func (s *BrainSuite) TestReturnToPortalWhenFar() {
	s.ship.Position = model.Vec3{X: 500}

	s.clock.Advance(2 * time.Second)
	d := s.step(nil, nil)
	s.Equal(enemyai.StateReturn, d.State)
	s.Equal(model.Vec3{}, d.Steering)

	// Back near the portal the ship settles into guarding.
	s.ship.Position = model.Vec3{X: 10}
	s.clock.Advance(2 * time.Second)
	d = s.step(nil, nil)
	s.Equal(enemyai.StateGuard, d.State)
}

func (s *BrainSuite) TestPatrolPointAvoidsSafeZones() {
	zones := []model.SafeZone{{Name: "harbor", Center: model.Vec3{X: 50}, Radius: 30}}

	// Guard -> patrol, then a patrol point is rolled. First roll lands in
	// the zone, second outside.
	s.clock.Advance(2 * time.Second)
	s.step(nil, zones)
	s.clock.Advance(2 * time.Second)
	s.random.QueueFloat64(0, 0.25, 0.5, 0.5)

	d := s.step(nil, zones)
	s.Equal(enemyai.StatePatrol, d.State)
	s.False(model.InAnySafeZone(zones, d.Steering))
}
