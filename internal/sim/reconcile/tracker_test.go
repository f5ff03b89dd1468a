package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/sim/reconcile"
)

type TrackerSuite struct {
	suite.Suite

	tracker *reconcile.Tracker
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.tracker = reconcile.NewTracker(reconcile.DefaultConfig())
}

func (s *TrackerSuite) observe(id string, pos model.Vec3, online bool) reconcile.Outcome {
	return s.tracker.Observe(reconcile.Update{ID: id, Position: pos, IsOnline: online})
}

func (s *TrackerSuite) TestCreationTracksShip() {
	out := s.observe("p1", model.Vec3{X: 10}, true)
	s.Equal(reconcile.OutcomeCreated, out)

	ship := s.tracker.Get("p1")
	s.Require().NotNil(ship)
	s.Equal(model.Vec3{X: 10}, ship.Position)
	s.Equal(reconcile.StateIdle, ship.State())
}

func (s *TrackerSuite) TestOfflineRemovesShip() {
	s.observe("p1", model.Vec3{}, true)

	out := s.observe("p1", model.Vec3{}, false)
	s.Equal(reconcile.OutcomeRemoved, out)
	s.Nil(s.tracker.Get("p1"))
}

func (s *TrackerSuite) TestSmallDeltaIgnored() {
	s.observe("p1", model.Vec3{X: 10}, true)

	out := s.observe("p1", model.Vec3{X: 11}, true)
	s.Equal(reconcile.OutcomeNone, out)
	s.Equal(model.Vec3{X: 10}, s.tracker.Get("p1").Position)
}

func (s *TrackerSuite) TestModerateDeltaDeadReckons() {
	s.observe("p1", model.Vec3{}, true)

	out := s.observe("p1", model.Vec3{X: 50}, true)
	s.Equal(reconcile.OutcomeCorrected, out)

	ship := s.tracker.Get("p1")
	s.Equal(reconcile.StateMoving, ship.State())
	// Position glides rather than snapping.
	s.Equal(model.Vec3{}, ship.Position)

	s.tracker.Advance(1)
	s.InDelta(25, ship.Position.X, 1e-9)

	s.tracker.Advance(1)
	s.Equal(model.Vec3{X: 50}, ship.Position)
	s.Equal(reconcile.StateIdle, ship.State())
}

func (s *TrackerSuite) TestTeleportDeltaRecreates() {
	s.observe("p1", model.Vec3{}, true)

	out := s.observe("p1", model.Vec3{X: 500}, true)
	s.Equal(reconcile.OutcomeRespawned, out)
	s.Equal(model.Vec3{X: 500}, s.tracker.Get("p1").Position)
	s.Equal(reconcile.StateIdle, s.tracker.Get("p1").State())
}

func (s *TrackerSuite) TestNearOriginAfterSunkIsRespawn() {
	s.tracker.Observe(reconcile.Update{ID: "p1", Position: model.Vec3{X: 40}, IsOnline: true, IsSunk: true})

	out := s.tracker.Observe(reconcile.Update{ID: "p1", Position: model.Vec3{X: 3}, IsOnline: true})
	s.Equal(reconcile.OutcomeRespawned, out)

	ship := s.tracker.Get("p1")
	s.Equal(model.Vec3{X: 3}, ship.Position)
	s.False(ship.IsSunk)
}

func (s *TrackerSuite) TestRotationCorrectedOnlyAboveThreshold() {
	s.tracker.Observe(reconcile.Update{ID: "p1", Rotation: 1.0, IsOnline: true})

	s.tracker.Observe(reconcile.Update{ID: "p1", Rotation: 1.01, IsOnline: true})
	s.Equal(1.0, s.tracker.Get("p1").Rotation)

	s.tracker.Observe(reconcile.Update{ID: "p1", Rotation: 1.5, IsOnline: true})
	s.Equal(1.5, s.tracker.Get("p1").Rotation)
}

func (s *TrackerSuite) TestUnknownOfflineShipIgnored() {
	out := s.observe("ghost", model.Vec3{}, false)
	s.Equal(reconcile.OutcomeNone, out)
}
