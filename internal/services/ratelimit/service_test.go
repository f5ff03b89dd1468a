package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/windward-game/windward/internal/dependencies/mocks"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/ratelimit"
	"github.com/windward-game/windward/internal/store/memory"
	"github.com/windward-game/windward/internal/testutil"
)

type RateLimitSuite struct {
	suite.Suite

	ctx     context.Context
	clock   *mocks.MockClock
	store   *memory.Store
	service *ratelimit.Service
}

func TestRateLimitSuite(t *testing.T) {
	suite.Run(t, new(RateLimitSuite))
}

func (s *RateLimitSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Unix(1700000000, 0))
	s.store = memory.New(s.clock)
	s.service = ratelimit.New(s.store, s.clock, testutil.NopLogger())
}

func (s *RateLimitSuite) TestUserLimitAllowsUpToMax() {
	limit := ratelimit.Limit{Name: "combat", Max: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		res, err := s.service.AllowUser(s.ctx, "p1", limit)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}

	res, err := s.service.AllowUser(s.ctx, "p1", limit)
	var rlErr *model.RateLimitError
	s.Require().ErrorAs(err, &rlErr)
	s.Equal(model.RateLimitUser, rlErr.Scope)
	s.False(res.Allowed)
	s.Equal(time.Minute, res.Wait)
}

func (s *RateLimitSuite) TestWindowResets() {
	limit := ratelimit.Limit{Name: "combat", Max: 1, Window: time.Minute}

	_, err := s.service.AllowUser(s.ctx, "p1", limit)
	s.Require().NoError(err)

	_, err = s.service.AllowUser(s.ctx, "p1", limit)
	s.Require().Error(err)

	s.clock.Advance(61 * time.Second)

	res, err := s.service.AllowUser(s.ctx, "p1", limit)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *RateLimitSuite) TestIdentitiesAreIndependent() {
	limit := ratelimit.Limit{Name: "combat", Max: 1, Window: time.Minute}

	_, err := s.service.AllowUser(s.ctx, "p1", limit)
	s.Require().NoError(err)
	_, err = s.service.AllowUser(s.ctx, "p1", limit)
	s.Require().Error(err)

	res, err := s.service.AllowUser(s.ctx, "p2", limit)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *RateLimitSuite) TestLimitNamesAreIndependent() {
	combat := ratelimit.Limit{Name: "combat", Max: 1, Window: time.Minute}
	lootLimit := ratelimit.Limit{Name: "loot", Max: 1, Window: time.Minute}

	_, err := s.service.AllowUser(s.ctx, "p1", combat)
	s.Require().NoError(err)
	_, err = s.service.AllowUser(s.ctx, "p1", combat)
	s.Require().Error(err)

	res, err := s.service.AllowUser(s.ctx, "p1", lootLimit)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *RateLimitSuite) TestIPLimitHashesIdentity() {
	limit := ratelimit.Limit{Name: "signup", Max: 1, Window: time.Hour}

	_, err := s.service.AllowIP(s.ctx, "203.0.113.9", limit)
	s.Require().NoError(err)

	// The raw address is not the stored key.
	_, err = s.store.GetRateLimit(s.ctx, model.RateLimitIP, "203.0.113.9", "signup")
	s.ErrorIs(err, model.ErrRateLimitNotFound)

	rec, err := s.store.GetRateLimit(s.ctx, model.RateLimitIP, ratelimit.HashIP("203.0.113.9"), "signup")
	s.Require().NoError(err)
	s.Equal(1, rec.Count)
}

func (s *RateLimitSuite) TestGlobalLimit() {
	limit := ratelimit.Limit{Name: "actions", Max: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		res, err := s.service.AllowGlobal(s.ctx, limit)
		s.Require().NoError(err)
		s.True(res.Allowed)
	}

	_, err := s.service.AllowGlobal(s.ctx, limit)
	var rlErr *model.RateLimitError
	s.Require().True(errors.As(err, &rlErr))
	s.Equal(model.RateLimitGlobal, rlErr.Scope)

	s.clock.Advance(61 * time.Second)

	res, err := s.service.AllowGlobal(s.ctx, limit)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(1, res.Remaining)
}
