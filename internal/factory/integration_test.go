package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/windward-game/windward/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) createGuest(name string) model.PlayerID {
	session, err := s.app.AuthService.CreateGuestPlayer(s.ctx, name)
	s.Require().NoError(err)
	return session.PlayerID
}

// Test: two players fight, the loser sinks and spills gold, the winner
// loots the wreck and the loser resets back to the spawn harbor.
func (s *IntegrationSuite) TestCombatAndLootFlow() {
	attacker := s.createGuest("Anne")
	victim := s.createGuest("Bart")

	// Both spawn at the same harbor, so range is not a factor here
	result, err := s.app.CombatService.ProcessAction(s.ctx, attacker, model.PlayerTarget(victim), 50, s.app.MockClock.Now())
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal(model.MaxHealth-50, result.NewHealth)
	s.False(result.IsSunk)

	// Second broadside after the cooldown sinks the victim
	s.app.MockClock.Advance(3 * time.Second)
	result, err = s.app.CombatService.ProcessAction(s.ctx, attacker, model.PlayerTarget(victim), 50, s.app.MockClock.Now())
	s.Require().NoError(err)
	s.True(result.IsSunk)
	s.Require().NotEmpty(result.WreckID)

	// Half the victim's gold spilled into the wreck
	sunk, err := s.app.Store.GetPlayer(s.ctx, victim)
	s.Require().NoError(err)
	s.True(sunk.IsSunk)
	s.Equal(0, sunk.Health)
	s.Equal(250, sunk.Gold)

	lootResult, err := s.app.LootService.Loot(s.ctx, attacker, model.ShipwreckID(result.WreckID))
	s.Require().NoError(err)
	s.Equal(250, lootResult.Gold)
	s.Equal(750, lootResult.NewGold)

	// The victim can now reset back to full health at the spawn harbor
	reset, err := s.app.CombatService.ResetShip(s.ctx, victim)
	s.Require().NoError(err)
	s.Equal(model.MaxHealth, reset.Health)
	s.False(reset.IsSunk)
}

// Test: the fire cooldown carries across calls and reports the wait
func (s *IntegrationSuite) TestCooldownBetweenShots() {
	attacker := s.createGuest("Anne")
	victim := s.createGuest("Bart")

	_, err := s.app.CombatService.ProcessAction(s.ctx, attacker, model.PlayerTarget(victim), 10, s.app.MockClock.Now())
	s.Require().NoError(err)

	s.app.MockClock.Advance(500 * time.Millisecond)
	_, err = s.app.CombatService.ProcessAction(s.ctx, attacker, model.PlayerTarget(victim), 10, s.app.MockClock.Now())

	var cooldownErr *model.CooldownError
	s.Require().ErrorAs(err, &cooldownErr)
	s.Equal(1500*time.Millisecond, cooldownErr.Wait)
}

// Test: attacking an unseen NPC creates it lazily, sinking it leaves a
// wreck with salvage that funds a ship purchase.
func (s *IntegrationSuite) TestEnemyHuntFundsShipPurchase() {
	hunter := s.createGuest("Anne")

	// One full-strength broadside sinks a freshly spawned NPC
	s.app.MockRandom.QueueIntn(75)
	result, err := s.app.CombatService.ProcessAction(s.ctx, hunter, model.EnemyTarget("npc-1"), 50, s.app.MockClock.Now())
	s.Require().NoError(err)
	s.True(result.IsSunk)
	s.Require().NotEmpty(result.WreckID)

	lootResult, err := s.app.LootService.Loot(s.ctx, hunter, model.ShipwreckID(result.WreckID))
	s.Require().NoError(err)
	s.Equal(125, lootResult.Gold)
	s.Require().Len(lootResult.Items, 1)
	s.Equal("Salvaged Cargo", lootResult.Items[0].Name)

	// 500 starting gold plus 125 salvage is still short of a skiff
	unlock, err := s.app.EconomyService.UnlockShip(s.ctx, hunter, model.ShipSkiff)
	s.Require().NoError(err)
	s.False(unlock.Success)
	s.True(unlock.InsufficientFunds)
	s.Equal(625, unlock.CurrentGold)
	s.Equal(1000, unlock.RequiredGold)

	// Top the hunter up and the purchase goes through
	player, err := s.app.Store.GetPlayer(s.ctx, hunter)
	s.Require().NoError(err)
	player.Gold = 1200
	s.Require().NoError(s.app.Store.SavePlayer(s.ctx, player))

	unlock, err = s.app.EconomyService.UnlockShip(s.ctx, hunter, model.ShipSkiff)
	s.Require().NoError(err)
	s.True(unlock.Success)
	s.Equal(200, unlock.NewGold)

	_, err = s.app.EconomyService.SetActiveShip(s.ctx, hunter, model.ShipSkiff)
	s.Require().NoError(err)
}

// Test: the AI runner picks up a player outside the harbor zones and
// lands a hit through the combat validator.
func (s *IntegrationSuite) TestAIEngagesNearbyPlayer() {
	sailor := s.createGuest("Anne")

	// Sail well clear of every safe zone
	_, err := s.app.FleetService.UpdateState(s.ctx, sailor, model.Vec3{X: 600, Z: 600}, 0, nil)
	s.Require().NoError(err)

	enemy := &model.EnemyShip{
		ID:        "npc-1",
		Health:    model.DefaultEnemyHealth,
		Position:  model.Vec3{X: 620, Z: 600},
		CreatedAt: s.app.MockClock.Now(),
	}
	s.Require().NoError(s.app.Store.SaveEnemyShip(s.ctx, enemy))

	// Damage roll for the NPC's first shot
	s.app.MockRandom.QueueIntn(5)
	s.app.AIRunner.Tick(s.ctx, 500*time.Millisecond)

	player, err := s.app.Store.GetPlayer(s.ctx, sailor)
	s.Require().NoError(err)
	s.Equal(model.MaxHealth-10, player.Health)
}

// Test: the inactivity sweep marks stale players offline but keeps them
func (s *IntegrationSuite) TestInactiveSweepMarksOffline() {
	idler := s.createGuest("Anne")

	s.app.MockClock.Advance(11 * time.Minute)
	s.Require().NoError(s.app.SweepRunner.SweepInactivePlayers(s.ctx))

	player, err := s.app.Store.GetPlayer(s.ctx, idler)
	s.Require().NoError(err)
	s.False(player.IsOnline)
}
