package combat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/dependencies/random"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/store"
)

// Config holds combat tuning values
type Config struct {
	MaxDamage   int
	CombatRange float64
	Cooldown    time.Duration

	// Respawn position for reset ships
	RespawnPosition model.Vec3

	// Loot carried by wrecks of AI ships
	EnemyWreckGoldMin int
	EnemyWreckGoldMax int
}

// DefaultConfig returns default combat configuration
func DefaultConfig() Config {
	return Config{
		MaxDamage:         50,
		CombatRange:       50,
		Cooldown:          2 * time.Second,
		RespawnPosition:   model.Vec3{},
		EnemyWreckGoldMin: 50,
		EnemyWreckGoldMax: 150,
	}
}

// ActionResult is the outcome of a validated combat action
type ActionResult struct {
	Success   bool
	Damage    int
	NewHealth int
	IsSunk    bool

	// WreckID is set when this action sank the target
	WreckID model.ShipwreckID
}

// Service validates and applies combat actions. All checks run before any
// write; a rejected action leaves every record untouched.
type Service struct {
	store  store.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
	cfg    Config
}

// New creates a new combat service
func New(store store.Store, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		random: random,
		logger: logger,
		cfg:    cfg,
	}
}

// resolvedTarget is a combat target after lookup, unified across players
// and AI ships.
type resolvedTarget struct {
	ref      model.TargetRef
	position model.Vec3
	health   int

	player *model.Player
	enemy  *model.EnemyShip
}

// ProcessAction validates a cannon shot from actorID against target and, if
// every check passes, applies the damage. firedAt is the client's claimed
// fire time and is advisory only; the server clock decides cooldowns.
func (s *Service) ProcessAction(ctx context.Context, actorID model.PlayerID, target model.TargetRef, damage int, firedAt time.Time) (*ActionResult, error) {
	if damage < 0 || damage > s.cfg.MaxDamage {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", model.ErrInvalidDamage, damage, s.cfg.MaxDamage)
	}

	actor, err := s.store.GetPlayer(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOnline {
		return nil, model.ErrPlayerOffline
	}
	if actor.IsSunk {
		return nil, model.ErrPlayerSunk
	}

	now := s.clock.Now()

	tgt, err := s.resolveTarget(ctx, actor, target, now)
	if err != nil {
		return nil, err
	}

	if model.Distance(actor.Position, tgt.position) > s.cfg.CombatRange {
		return nil, model.ErrOutOfRange
	}

	if elapsed := now.Sub(actor.LastAttackTime); elapsed < s.cfg.Cooldown {
		return nil, &model.CooldownError{Wait: s.cfg.Cooldown - elapsed}
	}

	// Checks complete, writes begin.
	newHealth := tgt.health - damage
	if newHealth < 0 {
		newHealth = 0
	}
	sunk := newHealth == 0

	result := &ActionResult{
		Success:   true,
		Damage:    damage,
		NewHealth: newHealth,
		IsSunk:    sunk,
	}

	if err := s.applyDamage(ctx, actorID, tgt, newHealth, sunk, now); err != nil {
		return nil, err
	}

	if sunk {
		wreck, err := s.createWreck(ctx, tgt, now)
		if err != nil {
			return nil, err
		}
		result.WreckID = wreck.ID
	}

	actor.LastAttackTime = now
	if err := s.store.SavePlayer(ctx, actor); err != nil {
		return nil, err
	}

	if err := s.recordEvent(ctx, string(actorID), actor.Position, tgt, damage, sunk, now); err != nil {
		s.logger.Warn("failed to record combat event", slog.String("error", err.Error()))
	}

	s.logger.Info("combat action applied",
		slog.String("actor_id", string(actorID)),
		slog.String("target_kind", string(target.Kind)),
		slog.String("target_id", target.ID),
		slog.Int("damage", damage),
		slog.Int("new_health", newHealth),
		slog.Bool("sunk", sunk),
	)

	return result, nil
}

// EnemyAttack applies a server-driven cannon shot from an AI ship against a
// player. Attack pacing is the caller's responsibility; the same damage and
// range rules as player fire apply.
func (s *Service) EnemyAttack(ctx context.Context, enemyID model.EnemyShipID, targetID model.PlayerID, damage int) (*ActionResult, error) {
	if damage < 0 || damage > s.cfg.MaxDamage {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", model.ErrInvalidDamage, damage, s.cfg.MaxDamage)
	}

	enemy, err := s.store.GetEnemyShip(ctx, enemyID)
	if err != nil {
		return nil, err
	}
	if enemy.IsSunk {
		return nil, model.ErrPlayerSunk
	}

	target, err := s.store.GetPlayer(ctx, targetID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrTargetNotFound
		}
		return nil, err
	}
	if !target.IsOnline {
		return nil, model.ErrTargetOffline
	}
	if target.IsSunk {
		return nil, model.ErrTargetSunk
	}

	if model.Distance(enemy.Position, target.Position) > s.cfg.CombatRange {
		return nil, model.ErrOutOfRange
	}

	now := s.clock.Now()

	newHealth := target.Health - damage
	if newHealth < 0 {
		newHealth = 0
	}
	sunk := newHealth == 0

	target.Health = newHealth
	target.IsSunk = sunk
	if err := s.store.SavePlayer(ctx, target); err != nil {
		return nil, err
	}

	result := &ActionResult{
		Success:   true,
		Damage:    damage,
		NewHealth: newHealth,
		IsSunk:    sunk,
	}

	if sunk {
		wreck, err := s.createWreck(ctx, &resolvedTarget{
			ref:      model.PlayerTarget(targetID),
			position: target.Position,
			player:   target,
		}, now)
		if err != nil {
			return nil, err
		}
		result.WreckID = wreck.ID
	}

	tgt := &resolvedTarget{ref: model.PlayerTarget(targetID), position: target.Position}
	if err := s.recordEvent(ctx, string(enemyID), enemy.Position, tgt, damage, sunk, now); err != nil {
		s.logger.Warn("failed to record combat event", slog.String("error", err.Error()))
	}

	return result, nil
}

// ResetShip respawns a sunk player at the respawn position with full health.
// Rejected when the ship is afloat.
func (s *Service) ResetShip(ctx context.Context, actorID model.PlayerID) (*model.Player, error) {
	player, err := s.store.GetPlayer(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !player.IsSunk {
		return nil, model.ErrPlayerNotSunk
	}

	player.Health = model.MaxHealth
	player.IsSunk = false
	player.Position = s.cfg.RespawnPosition
	player.Rotation = 0
	player.Destination = nil
	player.LastUpdated = s.clock.Now()

	if err := s.store.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("ship reset", slog.String("player_id", string(actorID)))
	return player, nil
}

func (s *Service) resolveTarget(ctx context.Context, actor *model.Player, ref model.TargetRef, now time.Time) (*resolvedTarget, error) {
	switch ref.Kind {
	case model.TargetPlayer:
		player, err := s.store.GetPlayer(ctx, model.PlayerID(ref.ID))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				return nil, model.ErrTargetNotFound
			}
			return nil, err
		}
		if !player.IsOnline {
			return nil, model.ErrTargetOffline
		}
		if player.IsSunk {
			return nil, model.ErrTargetSunk
		}
		return &resolvedTarget{ref: ref, position: player.Position, health: player.Health, player: player}, nil

	case model.TargetEnemy:
		enemy, err := s.store.GetEnemyShip(ctx, model.EnemyShipID(ref.ID))
		if errors.Is(err, model.ErrEnemyShipNotFound) {
			// First sighting of this AI ship; materialize it where the
			// attacker reports it.
			enemy = &model.EnemyShip{
				ID:        model.EnemyShipID(ref.ID),
				Health:    model.DefaultEnemyHealth,
				Position:  actor.Position,
				CreatedAt: now,
			}
			if err := s.store.SaveEnemyShip(ctx, enemy); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		if enemy.IsSunk {
			return nil, model.ErrTargetSunk
		}
		return &resolvedTarget{ref: ref, position: enemy.Position, health: enemy.Health, enemy: enemy}, nil

	default:
		return nil, fmt.Errorf("%w: unknown target kind %q", model.ErrTargetNotFound, ref.Kind)
	}
}

func (s *Service) applyDamage(ctx context.Context, actorID model.PlayerID, tgt *resolvedTarget, newHealth int, sunk bool, now time.Time) error {
	switch {
	case tgt.player != nil:
		tgt.player.Health = newHealth
		tgt.player.IsSunk = sunk
		return s.store.SavePlayer(ctx, tgt.player)
	case tgt.enemy != nil:
		tgt.enemy.Health = newHealth
		tgt.enemy.IsSunk = sunk
		tgt.enemy.LastDamagedBy = actorID
		tgt.enemy.LastDamagedAt = now
		return s.store.SaveEnemyShip(ctx, tgt.enemy)
	default:
		return model.ErrTargetNotFound
	}
}

// createWreck leaves a lootable shipwreck where the target sank. Player
// wrecks carry half the owner's gold, which the owner loses; AI wrecks roll
// a bounty in the configured range.
func (s *Service) createWreck(ctx context.Context, tgt *resolvedTarget, now time.Time) (*model.Shipwreck, error) {
	wreck := &model.Shipwreck{
		ID:        model.ShipwreckID("wreck_" + uuid.NewString()),
		Position:  tgt.position,
		CreatedAt: now,
	}

	if tgt.player != nil {
		spilled := tgt.player.Gold / 2
		tgt.player.Gold -= spilled
		wreck.Loot.Gold = spilled
		if err := s.store.SavePlayer(ctx, tgt.player); err != nil {
			return nil, err
		}
	} else {
		span := s.cfg.EnemyWreckGoldMax - s.cfg.EnemyWreckGoldMin
		if span <= 0 {
			span = 1
		}
		wreck.Loot.Gold = s.cfg.EnemyWreckGoldMin + s.random.Intn(span)
		wreck.Loot.Items = []model.LootItem{{
			Key:  fmt.Sprintf("%d-0", now.UnixMilli()),
			Name: "Salvaged Cargo",
		}}
	}

	if err := s.store.SaveShipwreck(ctx, wreck); err != nil {
		return nil, err
	}
	return wreck, nil
}

func (s *Service) recordEvent(ctx context.Context, sourceID string, sourcePos model.Vec3, tgt *resolvedTarget, damage int, sunk bool, now time.Time) error {
	eventType := model.CombatEventHit
	switch {
	case sunk:
		eventType = model.CombatEventSink
	case damage == 0:
		eventType = model.CombatEventCannonFire
	}

	return s.store.SaveCombatEvent(ctx, &model.CombatEvent{
		ID:        model.CombatEventID("evt_" + uuid.NewString()),
		Type:      eventType,
		SourceID:  sourceID,
		TargetID:  tgt.ref.ID,
		SourcePos: sourcePos,
		TargetPos: tgt.position,
		Damage:    damage,
		IsMiss:    damage == 0,
		Timestamp: now,
	})
}
