package enemyai

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/dependencies/random"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/combat"
	"github.com/windward-game/windward/internal/store"
)

// Runner evaluates every NPC brain on a fixed tick and routes their attacks
// through the combat service, so NPC fire obeys the same rules as player
// fire.
type Runner struct {
	store  store.Store
	combat *combat.Service
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	cfg   Config
	zones []model.SafeZone
	tick  time.Duration

	brains map[model.EnemyShipID]*Brain
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates an AI runner. zones are the safe zones NPCs must stay
// out of.
func NewRunner(store store.Store, combat *combat.Service, clock clock.Clock, random random.Random, cfg Config, zones []model.SafeZone, tick time.Duration, logger *slog.Logger) *Runner {
	if tick <= 0 {
		tick = 500 * time.Millisecond
	}
	return &Runner{
		store:  store,
		combat: combat,
		clock:  clock,
		random: random,
		logger: logger,
		cfg:    cfg,
		zones:  zones,
		tick:   tick,
		brains: make(map[model.EnemyShipID]*Brain),
		done:   make(chan struct{}),
	}
}

// Start launches the tick loop.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	go r.run(ctx)
}

// Stop halts the loop and waits for the in-flight tick to finish.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func (r *Runner) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	last := r.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := r.clock.Now()
			r.Tick(ctx, now.Sub(last))
			last = now
		}
	}
}

// Tick advances every live NPC once. dt is the wall time since the previous
// tick, used to integrate movement.
func (r *Runner) Tick(ctx context.Context, dt time.Duration) {
	enemies, err := r.store.ListEnemyShips(ctx)
	if err != nil {
		r.logger.Error("ai tick failed to list enemy ships", slog.String("error", err.Error()))
		return
	}

	players, err := r.store.ListPlayers(ctx)
	if err != nil {
		r.logger.Error("ai tick failed to list players", slog.String("error", err.Error()))
		return
	}
	eligible := players[:0]
	for _, p := range players {
		if p.IsOnline && !p.IsSunk {
			eligible = append(eligible, p)
		}
	}

	now := r.clock.Now()
	live := make(map[model.EnemyShipID]struct{}, len(enemies))

	for _, ship := range enemies {
		if ship.IsSunk {
			continue
		}
		live[ship.ID] = struct{}{}

		brain, ok := r.brains[ship.ID]
		if !ok {
			// Ships materialized mid-fight adopt their spawn point as
			// their portal.
			brain = NewBrain(ship.ID, ship.Position, r.cfg, r.random)
			r.brains[ship.ID] = brain
		}

		d := brain.Step(now, ship, eligible, r.zones)
		r.move(ship, d.Steering, dt)

		if err := r.store.SaveEnemyShip(ctx, ship); err != nil {
			r.logger.Error("ai tick failed to save enemy ship",
				slog.String("enemy_id", string(ship.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}

		if d.Attack != "" {
			r.fire(ctx, ship.ID, d.Attack, d.Damage)
		}
	}

	// Forget brains of sunk or cleaned-up ships.
	for id := range r.brains {
		if _, ok := live[id]; !ok {
			delete(r.brains, id)
		}
	}
}

func (r *Runner) move(ship *model.EnemyShip, target model.Vec3, dt time.Duration) {
	to := target.Sub(ship.Position)
	to.Y = 0
	dist := to.Length()
	if dist < 1e-6 {
		return
	}

	step := r.cfg.Speed * dt.Seconds()
	if step > dist {
		step = dist
	}
	ship.Position = ship.Position.Add(to.Norm().Scale(step))
	ship.Rotation = model.NormalizeAngle(math.Atan2(to.X, to.Z))
}

func (r *Runner) fire(ctx context.Context, enemyID model.EnemyShipID, targetID model.PlayerID, damage int) {
	_, err := r.combat.EnemyAttack(ctx, enemyID, targetID, damage)
	if err != nil {
		// Range and presence rejections are routine; the target moved
		// between evaluation and fire.
		if errors.Is(err, model.ErrOutOfRange) ||
			errors.Is(err, model.ErrTargetSunk) ||
			errors.Is(err, model.ErrTargetOffline) ||
			errors.Is(err, model.ErrTargetNotFound) {
			return
		}
		r.logger.Error("npc attack failed",
			slog.String("enemy_id", string(enemyID)),
			slog.String("target_id", string(targetID)),
			slog.String("error", err.Error()),
		)
	}
}
