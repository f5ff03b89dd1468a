package enemyai

import (
	"math"
	"time"

	"github.com/windward-game/windward/internal/dependencies/random"
	"github.com/windward-game/windward/internal/model"
)

// State is one node of the per-NPC state machine.
type State string

const (
	StatePatrol    State = "patrol"
	StateAttack    State = "attack"
	StateReturn    State = "return_to_portal"
	StateGuard     State = "guard_portal"
	StateEvadeSafe State = "evade_safe_zone"
)

// Config holds AI tuning values
type Config struct {
	AggroRange     float64
	DisengageRange float64

	// IdealCombatDistance is the orbit radius held while attacking. It must
	// sit inside the combat range or the NPC can never land a shot.
	IdealCombatDistance float64

	// PortalLeash is how far from its portal an NPC may roam before it
	// breaks off and returns.
	PortalLeash  float64
	GuardRadius  float64
	PatrolRadius float64

	Speed float64 // world units per second

	AttackDamageMin int
	AttackDamageMax int
	AttackCooldown  time.Duration

	// StateDwell is the minimum time between ordinary transitions. Safe
	// zone evacuation ignores it.
	StateDwell time.Duration

	SafeZoneMargin float64
}

// DefaultConfig returns default AI configuration
func DefaultConfig() Config {
	return Config{
		AggroRange:          150,
		DisengageRange:      220,
		IdealCombatDistance: 35,
		PortalLeash:         400,
		GuardRadius:         60,
		PatrolRadius:        200,
		Speed:               12,
		AttackDamageMin:     5,
		AttackDamageMax:     15,
		AttackCooldown:      3 * time.Second,
		StateDwell:          time.Second,
		SafeZoneMargin:      20,
	}
}

// Decision is the outcome of one brain evaluation: where to steer, and
// optionally who to shoot.
type Decision struct {
	State    State
	Steering model.Vec3
	Attack   model.PlayerID // empty when holding fire
	Damage   int
}

// Brain drives a single NPC ship. It keeps only transient steering state;
// the ship record itself lives in the store.
type Brain struct {
	ID     model.EnemyShipID
	Portal model.Vec3

	cfg    Config
	random random.Random

	state          State
	stateChangedAt time.Time
	lastAttackAt   time.Time
	targetID       model.PlayerID
	patrolTarget   *model.Vec3
}

// NewBrain creates a brain guarding the given portal position.
func NewBrain(id model.EnemyShipID, portal model.Vec3, cfg Config, random random.Random) *Brain {
	return &Brain{
		ID:     id,
		Portal: portal,
		cfg:    cfg,
		random: random,
		state:  StateGuard,
	}
}

// State returns the current FSM node.
func (b *Brain) State() State {
	return b.state
}

// Step evaluates the state machine once and returns the steering decision.
// players must already be filtered to online, non-sunk ships.
func (b *Brain) Step(now time.Time, ship *model.EnemyShip, players []*model.Player, zones []model.SafeZone) Decision {
	b.transition(now, ship, players, zones)

	d := Decision{State: b.state}
	switch b.state {
	case StateEvadeSafe:
		d.Steering = b.retreatPoint(ship.Position, zones)
	case StateAttack:
		target := findPlayer(players, b.targetID)
		if target == nil {
			d.Steering = b.Portal
			break
		}
		d.Steering = b.orbitPoint(ship.Position, target.Position)
		if b.canFire(now, ship.Position, target.Position) {
			b.lastAttackAt = now
			d.Attack = target.ID
			d.Damage = b.rollDamage()
		}
	case StateReturn, StateGuard:
		d.Steering = b.Portal
	case StatePatrol:
		if b.patrolTarget == nil || model.Distance(ship.Position, *b.patrolTarget) < 5 {
			p := b.pickPatrolPoint(zones)
			b.patrolTarget = &p
		}
		d.Steering = *b.patrolTarget
	}
	return d
}

func (b *Brain) transition(now time.Time, ship *model.EnemyShip, players []*model.Player, zones []model.SafeZone) {
	// Safe zone evacuation overrides everything, dwell included.
	if model.InAnySafeZone(zones, ship.Position) {
		b.setState(StateEvadeSafe, now)
		return
	}

	if b.state != StateEvadeSafe && now.Sub(b.stateChangedAt) < b.cfg.StateDwell {
		return
	}

	if b.state == StateAttack {
		target := findPlayer(players, b.targetID)
		if target == nil ||
			model.InAnySafeZone(zones, target.Position) ||
			model.Distance(ship.Position, target.Position) > b.cfg.DisengageRange {
			b.targetID = ""
			b.disengage(ship, now)
		}
		return
	}

	// Acquire the nearest eligible player.
	if target := b.nearestEligible(ship.Position, players, zones); target != nil {
		b.targetID = target.ID
		b.setState(StateAttack, now)
		return
	}

	distToPortal := model.Distance(ship.Position, b.Portal)
	switch b.state {
	case StateEvadeSafe:
		b.disengage(ship, now)
	case StateReturn:
		if distToPortal <= b.cfg.GuardRadius {
			b.setState(StateGuard, now)
		}
	case StateGuard:
		if distToPortal > b.cfg.PortalLeash {
			b.setState(StateReturn, now)
		} else {
			b.setState(StatePatrol, now)
		}
	case StatePatrol:
		if distToPortal > b.cfg.PortalLeash {
			b.setState(StateReturn, now)
		}
	}
}

func (b *Brain) disengage(ship *model.EnemyShip, now time.Time) {
	if model.Distance(ship.Position, b.Portal) > b.cfg.GuardRadius {
		b.setState(StateReturn, now)
	} else {
		b.setState(StateGuard, now)
	}
}

func (b *Brain) setState(s State, now time.Time) {
	if b.state == s {
		return
	}
	b.state = s
	b.stateChangedAt = now
	b.patrolTarget = nil
}

func (b *Brain) nearestEligible(from model.Vec3, players []*model.Player, zones []model.SafeZone) *model.Player {
	var best *model.Player
	bestDist := b.cfg.AggroRange
	for _, p := range players {
		if model.InAnySafeZone(zones, p.Position) {
			continue
		}
		if d := model.Distance(from, p.Position); d <= bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

func (b *Brain) canFire(now time.Time, from, to model.Vec3) bool {
	if now.Sub(b.lastAttackAt) < b.cfg.AttackCooldown {
		return false
	}
	return model.Distance(from, to) <= b.cfg.IdealCombatDistance*1.5
}

func (b *Brain) rollDamage() int {
	span := b.cfg.AttackDamageMax - b.cfg.AttackDamageMin
	if span <= 0 {
		return b.cfg.AttackDamageMin
	}
	return b.cfg.AttackDamageMin + b.random.Intn(span+1)
}

// orbitPoint is a position at ideal combat distance from the target, offset
// sideways so the NPC circles rather than rams.
func (b *Brain) orbitPoint(from, target model.Vec3) model.Vec3 {
	away := from.Sub(target)
	away.Y = 0
	if away.Length() == 0 {
		away = model.Vec3{X: 1}
	}
	away = away.Norm()

	// Rotate the radial vector ~30 degrees around the vertical axis.
	const a = math.Pi / 6
	rotated := model.Vec3{
		X: away.X*math.Cos(a) - away.Z*math.Sin(a),
		Z: away.X*math.Sin(a) + away.Z*math.Cos(a),
	}
	return target.Add(rotated.Scale(b.cfg.IdealCombatDistance))
}

// retreatPoint is the nearest position outside the containing safe zone,
// with a margin so the NPC does not oscillate on the boundary.
func (b *Brain) retreatPoint(from model.Vec3, zones []model.SafeZone) model.Vec3 {
	for _, z := range zones {
		if !z.Contains(from) {
			continue
		}
		out := from.Sub(z.Center)
		out.Y = 0
		if out.Length() == 0 {
			out = model.Vec3{X: 1}
		}
		return z.Center.Add(out.Norm().Scale(z.Radius + b.cfg.SafeZoneMargin))
	}
	return b.Portal
}

// pickPatrolPoint rolls a random point around the portal, rerolling a few
// times if it lands inside a safe zone.
func (b *Brain) pickPatrolPoint(zones []model.SafeZone) model.Vec3 {
	for i := 0; i < 8; i++ {
		angle := b.random.Float64() * 2 * math.Pi
		dist := b.random.Float64() * b.cfg.PatrolRadius
		p := b.Portal.Add(model.Vec3{X: math.Cos(angle) * dist, Z: math.Sin(angle) * dist})
		if !model.InAnySafeZone(zones, p) {
			return p
		}
	}
	return b.Portal
}

func findPlayer(players []*model.Player, id model.PlayerID) *model.Player {
	for _, p := range players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
