package reconcile

import (
	"math"

	"github.com/windward-game/windward/internal/model"
)

// TrackState is the lifecycle state of one remote ship.
type TrackState string

const (
	StateAbsent  TrackState = "absent"
	StateIdle    TrackState = "tracked-idle"
	StateMoving  TrackState = "tracked-moving"
	StateOffline TrackState = "offline"
)

// Outcome describes what an observed update did to a track.
type Outcome string

const (
	OutcomeNone      Outcome = "none"
	OutcomeCreated   Outcome = "created"
	OutcomeRemoved   Outcome = "removed"
	OutcomeRespawned Outcome = "respawned"
	OutcomeCorrected Outcome = "corrected"
)

// Config holds smoothing thresholds
type Config struct {
	// Deltas above TeleportThreshold are treated as a respawn rather than
	// movement.
	TeleportThreshold float64

	// Deltas below CorrectionThreshold are ignored; between the two
	// thresholds the ship dead-reckons toward the observed position.
	CorrectionThreshold float64

	// Rotation is corrected only above AngularThreshold, in radians.
	AngularThreshold float64

	// A sunk ship observed again near the origin is a respawn regardless
	// of delta.
	OriginRadius float64

	// Speed used to integrate dead-reckoned movement, world units/second.
	Speed float64
}

// DefaultConfig returns default smoothing configuration
func DefaultConfig() Config {
	return Config{
		TeleportThreshold:   80,
		CorrectionThreshold: 2,
		AngularThreshold:    0.05,
		OriginRadius:        10,
		Speed:               25,
	}
}

// Update is one observed record change for a remote ship.
type Update struct {
	ID       string
	Position model.Vec3
	Rotation float64
	IsOnline bool
	IsSunk   bool
}

// Ship is the locally simulated view of a remote ship.
type Ship struct {
	ID       string
	Position model.Vec3
	Rotation float64
	IsSunk   bool

	state  TrackState
	target *model.Vec3
}

// State returns the track's lifecycle state.
func (t *Ship) State() TrackState {
	return t.state
}

// Tracker smooths an eventually consistent stream of remote ship updates
// into locally simulated positions. Last write wins; the thresholds only
// decide whether to snap, glide, or ignore.
type Tracker struct {
	cfg   Config
	ships map[string]*Ship
}

// NewTracker creates an empty tracker.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg, ships: make(map[string]*Ship)}
}

// Observe applies one update and reports what it did.
func (tr *Tracker) Observe(u Update) Outcome {
	ship, ok := tr.ships[u.ID]

	if !u.IsOnline {
		if !ok {
			return OutcomeNone
		}
		delete(tr.ships, u.ID)
		return OutcomeRemoved
	}

	if !ok {
		tr.ships[u.ID] = &Ship{
			ID:       u.ID,
			Position: u.Position,
			Rotation: u.Rotation,
			IsSunk:   u.IsSunk,
			state:    StateIdle,
		}
		return OutcomeCreated
	}

	delta := model.Distance(ship.Position, u.Position)
	respawn := delta > tr.cfg.TeleportThreshold ||
		(ship.IsSunk && !u.IsSunk && u.Position.Length() <= tr.cfg.OriginRadius)

	if respawn {
		// Destroy and recreate rather than glide across the map.
		tr.ships[u.ID] = &Ship{
			ID:       u.ID,
			Position: u.Position,
			Rotation: u.Rotation,
			IsSunk:   u.IsSunk,
			state:    StateIdle,
		}
		return OutcomeRespawned
	}

	ship.IsSunk = u.IsSunk
	if math.Abs(model.NormalizeAngle(u.Rotation-ship.Rotation)) > tr.cfg.AngularThreshold {
		ship.Rotation = u.Rotation
	}

	if delta > tr.cfg.CorrectionThreshold {
		target := u.Position
		ship.target = &target
		ship.state = StateMoving
		return OutcomeCorrected
	}

	if ship.state != StateMoving {
		ship.state = StateIdle
	}
	return OutcomeNone
}

// Advance integrates dead-reckoned movement for dt seconds.
func (tr *Tracker) Advance(dt float64) {
	for _, ship := range tr.ships {
		if ship.state != StateMoving || ship.target == nil {
			continue
		}
		to := ship.target.Sub(ship.Position)
		dist := to.Length()
		step := tr.cfg.Speed * dt
		if step >= dist {
			ship.Position = *ship.target
			ship.target = nil
			ship.state = StateIdle
			continue
		}
		ship.Position = ship.Position.Add(to.Norm().Scale(step))
	}
}

// Get returns the simulated ship, or nil when untracked.
func (tr *Tracker) Get(id string) *Ship {
	return tr.ships[id]
}

// Ships returns all tracked ships.
func (tr *Tracker) Ships() []*Ship {
	out := make([]*Ship, 0, len(tr.ships))
	for _, s := range tr.ships {
		out = append(out, s)
	}
	return out
}
