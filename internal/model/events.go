package model

import "time"

// CombatEventID uniquely identifies a broadcast combat event
type CombatEventID string

// CombatEventType is the kind of combat occurrence being broadcast.
type CombatEventType string

const (
	CombatEventCannonFire CombatEventType = "cannon_fire"
	CombatEventHit        CombatEventType = "hit"
	CombatEventSink       CombatEventType = "sink"
)

// CombatEvent is an ephemeral broadcast record used by observing clients to
// visualize an attack. Events are fanned out over the feed and garbage
// collected after roughly ten seconds.
type CombatEvent struct {
	ID        CombatEventID
	Type      CombatEventType
	SourceID  string
	TargetID  string
	SourcePos Vec3
	TargetPos Vec3
	Damage    int
	IsMiss    bool
	Timestamp time.Time
}
