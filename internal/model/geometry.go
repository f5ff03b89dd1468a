package model

import "math"

// Vec3 is a position in world space. Y is height above the waterline and is
// zero for anything that floats.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Length returns the magnitude of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Norm returns v normalized to unit length, or the zero vector if v is zero.
func (v Vec3) Norm() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// SafeZone is a circular region where hostile AI may not linger or engage.
type SafeZone struct {
	Name   string  `json:"name"`
	Center Vec3    `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside the zone.
func (z SafeZone) Contains(p Vec3) bool {
	return Distance(z.Center, p) <= z.Radius
}

// InAnySafeZone reports whether p lies inside any of the given zones.
func InAnySafeZone(zones []SafeZone, p Vec3) bool {
	for _, z := range zones {
		if z.Contains(p) {
			return true
		}
	}
	return false
}

// NormalizeAngle wraps an angle in radians into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
