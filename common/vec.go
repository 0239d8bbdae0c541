package common

import "math"

// Vec2 is a 2D position or direction in world units.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// Angle returns the heading of v in degrees.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X) * Rad2Deg
}

// FromAngle returns the unit vector for a heading in degrees.
func FromAngle(deg float64) Vec2 {
	rad := deg * Deg2Rad
	return Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// MoveTowardsVec moves current toward target by at most maxDelta.
func MoveTowardsVec(current, target Vec2, maxDelta float64) Vec2 {
	d := target.Sub(current)
	dist := d.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(d.Scale(maxDelta / dist))
}
