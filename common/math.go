package common

import "math"

// TicksPerSecond converts frame counts in specs to seconds.
const TicksPerSecond = 60.0

const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	if target > current {
		return current + maxDelta
	}
	return current - maxDelta
}

// DeltaAngle returns the shortest signed difference between two angles in
// degrees, in the range (-180, 180].
func DeltaAngle(current, target float64) float64 {
	d := math.Mod(target-current, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// NormalizeAngle wraps degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// FramesToSeconds converts a frame count at TicksPerSecond to seconds.
func FramesToSeconds(frames int) float64 {
	return float64(frames) / TicksPerSecond
}
