package acc

import (
	m "accd.dev/accd/math"
)

// Telemetry reads kinematic state off the vehicle interface. Pure reads, no
// caching.
type Telemetry struct {
	Vehicle Vehicle
}

func (t Telemetry) SpeedMs() float64 {
	return t.Vehicle.Velocity().Length()
}

func (t Telemetry) SpeedKmh() float64 {
	return msToKmh * t.SpeedMs()
}

func (t Telemetry) Location() m.Vector3 {
	return t.Vehicle.Location()
}

func (t Telemetry) ForwardVector() m.Vector3 {
	return t.Vehicle.ForwardVector()
}

// IsMovingForward reports whether the planar velocity component along the
// heading exceeds threshold (m/s).
func (t Telemetry) IsMovingForward(threshold float64) bool {
	return t.Vehicle.Velocity().DotXY(t.Vehicle.ForwardVector()) > threshold
}

// StoppingDistance is the distance covered decelerating uniformly from
// speedMs to rest: v^2 / (2a).
func StoppingDistance(speedMs float64, deceleration float64) float64 {
	if deceleration <= 0 {
		return 0
	}
	return speedMs * speedMs / (2 * deceleration)
}
