package sim

import (
	"math/rand"

	mv "accd.dev/accd/math"
)

// World wires the simulated vehicle, surface and sensor together and hands
// out goals along the road.
type World struct {
	Vehicle *Vehicle
	Surface *StripMap
	Sensor  *ProximitySensor

	rng *rand.Rand
}

func NewWorld(vehicle *Vehicle, surface *StripMap, seed int64) *World {
	return &World{
		Vehicle: vehicle,
		Surface: surface,
		Sensor:  NewProximitySensor(vehicle),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// DefaultWorld is the scenario the daemon runs when no vehicle bridge is
// configured: a long straight road with a stopped car far ahead.
func DefaultWorld(seed int64) *World {
	w := NewWorld(NewVehicle(mv.Vector3{X: 10}, 0), DefaultStripMap(), seed)
	w.Sensor.Add(&Obstacle{ID: 1, Position: mv.Vector3{X: 900}})
	return w
}

// RandomGoal picks a point further down the road, inside the driving band.
func (w *World) RandomGoal() (mv.Vector3, bool) {
	x := w.Vehicle.Location().X + 150 + w.rng.Float64()*300
	if x > w.Surface.Length {
		x = w.Surface.Length
	}
	y := (w.rng.Float64()*2 - 1) * (w.Surface.HalfWidth - 1)
	return mv.Vector3{X: x, Y: y}, true
}

func (w *World) Step(dt float64) {
	w.Sensor.Step(dt)
	w.Vehicle.Step(dt)
}
