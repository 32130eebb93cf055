package sim

import (
	"sync"

	"accd.dev/accd/acc"
	mv "accd.dev/accd/math"
)

const historyCap = 64

// Obstacle is a static or slowly moving actor in the world.
type Obstacle struct {
	ID       int64
	Position mv.Vector3
	SpeedMs  float64 // along +X
}

// ProximitySensor reports obstacles in a forward cone of the vehicle,
// the way a radar return would: straight line distance to anything
// roughly ahead and within lateral reach.
type ProximitySensor struct {
	vehicle *Vehicle

	MaxRange     float64
	LateralReach float64

	mu        sync.Mutex
	obstacles []*Obstacle
	history   []acc.Detection
}

func NewProximitySensor(v *Vehicle) *ProximitySensor {
	return &ProximitySensor{
		vehicle:      v,
		MaxRange:     120,
		LateralReach: 2.5,
	}
}

func (s *ProximitySensor) Add(o *Obstacle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obstacles = append(s.obstacles, o)
}

func (s *ProximitySensor) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.obstacles {
		o.Position.X += o.SpeedMs * dt
	}
}

func (s *ProximitySensor) Detections() []acc.Detection {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc := s.vehicle.Location()
	fwd := s.vehicle.ForwardVector()

	var out []acc.Detection
	for _, o := range s.obstacles {
		rel := o.Position.Subtract(loc)
		ahead := rel.DotXY(fwd)
		if ahead <= 0 || ahead > s.MaxRange {
			continue
		}
		lateral := rel.LengthXY()*rel.LengthXY() - ahead*ahead
		if lateral > s.LateralReach*s.LateralReach {
			continue
		}
		d := acc.Detection{Distance: rel.LengthXY(), ActorID: o.ID}
		out = append(out, d)
		s.history = append(s.history, d)
	}
	if len(s.history) > historyCap {
		s.history = s.history[len(s.history)-historyCap:]
	}
	return out
}

// History returns the most recent detections, newest last.
func (s *ProximitySensor) History() []acc.Detection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]acc.Detection, len(s.history))
	copy(out, s.history)
	return out
}
