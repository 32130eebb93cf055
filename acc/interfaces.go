package acc

import (
	m "accd.dev/accd/math"
)

// Vehicle is the actuation interface of the car under control. All methods
// are synchronous reads of the current state; ApplyControl takes effect on
// the next simulation step.
type Vehicle interface {
	Velocity() m.Vector3
	Location() m.Vector3
	ForwardVector() m.Vector3
	ApplyControl(cmd ControlCommand)
}

type LaneType int

const (
	LaneDriving LaneType = iota
	LaneSidewalk
	LaneShoulder
	LaneBorder
	LaneRestricted
)

func (l LaneType) String() string {
	switch l {
	case LaneDriving:
		return "driving"
	case LaneSidewalk:
		return "sidewalk"
	case LaneShoulder:
		return "shoulder"
	case LaneBorder:
		return "border"
	default:
		return "restricted"
	}
}

// SurfacePoint is a resolved point on the drivable-surface map.
type SurfacePoint struct {
	Location  m.Vector3
	Lane      LaneType
	LaneWidth float64
}

// SurfaceMap resolves world locations to surface membership. With project
// set, the nearest surface point is returned even when the location itself
// is off the surface.
type SurfaceMap interface {
	ResolvePoint(loc m.Vector3, project bool) (SurfacePoint, bool)
}

// Detection is one proximity-sensor hit. The feed refreshes asynchronously;
// Detections returns the latest snapshot.
type Detection struct {
	Distance float64
	ActorID  int64
}

type ProximityFeed interface {
	Detections() []Detection
}

// Notifier is the user-visible status surface. Calls are fire-and-forget
// and never affect control flow.
type Notifier interface {
	Notify(text string, seconds float64)
	EmergencyLogged(distance float64, reason string)
}

// Environment hands out navigation goals for the autonomy delegate.
type Environment interface {
	RandomGoal() (m.Vector3, bool)
}

// Delegate is an external path-planning capability. Construction either
// succeeds with a conforming handle or fails; there is no feature probing.
type Delegate interface {
	SetTargetSpeed(ms float64)
	RequestNewGoal(env Environment)
	Done() bool
	Step() (ControlCommand, error)
}

// DelegateFactory builds a delegate bound to a vehicle. A nil factory means
// no delegate is configured and the controller always uses the regulator.
type DelegateFactory func(v Vehicle) (Delegate, error)
