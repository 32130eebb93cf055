package acc

import (
	"github.com/pkg/errors"

	m "accd.dev/accd/math"
)

type fakeVehicle struct {
	velocity m.Vector3
	location m.Vector3
	forward  m.Vector3
	applied  []ControlCommand
}

func (v *fakeVehicle) Velocity() m.Vector3        { return v.velocity }
func (v *fakeVehicle) Location() m.Vector3        { return v.location }
func (v *fakeVehicle) ForwardVector() m.Vector3   { return v.forward }
func (v *fakeVehicle) ApplyControl(cmd ControlCommand) {
	v.applied = append(v.applied, cmd)
}

type fakeMap struct {
	resolve func(loc m.Vector3, project bool) (SurfacePoint, bool)
}

func (f *fakeMap) ResolvePoint(loc m.Vector3, project bool) (SurfacePoint, bool) {
	if f.resolve == nil {
		return SurfacePoint{Location: loc, Lane: LaneDriving, LaneWidth: 3.5}, true
	}
	return f.resolve(loc, project)
}

type fakeFeed struct {
	detections []Detection
}

func (f *fakeFeed) Detections() []Detection { return f.detections }

type fakeNotifier struct {
	notifications []string
	emergencies   []string
	distances     []float64
}

func (n *fakeNotifier) Notify(text string, seconds float64) {
	n.notifications = append(n.notifications, text)
}

func (n *fakeNotifier) EmergencyLogged(distance float64, reason string) {
	n.distances = append(n.distances, distance)
	n.emergencies = append(n.emergencies, reason)
}

type fakeEnv struct{}

func (fakeEnv) RandomGoal() (m.Vector3, bool) { return m.Vector3{X: 100}, true }

type fakeDelegate struct {
	stepCmd      ControlCommand
	stepErr      error
	done         bool
	stepCalls    int
	goalRequests int
	targetsMs    []float64
}

func (d *fakeDelegate) SetTargetSpeed(ms float64)      { d.targetsMs = append(d.targetsMs, ms) }
func (d *fakeDelegate) RequestNewGoal(env Environment) { d.goalRequests++ }
func (d *fakeDelegate) Done() bool                     { return d.done }
func (d *fakeDelegate) Step() (ControlCommand, error) {
	d.stepCalls++
	if d.stepErr != nil {
		return ControlCommand{}, d.stepErr
	}
	return d.stepCmd, nil
}

var errStep = errors.New("planner unavailable")

// newTestController builds a controller over clean fakes. A nil factory
// leaves the controller in regulator-only mode.
func newTestController(factory DelegateFactory) (*Controller, *fakeVehicle, *fakeMap, *fakeFeed, *fakeNotifier) {
	vehicle := &fakeVehicle{forward: m.Vector3{X: 1}}
	surface := &fakeMap{}
	feed := &fakeFeed{}
	notifier := &fakeNotifier{}
	c := New(DefaultConfig(), vehicle, surface, feed, fakeEnv{}, notifier, factory)
	return c, vehicle, surface, feed, notifier
}

// setSpeedKmh points the fake vehicle's velocity along +X.
func (v *fakeVehicle) setSpeedKmh(kmh float64) {
	v.velocity = m.Vector3{X: kmh / 3.6}
}
