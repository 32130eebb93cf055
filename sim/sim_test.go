package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accd.dev/accd/acc"
	mv "accd.dev/accd/math"
)

func TestVehicleAcceleratesUnderThrottle(t *testing.T) {
	v := NewVehicle(mv.Vector3{}, 0)
	v.ApplyControl(acc.ControlCommand{Throttle: 1})
	for i := 0; i < 100; i++ {
		v.Step(0.05)
	}
	assert.Greater(t, v.SpeedMs(), 10.0)
	assert.Greater(t, v.Location().X, 0.0)
}

func TestVehicleBrakeStopsWithoutReversing(t *testing.T) {
	v := NewVehicle(mv.Vector3{}, 0)
	v.ApplyControl(acc.ControlCommand{Throttle: 1})
	for i := 0; i < 60; i++ {
		v.Step(0.05)
	}
	v.ApplyControl(acc.ControlCommand{Brake: 1})
	for i := 0; i < 200; i++ {
		v.Step(0.05)
	}
	assert.Equal(t, 0.0, v.SpeedMs())
}

func TestVehicleRefusesReverseAtSpeed(t *testing.T) {
	v := NewVehicle(mv.Vector3{}, 0)
	v.ApplyControl(acc.ControlCommand{Throttle: 1})
	for i := 0; i < 60; i++ {
		v.Step(0.05)
	}
	require.Greater(t, v.SpeedMs()*3.6, reverseGearMaxKmh)

	v.ApplyControl(acc.ControlCommand{Throttle: 0.3, Reverse: true})
	assert.False(t, v.control.Reverse)
}

func TestVehicleReversesFromStandstill(t *testing.T) {
	v := NewVehicle(mv.Vector3{X: 50}, 0)
	v.ApplyControl(acc.ControlCommand{Throttle: 0.5, Reverse: true})
	for i := 0; i < 40; i++ {
		v.Step(0.05)
	}
	assert.Less(t, v.Location().X, 50.0)
}

func TestStripMapDrivingBand(t *testing.T) {
	s := DefaultStripMap()

	p, ok := s.ResolvePoint(mv.Vector3{X: 100, Y: 1.0}, false)
	require.True(t, ok)
	assert.Equal(t, acc.LaneDriving, p.Lane)
	assert.Equal(t, 3.5, p.LaneWidth)
}

func TestStripMapSidewalk(t *testing.T) {
	s := DefaultStripMap()

	p, ok := s.ResolvePoint(mv.Vector3{X: 100, Y: 4.5}, false)
	require.True(t, ok)
	assert.Equal(t, acc.LaneSidewalk, p.Lane)
}

func TestStripMapOffSurfaceProjects(t *testing.T) {
	s := DefaultStripMap()

	_, ok := s.ResolvePoint(mv.Vector3{X: 100, Y: 20}, false)
	assert.False(t, ok)

	p, ok := s.ResolvePoint(mv.Vector3{X: 100, Y: 20}, true)
	require.True(t, ok)
	assert.Equal(t, acc.LaneDriving, p.Lane)
	assert.InDelta(t, 3.5, p.Location.Y, 1e-9)
	assert.InDelta(t, 100.0, p.Location.X, 1e-9)
}

func TestStripMapGapAndNarrowing(t *testing.T) {
	s := DefaultStripMap()
	s.GapStart, s.GapEnd = 200, 210
	s.NarrowStart, s.NarrowEnd, s.NarrowWidth = 300, 320, 1.2

	_, ok := s.ResolvePoint(mv.Vector3{X: 205, Y: 0}, false)
	assert.False(t, ok)

	p, ok := s.ResolvePoint(mv.Vector3{X: 310, Y: 0}, false)
	require.True(t, ok)
	assert.Equal(t, 1.2, p.LaneWidth)
}

func TestSensorReportsObstacleAhead(t *testing.T) {
	v := NewVehicle(mv.Vector3{X: 0}, 0)
	s := NewProximitySensor(v)
	s.Add(&Obstacle{ID: 7, Position: mv.Vector3{X: 30, Y: 0.5}})
	s.Add(&Obstacle{ID: 8, Position: mv.Vector3{X: -10}})       // behind
	s.Add(&Obstacle{ID: 9, Position: mv.Vector3{X: 30, Y: 10}}) // off to the side

	det := s.Detections()
	require.Len(t, det, 1)
	assert.Equal(t, int64(7), det[0].ActorID)
	assert.InDelta(t, 30.0, det[0].Distance, 0.1)
}

func TestSensorHistoryBounded(t *testing.T) {
	v := NewVehicle(mv.Vector3{X: 0}, 0)
	s := NewProximitySensor(v)
	s.Add(&Obstacle{ID: 1, Position: mv.Vector3{X: 20}})

	for i := 0; i < historyCap*3; i++ {
		s.Detections()
	}
	assert.Len(t, s.History(), historyCap)
}

func TestGoalAgentDrivesTowardGoal(t *testing.T) {
	w := DefaultWorld(1)
	d, err := NewGoalAgent(w.Vehicle)
	require.NoError(t, err)

	d.RequestNewGoal(w)
	require.False(t, d.Done())
	d.SetTargetSpeed(15)

	start := w.Vehicle.Location()
	for i := 0; i < 200; i++ {
		cmd, err := d.Step()
		require.NoError(t, err)
		w.Vehicle.ApplyControl(cmd)
		w.Step(0.05)
	}
	assert.Greater(t, w.Vehicle.Location().X, start.X+20)
}

func TestGoalAgentDoneWithoutGoal(t *testing.T) {
	w := DefaultWorld(1)
	d, err := NewGoalAgent(w.Vehicle)
	require.NoError(t, err)

	assert.True(t, d.Done())
	_, err = d.Step()
	assert.Error(t, err)
}

func TestWorldRandomGoalStaysOnRoad(t *testing.T) {
	w := DefaultWorld(42)
	for i := 0; i < 50; i++ {
		g, ok := w.RandomGoal()
		require.True(t, ok)
		assert.LessOrEqual(t, g.X, w.Surface.Length)
		assert.Less(t, mvAbs(g.Y), w.Surface.HalfWidth)
	}
}

func mvAbs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
