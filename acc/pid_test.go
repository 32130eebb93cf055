package acc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "accd.dev/accd/math"
)

func newTestRegulator() speedRegulator {
	cfg := DefaultConfig()
	return speedRegulator{
		Kp:            cfg.Kp,
		Ki:            cfg.Ki,
		Kd:            cfg.Kd,
		IntegralLimit: cfg.IntegralLimit,
	}
}

func TestRegulatorLargeErrorUsesAggressiveScaling(t *testing.T) {
	r := newTestRegulator()

	// standstill, 60 km/h target: error 60, well above the 4 km/h threshold
	cmd, brakeFactor := r.Update(60, 0, ControlCommand{})
	assert.Greater(t, cmd.Throttle, 0.0)
	assert.LessOrEqual(t, cmd.Throttle, 0.9)
	assert.Equal(t, 0.0, cmd.Brake)
	assert.Equal(t, 0.0, brakeFactor)
}

func TestRegulatorSmallErrorCapsAtNormalThrottle(t *testing.T) {
	r := newTestRegulator()

	cmd, _ := r.Update(52, 50, ControlCommand{})
	assert.Greater(t, cmd.Throttle, 0.0)
	assert.LessOrEqual(t, cmd.Throttle, 0.7)
	assert.Equal(t, 0.0, cmd.Brake)
}

func TestRegulatorBrakesWhenAboveTarget(t *testing.T) {
	r := newTestRegulator()

	cmd, brakeFactor := r.Update(50, 80, ControlCommand{Steer: 0.2})
	assert.Equal(t, 0.0, cmd.Throttle)
	assert.Greater(t, cmd.Brake, 0.0)
	assert.LessOrEqual(t, cmd.Brake, 0.8)
	assert.Equal(t, cmd.Brake, brakeFactor)
	// steering preserved
	assert.Equal(t, 0.2, cmd.Steer)
}

func TestRegulatorIntegralNeverExceedsLimit(t *testing.T) {
	r := newTestRegulator()

	// arbitrarily large persistent error must not wind up the integral
	for range 1000 {
		r.Update(120, 0, ControlCommand{})
	}
	assert.LessOrEqual(t, r.Integral, 20.0)
	assert.GreaterOrEqual(t, r.Integral, -20.0)

	for range 1000 {
		r.Update(20, 500, ControlCommand{})
	}
	assert.LessOrEqual(t, r.Integral, 20.0)
	assert.GreaterOrEqual(t, r.Integral, -20.0)
}

func TestRegulatorStoresPreviousError(t *testing.T) {
	r := newTestRegulator()

	r.Update(60, 40, ControlCommand{})
	require.Equal(t, 20.0, r.PreviousError)

	r.Update(60, 50, ControlCommand{})
	assert.Equal(t, 10.0, r.PreviousError)
}

func TestRegulatorReset(t *testing.T) {
	r := newTestRegulator()
	r.Update(60, 0, ControlCommand{})
	require.NotEqual(t, 0.0, r.Integral)

	r.Reset()
	assert.Equal(t, 0.0, r.Integral)
	assert.Equal(t, 0.0, r.PreviousError)
}

func TestStoppingDistance(t *testing.T) {
	// 20 m/s at 4 m/s^2: 400 / 8 = 50m
	assert.InDelta(t, 50.0, StoppingDistance(20, 4), 1e-9)
	assert.Equal(t, 0.0, StoppingDistance(20, 0))
}

func TestIsMovingForward(t *testing.T) {
	vehicle := &fakeVehicle{forward: m.Vector3{X: 1}}
	telemetry := Telemetry{Vehicle: vehicle}

	vehicle.setSpeedKmh(10)
	assert.True(t, telemetry.IsMovingForward(0.1))

	vehicle.setSpeedKmh(0)
	assert.False(t, telemetry.IsMovingForward(0.1))

	// reversing: velocity opposes the heading
	vehicle.velocity = m.Vector3{X: -3}
	assert.False(t, telemetry.IsMovingForward(0.1))
}
