package acc

import (
	m "accd.dev/accd/math"
)

// speedRegulator is the fallback PID converting a speed error in km/h to a
// throttle or brake command. It holds integral and previous-error memory
// across ticks.
type speedRegulator struct {
	Kp            float64
	Ki            float64
	Kd            float64
	IntegralLimit float64

	Integral      float64
	PreviousError float64
}

func (r *speedRegulator) Reset() {
	r.Integral = 0
	r.PreviousError = 0
}

// Update applies the regulator to base and returns the adjusted command plus
// the brake factor actually applied. Steering in base is preserved.
func (r *speedRegulator) Update(targetKmh float64, currentKmh float64, base ControlCommand) (ControlCommand, float64) {
	err := targetKmh - currentKmh

	r.Integral += err
	r.Integral = m.Clamp(r.Integral, -r.IntegralLimit, r.IntegralLimit)
	derivative := err - r.PreviousError
	r.PreviousError = err

	output := r.Kp*err + r.Ki*r.Integral + r.Kd*derivative

	cmd := base
	if output > 0 {
		// dynamic throttle scaling: push harder on large deficits
		if err > largeErrorThresholdKmh {
			cmd.Throttle = min(throttleCapLarge, output/throttleScaleLarge)
		} else {
			cmd.Throttle = min(throttleCapNormal, output/throttleScaleNormal)
		}
		cmd.Brake = 0
		return cmd, 0
	}

	cmd.Throttle = 0
	cmd.Brake = min(brakeCap, m.Abs(output)/brakeScale)
	return cmd, cmd.Brake
}
