package sim

import (
	"log/slog"
	m "math"

	"accd.dev/accd/acc"
	mv "accd.dev/accd/math"
)

const (
	maxAccel = 4.5  // m/s^2 at full throttle
	maxBrake = 8.0  // m/s^2 at full brake
	dragRate = 0.08 // fraction of speed lost per second coasting

	// fastest speed at which reverse may be engaged
	reverseGearMaxKmh = 5.0

	steerRateRad = 0.9 // rad/s at full lock, scaled down with speed
)

// Vehicle is a kinematic car model. ApplyControl stores the pending command;
// Step integrates it. Single owner, stepped from the simulation loop only.
type Vehicle struct {
	position mv.Vector3
	yaw      float64 // radians, 0 along +X
	speed    float64 // m/s, signed (negative while reversing)

	control acc.ControlCommand
}

func NewVehicle(position mv.Vector3, yaw float64) *Vehicle {
	return &Vehicle{position: position, yaw: yaw}
}

func (v *Vehicle) Velocity() mv.Vector3 {
	return v.ForwardVector().Scale(v.speed)
}

func (v *Vehicle) Location() mv.Vector3 {
	return v.position
}

func (v *Vehicle) ForwardVector() mv.Vector3 {
	return mv.Vector3{X: m.Cos(v.yaw), Y: m.Sin(v.yaw)}
}

func (v *Vehicle) ApplyControl(cmd acc.ControlCommand) {
	if cmd.Reverse && !v.control.Reverse && m.Abs(v.speed)*3.6 > reverseGearMaxKmh {
		slog.Debug("reverse refused above speed limit", "speed_kmh", m.Abs(v.speed)*3.6)
		cmd.Reverse = false
	}
	v.control = cmd
}

// Step advances the model by dt seconds under constant acceleration.
func (v *Vehicle) Step(dt float64) {
	accel := v.control.Throttle*maxAccel - v.control.Brake*maxBrake
	if v.control.HandBrake {
		accel = -maxBrake
	}

	direction := 1.0
	if v.control.Reverse {
		direction = -1
	}

	speed := v.speed + direction*accel*dt
	speed -= speed * dragRate * dt

	// braking stops the car, it never pushes it backwards
	if direction > 0 && speed < 0 {
		speed = 0
	}
	if direction < 0 && speed > 0 {
		speed = 0
	}
	v.speed = speed

	// steering authority drops off with speed to keep the model stable
	steerScale := 1.0 / (1.0 + m.Abs(v.speed)*0.15)
	v.yaw += v.control.Steer * steerRateRad * steerScale * dt

	v.position = v.position.Add(v.ForwardVector().Scale(v.speed * dt))
}

// Teleport moves the vehicle without touching its dynamics. Used to restore
// a persisted position on startup.
func (v *Vehicle) Teleport(position mv.Vector3) {
	v.position = position
}

func (v *Vehicle) SpeedMs() float64 {
	return m.Abs(v.speed)
}

func (v *Vehicle) Yaw() float64 {
	return v.yaw
}
