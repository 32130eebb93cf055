package acc

import (
	"fmt"
	"log/slog"
	"math"
)

// Controller arbitrates between safety overrides, an optional autonomy
// delegate and the fallback speed regulator. One controller per vehicle;
// all state is owned here and mutated only on the tick goroutine.
type Controller struct {
	cfg       Config
	vehicle   Vehicle
	telemetry Telemetry
	evaluator Evaluator
	notifier  Notifier
	env       Environment
	factory   DelegateFactory

	enabled              bool
	targetSpeedKmh       float64
	emergencyBrakeActive bool
	manualOverrideActive bool
	obstacleDetected     bool
	brakeFactor          float64
	lastEmergencyReason  string
	lastObstacleDistance float64

	regulator speedRegulator
	delegate  Delegate
}

func New(cfg Config, vehicle Vehicle, surface SurfaceMap, feed ProximityFeed, env Environment, notifier Notifier, factory DelegateFactory) *Controller {
	telemetry := Telemetry{Vehicle: vehicle}
	return &Controller{
		cfg:       cfg,
		vehicle:   vehicle,
		telemetry: telemetry,
		evaluator: Evaluator{
			Telemetry:              telemetry,
			Map:                    surface,
			Feed:                   feed,
			Lookaheads:             cfg.Lookaheads,
			OffroadDeviationLimit:  cfg.OffroadDeviationLimit,
			EmergencyBrakeDistance: cfg.EmergencyBrakeDistance,
		},
		notifier:       notifier,
		env:            env,
		factory:        factory,
		targetSpeedKmh: cfg.DefaultTargetKmh,
		regulator: speedRegulator{
			Kp:            cfg.Kp,
			Ki:            cfg.Ki,
			Kd:            cfg.Kd,
			IntegralLimit: cfg.IntegralLimit,
		},
	}
}

// UpdateConfig applies new tunables without disturbing controller state.
func (c *Controller) UpdateConfig(cfg Config) {
	c.cfg = cfg
	c.evaluator.Lookaheads = cfg.Lookaheads
	c.evaluator.OffroadDeviationLimit = cfg.OffroadDeviationLimit
	c.evaluator.EmergencyBrakeDistance = cfg.EmergencyBrakeDistance
	c.regulator.Kp = cfg.Kp
	c.regulator.Ki = cfg.Ki
	c.regulator.Kd = cfg.Kd
	c.regulator.IntegralLimit = cfg.IntegralLimit
}

func (c *Controller) Enabled() bool {
	return c.enabled
}

// Toggle flips the controller on or off. Never fails: a delegate
// construction error silently degrades to regulator-only mode for the
// session.
func (c *Controller) Toggle() {
	if c.enabled {
		c.Disable()
	} else {
		c.Enable()
	}
}

func (c *Controller) Enable() {
	if c.enabled {
		return
	}
	c.enabled = true

	// adopt at least the current speed as the new target
	c.targetSpeedKmh = max(c.cfg.MinSpeedKmh, c.telemetry.SpeedKmh())
	c.targetSpeedKmh = min(c.targetSpeedKmh, c.cfg.MaxSpeedKmh)

	if c.factory != nil {
		delegate, err := c.factory(c.vehicle)
		if err != nil {
			slog.Warn("delegate construction failed, using fallback regulator", "error", err)
			c.notifier.Notify("Autonomy delegate unavailable, using fallback speed control", 2)
			c.delegate = nil
		} else {
			c.delegate = delegate
			c.delegate.RequestNewGoal(c.env)
			c.delegate.SetTargetSpeed(c.targetSpeedKmh * kmhToMs)
		}
	}
	if c.delegate == nil {
		c.regulator.Reset()
	}

	mode := "fallback regulator"
	if c.delegate != nil {
		mode = "delegate"
	}
	c.notifier.Notify(fmt.Sprintf("ACC ON (%s) - target %.1f km/h", mode, c.targetSpeedKmh), 2)
}

func (c *Controller) Disable() {
	if !c.enabled {
		return
	}
	c.enabled = false
	c.delegate = nil
	c.brakeFactor = 0
	c.manualOverrideActive = false
	c.emergencyBrakeActive = false
	c.obstacleDetected = false
	c.notifier.Notify("ACC OFF", 2)
}

func (c *Controller) IncreaseTargetSpeed() {
	c.adjustTargetSpeed(c.cfg.SpeedIncrementKmh)
}

func (c *Controller) DecreaseTargetSpeed() {
	c.adjustTargetSpeed(-c.cfg.SpeedIncrementKmh)
}

func (c *Controller) adjustTargetSpeed(deltaKmh float64) {
	if !c.enabled {
		return
	}
	c.setTargetSpeed(c.targetSpeedKmh + deltaKmh)
}

// SetTargetSpeedKmh applies a remote target speed request, clamped to the
// configured range.
func (c *Controller) SetTargetSpeedKmh(kmh float64) {
	if !c.enabled {
		return
	}
	c.setTargetSpeed(kmh)
}

func (c *Controller) setTargetSpeed(kmh float64) {
	c.targetSpeedKmh = max(c.cfg.MinSpeedKmh, min(c.cfg.MaxSpeedKmh, kmh))
	if c.delegate != nil {
		c.delegate.SetTargetSpeed(c.targetSpeedKmh * kmhToMs)
	}
	slog.Info("target speed adjusted", "target", c.targetSpeedKmh)
}

// HandleOperatorInput maps raw operator pedal input onto the controller.
// Brake input while enabled is an explicit disable. Throttle input during an
// active emergency is a logged override that clears the emergency brake for
// this tick only; the next evaluation may re-trigger it.
func (c *Controller) HandleOperatorInput(throttle float64, brake float64) {
	if !c.enabled {
		return
	}
	if brake > 0 {
		slog.Info("operator brake input, disabling")
		c.Disable()
		return
	}
	if throttle > 0 && c.emergencyBrakeActive {
		slog.Warn("operator throttle override during emergency brake")
		c.notifier.Notify("Emergency brake overridden by operator", 2)
		c.emergencyBrakeActive = false
	}
}

func (c *Controller) Status() Status {
	return Status{
		Enabled:             c.enabled,
		TargetSpeedKmh:      c.targetSpeedKmh,
		BrakeFactor:         c.brakeFactor,
		EmergencyBrake:      c.emergencyBrakeActive,
		ObstacleDetected:    c.obstacleDetected,
		ObstacleDistance:    c.lastObstacleDistance,
		DelegateActive:      c.delegate != nil,
		HasGoal:             c.delegate != nil && !c.delegate.Done(),
		LastEmergencyReason: c.lastEmergencyReason,
	}
}

// Tick is the per-frame entry point. Branches are priority ordered and each
// returns immediately once triggered.
func (c *Controller) Tick(base ControlCommand) ControlCommand {
	if !c.enabled {
		return base
	}

	report := c.evaluator.Evaluate()
	// a clear road reports +Inf; keep the status finite for serialization,
	// zero meaning no detection
	if math.IsInf(report.MinDistance, 1) {
		c.lastObstacleDistance = 0
	} else {
		c.lastObstacleDistance = report.MinDistance
	}

	if report.Emergency {
		return c.emergencyStop(base, report.MinDistance, report.Reason)
	}

	if report.MinDistance <= c.cfg.EmergencyBrakeDistance {
		reason := fmt.Sprintf("obstacle at %.1fm", report.MinDistance)
		return c.emergencyStop(base, report.MinDistance, reason)
	}

	if report.MinDistance <= c.cfg.WarningDistance {
		c.obstacleDetected = true
		c.emergencyBrakeActive = false
		slog.Debug("obstacle in warning zone", "distance", report.MinDistance)
	} else {
		c.obstacleDetected = false
		c.emergencyBrakeActive = false
		c.manualOverrideActive = false
	}

	if c.delegate != nil {
		return c.delegateControl(base)
	}
	return c.fallbackControl(base)
}

// emergencyStop forces a full brake. This overrides every other control
// source, including an active delegate.
func (c *Controller) emergencyStop(base ControlCommand, distance float64, reason string) ControlCommand {
	c.emergencyBrakeActive = true
	c.manualOverrideActive = true
	c.brakeFactor = 1
	c.lastEmergencyReason = reason

	cmd := base
	cmd.Throttle = 0
	cmd.Brake = 1

	slog.Error("emergency brake triggered", "distance", distance, "reason", reason)
	c.notifier.EmergencyLogged(distance, reason)
	c.notifier.Notify(fmt.Sprintf("EMERGENCY BRAKE! %s", reason), 2)
	return cmd
}

func (c *Controller) delegateControl(base ControlCommand) ControlCommand {
	if c.delegate.Done() {
		c.delegate.RequestNewGoal(c.env)
		c.notifier.Notify("Target reached, searching for another target", 4)
	}

	cmd, err := c.delegate.Step()
	if err != nil {
		slog.Warn("delegate step failed, applying safe brake", "error", err)
		c.notifier.Notify("Autonomy delegate fault, braking gently", 2)
		safe := base
		safe.Throttle = 0
		safe.Brake = delegateFailBrake
		c.brakeFactor = delegateFailBrake
		return safe
	}

	cmd.ManualGearShift = false
	c.brakeFactor = cmd.Brake

	// the delegate command fully replaces base, steering included
	return cmd
}

func (c *Controller) fallbackControl(base ControlCommand) ControlCommand {
	// an operator brake or unresolved emergency always wins
	if c.manualOverrideActive {
		return base
	}

	cmd, brakeFactor := c.regulator.Update(c.targetSpeedKmh, c.telemetry.SpeedKmh(), base)
	c.brakeFactor = brakeFactor
	slog.Debug("speed control",
		"target", c.targetSpeedKmh,
		"current", c.telemetry.SpeedKmh(),
		"throttle", cmd.Throttle,
		"brake", cmd.Brake,
	)
	return cmd
}
