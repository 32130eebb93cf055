package sim

import (
	"log/slog"
	m "math"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"accd.dev/accd/acc"
	mv "accd.dev/accd/math"
)

const (
	arrivalRadius = 4.0 // m

	agentKp          = 0.35 // throttle per m/s of speed error
	agentSteerGain   = 1.2  // steer per rad of heading error
	agentBrakeKp     = 0.25
	agentMaxThrottle = 0.75
)

// GoalAgent drives the vehicle toward a goal point, renewing it from the
// environment when reached. It is the simulation's stand-in for a full
// route planner.
type GoalAgent struct {
	vehicle *Vehicle

	goal     mv.Vector3
	goalID   string
	hasGoal  bool
	targetMs float64
}

func NewGoalAgent(v acc.Vehicle) (acc.Delegate, error) {
	sv, ok := v.(*Vehicle)
	if !ok {
		return nil, errors.New("goal agent requires a simulated vehicle")
	}
	return &GoalAgent{vehicle: sv}, nil
}

func (a *GoalAgent) SetTargetSpeed(ms float64) {
	a.targetMs = ms
}

func (a *GoalAgent) RequestNewGoal(env acc.Environment) {
	goal, ok := env.RandomGoal()
	if !ok {
		a.hasGoal = false
		slog.Warn("no goal available from environment")
		return
	}
	a.goal = goal
	a.goalID = uuid.NewString()
	a.hasGoal = true
	slog.Info("new goal assigned", "goal_id", a.goalID, "x", goal.X, "y", goal.Y)
}

func (a *GoalAgent) Done() bool {
	if !a.hasGoal {
		return true
	}
	return a.goal.Subtract(a.vehicle.Location()).LengthXY() < arrivalRadius
}

func (a *GoalAgent) Step() (acc.ControlCommand, error) {
	if !a.hasGoal {
		return acc.ControlCommand{}, errors.New("no active goal")
	}

	rel := a.goal.Subtract(a.vehicle.Location())
	desiredYaw := m.Atan2(rel.Y, rel.X)
	headingErr := normalizeAngle(desiredYaw - a.vehicle.Yaw())

	speedErr := a.targetMs - a.vehicle.SpeedMs()

	cmd := acc.ControlCommand{
		Steer: mv.Clamp(headingErr*agentSteerGain, -1.0, 1.0),
	}
	if speedErr >= 0 {
		cmd.Throttle = mv.Clamp(speedErr*agentKp, 0.0, agentMaxThrottle)
	} else {
		cmd.Brake = mv.Clamp(-speedErr*agentBrakeKp, 0.0, 0.6)
	}
	return cmd, nil
}

func normalizeAngle(a float64) float64 {
	for a > m.Pi {
		a -= 2 * m.Pi
	}
	for a < -m.Pi {
		a += 2 * m.Pi
	}
	return a
}
