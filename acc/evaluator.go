package acc

import (
	"fmt"
	"log/slog"
	"math"
)

// Evaluator decides once per tick whether the path ahead is safe. It is
// stateless; every call re-reads the vehicle, map and sensor feed.
type Evaluator struct {
	Telemetry Telemetry
	Map       SurfaceMap
	Feed      ProximityFeed

	Lookaheads             []float64
	OffroadDeviationLimit  float64
	EmergencyBrakeDistance float64
}

// CheckBoundaries projects the vehicle position forward along its heading at
// each lookahead distance, ascending, and reports the first violation. The
// nearest hazard is always the one reported.
func (e *Evaluator) CheckBoundaries() (violated bool, distance float64, reason string) {
	location := e.Telemetry.Location()
	forward := e.Telemetry.ForwardVector()

	// The vehicle's own ground truth is indeterminate without a current
	// surface point, so this sub-check fails open.
	current, ok := e.Map.ResolvePoint(location, true)
	if !ok {
		return false, math.Inf(1), ""
	}

	for _, d := range e.Lookaheads {
		future := location.Add(forward.Scale(d))
		future.Z += lookaheadZOffset

		point, ok := e.Map.ResolvePoint(future, false)
		if !ok {
			projected, ok := e.Map.ResolvePoint(future, true)
			if !ok {
				// no surface at all ahead, the most severe case
				slog.Debug("boundary check found no surface", "distance", d)
				return true, d, fmt.Sprintf("no drivable surface at %.1fm", d)
			}
			deviation := projected.Location.DistanceTo(future)
			if deviation > e.OffroadDeviationLimit {
				slog.Debug("boundary check off-road", "distance", d, "deviation", deviation)
				return true, d, fmt.Sprintf("off-road at %.1fm, %.1fm from drivable surface", d, deviation)
			}
			continue
		}

		if point.Lane != LaneDriving {
			slog.Debug("boundary check restricted lane", "distance", d, "lane", point.Lane.String())
			return true, d, fmt.Sprintf("%s lane at %.1fm", point.Lane, d)
		}

		if current.LaneWidth > 0 && point.LaneWidth < current.LaneWidth*0.5 {
			slog.Debug("boundary check lane narrowing", "distance", d, "width", point.LaneWidth)
			return true, d, fmt.Sprintf("lane ending at %.1fm", d)
		}
	}

	return false, math.Inf(1), ""
}

// closestObstacle reduces the latest sensor snapshot to the minimum
// detection distance.
func (e *Evaluator) closestObstacle() (minDistance float64, emergency bool, reason string) {
	minDistance = math.Inf(1)
	for _, det := range e.Feed.Detections() {
		if det.Distance < minDistance {
			minDistance = det.Distance
		}
		if det.Distance < e.EmergencyBrakeDistance && !emergency {
			emergency = true
			reason = fmt.Sprintf("obstacle at %.1fm", det.Distance)
		}
	}
	return minDistance, emergency, reason
}

// Evaluate runs the boundary check first and short-circuits on violation; a
// boundary violation always outranks a moving obstacle.
func (e *Evaluator) Evaluate() ObstacleReport {
	if violated, distance, reason := e.CheckBoundaries(); violated {
		return ObstacleReport{
			MinDistance: distance,
			Emergency:   true,
			Source:      SourceBoundary,
			Reason:      fmt.Sprintf("road boundary violation: %s", reason),
		}
	}

	minDistance, emergency, reason := e.closestObstacle()
	report := ObstacleReport{
		MinDistance: minDistance,
		Emergency:   emergency,
		Reason:      reason,
	}
	if !math.IsInf(minDistance, 1) {
		report.Source = SourceObstacle
	}
	return report
}
