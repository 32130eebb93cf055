package acc

// ControlCommand is the actuation output for one tick. Produced fresh every
// tick and never mutated after being returned.
type ControlCommand struct {
	Throttle float64 // [0, 1]
	Brake    float64 // [0, 1]
	Steer    float64 // [-1, 1]

	HandBrake       bool
	Reverse         bool
	ManualGearShift bool
	Gear            int
}

type ReportSource int

const (
	SourceNone ReportSource = iota
	SourceBoundary
	SourceObstacle
)

func (s ReportSource) String() string {
	switch s {
	case SourceBoundary:
		return "boundary"
	case SourceObstacle:
		return "obstacle"
	default:
		return "none"
	}
}

// ObstacleReport is the per-tick safety evaluation. MinDistance is +Inf
// when nothing was detected. Source identifies which check produced the
// report so emergency handling never has to parse the reason text.
type ObstacleReport struct {
	MinDistance float64
	Emergency   bool
	Source      ReportSource
	Reason      string
}

// Status is a read-only snapshot of the controller, consumed by the
// telemetry publisher and any display surface.
type Status struct {
	Enabled             bool
	TargetSpeedKmh      float64
	BrakeFactor         float64
	EmergencyBrake      bool
	ObstacleDetected    bool
	ObstacleDistance    float64
	DelegateActive      bool
	HasGoal             bool
	LastEmergencyReason string
}
