package bus

const (
	DEFAULT_SEGMENT_SIZE = 1 * 1024 * 1024

	ACC_OUT = "accOut"
	ACC_IN  = "accIn"
)

// Remote commands accepted on accIn.
const (
	CommandSpeed         = "speed"
	CommandCruiseControl = "cruise_control"
	CommandEmergencyStop = "emergency_stop"

	CommandReloadSettings          = "reload_settings"
	CommandSaveSettings            = "save_settings"
	CommandLoadDefaultSettings     = "load_default_settings"
	CommandLoadRecommendedSettings = "load_recommended_settings"
	CommandSetLogLevel             = "set_log_level"
	CommandSetSpeedIncrement       = "set_speed_increment"
	CommandSetEmergencyDistance    = "set_emergency_brake_distance"
	CommandSetWarningDistance      = "set_warning_distance"
	CommandSetOffroadDeviation     = "set_offroad_deviation"
	CommandSetDelegateEnabled      = "set_delegate_enabled"
	CommandSetPublishInterval      = "set_publish_interval"
)

type Command struct {
	Command string  `json:"command"`
	Value   float64 `json:"value,omitempty"`
	Str     string  `json:"str,omitempty"`
	Bool    bool    `json:"bool,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Telemetry is the accOut payload, one message per publish tick.
type Telemetry struct {
	Session          string  `json:"session"`
	SpeedKmh         float64 `json:"speed_kmh"`
	Location         Point   `json:"location"`
	CruiseControl    bool    `json:"cruise_control"`
	TargetSpeedKmh   float64 `json:"target_speed_kmh"`
	BrakeFactor      float64 `json:"brake_factor"`
	EmergencyBrake   bool    `json:"emergency_brake"`
	ObstacleDetected bool    `json:"obstacle_detected"`
	ObstacleDistance float64 `json:"obstacle_distance,omitempty"`
	RecentDetections int     `json:"recent_detections,omitempty"`
	DelegateActive   bool    `json:"delegate_active"`
	HasGoal          bool    `json:"has_goal"`
	LastEmergency    string  `json:"last_emergency,omitempty"`
	Notification     string  `json:"notification,omitempty"`
	LoopHz           float64 `json:"loop_hz,omitempty"`
	Timestamp        int64   `json:"timestamp"`
}
