package settings

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"accd.dev/accd/bus"
	"accd.dev/accd/params"
	"accd.dev/accd/utils"
)

var (
	Settings = AccSettings{}
)

type AccSettings struct {
	LogLevel string `json:"log_level"`

	MinSpeedKmh       float64 `json:"min_speed_kmh"`
	MaxSpeedKmh       float64 `json:"max_speed_kmh"`
	DefaultTargetKmh  float64 `json:"default_target_kmh"`
	SpeedIncrementKmh float64 `json:"speed_increment_kmh"`

	EmergencyBrakeDistance float64   `json:"emergency_brake_distance"`
	WarningDistance        float64   `json:"warning_distance"`
	BoundaryLookaheads     []float64 `json:"boundary_lookaheads"`
	OffroadDeviationLimit  float64   `json:"offroad_deviation_limit"`

	PidKp            float64 `json:"pid_kp"`
	PidKi            float64 `json:"pid_ki"`
	PidKd            float64 `json:"pid_kd"`
	PidIntegralLimit float64 `json:"pid_integral_limit"`

	DelegateEnabled bool `json:"delegate_enabled"`

	PublishIntervalSec float64 `json:"publish_interval_sec"`

	Vehicle      string  `json:"vehicle"`       // "sim" or "can"
	CanInterface string  `json:"can_interface"` // e.g. "vcan0"
	SurfaceMap   string  `json:"surface_map"`   // "sim" or "osm"
	PbfPath      string  `json:"pbf_path"`
	OriginLat    float64 `json:"origin_lat"`
	OriginLon    float64 `json:"origin_lon"`
}

func (s *AccSettings) Default() {
	s.LogLevel = "error"
	s.MinSpeedKmh = 20
	s.MaxSpeedKmh = 120
	s.DefaultTargetKmh = 60
	s.SpeedIncrementKmh = 2
	s.EmergencyBrakeDistance = 5
	s.WarningDistance = 15
	s.BoundaryLookaheads = []float64{2, 4, 6, 8, 12}
	s.OffroadDeviationLimit = 3
	s.PidKp = 1.2
	s.PidKi = 0.15
	s.PidKd = 0.3
	s.PidIntegralLimit = 20
	s.DelegateEnabled = false
	s.PublishIntervalSec = 5
	s.Vehicle = "sim"
	s.CanInterface = "vcan0"
	s.SurfaceMap = "sim"
	s.PbfPath = "./map.osm.pbf"
	s.OriginLat = 0
	s.OriginLon = 0
}

func (s *AccSettings) Recommended() {
	s.Default()
	s.LogLevel = "info"
	s.DelegateEnabled = true
}

func (s *AccSettings) Load() (success bool) {
	s.Default() // set defaults so settings not already in param are defaulted
	data, err := params.GetParam(params.ACC_SETTINGS)
	if err != nil {
		utils.Loge(err)
		return false
	}

	err = json.Unmarshal(data, s)
	if err != nil {
		utils.Loge(err)
		return false
	}

	s.setLogLevel()

	return true
}

func (s *AccSettings) LoadWithRetries(tries int) {
	for range tries {
		if s.Load() {
			break
		}
		time.Sleep(1 * time.Second)
	}
	s.Save()
}

func (s *AccSettings) Save() {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		utils.Loge(err)
		return
	}
	err = params.PutParam(params.ACC_SETTINGS, data)
	if err != nil {
		utils.Loge(err)
		return
	}
}

func (s *AccSettings) setLogLevel() {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "info":
		slog.SetLogLoggerLevel(slog.LevelInfo)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelError)
	}
}

// Handle applies a settings command received on accIn. Controller commands
// (speed, cruise_control, emergency_stop) are handled by the daemon loop.
func (s *AccSettings) Handle(cmd bus.Command) {
	switch cmd.Command {
	case bus.CommandReloadSettings:
		s.Load()
	case bus.CommandSaveSettings:
		go s.Save()
	case bus.CommandLoadDefaultSettings:
		s.Default()
	case bus.CommandLoadRecommendedSettings:
		s.Recommended()
	case bus.CommandSetLogLevel:
		s.LogLevel = cmd.Str
		s.setLogLevel()
	case bus.CommandSetSpeedIncrement:
		s.SpeedIncrementKmh = cmd.Value
	case bus.CommandSetEmergencyDistance:
		s.EmergencyBrakeDistance = cmd.Value
	case bus.CommandSetWarningDistance:
		s.WarningDistance = cmd.Value
	case bus.CommandSetOffroadDeviation:
		s.OffroadDeviationLimit = cmd.Value
	case bus.CommandSetDelegateEnabled:
		s.DelegateEnabled = cmd.Bool
	case bus.CommandSetPublishInterval:
		s.PublishIntervalSec = cmd.Value
	}
}
