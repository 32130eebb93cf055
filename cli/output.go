package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"accd.dev/accd/bus"
)

type outputModel struct {
	output bus.Telemetry
	valid  bool
}

func (m outputModel) Update(msg tea.Msg, mm *uiModel) (outputModel, tea.Cmd) {
	out, success := mm.sub.Read()
	if success {
		m.valid = true
		m.output = out
	}

	return m, nil
}

func (m outputModel) View() string {
	if !m.valid {
		return ""
	}
	cruise := "off"
	if m.output.CruiseControl {
		cruise = "on"
	}
	mode := "pid"
	if m.output.DelegateActive {
		mode = "delegate"
	}
	return docStyle.Render(fmt.Sprintf(
		"session: %s\nspeed: %.1f km/h\ncruise control: %s\ntarget speed: %.1f km/h\nmode: %s\nbrake factor: %.2f\nemergency brake: %t\nobstacle detected: %t\nobstacle distance: %.1f\nrecent detections: %d\nposition: %.1f %.1f\nlast emergency: %s\nloop rate: %.1f hz\n\n%s",
		m.output.Session,
		m.output.SpeedKmh,
		cruise,
		m.output.TargetSpeedKmh,
		mode,
		m.output.BrakeFactor,
		m.output.EmergencyBrake,
		m.output.ObstacleDetected,
		m.output.ObstacleDistance,
		m.output.RecentDetections,
		m.output.Location.X,
		m.output.Location.Y,
		m.output.LastEmergency,
		m.output.LoopHz,
		m.output.Notification,
	) + "\n")
}
