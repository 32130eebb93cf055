package bus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A clear-road tick has no detection; that payload must still serialize.
func TestClearRoadTelemetryMarshals(t *testing.T) {
	out := Telemetry{
		Session:        "b2c7",
		SpeedKmh:       57.3,
		Location:       Point{X: 120.4, Y: -0.8},
		CruiseControl:  true,
		TargetSpeedKmh: 60,
		Timestamp:      1700000000000,
	}

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "obstacle_distance")

	var back Telemetry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, out, back)
}

func TestCommandDecoding(t *testing.T) {
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(`{"command":"speed","value":80}`), &cmd))
	assert.Equal(t, CommandSpeed, cmd.Command)
	assert.Equal(t, 80.0, cmd.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"command":"cruise_control","bool":true}`), &cmd))
	assert.Equal(t, CommandCruiseControl, cmd.Command)
	assert.True(t, cmd.Bool)
}
