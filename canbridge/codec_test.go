package canbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlFrameRoundTrip(t *testing.T) {
	frame := ControlFrame.Encode(map[string]float64{
		"throttle":  0.642,
		"brake":     0.0,
		"steer":     -0.318,
		"handbrake": 0,
		"reverse":   1,
	})
	require.Equal(t, ControlFrame.ID, frame.ID)

	values, err := ControlFrame.Decode(frame)
	require.NoError(t, err)
	assert.InDelta(t, 0.642, values["throttle"], 0.001)
	assert.InDelta(t, 0.0, values["brake"], 0.001)
	assert.InDelta(t, -0.318, values["steer"], 0.001)
	assert.Equal(t, 0.0, values["handbrake"])
	assert.Equal(t, 1.0, values["reverse"])
}

func TestEncodeClampsOutOfRange(t *testing.T) {
	frame := ControlFrame.Encode(map[string]float64{
		"throttle": 3.0,
		"steer":    -5.0,
	})
	values, err := ControlFrame.Decode(frame)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, values["throttle"], 0.001)
	assert.InDelta(t, -1.0, values["steer"], 0.001)
}

func TestSpeedFrameDecode(t *testing.T) {
	frame := SpeedFrame.Encode(map[string]float64{
		"speed_ms":     23.47,
		"reverse_gear": 1,
	})
	values, err := SpeedFrame.Decode(frame)
	require.NoError(t, err)
	assert.InDelta(t, 23.47, values["speed_ms"], 0.01)
	assert.Equal(t, 1.0, values["reverse_gear"])
}

func TestDecodeRejectsWrongFrame(t *testing.T) {
	frame := SpeedFrame.Encode(map[string]float64{"speed_ms": 10})
	_, err := ControlFrame.Decode(frame)
	assert.Error(t, err)
}
