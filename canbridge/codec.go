package canbridge

import (
	stdmath "math"

	"github.com/pkg/errors"
	"go.einride.tech/can"

	"accd.dev/accd/math"
)

// Little-endian factor/offset signal packing, the usual DBC scheme.

type Signal struct {
	Name      string
	StartBit  int
	BitLength int
	Signed    bool
	Factor    float64
	Offset    float64
	Min       float64
	Max       float64
}

type Frame struct {
	ID      uint32
	Name    string
	Length  uint8
	Signals []Signal
}

var (
	// controller -> actuators
	ControlFrame = Frame{
		ID:     0x220,
		Name:   "ACC_CONTROL",
		Length: 5,
		Signals: []Signal{
			{Name: "throttle", StartBit: 0, BitLength: 10, Factor: 0.001, Max: 1},
			{Name: "brake", StartBit: 10, BitLength: 10, Factor: 0.001, Max: 1},
			{Name: "steer", StartBit: 20, BitLength: 12, Signed: true, Factor: 0.001, Min: -1, Max: 1},
			{Name: "handbrake", StartBit: 32, BitLength: 1, Factor: 1, Max: 1},
			{Name: "reverse", StartBit: 33, BitLength: 1, Factor: 1, Max: 1},
		},
	}

	// vehicle -> controller
	SpeedFrame = Frame{
		ID:     0x221,
		Name:   "WHEEL_SPEED",
		Length: 4,
		Signals: []Signal{
			{Name: "speed_ms", StartBit: 0, BitLength: 16, Factor: 0.01, Max: 655.35},
			{Name: "reverse_gear", StartBit: 16, BitLength: 1, Factor: 1, Max: 1},
		},
	}

	YawFrame = Frame{
		ID:     0x222,
		Name:   "YAW_ANGLE",
		Length: 2,
		Signals: []Signal{
			{Name: "yaw_rad", StartBit: 0, BitLength: 16, Signed: true, Factor: 0.0002, Min: -stdmath.Pi, Max: stdmath.Pi},
		},
	}
)

func getBits(payload uint64, startBit, bitLen int) uint64 {
	mask := uint64(1)<<bitLen - 1
	return (payload >> startBit) & mask
}

func setBits(payload uint64, startBit, bitLen int, value uint64) uint64 {
	mask := uint64(1)<<bitLen - 1
	payload &^= mask << startBit
	payload |= (value & mask) << startBit
	return payload
}

func toRaw(v float64, s Signal) uint64 {
	v = math.Clamp(v, s.Min, s.Max)
	raw := int64(stdmath.Round((v - s.Offset) / s.Factor))
	if !s.Signed {
		if raw < 0 {
			raw = 0
		}
		return uint64(raw)
	}
	mask := uint64(1)<<s.BitLength - 1
	return uint64(raw) & mask
}

func fromRaw(u uint64, s Signal) float64 {
	raw := int64(u)
	if s.Signed {
		signBit := uint64(1) << (s.BitLength - 1)
		if u&signBit != 0 {
			raw = int64(u) - int64(1)<<s.BitLength
		}
	}
	return float64(raw)*s.Factor + s.Offset
}

func (f Frame) Encode(values map[string]float64) can.Frame {
	var payload uint64
	for _, s := range f.Signals {
		payload = setBits(payload, s.StartBit, s.BitLength, toRaw(values[s.Name], s))
	}

	out := can.Frame{ID: f.ID, Length: f.Length}
	for i := 0; i < int(f.Length); i++ {
		out.Data[i] = byte(payload >> (8 * i))
	}
	return out
}

func (f Frame) Decode(frame can.Frame) (map[string]float64, error) {
	if frame.ID != f.ID {
		return nil, errors.Errorf("frame 0x%X is not %s", frame.ID, f.Name)
	}
	if frame.Length < f.Length {
		return nil, errors.Errorf("%s expects %d bytes, got %d", f.Name, f.Length, frame.Length)
	}

	var payload uint64
	for i := 0; i < int(f.Length); i++ {
		payload |= uint64(frame.Data[i]) << (8 * i)
	}

	out := make(map[string]float64, len(f.Signals))
	for _, s := range f.Signals {
		out[s.Name] = fromRaw(getBits(payload, s.StartBit, s.BitLength), s)
	}
	return out, nil
}
