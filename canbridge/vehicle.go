package canbridge

import (
	"context"
	"log/slog"
	stdmath "math"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.einride.tech/can/pkg/socketcan"

	"accd.dev/accd/acc"
	mv "accd.dev/accd/math"
)

// Vehicle drives a real car over socketcan. Wheel speed and yaw come in as
// CAN frames; position is dead-reckoned from them, which is good enough for
// the lookahead distances the controller works with.
type Vehicle struct {
	conn net.Conn
	tx   *socketcan.Transmitter

	mu       sync.Mutex
	speedMs  float64
	yaw      float64
	position mv.Vector3
	reverse  bool
	lastSeen time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func Dial(ctx context.Context, iface string) (*Vehicle, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, errors.Wrap(err, "could not open can interface")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	v := &Vehicle{
		conn:   conn,
		tx:     socketcan.NewTransmitter(conn),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go v.receive(runCtx, socketcan.NewReceiver(conn))
	return v, nil
}

func (v *Vehicle) receive(ctx context.Context, rx *socketcan.Receiver) {
	defer close(v.done)
	lastTick := time.Now()
	for rx.Receive() {
		if ctx.Err() != nil {
			return
		}
		frame := rx.Frame()
		now := time.Now()

		switch frame.ID {
		case SpeedFrame.ID:
			values, err := SpeedFrame.Decode(frame)
			if err != nil {
				slog.Warn("bad wheel speed frame", "error", err)
				continue
			}
			dt := now.Sub(lastTick).Seconds()
			lastTick = now
			v.mu.Lock()
			v.speedMs = values["speed_ms"]
			v.reverse = values["reverse_gear"] != 0
			step := v.speedMs * dt
			if v.reverse {
				step = -step
			}
			v.position = v.position.Add(v.forwardLocked().Scale(step))
			v.lastSeen = now
			v.mu.Unlock()
		case YawFrame.ID:
			values, err := YawFrame.Decode(frame)
			if err != nil {
				slog.Warn("bad yaw frame", "error", err)
				continue
			}
			v.mu.Lock()
			v.yaw = values["yaw_rad"]
			v.lastSeen = now
			v.mu.Unlock()
		}
	}
}

func (v *Vehicle) forwardLocked() mv.Vector3 {
	return mv.Vector3{X: stdmath.Cos(v.yaw), Y: stdmath.Sin(v.yaw)}
}

func (v *Vehicle) Velocity() mv.Vector3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	speed := v.speedMs
	if v.reverse {
		speed = -speed
	}
	return v.forwardLocked().Scale(speed)
}

func (v *Vehicle) Location() mv.Vector3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.position
}

func (v *Vehicle) ForwardVector() mv.Vector3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.forwardLocked()
}

func (v *Vehicle) ApplyControl(cmd acc.ControlCommand) {
	values := map[string]float64{
		"throttle": cmd.Throttle,
		"brake":    cmd.Brake,
		"steer":    cmd.Steer,
	}
	if cmd.HandBrake {
		values["handbrake"] = 1
	}
	if cmd.Reverse {
		values["reverse"] = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := v.tx.TransmitFrame(ctx, ControlFrame.Encode(values)); err != nil {
		slog.Warn("could not transmit control frame", "error", err)
	}
}

// Stale reports whether no frame has arrived within the given window.
func (v *Vehicle) Stale(window time.Duration) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen.IsZero() || time.Since(v.lastSeen) > window
}

func (v *Vehicle) Close() error {
	v.cancel()
	err := v.conn.Close()
	<-v.done
	return errors.Wrap(err, "could not close can interface")
}
