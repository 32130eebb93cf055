package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"accd.dev/accd/acc"
	"accd.dev/accd/bus"
	"accd.dev/accd/canbridge"
	m "accd.dev/accd/math"
	"accd.dev/accd/osmmap"
	"accd.dev/accd/params"
	"accd.dev/accd/settings"
	"accd.dev/accd/sim"
	"accd.dev/accd/utils"
)

// telemetry is republished on any speed change larger than this
const publishSpeedDeltaKmh = 0.5

type daemon struct {
	session    string
	controller *acc.Controller
	vehicle    acc.Vehicle
	world      *sim.World
	canVehicle *canbridge.Vehicle

	pub bus.Publisher[bus.Telemetry]
	sub bus.Subscriber[bus.Command]

	tracker utils.UpdateTracker

	lastPublish      time.Time
	lastSpeedKmh     float64
	lastCruiseActive bool

	notification      string
	notificationUntil time.Time
	notificationNew   bool
}

// busNotifier logs controller notifications and echoes them on the next
// accOut message so the watch UI can show them.
type busNotifier struct {
	d *daemon
}

func (n busNotifier) Notify(text string, seconds float64) {
	slog.Info("notification", "text", text, "seconds", seconds)
	n.d.notification = text
	n.d.notificationUntil = time.Now().Add(time.Duration(seconds * float64(time.Second)))
	n.d.notificationNew = true
}

func (n busNotifier) EmergencyLogged(distance float64, reason string) {
	slog.Error("emergency event", "distance", distance, "reason", reason)
}

// emptyFeed is used when no proximity sensor is wired up.
type emptyFeed struct{}

func (emptyFeed) Detections() []acc.Detection { return nil }

// nullEnv has no goals to hand out, which keeps a delegate inactive.
type nullEnv struct{}

func (nullEnv) RandomGoal() (m.Vector3, bool) { return m.Vector3{}, false }

func newDaemon() *daemon {
	d := &daemon{
		session: uuid.NewString(),
		pub:     bus.NewPublisher[bus.Telemetry](bus.ACC_OUT),
		sub:     bus.NewSubscriber[bus.Command](bus.ACC_IN, false),
	}

	var (
		surface acc.SurfaceMap
		feed    acc.ProximityFeed
		env     acc.Environment
		factory acc.DelegateFactory
	)

	switch settings.Settings.Vehicle {
	case "can":
		vehicle, err := canbridge.Dial(context.Background(), settings.Settings.CanInterface)
		utils.Check(errors.Wrap(err, "could not connect to vehicle"))
		d.canVehicle = vehicle
		d.vehicle = vehicle
		feed = emptyFeed{}
		env = nullEnv{}
	default:
		world := sim.DefaultWorld(time.Now().UnixNano())
		d.world = world
		d.vehicle = world.Vehicle
		feed = world.Sensor
		env = world
		surface = world.Surface
	}

	switch settings.Settings.SurfaceMap {
	case "osm":
		roadMap, err := osmmap.Load(settings.Settings.PbfPath, settings.Settings.OriginLat, settings.Settings.OriginLon)
		utils.Check(errors.Wrap(err, "could not load surface map"))
		surface = roadMap
	default:
		if surface == nil {
			surface = sim.DefaultStripMap()
		}
	}

	if settings.Settings.DelegateEnabled && d.world != nil {
		factory = sim.NewGoalAgent
	}

	d.controller = acc.New(controllerConfig(), d.vehicle, surface, feed, env, busNotifier{d: d}, factory)
	d.tracker.Init(100)
	return d
}

func controllerConfig() acc.Config {
	s := &settings.Settings
	return acc.Config{
		MinSpeedKmh:       s.MinSpeedKmh,
		MaxSpeedKmh:       s.MaxSpeedKmh,
		DefaultTargetKmh:  s.DefaultTargetKmh,
		SpeedIncrementKmh: s.SpeedIncrementKmh,

		EmergencyBrakeDistance: s.EmergencyBrakeDistance,
		WarningDistance:        s.WarningDistance,
		Lookaheads:             s.BoundaryLookaheads,
		OffroadDeviationLimit:  s.OffroadDeviationLimit,

		Kp:            s.PidKp,
		Ki:            s.PidKi,
		Kd:            s.PidKd,
		IntegralLimit: s.PidIntegralLimit,
	}
}

func (d *daemon) Run() {
	slog.Info("accd started", "session", d.session, "vehicle", settings.Settings.Vehicle)
	d.restorePosition()

	for {
		time.Sleep(settings.LOOP_DELAY)
		d.tracker.Update()

		d.handleCommands()

		cmd := d.controller.Tick(acc.ControlCommand{})
		d.vehicle.ApplyControl(cmd)

		if d.world != nil {
			d.world.Step(settings.LOOP_DELAY.Seconds())
		}

		d.publish()
	}
}

func (d *daemon) handleCommands() {
	for {
		cmd, ok := d.sub.Read()
		if !ok {
			return
		}
		switch cmd.Command {
		case bus.CommandSpeed:
			d.controller.SetTargetSpeedKmh(cmd.Value)
		case bus.CommandCruiseControl:
			if cmd.Bool {
				d.controller.Enable()
			} else {
				d.controller.Disable()
			}
		case bus.CommandEmergencyStop:
			slog.Error("remote emergency stop requested")
			d.controller.Disable()
			d.vehicle.ApplyControl(acc.ControlCommand{Brake: 1, HandBrake: true})
		default:
			settings.Settings.Handle(cmd)
			d.controller.UpdateConfig(controllerConfig())
		}
	}
}

func (d *daemon) publish() {
	status := d.controller.Status()
	telemetry := acc.Telemetry{Vehicle: d.vehicle}
	speedKmh := telemetry.SpeedKmh()

	interval := time.Duration(settings.Settings.PublishIntervalSec * float64(time.Second))
	changed := m.Abs(speedKmh-d.lastSpeedKmh) >= publishSpeedDeltaKmh ||
		status.Enabled != d.lastCruiseActive ||
		d.notificationNew
	if !changed && time.Since(d.lastPublish) < interval {
		return
	}
	d.notificationNew = false

	notification := d.notification
	if time.Now().After(d.notificationUntil) {
		notification = ""
	}

	recentDetections := 0
	if d.world != nil {
		recentDetections = len(d.world.Sensor.History())
	}

	location := d.vehicle.Location()
	out := bus.Telemetry{
		Session:          d.session,
		SpeedKmh:         speedKmh,
		Location:         bus.Point{X: location.X, Y: location.Y, Z: location.Z},
		CruiseControl:    status.Enabled,
		TargetSpeedKmh:   status.TargetSpeedKmh,
		BrakeFactor:      status.BrakeFactor,
		EmergencyBrake:   status.EmergencyBrake,
		ObstacleDetected: status.ObstacleDetected,
		ObstacleDistance: status.ObstacleDistance,
		RecentDetections: recentDetections,
		DelegateActive:   status.DelegateActive,
		HasGoal:          status.HasGoal,
		LastEmergency:    status.LastEmergencyReason,
		Notification:     notification,
		LoopHz:           d.loopHz(),
		Timestamp:        time.Now().UnixMilli(),
	}
	utils.Logwe(errors.Wrap(d.pub.Send(out), "could not publish telemetry"))

	d.lastPublish = time.Now()
	d.lastSpeedKmh = speedKmh
	d.lastCruiseActive = status.Enabled
	d.persistPosition(location)

	if d.canVehicle != nil && d.canVehicle.Stale(500*time.Millisecond) {
		slog.Warn("vehicle bus is stale")
	}
}

func (d *daemon) loopHz() float64 {
	interval := d.tracker.DiffMA.Estimate
	if interval <= 0 {
		return 0
	}
	return 1 / interval
}

func (d *daemon) restorePosition() {
	data, err := params.GetParam(params.LAST_VEHICLE_POSITION)
	if err != nil {
		return
	}
	var p bus.Point
	if err := json.Unmarshal(data, &p); err != nil {
		utils.Logde(errors.Wrap(err, "could not parse last vehicle position"))
		return
	}
	if d.world != nil {
		d.world.Vehicle.Teleport(m.Vector3{X: p.X, Y: p.Y, Z: p.Z})
	}
	slog.Debug("restored last vehicle position", "x", p.X, "y", p.Y)
}

func (d *daemon) persistPosition(location m.Vector3) {
	data, err := json.Marshal(bus.Point{X: location.X, Y: location.Y, Z: location.Z})
	if err != nil {
		return
	}
	utils.Logde(errors.Wrap(params.PutParam(params.LAST_VEHICLE_POSITION, data), "could not persist vehicle position"))
}

func (d *daemon) Close() {
	d.sub.Close()
	if d.canVehicle != nil {
		utils.Logwe(errors.Wrap(d.canVehicle.Close(), fmt.Sprintf("could not close %s", settings.Settings.CanInterface)))
	}
}
