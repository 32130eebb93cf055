package acc

const (
	msToKmh = 3.6
	kmhToMs = 1 / 3.6

	// vertical offset applied to forward-projected points to aid surface
	// lookups
	lookaheadZOffset = 0.1

	// fixed safe response when a delegate step fails
	delegateFailBrake = 0.3

	// throttle divisor switches to the aggressive value above this error
	largeErrorThresholdKmh = 4.0
	throttleScaleNormal    = 8.0
	throttleScaleLarge     = 15.0
	throttleCapNormal      = 0.7
	throttleCapLarge       = 0.9
	brakeScale             = 10.0
	brakeCap               = 0.8
)

// Config carries the tunable parameters of the controller. Values are
// nominal; the daemon overrides them from persisted settings.
type Config struct {
	MinSpeedKmh       float64
	MaxSpeedKmh       float64
	DefaultTargetKmh  float64
	SpeedIncrementKmh float64

	EmergencyBrakeDistance float64 // m, immediate full brake
	WarningDistance        float64 // m, obstacle-detected flag only
	Lookaheads             []float64
	OffroadDeviationLimit  float64 // m

	Kp            float64
	Ki            float64
	Kd            float64
	IntegralLimit float64
}

func DefaultConfig() Config {
	return Config{
		MinSpeedKmh:       20,
		MaxSpeedKmh:       120,
		DefaultTargetKmh:  60,
		SpeedIncrementKmh: 2,

		EmergencyBrakeDistance: 5,
		WarningDistance:        15,
		Lookaheads:             []float64{2, 4, 6, 8, 12},
		OffroadDeviationLimit:  3,

		Kp:            1.2,
		Ki:            0.15,
		Kd:            0.3,
		IntegralLimit: 20,
	}
}
