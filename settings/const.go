package settings

import (
	"time"
)

const (
	LOOP_DELAY = 50 * time.Millisecond
	MS_TO_KPH  = 3.6
	KPH_TO_MS  = 1 / 3.6

	// forward-velocity dot product above this counts as moving forward
	FORWARD_THRESHOLD = 0.1 // m/s
)
