package pulsecam

// Tuning constants for the crossing detector. The hysteresis fraction, the
// plausible period bounds, and the freshness window are empirically
// calibrated against camera PPG noise; change them only when recalibrating
// for new hardware.
const (
	avgWindow       = 20  // rolling up/down amplitude window
	historySize     = 20  // stored periods
	freshnessWindow = 10  // seconds a stored period stays relevant
	minPeriod       = 0.05
	maxPeriod       = 2.0
	hysteresis      = 0.5
	minPeriodQuorum = 2 // strictly more fresh periods than this are required
)

// Trend classifies a filtered sample relative to the adaptive hysteresis
// band.
type Trend int

const (
	// TrendNeutral means the sample sits inside the hysteresis band, or the
	// detector has not yet seen enough signal to place it.
	TrendNeutral Trend = iota
	// TrendRising means the sample is above half the rolling up-average.
	TrendRising
	// TrendFalling means the sample is below minus half the rolling
	// down-average.
	TrendFalling
)

func (t Trend) String() string {
	switch t {
	case TrendRising:
		return "rising"
	case TrendFalling:
		return "falling"
	default:
		return "neutral"
	}
}

// Detector estimates the dominant period of a zero-centered oscillatory
// signal from one sample at a time. It keeps rolling averages of the positive
// ("up") and negative ("down") excursions and counts a heartbeat each time
// the signal dips below half the down-average and then rises through half the
// up-average. The interval between consecutive such crossings is the period.
//
// A Detector is a single-owner state machine: calls must come from one
// goroutine with non-decreasing timestamps. It never allocates after
// construction and does O(ring capacity) work per call.
type Detector struct {
	up   rollingAverage
	down rollingAverage

	periods periodHistory

	wasDown     bool
	periodStart float64
	started     bool
}

// NewDetector returns a Detector with empty history.
func NewDetector() *Detector {
	return &Detector{}
}

// AddSample feeds one filtered sample taken at time at (seconds, any
// monotonic origin). It updates the amplitude averages, runs the crossing
// logic, and reports where the sample sits relative to the hysteresis band.
//
// A crossing whose elapsed time since the previous crossing falls outside
// (minPeriod, maxPeriod) is not recorded, but still restarts the period
// clock, so one missed or spurious beat cannot desynchronize the ones that
// follow.
func (d *Detector) AddSample(v, at float64) Trend {
	if v > 0 {
		d.up.add(v)
	} else if v < 0 {
		d.down.add(-v)
	}

	avgUp, okUp := d.up.mean()
	avgDown, okDown := d.down.mean()
	if !okUp || !okDown {
		// No reliable amplitude estimate yet; crossing detection stays off.
		return TrendNeutral
	}

	if v < -hysteresis*avgDown {
		d.wasDown = true
	}

	if d.wasDown && v >= hysteresis*avgUp {
		d.wasDown = false

		if d.started {
			elapsed := at - d.periodStart
			if elapsed > minPeriod && elapsed < maxPeriod {
				d.periods.record(elapsed, at)
			}
		}
		d.started = true
		d.periodStart = at
	}

	switch {
	case v > hysteresis*avgUp:
		return TrendRising
	case v < -hysteresis*avgDown:
		return TrendFalling
	}

	return TrendNeutral
}

// AveragePeriod returns the mean of the periods recorded within the
// freshness window before now. ok is false until more than two fresh periods
// exist; callers must treat that as "no data yet", never as a zero period.
func (d *Detector) AveragePeriod(now float64) (period float64, ok bool) {
	return d.periods.average(now)
}

// LastCrossing returns the time of the most recent accepted crossing. ok is
// false if no crossing has been seen since construction or Reset.
func (d *Detector) LastCrossing() (at float64, ok bool) {
	return d.periodStart, d.started
}

// Reset returns the detector to its freshly constructed state. It must not
// race with AddSample; halt sample delivery first.
func (d *Detector) Reset() {
	d.up.reset()
	d.down.reset()
	d.periods.reset()
	d.wasDown = false
	d.periodStart = 0
	d.started = false
}
