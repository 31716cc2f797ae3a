package pulsecam

// An Option configures a Monitor at construction time and returns the
// previous setting.
type Option func(m *Monitor) Option

// WithSampleRate sets the nominal frame rate of the source in frames per
// second. The band-pass filter is designed for this rate. Default is 30.
func WithSampleRate(fps float64) Option {
	return func(m *Monitor) Option {
		old := m.sampleRate
		m.sampleRate = fps
		return WithSampleRate(old)
	}
}

// WithQualityGate sets the minimum saturation and brightness a frame must
// exceed to be accepted. Defaults are 0.5 and 0.1. A brightness-only gate
// (for non-camera sources) is expressed with minSaturation = -1.
func WithQualityGate(minSaturation, minBrightness float64) Option {
	return func(m *Monitor) Option {
		oldS, oldB := m.minSaturation, m.minBrightness
		m.minSaturation = minSaturation
		m.minBrightness = minBrightness
		return WithQualityGate(oldS, oldB)
	}
}

// WithWarmup sets how many consecutively accepted frames are required before
// readings are published. Detector state accumulated during warm-up is
// discarded when it completes, so published readings only reflect the settled
// signal. Default is 30 (one second at the default rate).
func WithWarmup(frames int) Option {
	return func(m *Monitor) Option {
		old := m.warmup
		m.warmup = frames
		return WithWarmup(old)
	}
}

// WithEventBuffer sets the capacity of the event channel. Default is 16.
func WithEventBuffer(n int) Option {
	return func(m *Monitor) Option {
		old := m.eventBuffer
		m.eventBuffer = n
		return WithEventBuffer(old)
	}
}
