package pulsecam

import "math"

// Pulse band preserved by the filter, in Hz. 0.7–3.5 Hz covers 42–210 BPM;
// everything below (illumination drift, DC offset of the hue mean) and above
// (frame noise) is attenuated.
const (
	bandLowHz  = 0.7
	bandHighHz = 3.5
)

// Filter is a second-order band-pass recurrence (Direct Form II Transposed)
// with coefficients fixed at construction. Its output is zero-centered: the
// sign tracks the rising/falling phase of the pulse waveform and the
// magnitude its local amplitude, which is exactly what the Detector's
// adaptive hysteresis needs.
type Filter struct {
	b0, b1, b2 float64
	a1, a2     float64

	d0, d1 float64
}

// NewFilter designs the band-pass for the given sample rate (frames per
// second). The first few outputs after construction or Reset are transient
// while the delay line fills; they delay detection but do not corrupt it.
func NewFilter(sampleRate float64) *Filter {
	f0 := math.Sqrt(bandLowHz * bandHighHz)
	q := f0 / (bandHighHz - bandLowHz)

	w0 := 2 * math.Pi * f0 / sampleRate
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha

	return &Filter{
		b0: alpha / a0,
		b1: 0,
		b2: -alpha / a0,
		a1: -2 * math.Cos(w0) / a0,
		a2: (1 - alpha) / a0,
	}
}

// Process filters one raw sample and returns the zero-centered output.
func (f *Filter) Process(x float64) float64 {
	y := f.b0*x + f.d0
	f.d0 = f.b1*x - f.a1*y + f.d1
	f.d1 = f.b2*x - f.a2*y

	return y
}

// Reset clears the delay line.
func (f *Filter) Reset() {
	f.d0 = 0
	f.d1 = 0
}
