// Package ppgsim generates a deterministic synthetic camera PPG stream:
// per-frame hue samples with one systolic peak and a dicrotic bump per
// heartbeat, slow baseline drift, and seeded noise. It is not physiological;
// it exists to exercise the detection pipeline without a camera.
package ppgsim

import (
	"math"
	"math/rand"

	"github.com/tgarrido/pulsecam"
)

// Generator produces frames one at a time at a fixed frame rate.
type Generator struct {
	fs    float64
	bpm   float64
	noise float64

	contact bool
	phase   float64
	n       int
	rng     *rand.Rand
}

// New returns a generator at fs frames per second simulating the given heart
// rate. noise is the peak amplitude of the additive noise (0.0–0.01 is
// realistic for a steady finger). The same seed reproduces the same stream.
func New(fs, bpm, noise float64, seed int64) *Generator {
	return &Generator{
		fs:      fs,
		bpm:     bpm,
		noise:   noise,
		contact: true,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// SetContact simulates placing (true) or lifting (false) the finger. Without
// contact the frames carry low saturation, which fails the Monitor's quality
// gate.
func (g *Generator) SetContact(on bool) {
	g.contact = on
}

// Next returns the next frame and advances time by one frame interval.
func (g *Generator) Next() pulsecam.Frame {
	t := float64(g.n) / g.fs
	g.n++

	if !g.contact {
		// Flash on bare lens: bright but washed out.
		return pulsecam.Frame{Hue: 0.1, Saturation: 0.05, Brightness: 0.9, Time: t}
	}

	g.phase += g.bpm / 60 / g.fs
	if g.phase >= 1 {
		g.phase -= 1
	}

	// Blood volume modulates hue around a red-skin baseline. The dicrotic
	// bump is kept small enough that it cannot clear the detector's
	// hysteresis band and double-count beats.
	systolic := gauss(g.phase, 0.15, 0.08)
	dicrotic := 0.15 * gauss(g.phase, 0.5, 0.1)
	drift := 0.01 * math.Sin(2*math.Pi*0.1*t)
	noise := g.noise * (2*g.rng.Float64() - 1)

	return pulsecam.Frame{
		Hue:        0.55 + drift + 0.04*(systolic+dicrotic) + noise,
		Saturation: 0.8,
		Brightness: 0.6,
		Time:       t,
	}
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}
