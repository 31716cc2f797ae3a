package ppgsim

import (
	"math"
	"testing"

	"github.com/tgarrido/pulsecam"
)

func TestGeneratorDeterministic(t *testing.T) {
	a := New(30, 72, 0.005, 42)
	b := New(30, 72, 0.005, 42)

	for i := 0; i < 300; i++ {
		fa, fb := a.Next(), b.Next()
		if fa != fb {
			t.Fatalf("frame %d differs for identical seeds: %+v vs %+v", i, fa, fb)
		}
	}
}

func TestGeneratorContactToggle(t *testing.T) {
	g := New(30, 72, 0, 1)

	f := g.Next()
	if f.Saturation < 0.5 {
		t.Fatalf("saturation %v with contact, want skin-like signal", f.Saturation)
	}

	g.SetContact(false)
	f = g.Next()
	if f.Saturation > 0.1 {
		t.Fatalf("saturation %v without contact, want washed-out frame", f.Saturation)
	}

	g.SetContact(true)
	f = g.Next()
	if f.Saturation < 0.5 {
		t.Fatalf("saturation %v after recontact, want skin-like signal", f.Saturation)
	}
}

func TestGeneratorTimeAdvances(t *testing.T) {
	g := New(30, 72, 0, 1)

	prev := g.Next().Time
	for i := 0; i < 100; i++ {
		now := g.Next().Time
		if now <= prev {
			t.Fatalf("time went from %v to %v", prev, now)
		}
		prev = now
	}
}

// The generator's whole point: the Monitor must recover the configured rate
// from its frames.
func TestGeneratorDrivesMonitorToConfiguredRate(t *testing.T) {
	const bpm = 72.0

	g := New(30, bpm, 0.003, 7)
	m := pulsecam.New(pulsecam.WithEventBuffer(1024))

	for i := 0; i < 20*30; i++ {
		f := g.Next()
		m.OnFrame(f.Hue, f.Saturation, f.Brightness, f.Time)
	}

	got, err := m.BPM()
	if err != nil {
		t.Fatalf("BPM() error = %v", err)
	}
	if math.Abs(got-bpm) > 2 {
		t.Fatalf("bpm = %v, want %v ± 2", got, bpm)
	}
}
