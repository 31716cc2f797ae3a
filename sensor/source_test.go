package sensor

import (
	"context"
	"errors"
	"testing"
	"time"
)

// scriptedDevice replays a fixed list of red-channel readings, then fails.
// It tracks power state so tests can check the wake/sleep bracketing.
type scriptedDevice struct {
	reds  []float64
	i     int
	awake bool
}

var (
	errScriptDone = errors.New("script exhausted")
	errAsleep     = errors.New("sampled while shut down")
)

func (d *scriptedDevice) Startup() error {
	d.awake = true
	return nil
}

func (d *scriptedDevice) Shutdown() error {
	d.awake = false
	return nil
}

func (d *scriptedDevice) Sample() (float64, float64, error) {
	if !d.awake {
		return 0, 0, errAsleep
	}
	if d.i >= len(d.reds) {
		return 0, 0, errScriptDone
	}
	red := d.reds[d.i]
	d.i++
	return red, red * 0.9, nil
}

func TestSourceAdaptsSamplesToFrames(t *testing.T) {
	dev := &scriptedDevice{reds: []float64{0.41, 0.42, 0.43}}
	src := newSource(dev)

	done := make(chan error, 1)
	go func() {
		done <- src.Run(context.Background())
	}()

	var got []float64
	var lastTime float64
	for f := range src.Frames() {
		if f.Saturation != 1 {
			t.Fatalf("saturation = %v, want 1", f.Saturation)
		}
		if f.Hue != f.Brightness {
			t.Fatalf("hue %v != brightness %v: red level must feed both", f.Hue, f.Brightness)
		}
		if f.Time < lastTime {
			t.Fatalf("time went backwards: %v after %v", f.Time, lastTime)
		}
		lastTime = f.Time
		got = append(got, f.Hue)
	}

	select {
	case err := <-done:
		if !errors.Is(err, errScriptDone) {
			t.Fatalf("Run error = %v, want script sentinel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after device failure")
	}

	if len(got) != 3 {
		t.Fatalf("got %d frames, want 3", len(got))
	}
	for i, want := range []float64{0.41, 0.42, 0.43} {
		if got[i] != want {
			t.Fatalf("frame %d hue = %v, want %v", i, got[i], want)
		}
	}
	if dev.awake {
		t.Fatal("device left awake after Run returned")
	}
}

// wakeFailDevice refuses to leave power-save mode.
type wakeFailDevice struct{ scriptedDevice }

var errStuckAsleep = errors.New("shutdown bit stuck")

func (d *wakeFailDevice) Startup() error { return errStuckAsleep }

func TestSourceReportsWakeFailure(t *testing.T) {
	src := newSource(&wakeFailDevice{})

	err := src.Run(context.Background())
	if !errors.Is(err, errStuckAsleep) {
		t.Fatalf("Run error = %v, want wake sentinel", err)
	}
	if _, open := <-src.Frames(); open {
		t.Fatal("frame channel left open after wake failure")
	}
}

func TestSourceStopsOnCancel(t *testing.T) {
	// Endless script: cancellation is the only way out.
	dev := &scriptedDevice{reds: make([]float64, 1<<20)}
	src := newSource(dev)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- src.Run(ctx)
	}()

	// Let a few frames through, then cancel.
	<-src.Frames()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if dev.awake {
		t.Fatal("device left awake after cancel")
	}
}
