package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/tgarrido/pulsecam"
)

// device is the surface Source needs; satisfied by *MAX30102.
type device interface {
	Startup() error
	Sample() (red, ir float64, err error)
	Shutdown() error
}

// Source polls the sensor and republishes its red channel as frames. The red
// level doubles as the brightness gate input: with no finger on the sensor
// it drops well below the Monitor's default 0.1 threshold, ending the
// measurement the same way a lifted finger ends a camera one. Saturation is
// pinned to 1 since the channel has no chroma.
type Source struct {
	dev    device
	frames chan pulsecam.Frame
}

// NewSource wraps an opened sensor.
func NewSource(dev *MAX30102) *Source {
	return newSource(dev)
}

func newSource(dev device) *Source {
	return &Source{
		dev:    dev,
		frames: make(chan pulsecam.Frame, 64),
	}
}

// Frames returns the sample feed. The channel is closed when Run returns.
func (s *Source) Frames() <-chan pulsecam.Frame {
	return s.frames
}

// Run wakes the sensor and polls it until ctx is canceled or a read fails,
// shutting the LEDs down again on exit. Frames are dropped when the consumer
// lags; the next sample supersedes them anyway.
func (s *Source) Run(ctx context.Context) error {
	defer close(s.frames)

	if err := s.dev.Startup(); err != nil {
		return fmt.Errorf("sensor: could not wake device: %w", err)
	}
	defer s.dev.Shutdown()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		red, _, err := s.dev.Sample()
		if err != nil {
			return fmt.Errorf("sensor: source stopped: %w", err)
		}

		f := pulsecam.Frame{
			Hue:        red,
			Saturation: 1,
			Brightness: red,
			Time:       time.Since(start).Seconds(),
		}

		select {
		case s.frames <- f:
		default:
		}
	}
}
