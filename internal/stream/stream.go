// Package stream carries pulsecam frames and pulse readings over NATS.
// Frames travel as fixed-width little-endian batches on SubjectFrames; pulse
// readings travel as JSON on SubjectPulse.
package stream

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects used by the daemon and the simulator.
const (
	SubjectFrames = "ppg.frames"
	SubjectPulse  = "ppg.pulse"
)

// Connect dials NATS with aggressive reconnection, suitable for a sensor
// pipeline that should ride out broker restarts.
func Connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name(name),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// PulseMsg is the JSON payload published on SubjectPulse for every detected
// beat with a valid average.
type PulseMsg struct {
	Session string  `json:"session"`
	Ts      int64   `json:"ts"` // wall clock, unix milliseconds
	At      float64 `json:"at"` // frame time the reading was computed at
	BPM     float64 `json:"bpm"`
}
