package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the daemon's Prometheus instruments, exposed on /metrics.
type Metrics struct {
	FramesTotal   prometheus.Counter
	PulsesTotal   prometheus.Counter
	SessionsTotal prometheus.Counter
	CurrentBPM    prometheus.Gauge
}

// NewMetrics registers the pulsecam instruments on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		FramesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulsecam_frames_total",
			Help: "Frame samples received from the source.",
		}),
		PulsesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulsecam_pulses_total",
			Help: "Heartbeats detected with a valid average.",
		}),
		SessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pulsecam_sessions_total",
			Help: "Measurement sessions started.",
		}),
		CurrentBPM: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pulsecam_bpm",
			Help: "Latest pulse estimate in beats per minute; 0 when no measurement is active.",
		}),
	}
}
