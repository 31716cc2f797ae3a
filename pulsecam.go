// Package pulsecam estimates heart rate from a camera photoplethysmogram:
// the mean hue of flash-lit skin, sampled once per video frame. A band-pass
// Filter strips illumination drift from the raw hue, and a Detector times the
// zero crossings of the remaining oscillation. The Monitor ties both to a
// frame source, applying a saturation/brightness quality gate and publishing
// pulse readings and lifecycle events.
package pulsecam

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrNoReading is returned when no pulse estimate is available yet: the
	// measurement just started, the quality gate interrupted it, or too few
	// plausible beats have been recorded.
	ErrNoReading = errors.New("pulsecam: no pulse reading available")
)

// EventType labels Monitor lifecycle events.
type EventType int

const (
	// EventMeasurementStarted is emitted on the first frame that passes the
	// quality gate after construction, Reset, or a gate failure.
	EventMeasurementStarted EventType = iota
	// EventPulse is emitted whenever a heartbeat crossing produced a valid
	// average; BPM carries the estimate.
	EventPulse
	// EventMeasurementEnded is emitted when the quality gate fails or Reset
	// is called during an active measurement.
	EventMeasurementEnded
)

// Event is a Monitor notification. Events are delivered on a buffered
// channel and dropped when the consumer falls behind; they are a convenience
// feed, not a reliable log.
type Event struct {
	Type    EventType
	Session string
	BPM     float64
	At      float64
}

// Reading is a published pulse estimate.
type Reading struct {
	BPM     float64
	Period  float64 // seconds per beat
	At      float64 // frame time the estimate was computed at
	Session string
}

// Monitor drives the filter→detector pipeline from per-frame hue samples.
//
// OnFrame and Reset serialize through one mutex; Reading and BPM read an
// atomically published snapshot and never touch live detector state, so they
// are safe to poll from another goroutine (a UI, an HTTP handler) while
// frames are flowing.
type Monitor struct {
	sampleRate    float64
	minSaturation float64
	minBrightness float64
	warmup        int
	eventBuffer   int

	mu       sync.Mutex
	filter   *Filter
	detector *Detector
	streak   int
	active   bool
	session  string
	lastTime float64

	reading atomic.Pointer[Reading]
	events  chan Event
}

// New returns a Monitor configured for a 30 fps frame source unless options
// say otherwise. Options are construction-time only.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		sampleRate:    30,
		minSaturation: 0.5,
		minBrightness: 0.1,
		warmup:        30,
		eventBuffer:   16,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.filter = NewFilter(m.sampleRate)
	m.detector = NewDetector()
	m.events = make(chan Event, m.eventBuffer)

	return m
}

// OnFrame consumes one camera frame sample. hue is the mean hue of the
// frame, saturation and brightness are its quality measures, and t is the
// frame timestamp in seconds (any monotonic origin; must be non-decreasing).
//
// A frame failing the quality gate (finger lifted, flash off) ends the
// current measurement and discards all accumulated state, so the next good
// frame starts a clean session.
func (m *Monitor) OnFrame(hue, saturation, brightness, t float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastTime = t
	if saturation <= m.minSaturation || brightness <= m.minBrightness {
		m.endMeasurement(t)
		return
	}

	if !m.active {
		m.active = true
		m.session = uuid.NewString()
		m.emit(Event{Type: EventMeasurementStarted, Session: m.session, At: t})
	}
	m.streak++
	if m.streak == m.warmup {
		// The band-pass transient from the contact step has decayed by
		// now; amplitudes and periods recorded while it was still
		// ringing must not feed the first published reading.
		m.detector.Reset()
	}

	v := m.filter.Process(hue)
	m.detector.AddSample(v, t)

	// A crossing stamped with this frame's time means a beat landed on this
	// frame.
	if at, ok := m.detector.LastCrossing(); !ok || at != t {
		return
	}
	if m.streak < m.warmup {
		return
	}
	period, ok := m.detector.AveragePeriod(t)
	if !ok {
		return
	}

	r := Reading{
		BPM:     60 / period,
		Period:  period,
		At:      t,
		Session: m.session,
	}
	m.reading.Store(&r)
	m.emit(Event{Type: EventPulse, Session: m.session, BPM: r.BPM, At: t})
}

// Reading returns the latest published pulse estimate, or ErrNoReading when
// none is available.
func (m *Monitor) Reading() (Reading, error) {
	r := m.reading.Load()
	if r == nil {
		return Reading{}, ErrNoReading
	}

	return *r, nil
}

// BPM returns the latest pulse estimate in beats per minute, or ErrNoReading
// when none is available. Callers must not substitute zero for the error
// case.
func (m *Monitor) BPM() (float64, error) {
	r, err := m.Reading()
	if err != nil {
		return 0, err
	}

	return r.BPM, nil
}

// Events returns the lifecycle event feed.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Reset discards all measurement state, leaving the Monitor as freshly
// constructed. If a measurement is active an EventMeasurementEnded is
// emitted, stamped with the time of the last frame seen.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endMeasurement(m.lastTime)
}

// endMeasurement clears pipeline state; callers hold m.mu.
func (m *Monitor) endMeasurement(t float64) {
	if m.active {
		m.emit(Event{Type: EventMeasurementEnded, Session: m.session, At: t})
	}
	m.active = false
	m.session = ""
	m.streak = 0
	m.filter.Reset()
	m.detector.Reset()
	m.reading.Store(nil)
}

// emit delivers without blocking the frame path; a slow consumer loses
// events rather than stalling sample processing.
func (m *Monitor) emit(e Event) {
	select {
	case m.events <- e:
	default:
	}
}
