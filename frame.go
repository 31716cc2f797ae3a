package pulsecam

// Frame is one frame-source sample. Hue carries the PPG signal; Saturation
// and Brightness feed the Monitor's quality gate. Time is the capture
// timestamp in seconds from any monotonic origin.
type Frame struct {
	Hue        float64
	Saturation float64
	Brightness float64
	Time       float64
}
