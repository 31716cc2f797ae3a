package pulsecam

// rollingAverage keeps the most recent avgWindow values written to it and
// reports their mean. Slots that have never been written are excluded, so the
// mean is meaningful while the ring is still filling.
type rollingAverage struct {
	values [avgWindow]float64
	idx    int
	n      int
}

func (r *rollingAverage) add(v float64) {
	r.values[r.idx] = v
	r.idx++
	r.idx %= len(r.values)
	if r.n < len(r.values) {
		r.n++
	}
}

// mean returns the average of the stored values. ok is false while the ring
// is empty.
func (r *rollingAverage) mean() (avg float64, ok bool) {
	if r.n == 0 {
		return 0, false
	}

	sum := 0.0
	for i := 0; i < r.n; i++ {
		sum += r.values[i]
	}

	return sum / float64(r.n), true
}

func (r *rollingAverage) reset() {
	*r = rollingAverage{}
}
