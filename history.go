package pulsecam

// periodSample is one accepted inter-crossing interval and the time it was
// recorded at.
type periodSample struct {
	length float64
	at     float64
}

// periodHistory is a fixed ring of the most recent accepted periods. Entries
// are only overwritten, never removed; freshness is applied at read time.
type periodHistory struct {
	samples [historySize]periodSample
	idx     int
	n       int
}

func (h *periodHistory) record(length, at float64) {
	h.samples[h.idx] = periodSample{length: length, at: at}
	h.idx++
	h.idx %= len(h.samples)
	if h.n < len(h.samples) {
		h.n++
	}
}

// average returns the mean of the stored periods recorded within the
// freshness window before now. It needs more than two fresh entries before it
// reports ok, so a couple of early crossings cannot masquerade as a stable
// reading.
func (h *periodHistory) average(now float64) (avg float64, ok bool) {
	sum := 0.0
	count := 0
	for i := 0; i < h.n; i++ {
		if now-h.samples[i].at >= freshnessWindow {
			continue
		}
		sum += h.samples[i].length
		count++
	}

	if count <= minPeriodQuorum {
		return 0, false
	}

	return sum / float64(count), true
}

func (h *periodHistory) reset() {
	*h = periodHistory{}
}
