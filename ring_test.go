package pulsecam

import (
	"math"
	"testing"
)

func TestRollingAverageEmpty(t *testing.T) {
	var r rollingAverage
	if _, ok := r.mean(); ok {
		t.Fatal("mean of empty ring reported ok")
	}
}

func TestRollingAveragePartialFill(t *testing.T) {
	var r rollingAverage
	r.add(1)
	r.add(3)

	avg, ok := r.mean()
	if !ok {
		t.Fatal("mean not ok after two writes")
	}
	if avg != 2 {
		t.Fatalf("avg = %v, want 2", avg)
	}
}

func TestRollingAverageWraps(t *testing.T) {
	var r rollingAverage

	// Fill with 1s, then overwrite every slot with 5s.
	for i := 0; i < avgWindow; i++ {
		r.add(1)
	}
	for i := 0; i < avgWindow; i++ {
		r.add(5)
	}

	avg, ok := r.mean()
	if !ok {
		t.Fatal("mean not ok")
	}
	if avg != 5 {
		t.Fatalf("avg = %v, want 5: old values survived the wrap", avg)
	}
	if r.n != avgWindow {
		t.Fatalf("n = %d, want %d", r.n, avgWindow)
	}
}

func TestRollingAverageLongRunStaysBounded(t *testing.T) {
	var r rollingAverage
	for i := 0; i < 10000; i++ {
		r.add(float64(i%7) + 1)
		avg, ok := r.mean()
		if !ok {
			t.Fatal("mean not ok after add")
		}
		if avg < 1 || avg > 7 || math.IsNaN(avg) {
			t.Fatalf("avg = %v out of [1, 7] at i=%d", avg, i)
		}
	}
	if r.idx < 0 || r.idx >= avgWindow {
		t.Fatalf("cursor %d out of range", r.idx)
	}
}

func TestRollingAverageReset(t *testing.T) {
	var r rollingAverage
	r.add(4)
	r.reset()

	if _, ok := r.mean(); ok {
		t.Fatal("mean ok after reset")
	}
}
