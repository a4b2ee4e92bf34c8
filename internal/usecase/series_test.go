package usecase

import (
	"math"
	"testing"
)

func TestSeriesLengthAndShape(t *testing.T) {
	b := NewSeriesBuilder(nil)
	series := b.Build(100, 110)

	if len(series) != SeriesLength {
		t.Fatalf("expected %d points, got %d", SeriesLength, len(series))
	}

	predicted := 0
	for i, pt := range series {
		if pt.Historical == nil {
			t.Fatalf("point %d missing historical value", i)
		}
		if math.IsNaN(*pt.Historical) || math.IsInf(*pt.Historical, 0) {
			t.Fatalf("point %d has non-finite value %v", i, *pt.Historical)
		}
		if pt.Predicted != nil {
			predicted++
			if i != len(series)-1 {
				t.Fatalf("predicted value on point %d, want last only", i)
			}
		}
	}
	if predicted != 1 {
		t.Fatalf("expected exactly one predicted point, got %d", predicted)
	}

	last := series[len(series)-1]
	if *last.Predicted != 110.00 {
		t.Fatalf("expected predicted 110.00, got %v", *last.Predicted)
	}
	if series[0].Label != "Day 1" || last.Label != "Day 35" {
		t.Fatalf("unexpected labels: %s .. %s", series[0].Label, last.Label)
	}
}

func TestSeriesDeterministicWithPinnedNoise(t *testing.T) {
	// noise() == 0.5 zeroes the noise term, so the walk is a pure drift
	// from 95% of lastClose toward predicted.
	b := NewSeriesBuilder(func() float64 { return 0.5 })
	series := b.Build(100, 110)

	// history drift: 95 + i * (110-100)/30
	if got := *series[0].Historical; got != 95.33 {
		t.Fatalf("Day 1: expected 95.33, got %v", got)
	}
	if got := *series[HistoryPoints-1].Historical; got != 105.00 {
		t.Fatalf("Day 30: expected 105.00, got %v", got)
	}

	// forecast drift: +2 per step
	want := []float64{107, 109, 111, 113, 115}
	for i, w := range want {
		got := *series[HistoryPoints+i].Historical
		if got != w {
			t.Fatalf("forecast point %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestSeriesNoiseBounded(t *testing.T) {
	lastClose, predicted := 200.0, 220.0
	b := NewSeriesBuilder(nil)
	series := b.Build(lastClose, predicted)

	trend := (predicted - lastClose) / HistoryPoints
	maxStep := trend + 0.01*lastClose

	prev := lastClose * 0.95
	for i := 0; i < HistoryPoints; i++ {
		cur := *series[i].Historical
		step := math.Abs(cur - prev)
		// rounding slack of one cent
		if step > maxStep+0.01 {
			t.Fatalf("point %d step %v exceeds bound %v", i, step, maxStep)
		}
		prev = cur
	}
}
