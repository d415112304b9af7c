package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func wetCond(v float64) bool { return v >= 1.0 }

func TestMaxRunLength(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name   string
		values []float64
		want   Metric
	}{
		{name: "single run", values: []float64{0, 2, 3, 4, 0}, want: 3},
		{name: "longest of several runs", values: []float64{2, 0, 5, 5, 5, 5, 0, 2, 2}, want: 4},
		{name: "missing day breaks the run", values: []float64{2, 2, nan, 2, 2, 2}, want: 3},
		{name: "no qualifying day", values: []float64{0, 0.5, 0}, want: 0},
		{name: "all missing", values: []float64{nan, nan}, want: NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxRunLength(tt.values, wetCond)
			if tt.want.IsMissing() {
				assert.True(t, got.IsMissing())
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpellDays(t *testing.T) {
	nan := math.NaN()
	hot := func(v float64) bool { return v > 25 }

	tests := []struct {
		name   string
		values []float64
		minLen int
		want   Metric
	}{
		{
			name:   "run closed by false boundary still counts",
			values: []float64{30, 30, 30, 30, 30, 30, 30, 10, 30, 30},
			minLen: 6,
			want:   7,
		},
		{
			name:   "missing day splits a would-be spell",
			values: []float64{30, 30, 30, nan, 30, 30, 30, 10, 30, 30},
			minLen: 6,
			want:   0,
		},
		{
			name:   "two qualifying spells accumulate",
			values: []float64{30, 30, 30, 30, 30, 30, 10, 30, 30, 30, 30, 30, 30, 30},
			minLen: 6,
			want:   13,
		},
		{
			name:   "run ending at the series end counts",
			values: []float64{10, 30, 30, 30, 30, 30, 30},
			minLen: 6,
			want:   6,
		},
		{
			name:   "all missing",
			values: []float64{nan, nan, nan},
			minLen: 6,
			want:   NaN(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpellDays(tt.values, hot, tt.minLen)
			if tt.want.IsMissing() {
				assert.True(t, got.IsMissing())
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
