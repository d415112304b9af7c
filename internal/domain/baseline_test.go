package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// addYear appends one year's daily values to a parallel years/values pair.
func addYear(years *[]int, values *[]float64, year int, vals ...float64) {
	for _, v := range vals {
		*years = append(*years, year)
		*values = append(*values, v)
	}
}

// rampDays produces n increasing depths starting at 2 mm, all wet.
func rampDays(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 2)
	}
	return out
}

func TestResolveRainfallBaselinePrimary(t *testing.T) {
	var years []int
	var rain []float64
	addYear(&years, &rain, 1995, rampDays(40)...)
	addYear(&years, &rain, 1995, 0, 0, 0.5)

	thr := ResolveRainfallBaseline(years, rain, DefaultOptions())

	assert.Equal(t, "1991-2020", thr.Period)
	assert.Equal(t, QCOK, thr.Flag)
	// Wet pool is 2..41 mm; interpolated order statistics.
	assert.InDelta(t, 39.05, thr.R95, 1e-9)
	assert.InDelta(t, 40.61, thr.R99, 1e-9)
}

func TestResolveRainfallBaselineFallback(t *testing.T) {
	var years []int
	var rain []float64
	addYear(&years, &rain, 1985, rampDays(35)...)
	addYear(&years, &rain, 1995, 2, 3, 4, 5, 6)

	thr := ResolveRainfallBaseline(years, rain, DefaultOptions())

	assert.Equal(t, "1981-2010", thr.Period)
	assert.Equal(t, QCBaselineFallback, thr.Flag)
	assert.False(t, math.IsNaN(thr.R95))
}

func TestResolveRainfallBaselineFullRecord(t *testing.T) {
	var years []int
	var rain []float64
	addYear(&years, &rain, 1955, rampDays(40)...)

	thr := ResolveRainfallBaseline(years, rain, DefaultOptions())

	assert.Equal(t, "1955-1955", thr.Period)
	assert.Equal(t, QCBaselineFallback, thr.Flag)
}

func TestResolveRainfallBaselineExhausted(t *testing.T) {
	var years []int
	var rain []float64
	addYear(&years, &rain, 1995, rampDays(10)...)

	thr := ResolveRainfallBaseline(years, rain, DefaultOptions())

	assert.True(t, math.IsNaN(thr.R95))
	assert.True(t, math.IsNaN(thr.R99))
	assert.Equal(t, BaselineInsufficient, thr.Period)
	assert.Equal(t, QCDataInsufficient, thr.Flag)
}

func TestResolveRainfallBaselineWetDayIsStrict(t *testing.T) {
	var years []int
	var rain []float64
	for i := 0; i < 40; i++ {
		addYear(&years, &rain, 1995, 1.0)
	}

	thr := ResolveRainfallBaseline(years, rain, DefaultOptions())

	// Days at exactly the wet threshold never enter the baseline pool.
	assert.Equal(t, BaselineInsufficient, thr.Period)
	assert.Equal(t, QCDataInsufficient, thr.Flag)
}

func TestResolveTemperatureBaseline(t *testing.T) {
	t.Run("single valid value suffices", func(t *testing.T) {
		years := []int{1995, 1995}
		values := []float64{25.0, math.NaN()}

		thr := ResolveTemperatureBaseline(years, values, DefaultOptions())

		assert.Equal(t, "1991-2020", thr.Period)
		assert.Equal(t, QCOK, thr.Flag)
		assert.InDelta(t, 25.0, thr.P10, 1e-9)
		assert.InDelta(t, 25.0, thr.P90, 1e-9)
	})

	t.Run("all missing exhausts the chain", func(t *testing.T) {
		years := []int{1995, 1996}
		values := []float64{math.NaN(), math.NaN()}

		thr := ResolveTemperatureBaseline(years, values, DefaultOptions())

		assert.True(t, math.IsNaN(thr.P10))
		assert.Equal(t, BaselineInsufficient, thr.Period)
		assert.Equal(t, QCDataInsufficient, thr.Flag)
	})
}
