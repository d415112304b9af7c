package domain

import (
	"fmt"
	"math"
)

// BaselinePeriod is a closed year range used to compute reference
// percentiles. Once selected it is recorded as provenance and never mutated.
type BaselinePeriod struct {
	Start int
	End   int
}

func (p BaselinePeriod) String() string {
	return fmt.Sprintf("%d-%d", p.Start, p.End)
}

func (p BaselinePeriod) contains(year int) bool {
	return year >= p.Start && year <= p.End
}

// BaselineInsufficient is the provenance string reported when no candidate
// period yields enough data to compute thresholds.
const BaselineInsufficient = "insufficient"

// RainfallThresholds holds the wet-day percentile thresholds actually used
// for R95P/R99P, with their provenance.
type RainfallThresholds struct {
	R95    float64 // mm, NaN when the fallback chain was exhausted
	R99    float64 // mm
	Period string  // "start-end" or "insufficient"
	Flag   QCFlag
}

// TemperatureThresholds holds one variable's baseline percentile thresholds.
type TemperatureThresholds struct {
	P10    float64 // °C, NaN when the fallback chain was exhausted
	P90    float64 // °C
	Period string
	Flag   QCFlag
}

// ResolveRainfallBaseline walks the fallback chain and returns the q95/q99
// wet-day thresholds from the first candidate period holding at least
// opts.MinWetDaysBaseline wet days (strictly above the wet-day threshold).
// It never fails: an exhausted chain yields NaN thresholds and a
// DATA_INSUFFICIENT flag for downstream consumers to propagate.
func ResolveRainfallBaseline(years []int, rain []float64, opts Options) RainfallThresholds {
	for i, period := range opts.candidatePeriods(distinctYears(years)) {
		wet := periodValues(years, rain, period, func(v float64) bool {
			return v > opts.WetDayThreshold
		})
		if len(wet) < opts.MinWetDaysBaseline {
			continue
		}

		flag := QCOK
		if i > 0 {
			flag = QCBaselineFallback
		}
		return RainfallThresholds{
			R95:    quantile(wet, 0.95),
			R99:    quantile(wet, 0.99),
			Period: period.String(),
			Flag:   flag,
		}
	}

	return RainfallThresholds{
		R95:    math.NaN(),
		R99:    math.NaN(),
		Period: BaselineInsufficient,
		Flag:   QCDataInsufficient,
	}
}

// ResolveTemperatureBaseline walks the same fallback chain for one
// temperature variable. Temperature baselines need only one valid
// observation per candidate period.
func ResolveTemperatureBaseline(years []int, values []float64, opts Options) TemperatureThresholds {
	for i, period := range opts.candidatePeriods(distinctYears(years)) {
		valid := periodValues(years, values, period, func(float64) bool { return true })
		if len(valid) == 0 {
			continue
		}

		flag := QCOK
		if i > 0 {
			flag = QCBaselineFallback
		}
		return TemperatureThresholds{
			P10:    quantile(valid, 0.10),
			P90:    quantile(valid, 0.90),
			Period: period.String(),
			Flag:   flag,
		}
	}

	return TemperatureThresholds{
		P10:    math.NaN(),
		P90:    math.NaN(),
		Period: BaselineInsufficient,
		Flag:   QCDataInsufficient,
	}
}

// periodValues gathers the valid values inside a period that satisfy keep.
func periodValues(years []int, values []float64, period BaselinePeriod, keep func(float64) bool) []float64 {
	var out []float64
	for i, y := range years {
		if !period.contains(y) {
			continue
		}
		v := values[i]
		if math.IsNaN(v) || !keep(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
