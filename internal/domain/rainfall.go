package domain

import "math"

// Fixed intensity thresholds (mm/day) for the heavy-rain count family.
const (
	heavyRainThreshold      = 20.0
	veryHeavyRainThreshold  = 50.0
	extremeRainThreshold    = 100.0
	torrentialRainThreshold = 150.0
)

// Output precision, matching the reference implementation.
const (
	rainfallDecimals = 1
	percentDecimals  = 2
)

// RainfallYear is one year of annual rainfall extreme indices. Index field
// tags use the ETCCDI/BMKG column codes so the output table matches the
// established format.
type RainfallYear struct {
	Year int `json:"year"`

	PrecTot     Metric `json:"PRECTOT"`  // annual total (mm)
	WetDays     Metric `json:"HH"`       // days >= wet-day threshold
	DaysOver20  Metric `json:"HH20MM"`   // days >= 20 mm
	DaysOver50  Metric `json:"HH50MM"`   // days >= 50 mm
	DaysOver100 Metric `json:"HH100MM"`  // days >= 100 mm
	DaysOver150 Metric `json:"HH150MM"`  // days >= 150 mm
	FracOver20  Metric `json:"FH20"`     // HH20MM / HH (%)
	FracOver50  Metric `json:"FH50"`     // HH50MM / HH (%)
	FracOver100 Metric `json:"FH100"`    // HH100MM / HH (%)
	FracOver150 Metric `json:"FH150"`    // HH150MM / HH (%)
	R50         Metric `json:"R50"`      // alias of HH50MM, kept for output compatibility
	CDD         Metric `json:"CDD"`      // longest dry run (days)
	CWD         Metric `json:"CWD"`      // longest wet run (days)
	SDII        Metric `json:"SDII"`     // mean depth over wet days (mm/day)
	RX1Day      Metric `json:"RX1DAY"`   // max 1-day depth (mm)
	RX5Day      Metric `json:"RX5DAY"`   // max 5-day sum (mm)
	RX7Day      Metric `json:"RX7DAY"`   // max 7-day sum (mm)
	RX10Day     Metric `json:"RX10DAY"`  // max 10-day sum (mm)
	R95P        Metric `json:"R95P"`     // total from days > baseline q95 (mm)
	R99P        Metric `json:"R99P"`     // total from days > baseline q99 (mm)
	R95PTot     Metric `json:"R95Ptot"`  // R95P / PRECTOT (%)
	R99PTot     Metric `json:"R99Ptot"`  // R99P / PRECTOT (%)

	R95Threshold   Metric `json:"R95p_threshold_mm"`
	R99Threshold   Metric `json:"R99p_threshold_mm"`
	BaselinePeriod string `json:"baseline_period"`
	QCFlag         QCFlag `json:"qc_flag"`
}

// ComputeRainfallIndices computes the annual rainfall extreme index table:
// exactly one row per distinct year in the series, NaN where a year's data
// cannot support an index, with QC and baseline provenance on every row.
// Only structural problems return an error.
func ComputeRainfallIndices(s DailySeries, opts Options) ([]RainfallYear, error) {
	if err := ValidateRainfall(s); err != nil {
		return nil, err
	}

	thresholds := ResolveRainfallBaseline(s.Years, s.Rain, opts)

	years := distinctYears(s.Years)
	rows := make([]RainfallYear, 0, len(years))
	for _, year := range years {
		values := yearSlice(s.Years, s.Rain, year)
		rows = append(rows, rainfallYear(year, values, thresholds, opts))
	}
	return rows, nil
}

func rainfallYear(year int, values []float64, thr RainfallThresholds, opts Options) RainfallYear {
	row := RainfallYear{
		Year:           year,
		PrecTot:        round1(safeSum(values)),
		WetDays:        countDaysAtLeast(values, opts.WetDayThreshold),
		DaysOver20:     countDaysAtLeast(values, heavyRainThreshold),
		DaysOver50:     countDaysAtLeast(values, veryHeavyRainThreshold),
		DaysOver100:    countDaysAtLeast(values, extremeRainThreshold),
		DaysOver150:    countDaysAtLeast(values, torrentialRainThreshold),
		CDD:            MaxRunLength(values, func(v float64) bool { return v < opts.WetDayThreshold }),
		CWD:            MaxRunLength(values, func(v float64) bool { return v >= opts.WetDayThreshold }),
		SDII:           round1(sdii(values, opts.WetDayThreshold)),
		RX1Day:         round1(maxRollingSum(values, 1)),
		RX5Day:         round1(maxRollingSum(values, 5)),
		RX7Day:         round1(maxRollingSum(values, 7)),
		RX10Day:        round1(maxRollingSum(values, 10)),
		R95Threshold:   Metric(thr.R95),
		R99Threshold:   Metric(thr.R99),
		BaselinePeriod: thr.Period,
		QCFlag:         yearFlag(thr.Flag, values, opts.MinValidDaysPerYear),
	}

	row.FracOver20 = fraction(row.DaysOver20, row.WetDays)
	row.FracOver50 = fraction(row.DaysOver50, row.WetDays)
	row.FracOver100 = fraction(row.DaysOver100, row.WetDays)
	row.FracOver150 = fraction(row.DaysOver150, row.WetDays)
	row.R50 = row.DaysOver50

	r95p, r99p := percentileTotals(values, thr, opts.WetDayThreshold)
	row.R95P = round1(r95p)
	row.R99P = round1(r99p)
	row.R95PTot = fraction(row.R95P, row.PrecTot)
	row.R99PTot = fraction(row.R99P, row.PrecTot)

	return row
}

// countDaysAtLeast counts valid days at or above the threshold; NaN when the
// year has no valid observations.
func countDaysAtLeast(values []float64, threshold float64) Metric {
	if allMissing(values) {
		return NaN()
	}
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) && v >= threshold {
			n++
		}
	}
	return Metric(n)
}

// sdii is the Simple Daily Intensity Index: mean depth over wet days.
func sdii(values []float64, wetThreshold float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) || v < wetThreshold {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// percentileTotals sums the depth of wet days exceeding the baseline q95 and
// q99 thresholds. NaN when the year is all missing, has no wet days, or the
// corresponding threshold is NaN.
func percentileTotals(values []float64, thr RainfallThresholds, wetThreshold float64) (float64, float64) {
	if allMissing(values) {
		return math.NaN(), math.NaN()
	}

	var wet []float64
	for _, v := range values {
		if !math.IsNaN(v) && v > wetThreshold {
			wet = append(wet, v)
		}
	}
	if len(wet) == 0 {
		return math.NaN(), math.NaN()
	}

	r95p, r99p := math.NaN(), math.NaN()
	if !math.IsNaN(thr.R95) {
		r95p = 0
		for _, v := range wet {
			if v > thr.R95 {
				r95p += v
			}
		}
	}
	if !math.IsNaN(thr.R99) {
		r99p = 0
		for _, v := range wet {
			if v > thr.R99 {
				r99p += v
			}
		}
	}
	return r95p, r99p
}

// fraction reports num as a percentage of den, NaN unless both are present
// and den is positive.
func fraction(num, den Metric) Metric {
	if num.IsMissing() || den.IsMissing() || float64(den) <= 0 {
		return NaN()
	}
	return Metric(roundTo(float64(num)/float64(den)*100, percentDecimals))
}

func round1(v float64) Metric {
	return Metric(roundTo(v, rainfallDecimals))
}
