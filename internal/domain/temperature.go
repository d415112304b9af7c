package domain

import "math"

const temperatureDecimals = 3

// TemperatureYear is one year of annual temperature extreme indices.
// Naming: TM* = daily mean, TX* = daily max, TN* = daily min; *m/*x/*n =
// annual mean/max/min; *10/*90 = days beyond the baseline decile thresholds
// (counts) and *10P/*90P their share of valid days (percent).
type TemperatureYear struct {
	Year int `json:"year"`

	TMm Metric `json:"TMm"`
	TMx Metric `json:"TMx"`
	TMn Metric `json:"TMn"`
	TXm Metric `json:"TXm"`
	TXx Metric `json:"TXx"`
	TXn Metric `json:"TXn"`
	TNm Metric `json:"TNm"`
	TNx Metric `json:"TNx"`
	TNn Metric `json:"TNn"`

	DTR Metric `json:"DTR"` // mean daily range, days with both extremes valid
	ETR Metric `json:"ETR"` // TXx - TNn

	Tm10P Metric `json:"Tm10P"`
	Tm90P Metric `json:"Tm90P"`
	Tn10P Metric `json:"Tn10P"`
	Tn90P Metric `json:"Tn90P"`
	Tx10P Metric `json:"Tx10P"`
	Tx90P Metric `json:"Tx90P"`
	Tm10  Metric `json:"Tm10"`
	Tm90  Metric `json:"Tm90"`
	Tn10  Metric `json:"Tn10"`
	Tn90  Metric `json:"Tn90"`
	Tx10  Metric `json:"Tx10"`
	Tx90  Metric `json:"Tx90"`

	WSDI Metric `json:"WSDI"` // days in warm spells (tmax > baseline q90, runs >= MinSpellLength)
	CSDI Metric `json:"CSDI"` // days in cold spells (tmin < baseline q10)

	TMaxAvailableDays int `json:"tmax_available_days"`
	TMinAvailableDays int `json:"tmin_available_days"`
	TAveAvailableDays int `json:"tave_available_days"`

	BaselinePeriod string `json:"baseline_period"`
	QCFlag         QCFlag `json:"qc_flag"`
}

// ComputeTemperatureIndices computes the annual temperature extreme index
// table with graceful degradation: whichever of tmax/tmin/tave the record
// carries drives its own index family, absent variables stay NaN, and every
// row reports per-variable availability. Only structural problems return an
// error.
func ComputeTemperatureIndices(s DailySeries, opts Options) ([]TemperatureYear, error) {
	if err := ValidateTemperature(s, opts.StrictTemperatureCheck); err != nil {
		return nil, err
	}

	var thrMax, thrMin, thrAve TemperatureThresholds
	if s.HasTMax {
		thrMax = ResolveTemperatureBaseline(s.Years, s.TMax, opts)
	}
	if s.HasTMin {
		thrMin = ResolveTemperatureBaseline(s.Years, s.TMin, opts)
	}
	if s.HasTAve {
		thrAve = ResolveTemperatureBaseline(s.Years, s.TAve, opts)
	}

	period, baseFlag := temperatureProvenance(s, thrMax, thrMin, thrAve)

	years := distinctYears(s.Years)
	rows := make([]TemperatureYear, 0, len(years))
	for _, year := range years {
		tmax := yearSlice(s.Years, s.TMax, year)
		tmin := yearSlice(s.Years, s.TMin, year)
		tave := yearSlice(s.Years, s.TAve, year)

		row := newTemperatureYear(year, period)
		row.TMaxAvailableDays = countValid(tmax)
		row.TMinAvailableDays = countValid(tmin)
		row.TAveAvailableDays = countValid(tave)

		minValid := opts.MinValidDaysPerYear
		if s.HasTAve {
			row.TMm = yearlyAgg(tave, minValid, safeMean)
			row.TMx = yearlyAgg(tave, minValid, safeMax)
			row.TMn = yearlyAgg(tave, minValid, safeMin)
			row.Tm10P, row.Tm90P, row.Tm10, row.Tm90 = percentileCounts(tave, thrAve)
		}
		if s.HasTMax {
			row.TXm = yearlyAgg(tmax, minValid, safeMean)
			row.TXx = yearlyAgg(tmax, minValid, safeMax)
			row.TXn = yearlyAgg(tmax, minValid, safeMin)
			row.Tx10P, row.Tx90P, row.Tx10, row.Tx90 = percentileCounts(tmax, thrMax)
			row.WSDI = warmSpell(tmax, thrMax, opts.MinSpellLength)
		}
		if s.HasTMin {
			row.TNm = yearlyAgg(tmin, minValid, safeMean)
			row.TNx = yearlyAgg(tmin, minValid, safeMax)
			row.TNn = yearlyAgg(tmin, minValid, safeMin)
			row.Tn10P, row.Tn90P, row.Tn10, row.Tn90 = percentileCounts(tmin, thrMin)
			row.CSDI = coldSpell(tmin, thrMin, opts.MinSpellLength)
		}
		if s.HasTMax && s.HasTMin {
			row.DTR = yearlyAgg(dailyRange(tmax, tmin), minValid, safeMean)
			row.ETR = round3(float64(row.TXx) - float64(row.TNn))
		}

		row.QCFlag = temperatureYearFlag(baseFlag, s, tmax, tmin, tave, opts.MinValidDaysPerYear)
		rows = append(rows, row)
	}
	return rows, nil
}

// newTemperatureYear starts every index at NaN so indices of absent
// variables never read as zero.
func newTemperatureYear(year int, period string) TemperatureYear {
	nan := NaN()
	return TemperatureYear{
		Year: year,
		TMm:  nan, TMx: nan, TMn: nan,
		TXm: nan, TXx: nan, TXn: nan,
		TNm: nan, TNx: nan, TNn: nan,
		DTR: nan, ETR: nan,
		Tm10P: nan, Tm90P: nan, Tn10P: nan, Tn90P: nan, Tx10P: nan, Tx90P: nan,
		Tm10: nan, Tm90: nan, Tn10: nan, Tn90: nan, Tx10: nan, Tx90: nan,
		WSDI: nan, CSDI: nan,
		BaselinePeriod: period,
	}
}

// temperatureProvenance picks the reported baseline period from the
// highest-priority available variable (tmax, then tmin, then tave) and
// folds the per-variable baseline flags to the worst one.
func temperatureProvenance(s DailySeries, thrMax, thrMin, thrAve TemperatureThresholds) (string, QCFlag) {
	period := BaselineInsufficient
	flag := QCOK
	resolved := false

	switch {
	case s.HasTMax:
		period = thrMax.Period
	case s.HasTMin:
		period = thrMin.Period
	case s.HasTAve:
		period = thrAve.Period
	}

	if s.HasTMax {
		flag = WorstFlag(flag, thrMax.Flag)
		resolved = true
	}
	if s.HasTMin {
		flag = WorstFlag(flag, thrMin.Flag)
		resolved = true
	}
	if s.HasTAve {
		flag = WorstFlag(flag, thrAve.Flag)
		resolved = true
	}
	if !resolved {
		flag = QCDataInsufficient
	}
	return period, flag
}

// temperatureYearFlag folds year-level completeness over the variables the
// record actually carries.
func temperatureYearFlag(base QCFlag, s DailySeries, tmax, tmin, tave []float64, minValid int) QCFlag {
	best := 0
	any := false
	if s.HasTMax {
		any = true
		if n := countValid(tmax); n > best {
			best = n
		}
	}
	if s.HasTMin {
		any = true
		if n := countValid(tmin); n > best {
			best = n
		}
	}
	if s.HasTAve {
		any = true
		if n := countValid(tave); n > best {
			best = n
		}
	}
	if !any || best == 0 {
		return WorstFlag(base, QCDataInsufficient)
	}
	if minValid > 0 && best < minValid {
		return WorstFlag(base, QCDataInsufficient)
	}
	return base
}

// yearlyAgg applies a NaN-safe aggregate, gated by the optional per-year
// completeness minimum, and rounds to temperature precision.
func yearlyAgg(values []float64, minValid int, agg func([]float64) float64) Metric {
	n := countValid(values)
	if n == 0 || (minValid > 0 && n < minValid) {
		return NaN()
	}
	return round3(agg(values))
}

// percentileCounts returns (% below q10, % above q90, count below, count
// above) for one year of one variable, NaN across the board when the year
// has no valid data or the thresholds are missing.
func percentileCounts(values []float64, thr TemperatureThresholds) (Metric, Metric, Metric, Metric) {
	valid := validValues(values)
	if len(valid) == 0 || math.IsNaN(thr.P10) || math.IsNaN(thr.P90) {
		return NaN(), NaN(), NaN(), NaN()
	}

	below, above := 0, 0
	for _, v := range valid {
		if v < thr.P10 {
			below++
		}
		if v > thr.P90 {
			above++
		}
	}
	n := float64(len(valid))
	return round3(float64(below) / n * 100),
		round3(float64(above) / n * 100),
		Metric(below),
		Metric(above)
}

func warmSpell(tmax []float64, thr TemperatureThresholds, minLen int) Metric {
	if math.IsNaN(thr.P90) {
		return NaN()
	}
	return SpellDays(tmax, func(v float64) bool { return v > thr.P90 }, minLen)
}

func coldSpell(tmin []float64, thr TemperatureThresholds, minLen int) Metric {
	if math.IsNaN(thr.P10) {
		return NaN()
	}
	return SpellDays(tmin, func(v float64) bool { return v < thr.P10 }, minLen)
}

// dailyRange builds the per-day tmax-tmin series; days lacking either
// extreme are missing.
func dailyRange(tmax, tmin []float64) []float64 {
	out := make([]float64, len(tmax))
	for i := range tmax {
		if math.IsNaN(tmax[i]) || math.IsNaN(tmin[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = tmax[i] - tmin[i]
	}
	return out
}

func round3(v float64) Metric {
	return Metric(roundTo(v, temperatureDecimals))
}
