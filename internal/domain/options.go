package domain

// ETCCDI defaults. Baseline years follow the WMO 2023 recommendation; the
// wet-day depth and minimum baseline wet-day count are tuned for tropical
// records and overridable per call.
const (
	DefaultBaselineStart      = 1991
	DefaultBaselineEnd        = 2020
	DefaultMinWetDaysBaseline = 30
	DefaultWetDayThreshold    = 1.0
	DefaultMinSpellLength     = 6
)

// Options carries every tunable the index engine uses. It is passed
// explicitly to each computation so there is no hidden global state and
// identical (input, options) pairs always produce identical tables.
type Options struct {
	// BaselineStart/BaselineEnd define the primary reference period.
	BaselineStart int
	BaselineEnd   int

	// FallbackPeriods are tried in order when the primary period has
	// insufficient data. The full record period is always appended as the
	// final candidate.
	FallbackPeriods []BaselinePeriod

	// MinWetDaysBaseline is the minimum number of wet days a candidate
	// period must contain before its rainfall percentiles are trusted.
	MinWetDaysBaseline int

	// WetDayThreshold is the daily depth (mm) defining a wet day.
	WetDayThreshold float64

	// MinSpellLength is the minimum consecutive-day run for WSDI/CSDI.
	MinSpellLength int

	// MinValidDaysPerYear, when positive, marks years with fewer valid
	// observations as DATA_INSUFFICIENT and withholds their aggregates.
	// Zero disables the gate: a short but real year still produces indices.
	MinValidDaysPerYear int

	// StrictTemperatureCheck rejects records where tave strays more than
	// 1°C outside [tmin, tmax]. Off by default: observational records
	// routinely carry small inconsistencies.
	StrictTemperatureCheck bool
}

// DefaultOptions returns the standard ETCCDI configuration with the
// 1981-2010 fallback period.
func DefaultOptions() Options {
	return Options{
		BaselineStart:      DefaultBaselineStart,
		BaselineEnd:        DefaultBaselineEnd,
		FallbackPeriods:    []BaselinePeriod{{Start: 1981, End: 2010}},
		MinWetDaysBaseline: DefaultMinWetDaysBaseline,
		WetDayThreshold:    DefaultWetDayThreshold,
		MinSpellLength:     DefaultMinSpellLength,
	}
}

// candidatePeriods returns the ordered fallback chain for a record spanning
// the given years: the primary period, the configured fallbacks, then the
// full record period.
func (o Options) candidatePeriods(years []int) []BaselinePeriod {
	chain := make([]BaselinePeriod, 0, len(o.FallbackPeriods)+2)
	chain = append(chain, BaselinePeriod{Start: o.BaselineStart, End: o.BaselineEnd})
	chain = append(chain, o.FallbackPeriods...)

	if len(years) > 0 {
		full := BaselinePeriod{Start: years[0], End: years[0]}
		for _, y := range years {
			if y < full.Start {
				full.Start = y
			}
			if y > full.End {
				full.End = y
			}
		}
		chain = append(chain, full)
	}
	return chain
}
