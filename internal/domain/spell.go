package domain

import "math"

// Spell detection. A spell is a run of consecutive days all satisfying a
// threshold condition. Missing days terminate the current run and are never
// counted as part of one; runs never span year boundaries because callers
// pass one year's values at a time.

// MaxRunLength returns the longest run of consecutive days satisfying cond
// (CDD/CWD semantics). NaN when the year has no valid observations: zero
// means "no qualifying run", not "no data".
func MaxRunLength(values []float64, cond func(float64) bool) Metric {
	missing := true
	longest, run := 0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			run = 0
			continue
		}
		missing = false
		if !cond(v) {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	if missing {
		return NaN()
	}
	return Metric(longest)
}

// SpellDays returns the total number of days belonging to any run of at
// least minLen consecutive days satisfying cond (WSDI/CSDI semantics).
// A run closed by a missing day still counts when long enough. NaN when the
// year has no valid observations; 0 when valid data exists but no run
// reaches minLen.
func SpellDays(values []float64, cond func(float64) bool, minLen int) Metric {
	missing := true
	total, run := 0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			if run >= minLen {
				total += run
			}
			run = 0
			continue
		}
		missing = false
		if !cond(v) {
			if run >= minLen {
				total += run
			}
			run = 0
			continue
		}
		run++
	}
	if run >= minLen {
		total += run
	}
	if missing {
		return NaN()
	}
	return Metric(total)
}
