// Package domain computes ETCCDI-style climate extreme indices from daily
// station series.
//
// # Data Source
//
// Input messages carry one station's full daily record as flat JSON: a list
// of days, each with a date (YYYY-MM-DD) and optional rainfall depth (mm)
// and daily mean/max/min temperatures (°C). An absent or null value means
// the observation is missing for that day. The upstream collector publishes
// one such message per station to the Kafka source topic.
//
// # Missing-data conventions
//
// Missing observations are carried as NaN in memory (the Metric type
// serializes NaN as JSON null). The engine never conflates zero with
// missing:
//
//   - Aggregates (mean, max, min, sum) are computed over the valid subset
//     and are NaN when a year has no valid observations.
//   - Counting indices skip missing days without imputing.
//   - A missing day terminates a spell but is excluded from its length.
//   - A year whose underlying series is entirely missing yields NaN indices,
//     never zero.
//
// # Baseline percentiles
//
// Percentile thresholds (rainfall q95/q99 over wet days, temperature q10/q90)
// are computed from a reference period using linear interpolation between
// order statistics. When the requested period has too little data the engine
// walks an ordered fallback chain (default 1991-2020, then 1981-2010, then
// the full record) and records the period actually used in every output row.
// An exhausted chain produces NaN thresholds and a DATA_INSUFFICIENT flag,
// never an error: batch processing over thousands of stations must not abort
// on one sparse record.
//
// # Wet days
//
// A wet day receives at least the configured depth threshold (default
// 1.0 mm, ETCCDI standard). Following the reference implementation, baseline
// percentile pools and the R95P/R99P day selection use strictly greater-than
// comparisons, while annual wet-day counts, CWD, and SDII use
// greater-or-equal. The threshold and the minimum baseline wet-day count are
// configurable for tropical regions with near-daily precipitation.
package domain
