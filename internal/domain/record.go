package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// dateLayout is the wire format for observation dates.
const dateLayout = "2006-01-02"

// RawDay is one day of the flat JSON record produced by the collector.
// A nil field means the observation is missing (absent key or JSON null).
type RawDay struct {
	Date string   `json:"date"`
	Rain *float64 `json:"rain_mm"`
	TMax *float64 `json:"tmax_c"`
	TMin *float64 `json:"tmin_c"`
	TAve *float64 `json:"tave_c"`
}

// RawStationRecord is the wire input: one station's full daily record.
type RawStationRecord struct {
	StationID string   `json:"station_id"`
	Name      string   `json:"name,omitempty"`
	Days      []RawDay `json:"days"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// DailySeries is a date-sorted columnar view of a station's daily record.
// Value slices run parallel to Dates; NaN marks a missing observation.
// A variable whose every wire value was absent is flagged unavailable so
// downstream code can skip its index table entirely.
type DailySeries struct {
	Dates []time.Time
	Years []int
	Rain  []float64
	TMax  []float64
	TMin  []float64
	TAve  []float64

	HasRain bool
	HasTMax bool
	HasTMin bool
	HasTAve bool
}

// Station is the parsed, validated representation of one input message.
type Station struct {
	ID     string
	Name   string
	Series DailySeries
}

// ParseRawStation deserializes and structurally validates a raw station
// message. Dates must parse and be unique; records need not arrive sorted.
// Structural problems return a descriptive error naming the offending field;
// missing observations are not errors.
func ParseRawStation(raw RawEvent) (Station, error) {
	var rec RawStationRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Station{}, fmt.Errorf("parse station record: %w", err)
	}

	if rec.StationID == "" {
		return Station{}, fmt.Errorf("parse station record: missing station_id")
	}
	if len(rec.Days) == 0 {
		return Station{}, fmt.Errorf("parse station record %q: days is empty", rec.StationID)
	}

	type parsedDay struct {
		date time.Time
		day  RawDay
	}

	days := make([]parsedDay, 0, len(rec.Days))
	seen := make(map[time.Time]string, len(rec.Days))
	for i, d := range rec.Days {
		ts, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			return Station{}, fmt.Errorf("parse station record %q: days[%d] has invalid date %q", rec.StationID, i, d.Date)
		}
		if prev, dup := seen[ts]; dup {
			return Station{}, fmt.Errorf("parse station record %q: duplicate date %s", rec.StationID, prev)
		}
		seen[ts] = d.Date
		days = append(days, parsedDay{date: ts, day: d})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	s := DailySeries{
		Dates: make([]time.Time, len(days)),
		Years: make([]int, len(days)),
		Rain:  make([]float64, len(days)),
		TMax:  make([]float64, len(days)),
		TMin:  make([]float64, len(days)),
		TAve:  make([]float64, len(days)),
	}
	for i, pd := range days {
		s.Dates[i] = pd.date
		s.Years[i] = pd.date.Year()
		s.Rain[i] = deref(pd.day.Rain)
		s.TMax[i] = deref(pd.day.TMax)
		s.TMin[i] = deref(pd.day.TMin)
		s.TAve[i] = deref(pd.day.TAve)
		s.HasRain = s.HasRain || pd.day.Rain != nil
		s.HasTMax = s.HasTMax || pd.day.TMax != nil
		s.HasTMin = s.HasTMin || pd.day.TMin != nil
		s.HasTAve = s.HasTAve || pd.day.TAve != nil
	}

	if !s.HasRain && !s.HasTMax && !s.HasTMin && !s.HasTAve {
		return Station{}, fmt.Errorf("parse station record %q: no climate variables present (expected rain_mm, tmax_c, tmin_c, or tave_c)", rec.StationID)
	}

	return Station{ID: rec.StationID, Name: rec.Name, Series: s}, nil
}

func deref(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// distinctYears returns the sorted set of years present in the series.
func distinctYears(years []int) []int {
	seen := make(map[int]struct{}, 8)
	var out []int
	for _, y := range years {
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// yearSlice gathers the values belonging to one calendar year, preserving
// date order. The result is freshly allocated; the input is never mutated.
func yearSlice(years []int, values []float64, year int) []float64 {
	out := make([]float64, 0, 366)
	for i, y := range years {
		if y == year {
			out = append(out, values[i])
		}
	}
	return out
}
