// Command genstation generates synthetic station fixtures for the test
// suites: a raw daily-record JSON file shaped like the source topic payload,
// and the computed index tables produced by the actual domain package, so
// downstream consumers test against real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genstation \
//	  -stations 5 -start-year 1991 -end-year 2020 -seed 42 \
//	  -raw-out data/mock/raw_stations.json \
//	  -computed-out data/mock/computed_indices.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/firmanshhh/climate-extreme-indices/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	stations := flag.Int("stations", 5, "number of synthetic stations")
	startYear := flag.Int("start-year", 1991, "first year of daily data")
	endYear := flag.Int("end-year", 2020, "last year of daily data")
	seed := flag.Int64("seed", 42, "random seed for reproducible fixtures")
	rawOut := flag.String("raw-out", "", "output path for the raw station JSON fixture")
	computedOut := flag.String("computed-out", "", "output path for the computed index JSON fixture")
	flag.Parse()

	if *rawOut == "" || *computedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -computed-out")
	}
	if *startYear > *endYear {
		return fmt.Errorf("start-year %d is after end-year %d", *startYear, *endYear)
	}

	// Fix the clock for reproducible computed_at timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.January, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rng := rand.New(rand.NewSource(*seed))
	opts := domain.DefaultOptions()

	records := make([]domain.RawStationRecord, 0, *stations)
	results := make([]domain.StationResult, 0, *stations)

	for i := 0; i < *stations; i++ {
		rec := generateStation(rng, i, *startYear, *endYear)
		records = append(records, rec)

		value, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal station %s: %w", rec.StationID, err)
		}
		station, err := domain.ParseRawStation(domain.RawEvent{Value: value})
		if err != nil {
			return fmt.Errorf("parse station %s: %w", rec.StationID, err)
		}
		result, err := domain.ComputeStation(station, opts)
		if err != nil {
			return fmt.Errorf("compute station %s: %w", rec.StationID, err)
		}
		results = append(results, result)
		log.Printf("%s: %d days, %d rainfall rows, %d temperature rows",
			rec.StationID, len(rec.Days), len(result.Rainfall), len(result.Temperature))
	}

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*computedOut, results); err != nil {
		return fmt.Errorf("writing computed fixture: %w", err)
	}
	log.Printf("wrote computed fixture: %s", *computedOut)

	printStats(results)
	return nil
}

// generateStation builds one station's daily record with a wet/dry seasonal
// rainfall cycle, correlated temperatures, and a few percent of missing days.
func generateStation(rng *rand.Rand, idx, startYear, endYear int) domain.RawStationRecord {
	id := fmt.Sprintf("967%02d", 45+idx)
	var days []domain.RawDay

	date := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	for !date.After(end) {
		day := domain.RawDay{Date: date.Format("2006-01-02")}

		// Wet season peaks around the turn of the year.
		doy := float64(date.YearDay())
		wetness := 0.55 + 0.35*math.Cos(2*math.Pi*doy/365.25)

		if rng.Float64() > 0.03 { // ~3% missing rainfall days
			rain := 0.0
			if rng.Float64() < wetness {
				rain = math.Round(rng.ExpFloat64()*12*10) / 10
			}
			day.Rain = &rain
		}

		if rng.Float64() > 0.02 { // ~2% missing temperature days
			tmin := 22.0 + rng.NormFloat64()*1.5
			tmax := tmin + 7 + rng.NormFloat64()*2
			tave := (tmax + tmin) / 2
			day.TMin = round1p(tmin)
			day.TMax = round1p(tmax)
			day.TAve = round1p(tave)
		}

		days = append(days, day)
		date = date.AddDate(0, 0, 1)
	}

	return domain.RawStationRecord{
		StationID: id,
		Name:      fmt.Sprintf("Synthetic Station %d", idx+1),
		Days:      days,
	}
}

func round1p(v float64) *float64 {
	r := math.Round(v*10) / 10
	return &r
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(results []domain.StationResult) {
	flagCounts := map[domain.QCFlag]int{}
	totalRain, totalTemp := 0, 0
	for _, r := range results {
		totalRain += len(r.Rainfall)
		totalTemp += len(r.Temperature)
		for _, row := range r.Rainfall {
			flagCounts[row.QCFlag]++
		}
		for _, row := range r.Temperature {
			flagCounts[row.QCFlag]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Stations: %d\n", len(results))
	fmt.Printf("Rainfall rows: %d, temperature rows: %d\n", totalRain, totalTemp)
	fmt.Printf("QC flags: OK=%d, BASELINE_FALLBACK=%d, DATA_INSUFFICIENT=%d\n",
		flagCounts[domain.QCOK], flagCounts[domain.QCBaselineFallback], flagCounts[domain.QCDataInsufficient])
}
