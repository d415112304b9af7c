// Command validate performs offline integrity checks on station fixtures:
// it recomputes index tables from the raw daily records and compares them
// against the computed fixture, then checks structural invariants on every
// annual row.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw-json data/mock/raw_stations.json \
//	  -computed-json data/mock/computed_indices.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/firmanshhh/climate-extreme-indices/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawJSON := flag.String("raw-json", "", "path to the raw station JSON fixture")
	computedJSON := flag.String("computed-json", "", "path to the computed index JSON fixture")
	flag.Parse()

	if *rawJSON == "" || *computedJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawJSON, *computedJSON); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, computedPath string) int {
	// Match the genstation clock so computed_at round-trips exactly.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.January, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Climate Index Fixture Validation ===")
	fmt.Println()

	records, err := loadJSON[domain.RawStationRecord](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}
	computed, err := loadJSON[domain.StationResult](computedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load computed JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRecomputeParity(records, computed),
		validateRowInvariants(computed),
		validateDeterminism(records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw stations, %d computed results\n", len(records), len(computed))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// computeRecord runs the full domain computation for one raw record.
func computeRecord(rec domain.RawStationRecord) (domain.StationResult, error) {
	value, err := json.Marshal(rec)
	if err != nil {
		return domain.StationResult{}, fmt.Errorf("marshal: %w", err)
	}
	station, err := domain.ParseRawStation(domain.RawEvent{Value: value})
	if err != nil {
		return domain.StationResult{}, fmt.Errorf("parse: %w", err)
	}
	return domain.ComputeStation(station, domain.DefaultOptions())
}

// resultJSON is the comparison form; NaN cells survive as nulls.
func resultJSON(r domain.StationResult) (string, error) {
	data, err := json.Marshal(r)
	return string(data), err
}

// ── Phase 1: Recompute Parity ──
// Recomputes every station from the raw fixture and compares the wire form
// against the computed fixture.

func validateRecomputeParity(records []domain.RawStationRecord, computed []domain.StationResult) *phase {
	p := &phase{name: "Phase 1: Recompute Parity"}

	byStation := make(map[string]domain.StationResult, len(computed))
	for _, r := range computed {
		byStation[r.StationID] = r
	}

	for _, rec := range records {
		fresh, err := computeRecord(rec)
		if err != nil {
			p.errorf("station %s: %v", rec.StationID, err)
			continue
		}

		stored, ok := byStation[rec.StationID]
		if !ok {
			p.errorf("station %s: missing from computed fixture", rec.StationID)
			continue
		}

		freshJSON, err := resultJSON(fresh)
		if err != nil {
			p.errorf("station %s: encode fresh result: %v", rec.StationID, err)
			continue
		}
		storedJSON, err := resultJSON(stored)
		if err != nil {
			p.errorf("station %s: encode stored result: %v", rec.StationID, err)
			continue
		}
		if freshJSON != storedJSON {
			p.errorf("station %s: recomputed result differs from fixture", rec.StationID)
		}
	}

	if len(computed) != len(records) {
		p.errorf("fixture count: %d raw stations, %d computed results", len(records), len(computed))
	}
	return p
}

// ── Phase 2: Row Invariants ──
// Structural checks every annual row must satisfy regardless of input.

var validFlags = map[domain.QCFlag]bool{
	domain.QCOK:               true,
	domain.QCBaselineFallback: true,
	domain.QCDataInsufficient: true,
}

func validateRowInvariants(computed []domain.StationResult) *phase {
	p := &phase{name: "Phase 2: Row Invariants"}

	for _, r := range computed {
		checkYearUniqueness(p, r)
		for _, row := range r.Rainfall {
			checkRainfallRow(p, r.StationID, row)
		}
		for _, row := range r.Temperature {
			checkTemperatureRow(p, r.StationID, row)
		}
	}
	return p
}

func checkYearUniqueness(p *phase, r domain.StationResult) {
	seen := map[int]bool{}
	for _, row := range r.Rainfall {
		if seen[row.Year] {
			p.errorf("station %s: duplicate rainfall year %d", r.StationID, row.Year)
		}
		seen[row.Year] = true
	}
	seen = map[int]bool{}
	for _, row := range r.Temperature {
		if seen[row.Year] {
			p.errorf("station %s: duplicate temperature year %d", r.StationID, row.Year)
		}
		seen[row.Year] = true
	}
}

func checkRainfallRow(p *phase, station string, row domain.RainfallYear) {
	id := fmt.Sprintf("station %s rainfall %d", station, row.Year)

	if !validFlags[row.QCFlag] {
		p.errorf("%s: invalid qc_flag %q", id, row.QCFlag)
	}
	if row.BaselinePeriod == "" {
		p.errorf("%s: empty baseline_period", id)
	}
	checkDayCount(p, id, "HH", row.WetDays)
	checkDayCount(p, id, "CDD", row.CDD)
	checkDayCount(p, id, "CWD", row.CWD)
	checkPercent(p, id, "FH20", row.FracOver20)
	checkPercent(p, id, "R95Ptot", row.R95PTot)
	checkPercent(p, id, "R99Ptot", row.R99PTot)

	if !row.PrecTot.IsMissing() && float64(row.PrecTot) < 0 {
		p.errorf("%s: negative PRECTOT %.1f", id, float64(row.PrecTot))
	}
	if row.R50 != row.DaysOver50 && !(row.R50.IsMissing() && row.DaysOver50.IsMissing()) {
		p.errorf("%s: R50 diverges from HH50MM", id)
	}
}

func checkTemperatureRow(p *phase, station string, row domain.TemperatureYear) {
	id := fmt.Sprintf("station %s temperature %d", station, row.Year)

	if !validFlags[row.QCFlag] {
		p.errorf("%s: invalid qc_flag %q", id, row.QCFlag)
	}
	if row.BaselinePeriod == "" {
		p.errorf("%s: empty baseline_period", id)
	}
	checkDayCount(p, id, "WSDI", row.WSDI)
	checkDayCount(p, id, "CSDI", row.CSDI)
	checkPercent(p, id, "Tx90P", row.Tx90P)
	checkPercent(p, id, "Tn10P", row.Tn10P)

	if !row.TXx.IsMissing() && !row.TXn.IsMissing() && float64(row.TXx) < float64(row.TXn) {
		p.errorf("%s: TXx %.3f below TXn %.3f", id, float64(row.TXx), float64(row.TXn))
	}
	if !row.ETR.IsMissing() && float64(row.ETR) < 0 {
		p.errorf("%s: negative ETR %.3f", id, float64(row.ETR))
	}
}

func checkDayCount(p *phase, id, name string, m domain.Metric) {
	if m.IsMissing() {
		return
	}
	v := float64(m)
	if v < 0 || v > 366 {
		p.errorf("%s: %s=%g outside [0, 366]", id, name, v)
	}
}

func checkPercent(p *phase, id, name string, m domain.Metric) {
	if m.IsMissing() {
		return
	}
	v := float64(m)
	if v < 0 || v > 100 {
		p.errorf("%s: %s=%g outside [0, 100]", id, name, v)
	}
}

// ── Phase 3: Determinism ──
// The same input must produce byte-identical output on every run.

func validateDeterminism(records []domain.RawStationRecord) *phase {
	p := &phase{name: "Phase 3: Determinism"}

	for _, rec := range records {
		first, err := computeRecord(rec)
		if err != nil {
			p.errorf("station %s: %v", rec.StationID, err)
			continue
		}
		second, err := computeRecord(rec)
		if err != nil {
			p.errorf("station %s: %v", rec.StationID, err)
			continue
		}

		a, err := resultJSON(first)
		if err != nil {
			p.errorf("station %s: %v", rec.StationID, err)
			continue
		}
		b, err := resultJSON(second)
		if err != nil {
			p.errorf("station %s: %v", rec.StationID, err)
			continue
		}
		if a != b {
			p.errorf("station %s: two runs produced different output", rec.StationID)
		}
	}
	return p
}
