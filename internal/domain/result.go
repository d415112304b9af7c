package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// StationResult is the full computed output for one station: both annual
// index tables plus computation provenance.
type StationResult struct {
	StationID   string            `json:"station_id"`
	Name        string            `json:"name,omitempty"`
	Rainfall    []RainfallYear    `json:"rainfall,omitempty"`
	Temperature []TemperatureYear `json:"temperature,omitempty"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ComputeStation runs every index family the station's record supports.
// A record with rainfall only yields a rainfall table, and vice versa;
// data gaps degrade to NaN cells rather than errors.
func ComputeStation(st Station, opts Options) (StationResult, error) {
	result := StationResult{
		StationID:  st.ID,
		Name:       st.Name,
		ComputedAt: clock.Now(),
	}

	if st.Series.HasRain {
		rows, err := ComputeRainfallIndices(st.Series, opts)
		if err != nil {
			return StationResult{}, fmt.Errorf("station %q: %w", st.ID, err)
		}
		result.Rainfall = rows
	}

	if st.Series.HasTMax || st.Series.HasTMin || st.Series.HasTAve {
		rows, err := ComputeTemperatureIndices(st.Series, opts)
		if err != nil {
			return StationResult{}, fmt.Errorf("station %q: %w", st.ID, err)
		}
		result.Temperature = rows
	}

	return result, nil
}

// SerializeResult marshals a result for the sink topic, keyed by station ID
// so all of a station's recomputations land on one partition.
func SerializeResult(r StationResult) (OutputEvent, error) {
	value, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize result for station %q: %w", r.StationID, err)
	}

	return OutputEvent{
		Key:   []byte(r.StationID),
		Value: value,
		Headers: map[string]string{
			"station_id":  r.StationID,
			"computed_at": r.ComputedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}
