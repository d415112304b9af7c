package domain

import (
	"math"
	"strconv"
)

// Metric is a single numeric result that may be missing. Missing values are
// carried as NaN in memory and serialized as JSON null, so output tables can
// round-trip through encoding/json (which rejects bare NaN).
type Metric float64

// NaN returns the missing-value sentinel.
func NaN() Metric { return Metric(math.NaN()) }

// IsMissing reports whether the metric carries no value.
func (m Metric) IsMissing() bool { return math.IsNaN(float64(m)) }

func (m Metric) MarshalJSON() ([]byte, error) {
	if m.IsMissing() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(m), 'g', -1, 64), nil
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = NaN()
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*m = Metric(v)
	return nil
}
