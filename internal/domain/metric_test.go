package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Metric
		want  string
	}{
		{name: "missing marshals as null", value: NaN(), want: "null"},
		{name: "zero is a real value", value: Metric(0), want: "0"},
		{name: "negative value", value: Metric(-3.5), want: "-3.5"},
		{name: "rounded rainfall depth", value: Metric(1204.3), want: "1204.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMetricUnmarshalJSON(t *testing.T) {
	t.Run("null becomes missing", func(t *testing.T) {
		var m Metric
		require.NoError(t, json.Unmarshal([]byte("null"), &m))
		assert.True(t, m.IsMissing())
	})

	t.Run("number round-trips", func(t *testing.T) {
		var m Metric
		require.NoError(t, json.Unmarshal([]byte("42.5"), &m))
		assert.Equal(t, Metric(42.5), m)
	})
}

func TestMetricIsMissing(t *testing.T) {
	assert.True(t, Metric(math.NaN()).IsMissing())
	assert.False(t, Metric(0).IsMissing())
}
