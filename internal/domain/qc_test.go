package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorstFlag(t *testing.T) {
	assert.Equal(t, QCOK, WorstFlag(QCOK, QCOK))
	assert.Equal(t, QCBaselineFallback, WorstFlag(QCOK, QCBaselineFallback))
	assert.Equal(t, QCDataInsufficient, WorstFlag(QCBaselineFallback, QCDataInsufficient))
	assert.Equal(t, QCDataInsufficient, WorstFlag(QCDataInsufficient, QCOK))
}

func TestYearFlag(t *testing.T) {
	nan := math.NaN()

	t.Run("all-missing year is insufficient", func(t *testing.T) {
		assert.Equal(t, QCDataInsufficient, yearFlag(QCOK, []float64{nan, nan}, 0))
	})

	t.Run("short year passes when the gate is disabled", func(t *testing.T) {
		assert.Equal(t, QCOK, yearFlag(QCOK, []float64{1, 2, 3}, 0))
	})

	t.Run("short year fails an enabled gate", func(t *testing.T) {
		assert.Equal(t, QCDataInsufficient, yearFlag(QCOK, []float64{1, 2, 3}, 300))
	})

	t.Run("baseline flag is preserved", func(t *testing.T) {
		assert.Equal(t, QCBaselineFallback, yearFlag(QCBaselineFallback, []float64{1, 2, 3}, 0))
	})
}
