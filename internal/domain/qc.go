package domain

// QCFlag annotates an output row with the weakest data-quality condition
// encountered while producing it.
type QCFlag string

// Reported flags, in ascending severity: OK < BASELINE_FALLBACK <
// DATA_INSUFFICIENT. Underlying signals are not mutually exclusive; a row
// collapses them to the most severe one.
const (
	QCOK               QCFlag = "OK"
	QCBaselineFallback QCFlag = "BASELINE_FALLBACK"
	QCDataInsufficient QCFlag = "DATA_INSUFFICIENT"
)

func (f QCFlag) severity() int {
	switch f {
	case QCDataInsufficient:
		return 2
	case QCBaselineFallback:
		return 1
	default:
		return 0
	}
}

// WorstFlag returns the more severe of two flags.
func WorstFlag(a, b QCFlag) QCFlag {
	if b.severity() > a.severity() {
		return b
	}
	return a
}

// yearFlag folds year-level completeness signals into a baseline-level flag:
// an all-missing year is always DATA_INSUFFICIENT, and a positive minValid
// gate marks short years the same way.
func yearFlag(base QCFlag, values []float64, minValid int) QCFlag {
	valid := countValid(values)
	if valid == 0 {
		return WorstFlag(base, QCDataInsufficient)
	}
	if minValid > 0 && valid < minValid {
		return WorstFlag(base, QCDataInsufficient)
	}
	return base
}
