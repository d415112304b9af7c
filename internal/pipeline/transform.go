package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/firmanshhh/climate-extreme-indices/internal/domain"
	"github.com/firmanshhh/climate-extreme-indices/internal/observability"
)

// StationTransformer implements Transformer: parse a raw station record,
// compute both annual index tables, and serialize the result.
type StationTransformer struct {
	opts    domain.Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a StationTransformer computing with the given
// index options.
func NewTransformer(opts domain.Options, logger *slog.Logger, metrics *observability.Metrics) *StationTransformer {
	return &StationTransformer{
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *StationTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	station, err := domain.ParseRawStation(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	start := time.Now()
	result, err := domain.ComputeStation(station, t.opts)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	t.metrics.StationComputeDuration.Observe(time.Since(start).Seconds())

	t.observeResult(result)

	return domain.SerializeResult(result)
}

// observeResult records per-row quality signals so fallback and gap rates
// are visible without reading the sink topic.
func (t *StationTransformer) observeResult(r domain.StationResult) {
	if n := len(r.Rainfall); n > 0 {
		t.metrics.IndexRowsProduced.WithLabelValues("rainfall").Add(float64(n))
	}
	if n := len(r.Temperature); n > 0 {
		t.metrics.IndexRowsProduced.WithLabelValues("temperature").Add(float64(n))
	}

	fellBack := false
	for _, row := range r.Rainfall {
		if row.QCFlag == domain.QCBaselineFallback {
			fellBack = true
		}
		if row.QCFlag == domain.QCDataInsufficient {
			t.metrics.InsufficientRows.Inc()
		}
	}
	for _, row := range r.Temperature {
		if row.QCFlag == domain.QCBaselineFallback {
			fellBack = true
		}
		if row.QCFlag == domain.QCDataInsufficient {
			t.metrics.InsufficientRows.Inc()
		}
	}
	if fellBack {
		t.metrics.BaselineFallbacks.Inc()
		t.logger.Debug("baseline fallback used", "station_id", r.StationID)
	}
}
