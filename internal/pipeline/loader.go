package pipeline

import (
	"context"
	"fmt"

	"github.com/firmanshhh/climate-extreme-indices/internal/domain"
)

// MultiLoader fans a batch out to several destinations in order, typically
// the sink topic plus a relational store. A failing destination fails the
// whole batch so offsets stay uncommitted and the batch is retried.
type MultiLoader struct {
	loaders []BatchLoader
}

// NewMultiLoader combines loaders into one. A single loader is returned
// unwrapped.
func NewMultiLoader(loaders ...BatchLoader) BatchLoader {
	if len(loaders) == 1 {
		return loaders[0]
	}
	return &MultiLoader{loaders: loaders}
}

func (m *MultiLoader) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	for i, l := range m.loaders {
		if err := l.LoadBatch(ctx, events); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}
