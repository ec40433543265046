// Package refdata loads the category and DMA option lists once at startup
package refdata

import (
	"context"

	"visitsdash/internal/platform/logger"
	"visitsdash/internal/services/dashboard/domain"

	"golang.org/x/sync/errgroup"
)

// Sink receives the loaded lists
type Sink interface {
	LoadReference(ctx context.Context, data domain.ReferenceData) error
}

// Load fetches both lists concurrently. A failed list comes back empty and is
// logged; there is no retry. The result is never nil-sliced
func Load(ctx context.Context, src domain.ReferenceSource) domain.ReferenceData {
	log := logger.Named("refdata")
	var out domain.ReferenceData

	// neither goroutine returns an error so one failure never cancels the other
	var g errgroup.Group
	g.Go(func() error {
		cats, err := src.Categories(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("categories unavailable, filter options left empty")
			return nil
		}
		out.Categories = cats
		return nil
	})
	g.Go(func() error {
		dmas, err := src.DMAs(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("dmas unavailable, filter options left empty")
			return nil
		}
		out.DMAs = dmas
		return nil
	})
	_ = g.Wait()

	if out.Categories == nil {
		out.Categories = []string{}
	}
	if out.DMAs == nil {
		out.DMAs = []string{}
	}
	log.Info().
		Int("categories", len(out.Categories)).
		Int("dmas", len(out.DMAs)).
		Msg("reference data loaded")
	return out
}

// LoadInto loads the lists and hands them to sink
func LoadInto(ctx context.Context, src domain.ReferenceSource, sink Sink) error {
	return sink.LoadReference(ctx, Load(ctx, src))
}
