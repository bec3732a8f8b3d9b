package extractor

import (
	"context"
	"log/slog"

	"opportunity-scout/internal/domain/entity"
)

// Noop is an extractor that always returns zero candidates. It is used when
// no AI provider is configured so that crawls still exercise the fetch and
// logging path.
type Noop struct{}

// NewNoop creates a no-op extractor.
func NewNoop() *Noop {
	slog.Warn("Using no-op extractor, crawls will produce no opportunities")
	return &Noop{}
}

func (n *Noop) ParseContentToOpportunities(_ context.Context, _ string, _ int) ([]entity.ParsedOpportunity, error) {
	return nil, nil
}
