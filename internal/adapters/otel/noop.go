package otel

import (
	"context"

	"github.com/handora/gamesapi/internal/domain"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) SessionStarted(ctx context.Context, game domain.GameKey) {}

func (e *NoOpExporter) SessionFinished(ctx context.Context, game domain.GameKey, score, totalEvents int) {
}

func (e *NoOpExporter) AnalyzeCompleted(ctx context.Context, outcome string) {}

func (e *NoOpExporter) Close(ctx context.Context) error { return nil }
