package ports

import (
	"context"

	"github.com/handora/gamesapi/internal/domain"
)

// MetricsExporter exports gameplay counters to an external observability
// system. Implementations must never fail the calling operation.
type MetricsExporter interface {
	SessionStarted(ctx context.Context, game domain.GameKey)
	SessionFinished(ctx context.Context, game domain.GameKey, score, totalEvents int)
	AnalyzeCompleted(ctx context.Context, outcome string)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
