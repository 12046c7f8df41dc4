package ports

import (
	"context"
	"errors"
)

// ErrNotConfigured signals that the analyzer's credential is absent. The
// operation is refused rather than degraded: there is no fallback summary.
var ErrNotConfigured = errors.New("analyzer not configured")

// Analyzer produces a short natural-language summary of session metrics via
// an external language-model service. The call is a blocking round trip;
// implementations must bound it with a timeout.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string, metrics map[string]float64) (string, error)
}
