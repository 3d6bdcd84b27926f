package driven

import (
	"context"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// GrammarChecker submits text to an analysis provider.
type GrammarChecker interface {
	// Check analyses req.Text and returns the matches in provider order.
	// Offsets and lengths are in code points of req.Text.
	// Transport failures wrap domain.ErrProviderUnavailable; non-2xx statuses
	// and undecodable bodies wrap domain.ErrProviderResponse.
	Check(ctx context.Context, req domain.AnalysisRequest) ([]domain.ErrorSpan, error)
}

// ResultCache stores provider results keyed by request content.
type ResultCache interface {
	// Get returns cached spans. found is false on a miss.
	Get(ctx context.Context, key string) (spans []domain.ErrorSpan, found bool, err error)

	// Put stores spans under key.
	Put(ctx context.Context, key string, spans []domain.ErrorSpan) error
}
