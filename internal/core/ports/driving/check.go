package driving

import (
	"context"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// CheckService checks plain text in one shot, outside any editor session.
type CheckService interface {
	// Check analyses text and returns the unsuppressed findings in order.
	// Text shorter than the configured minimum yields no findings.
	Check(ctx context.Context, text string) ([]domain.Finding, error)
}
