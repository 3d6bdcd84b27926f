package driving

import (
	"context"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// LedgerService manages ignored errors.
type LedgerService interface {
	// IsSuppressed reports whether an error with ruleID over raw text was ignored.
	IsSuppressed(ruleID, raw string) bool

	// Add ignores errors with ruleID over raw text from now on.
	Add(ctx context.Context, ruleID, raw string) error

	// Clear forgets every ignored error.
	Clear(ctx context.Context) error

	// Entries returns the ignored errors, most recent first.
	Entries() []domain.SuppressionEntry

	// Count returns the number of distinct ignored errors.
	Count() int
}
