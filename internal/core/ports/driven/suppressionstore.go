package driven

import (
	"context"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// SuppressionStore persists the suppression ledger.
// Entries are append-only; duplicates are allowed and resolved by the ledger.
type SuppressionStore interface {
	// Load returns all stored entries in insertion order.
	// A store with nothing persisted returns an empty slice and no error.
	// Malformed entries are skipped.
	Load(ctx context.Context) ([]domain.SuppressionEntry, error)

	// Append adds an entry after all existing entries.
	Append(ctx context.Context, entry domain.SuppressionEntry) error

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
