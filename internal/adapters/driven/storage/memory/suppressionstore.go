package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// Ensure SuppressionStore implements the interface.
var _ driven.SuppressionStore = (*SuppressionStore)(nil)

// SuppressionStore keeps the ledger for the lifetime of the process.
type SuppressionStore struct {
	mu      sync.Mutex
	entries []domain.SuppressionEntry
}

// NewSuppressionStore creates a store holding a copy of initial.
func NewSuppressionStore(initial ...domain.SuppressionEntry) *SuppressionStore {
	return &SuppressionStore{entries: append([]domain.SuppressionEntry(nil), initial...)}
}

// Load returns a copy of the stored entries in insertion order.
func (s *SuppressionStore) Load(_ context.Context) ([]domain.SuppressionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SuppressionEntry(nil), s.entries...), nil
}

// Append adds entry to the end of the ledger.
func (s *SuppressionStore) Append(_ context.Context, entry domain.SuppressionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Clear removes all entries.
func (s *SuppressionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
