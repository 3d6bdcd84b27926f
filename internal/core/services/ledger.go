package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
	"github.com/custodia-labs/proofmark/internal/logger"
)

// Ensure SuppressionLedger implements the interface.
var _ driving.LedgerService = (*SuppressionLedger)(nil)

var ledgerLog = logger.For("ledger")

// NormalizeText returns the fingerprint form of raw error text:
// trimmed, lowercased and NFC-normalised.
func NormalizeText(raw string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(raw)))
}

// FingerprintOf computes the fingerprint of an error occurrence.
func FingerprintOf(ruleID, raw string) domain.Fingerprint {
	if ruleID == "" {
		ruleID = domain.UnknownRuleID
	}
	return domain.Fingerprint{RuleID: ruleID, Text: NormalizeText(raw)}
}

// SuppressionLedger is the read-through cache of ignored error fingerprints.
// It is safe for concurrent use.
type SuppressionLedger struct {
	store driven.SuppressionStore
	clock driven.Clock

	mu      sync.RWMutex
	entries []domain.SuppressionEntry
	// writes counts Add and Clear calls so a Load that raced one of them
	// does not overwrite it.
	writes uint64
}

// NewSuppressionLedger creates an empty ledger backed by store.
// Call Load to read persisted entries.
func NewSuppressionLedger(store driven.SuppressionStore, clock driven.Clock) *SuppressionLedger {
	return &SuppressionLedger{store: store, clock: clock}
}

// Load replaces the in-memory entries with the persisted ones, picking up
// entries other processes added since the last load. Invalid entries are
// skipped and stored text is normalised like new fingerprints.
func (l *SuppressionLedger) Load(ctx context.Context) error {
	l.mu.RLock()
	writes := l.writes
	l.mu.RUnlock()

	stored, err := l.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load suppression ledger: %w", err)
	}

	entries := make([]domain.SuppressionEntry, 0, len(stored))
	for _, e := range stored {
		if !e.IsValid() {
			ledgerLog.Debug("skipping malformed entry %+v", e)
			continue
		}
		e.Text = NormalizeText(e.Text)
		if e.Text == "" {
			continue
		}
		entries = append(entries, e)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writes != writes {
		ledgerLog.Debug("ledger changed during load, keeping current entries")
		return nil
	}
	l.entries = entries
	ledgerLog.Debug("loaded %d entries", len(entries))
	return nil
}

// Refresh reloads the ledger, keeping the current entries when the store
// cannot be read.
func (l *SuppressionLedger) Refresh(ctx context.Context) {
	if err := l.Load(ctx); err != nil {
		ledgerLog.Debug("refresh failed, keeping %d entries: %v", l.Count(), err)
	}
}

// IsSuppressed reports whether an error with ruleID over raw text was ignored.
//
// The match is deliberately fuzzy: an entry matches when its rule id is equal
// and either normalised text contains the other, so small differences in the
// surrounding context between analysis passes still match.
func (l *SuppressionLedger) IsSuppressed(ruleID, raw string) bool {
	fp := FingerprintOf(ruleID, raw)

	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.entries {
		if e.RuleID != fp.RuleID {
			continue
		}
		if strings.Contains(fp.Text, e.Text) || strings.Contains(e.Text, fp.Text) {
			return true
		}
	}
	return false
}

// Add records that the error with ruleID over raw text was ignored and
// appends it to the store. Empty text cannot be suppressed.
func (l *SuppressionLedger) Add(ctx context.Context, ruleID, raw string) error {
	fp := FingerprintOf(ruleID, raw)
	if fp.Text == "" {
		return fmt.Errorf("suppress %s: empty text: %w", fp.RuleID, domain.ErrInvalidInput)
	}

	entry := domain.SuppressionEntry{
		RuleID:    fp.RuleID,
		Text:      fp.Text,
		Timestamp: l.clock.Now(),
	}

	if err := l.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("persist suppression: %w", err)
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.writes++
	l.mu.Unlock()

	ledgerLog.Debug("ignored %s %q", entry.RuleID, entry.Text)
	return nil
}

// Clear forgets every suppression. The caller starts a fresh analysis cycle.
func (l *SuppressionLedger) Clear(ctx context.Context) error {
	if err := l.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear suppressions: %w", err)
	}

	l.mu.Lock()
	l.entries = nil
	l.writes++
	l.mu.Unlock()
	return nil
}

// Entries returns one entry per fingerprint, carrying its latest timestamp,
// ordered by most recent write.
func (l *SuppressionLedger) Entries() []domain.SuppressionEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[domain.Fingerprint]bool, len(l.entries))
	out := make([]domain.SuppressionEntry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if seen[e.Fingerprint()] {
			continue
		}
		seen[e.Fingerprint()] = true
		out = append(out, e)
	}
	return out
}

// Count returns the number of distinct suppressed fingerprints.
func (l *SuppressionLedger) Count() int {
	return len(l.Entries())
}

// Filter drops spans whose text in analysed is suppressed.
// analysed must be the exact text the spans were computed for.
func (l *SuppressionLedger) Filter(analysed string, spans []domain.ErrorSpan) []domain.ErrorSpan {
	if len(spans) == 0 {
		return spans
	}

	runes := []rune(analysed)
	kept := make([]domain.ErrorSpan, 0, len(spans))
	for _, span := range spans {
		text := domain.RuneSubstring(runes, span.Offset, span.Length)
		if l.IsSuppressed(span.RuleID(), text) {
			ledgerLog.Debug("suppressed %s %q", span.RuleID(), text)
			continue
		}
		kept = append(kept, span)
	}
	return kept
}
