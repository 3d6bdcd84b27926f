package domain

import "time"

// LedgerStorageKey is the fixed key under which the suppression ledger is persisted.
const LedgerStorageKey = "ignored-grammar-errors-v2"

// Fingerprint identifies a class of suppressed errors.
type Fingerprint struct {
	// RuleID is the provider rule id, or UnknownRuleID.
	RuleID string

	// Text is the lowercased, trimmed error text.
	Text string
}

// SuppressionEntry is one user "ignore" action.
// Entries are stored append-only; the same fingerprint may appear many times.
type SuppressionEntry struct {
	// RuleID is the provider rule id, or UnknownRuleID.
	RuleID string

	// Text is the normalised error text.
	Text string

	// Timestamp is when the error was ignored.
	Timestamp time.Time
}

// Fingerprint returns the entry's fingerprint.
func (e SuppressionEntry) Fingerprint() Fingerprint {
	return Fingerprint{RuleID: e.RuleID, Text: e.Text}
}

// IsValid reports whether the entry has the fields needed for matching.
func (e SuppressionEntry) IsValid() bool {
	return e.RuleID != "" && e.Text != ""
}
