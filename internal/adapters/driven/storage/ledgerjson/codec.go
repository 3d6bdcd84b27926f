// Package ledgerjson encodes the suppression ledger in its persisted form:
// an ordered JSON list of {"ruleId", "text", "timestamp"} objects, where
// timestamp is milliseconds since the Unix epoch. Every durable ledger
// store keeps this document under domain.LedgerStorageKey.
package ledgerjson

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

type record struct {
	RuleID    string `json:"ruleId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Encode serialises entries in order.
func Encode(entries []domain.SuppressionEntry) ([]byte, error) {
	records := make([]record, len(entries))
	for i, e := range entries {
		records[i] = record{
			RuleID:    e.RuleID,
			Text:      e.Text,
			Timestamp: e.Timestamp.UnixMilli(),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	return data, nil
}

// Decode parses a persisted ledger. Entries that are not objects, lack a
// rule id or text, or carry fields of the wrong type are skipped and
// counted. Empty input is an empty ledger. An error is returned only when
// data is not a JSON list at all.
func Decode(data []byte) (entries []domain.SuppressionEntry, skipped int, err error) {
	if len(data) == 0 {
		return nil, 0, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode ledger: %w", err)
	}

	entries = make([]domain.SuppressionEntry, 0, len(raw))
	for _, item := range raw {
		var r record
		if err := json.Unmarshal(item, &r); err != nil {
			skipped++
			continue
		}
		e := domain.SuppressionEntry{
			RuleID:    r.RuleID,
			Text:      r.Text,
			Timestamp: time.UnixMilli(r.Timestamp).UTC(),
		}
		if !e.IsValid() {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped, nil
}
