package mcp

import (
	"context"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// mockCheckService is a mock implementation of driving.CheckService.
type mockCheckService struct {
	findings []domain.Finding
	err      error
	lastText string
}

func (m *mockCheckService) Check(_ context.Context, text string) ([]domain.Finding, error) {
	m.lastText = text
	return m.findings, m.err
}

// mockLedgerService is a mock implementation of driving.LedgerService.
type mockLedgerService struct {
	entries []domain.SuppressionEntry
	err     error
}

func (m *mockLedgerService) IsSuppressed(ruleID, raw string) bool {
	for _, e := range m.entries {
		if e.RuleID == ruleID && e.Text == raw {
			return true
		}
	}
	return false
}

func (m *mockLedgerService) Add(_ context.Context, ruleID, raw string) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append([]domain.SuppressionEntry{{RuleID: ruleID, Text: raw}}, m.entries...)
	return nil
}

func (m *mockLedgerService) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.entries = nil
	return nil
}

func (m *mockLedgerService) Entries() []domain.SuppressionEntry {
	return m.entries
}

func (m *mockLedgerService) Count() int {
	return len(m.entries)
}
