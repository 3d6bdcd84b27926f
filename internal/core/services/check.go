package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// Ensure CheckService implements the interface.
var _ driving.CheckService = (*CheckService)(nil)

// CheckService checks plain text outside an editor session, for the CLI and
// MCP surfaces. Unlike a session, provider errors are returned to the caller.
type CheckService struct {
	checker  driven.GrammarChecker
	ledger   *SuppressionLedger
	settings domain.CheckerSettings
}

// NewCheckService creates a one-shot check service. ledger may be nil.
func NewCheckService(
	checker driven.GrammarChecker,
	ledger *SuppressionLedger,
	settings domain.CheckerSettings,
) *CheckService {
	if settings.Language == "" {
		settings.Language = domain.DefaultLanguage
	}
	return &CheckService{checker: checker, ledger: ledger, settings: settings}
}

// Check analyses text and returns the unsuppressed findings with their
// line and column.
func (s *CheckService) Check(ctx context.Context, text string) ([]domain.Finding, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < s.settings.MinimumLength {
		return nil, nil
	}

	spans, err := s.checker.Check(ctx, domain.AnalysisRequest{
		Text:          text,
		Language:      s.settings.Language,
		DisabledRules: s.settings.DisabledRules,
	})
	if err != nil {
		return nil, err
	}
	if s.ledger != nil {
		s.ledger.Refresh(ctx)
		spans = s.ledger.Filter(text, spans)
	}

	return locate(text, spans), nil
}

// locate resolves each span to its text and 1-based line and column.
func locate(text string, spans []domain.ErrorSpan) []domain.Finding {
	runes := []rune(text)

	// lineStarts[i] is the rune offset of the first character of line i+1.
	lineStarts := []int{0}
	for i, r := range runes {
		if r == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	findings := make([]domain.Finding, 0, len(spans))
	for _, span := range spans {
		if span.Offset < 0 || span.Offset > len(runes) {
			continue
		}
		line := 0
		for line+1 < len(lineStarts) && lineStarts[line+1] <= span.Offset {
			line++
		}
		findings = append(findings, domain.Finding{
			Span:   span,
			Text:   domain.RuneSubstring(runes, span.Offset, span.Length),
			Line:   line + 1,
			Column: span.Offset - lineStarts[line] + 1,
		})
	}
	return findings
}
