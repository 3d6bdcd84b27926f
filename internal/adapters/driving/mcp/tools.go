package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// CheckInput is the input schema for the check_text tool.
type CheckInput struct {
	Text string `json:"text" jsonschema:"the text to check for grammar and spelling errors"`
}

// CheckOutput is the output schema for the check_text tool.
type CheckOutput struct {
	Findings []FindingOutput `json:"findings"`
	Count    int             `json:"count"`
}

// FindingOutput is one error found in the checked text.
type FindingOutput struct {
	RuleID       string   `json:"rule_id"`
	IssueType    string   `json:"issue_type,omitempty"`
	Message      string   `json:"message"`
	Text         string   `json:"text"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Line         int      `json:"line"`
	Column       int      `json:"column"`
	Replacements []string `json:"replacements,omitempty"`
}

// IgnoreInput is the input schema for the ignore_error tool.
type IgnoreInput struct {
	RuleID string `json:"rule_id" jsonschema:"the rule id reported by check_text"`
	Text   string `json:"text" jsonschema:"the flagged text reported by check_text"`
}

// LedgerOutput reports the ignore list size after a change.
type LedgerOutput struct {
	Ignored int `json:"ignored"`
}

// ClearInput is the (empty) input schema for the clear_ignored tool.
type ClearInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_text",
		Description: "Check text for grammar and spelling errors. Ignored errors are not reported.",
	}, s.handleCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ignore_error",
		Description: "Stop reporting an error with this rule over this text",
	}, s.handleIgnore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_ignored",
		Description: "Forget every ignored error",
	}, s.handleClear)
}

func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	findings, err := s.ports.Check.Check(ctx, input.Text)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	output := CheckOutput{
		Findings: make([]FindingOutput, len(findings)),
		Count:    len(findings),
	}
	for i, f := range findings {
		output.Findings[i] = FindingOutput{
			RuleID:       f.Span.RuleID(),
			IssueType:    f.Span.IssueType(),
			Message:      f.Span.Message,
			Text:         f.Text,
			Offset:       f.Span.Offset,
			Length:       f.Span.Length,
			Line:         f.Line,
			Column:       f.Column,
			Replacements: f.Span.Replacements,
		}
	}
	return nil, output, nil
}

func (s *Server) handleIgnore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IgnoreInput,
) (*mcp.CallToolResult, LedgerOutput, error) {
	ledger, err := s.ledger()
	if err != nil {
		return nil, LedgerOutput{}, err
	}

	ruleID := strings.TrimSpace(input.RuleID)
	if ruleID == "" {
		ruleID = domain.UnknownRuleID
	}
	if err := ledger.Add(ctx, ruleID, input.Text); err != nil {
		return nil, LedgerOutput{}, err
	}
	return nil, LedgerOutput{Ignored: ledger.Count()}, nil
}

func (s *Server) handleClear(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ClearInput,
) (*mcp.CallToolResult, LedgerOutput, error) {
	ledger, err := s.ledger()
	if err != nil {
		return nil, LedgerOutput{}, err
	}
	if err := ledger.Clear(ctx); err != nil {
		return nil, LedgerOutput{}, err
	}
	return nil, LedgerOutput{Ignored: 0}, nil
}

func (s *Server) ledger() (driving.LedgerService, error) {
	if s.ports.Ledger == nil {
		return nil, ErrMissingLedgerService
	}
	return s.ports.Ledger, nil
}
