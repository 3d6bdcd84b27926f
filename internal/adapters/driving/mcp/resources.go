package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

const uriScheme = "proofmark://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "ignored",
		Name:        "ignored",
		Description: "Errors the user chose to ignore, most recent first",
		MIMEType:    "application/json",
	}, s.handleIgnoredResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "ignored/{ruleId}",
		Name:        "ignored-by-rule",
		Description: "Ignored errors for a single rule",
		MIMEType:    "application/json",
	}, s.handleIgnoredByRuleResource)
}

type ignoredEntry struct {
	RuleID    string `json:"rule_id"`
	Text      string `json:"text"`
	IgnoredAt string `json:"ignored_at"`
}

func (s *Server) handleIgnoredResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return s.ignoredResult(req.Params.URI, "")
}

func (s *Server) handleIgnoredByRuleResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ruleID := extractRuleID(req.Params.URI)
	if ruleID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.ignoredResult(req.Params.URI, ruleID)
}

func (s *Server) ignoredResult(uri, ruleID string) (*mcp.ReadResourceResult, error) {
	var entries []domain.SuppressionEntry
	if s.ports.Ledger != nil {
		entries = s.ports.Ledger.Entries()
	}

	infos := make([]ignoredEntry, 0, len(entries))
	for _, e := range entries {
		if ruleID != "" && e.RuleID != ruleID {
			continue
		}
		infos = append(infos, ignoredEntry{
			RuleID:    e.RuleID,
			Text:      e.Text,
			IgnoredAt: e.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling ignored errors: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRuleID extracts the rule id from proofmark://ignored/{ruleId}.
func extractRuleID(uri string) string {
	const prefix = uriScheme + "ignored/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
