package domain

// MaxReplacements caps the number of replacement candidates kept per span.
const MaxReplacements = 5

// UnknownRuleID is the fingerprint rule id used when a span carries no rule.
const UnknownRuleID = "unknown-rule"

// Rule identifies the provider rule that produced a span.
type Rule struct {
	// ID is the provider's rule identifier (e.g. "HE_VERB_AGR").
	ID string

	// Description is a human-readable description of the rule.
	Description string

	// IssueType classifies the issue (e.g. "grammar", "misspelling").
	IssueType string
}

// ErrorSpan is a single match reported by an analysis provider.
// Offsets are flat character offsets into the text that was analysed.
// An ErrorSpan is immutable once received.
type ErrorSpan struct {
	// Offset is the flat index of the first character of the error.
	Offset int

	// Length is the number of characters covered by the error.
	Length int

	// Message describes the problem.
	Message string

	// Replacements are the suggested corrections, best first.
	Replacements []string

	// Rule is the rule that produced the match, if the provider reported one.
	Rule *Rule
}

// RuleID returns the span's rule id, or UnknownRuleID when there is none.
func (s ErrorSpan) RuleID() string {
	if s.Rule == nil || s.Rule.ID == "" {
		return UnknownRuleID
	}
	return s.Rule.ID
}

// IssueType returns the rule's issue type, or the empty string.
func (s ErrorSpan) IssueType() string {
	if s.Rule == nil {
		return ""
	}
	return s.Rule.IssueType
}

// CapReplacements returns at most MaxReplacements candidates.
func CapReplacements(candidates []string) []string {
	if len(candidates) > MaxReplacements {
		return candidates[:MaxReplacements]
	}
	return candidates
}
