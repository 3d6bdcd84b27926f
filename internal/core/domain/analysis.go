package domain

// DefaultLanguage is the language tag sent with every analysis request.
const DefaultLanguage = "en-US"

// Provider rule ids disabled by default.
const (
	RuleWhitespace             = "WHITESPACE_RULE"
	RuleUppercaseSentenceStart = "UPPERCASE_SENTENCE_START"
)

// DefaultDisabledRules returns the rules excluded from every analysis request.
func DefaultDisabledRules() []string {
	return []string{RuleWhitespace, RuleUppercaseSentenceStart}
}

// AnalysisRequest is one submission of flattened text to the provider.
type AnalysisRequest struct {
	// Generation increases monotonically per scheduler; only the response
	// for the current generation is applied.
	Generation uint64

	// Text is the flattened document text at request time.
	Text string

	// Language is the language tag (e.g. "en-US").
	Language string

	// DisabledRules are provider rule ids to skip.
	DisabledRules []string
}

// AnalysisOutcome classifies how a completed request was handled.
type AnalysisOutcome string

const (
	// OutcomeApplied means the response replaced the live decorations.
	OutcomeApplied AnalysisOutcome = "applied"

	// OutcomeStale means a newer request superseded the response.
	OutcomeStale AnalysisOutcome = "stale"

	// OutcomeFailed means the provider call failed; prior decorations stay.
	OutcomeFailed AnalysisOutcome = "failed"

	// OutcomeCleared means the text was too short to check and errors were cleared.
	OutcomeCleared AnalysisOutcome = "cleared"
)
