package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorSpan_RuleID(t *testing.T) {
	assert.Equal(t, UnknownRuleID, ErrorSpan{}.RuleID())
	assert.Equal(t, UnknownRuleID, ErrorSpan{Rule: &Rule{}}.RuleID())
	assert.Equal(t, "HE_VERB_AGR", ErrorSpan{Rule: &Rule{ID: "HE_VERB_AGR"}}.RuleID())
}

func TestErrorSpan_IssueType(t *testing.T) {
	span := ErrorSpan{Offset: 2, Length: 2, Rule: &Rule{IssueType: "grammar"}}
	assert.Equal(t, "grammar", span.IssueType())
	assert.Empty(t, ErrorSpan{}.IssueType())
}

func TestCapReplacements(t *testing.T) {
	assert.Len(t, CapReplacements([]string{"a", "b"}), 2)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"},
		CapReplacements([]string{"1", "2", "3", "4", "5", "6", "7"}))
	assert.Nil(t, CapReplacements(nil))
}

func TestRuneSubstring(t *testing.T) {
	runes := []rune("naïve café")

	assert.Equal(t, "ïve", RuneSubstring(runes, 2, 3))
	assert.Equal(t, "café", RuneSubstring(runes, 6, 10), "clamped to the end")
	assert.Empty(t, RuneSubstring(runes, 10, 1))
	assert.Empty(t, RuneSubstring(runes, -1, 2))
}

func TestSuppressionEntry(t *testing.T) {
	e := SuppressionEntry{RuleID: "R", Text: "is"}
	assert.True(t, e.IsValid())
	assert.Equal(t, Fingerprint{RuleID: "R", Text: "is"}, e.Fingerprint())
	assert.False(t, SuppressionEntry{RuleID: "R"}.IsValid())
}

func TestFocusState_IsSettling(t *testing.T) {
	assert.True(t, FocusReplacing.IsSettling())
	assert.True(t, FocusIgnoring.IsSettling())
	assert.False(t, FocusFocused.IsSettling())
	assert.Equal(t, "hovering", FocusHovering.String())
}
