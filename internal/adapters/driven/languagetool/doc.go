// Package languagetool implements driven.GrammarChecker against the
// LanguageTool HTTP API (https://languagetool.org/http-api/).
//
// The API reports offsets in UTF-16 code units. The client converts them to
// rune offsets of the submitted text before returning, so callers never see
// provider units.
package languagetool
