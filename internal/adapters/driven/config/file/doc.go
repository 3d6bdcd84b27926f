// Package file provides the TOML configuration store kept at
// ~/.proofmark/config.toml.
//
// Keys are addressed in dot notation ("checker.language") and written back
// as nested TOML tables:
//
//	[checker]
//	language = "en-GB"
//	quiet_period_ms = 1500
package file
