// Package mcp exposes proofmark to AI assistants over the Model Context
// Protocol: checking text, ignoring errors and reading the ignore list.
package mcp

import "errors"

// ErrMissingCheckService is returned when the check service is not provided.
var ErrMissingCheckService = errors.New("mcp: check service is required")

// ErrMissingLedgerService is returned by ledger tools when no ledger is configured.
var ErrMissingLedgerService = errors.New("mcp: ledger service is not configured")
