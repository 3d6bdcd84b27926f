package mcp

import (
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Check analyses text.
	Check driving.CheckService

	// Ledger manages ignored errors. Optional; ledger tools fail without it.
	Ledger driving.LedgerService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Check == nil {
		return ErrMissingCheckService
	}
	return nil
}
