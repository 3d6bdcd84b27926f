package services

import (
	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// Ensure SessionFactory implements the interface.
var _ driving.SessionFactory = (*SessionFactory)(nil)

// SessionFactory builds editor sessions that share one checker, ledger and
// clock. Sessions created by the same factory see each other's ignores.
type SessionFactory struct {
	checker  driven.GrammarChecker
	ledger   *SuppressionLedger
	clock    driven.Clock
	settings domain.AppSettings
}

// NewSessionFactory creates a factory.
func NewSessionFactory(
	checker driven.GrammarChecker,
	ledger *SuppressionLedger,
	clock driven.Clock,
	settings domain.AppSettings,
) *SessionFactory {
	return &SessionFactory{
		checker:  checker,
		ledger:   ledger,
		clock:    clock,
		settings: settings,
	}
}

// NewSession creates a session over surface. The caller starts and closes it.
func (f *SessionFactory) NewSession(surface driven.EditingSurface, dispatcher driven.Dispatcher) driving.EditorSession {
	return NewEditorSession(surface, f.checker, f.ledger, f.clock, dispatcher, f.settings)
}
