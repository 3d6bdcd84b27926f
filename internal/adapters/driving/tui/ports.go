// Package tui provides the interactive terminal editor for proofmark.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Sessions creates the decorated editor session.
	Sessions driving.SessionFactory

	// Settings manages application settings. Optional; the settings view
	// is disabled without it.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(sessions driving.SessionFactory, settings driving.SettingsService) *Ports {
	return &Ports{
		Sessions: sessions,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Sessions == nil {
		return ErrMissingSessionFactory
	}
	return nil
}
