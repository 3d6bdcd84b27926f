package driving

import "github.com/custodia-labs/proofmark/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses value for a dotted config key and persists it.
	Set(key, value string) error

	// Keys returns every supported config key.
	Keys() []string

	// Value returns the effective value of a config key in the form Set accepts.
	Value(key string) (string, error)

	// Validate checks that the configured backends can be opened.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
