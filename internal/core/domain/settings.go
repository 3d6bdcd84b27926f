package domain

import "time"

const unknownDescription = "Unknown"

// LedgerBackend selects where the suppression ledger is persisted.
type LedgerBackend string

// Available ledger backends.
const (
	// LedgerBackendSQLite stores the ledger in the local SQLite database.
	LedgerBackendSQLite LedgerBackend = "sqlite"

	// LedgerBackendPostgres stores the ledger in a shared PostgreSQL database.
	LedgerBackendPostgres LedgerBackend = "postgres"

	// LedgerBackendMemory keeps the ledger for the lifetime of the process only.
	LedgerBackendMemory LedgerBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b LedgerBackend) IsValid() bool {
	switch b {
	case LedgerBackendSQLite, LedgerBackendPostgres, LedgerBackendMemory:
		return true
	default:
		return false
	}
}

// IsDurable returns true if the backend survives process restarts.
func (b LedgerBackend) IsDurable() bool {
	return b == LedgerBackendSQLite || b == LedgerBackendPostgres
}

// String returns the string representation.
func (b LedgerBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b LedgerBackend) Description() string {
	switch b {
	case LedgerBackendSQLite:
		return "SQLite (local file)"
	case LedgerBackendPostgres:
		return "PostgreSQL (shared)"
	case LedgerBackendMemory:
		return "Memory (not persisted)"
	default:
		return unknownDescription
	}
}

// CheckerSettings controls when and how text is sent for analysis.
type CheckerSettings struct {
	// Language is the language tag sent to the provider.
	Language string

	// DisabledRules are provider rule ids excluded from every request.
	DisabledRules []string

	// MinimumLength is the trimmed character count below which no check runs.
	MinimumLength int

	// QuietPeriod is the debounce window after the last edit.
	QuietPeriod time.Duration
}

// ProviderSettings configures the analysis provider client.
type ProviderSettings struct {
	// BaseURL is the LanguageTool server (e.g. https://api.languagetool.org).
	BaseURL string

	// Timeout bounds a single check request.
	Timeout time.Duration

	// RequestsPerMinute throttles outgoing requests. Zero disables throttling.
	RequestsPerMinute int
}

// InteractionSettings holds the UI feedback delays of the interaction controller.
type InteractionSettings struct {
	// HoverDelay is how long the pointer must rest on an error before its tooltip shows.
	HoverDelay time.Duration

	// HoverOutGrace is how long the tooltip survives after the pointer leaves.
	HoverOutGrace time.Duration

	// ReplaceSettle is how long the success state shows after a replacement.
	ReplaceSettle time.Duration

	// IgnoreSettle is how long the "ignored" confirmation shows.
	IgnoreSettle time.Duration
}

// LedgerSettings configures suppression ledger persistence.
type LedgerSettings struct {
	// Backend selects the store implementation.
	Backend LedgerBackend

	// PostgresURL is the connection string when Backend is postgres.
	PostgresURL string
}

// IsConfigured returns true if the backend has what it needs to open.
func (l LedgerSettings) IsConfigured() bool {
	if l.Backend == LedgerBackendPostgres {
		return l.PostgresURL != ""
	}
	return l.Backend.IsValid()
}

// CacheSettings configures the optional analysis result cache.
type CacheSettings struct {
	// RedisURL enables the cache when set (e.g. redis://localhost:6379/0).
	RedisURL string

	// TTL is how long cached results stay valid.
	TTL time.Duration
}

// IsConfigured returns true if the cache should be used.
func (c CacheSettings) IsConfigured() bool {
	return c.RedisURL != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Checker holds analysis scheduling settings.
	Checker CheckerSettings

	// Provider holds analysis provider settings.
	Provider ProviderSettings

	// Interaction holds tooltip timing settings.
	Interaction InteractionSettings

	// Ledger holds suppression ledger settings.
	Ledger LedgerSettings

	// Cache holds result cache settings.
	Cache CacheSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The cache is left unconfigured; the public LanguageTool API is used.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Checker: CheckerSettings{
			Language:      DefaultLanguage,
			DisabledRules: DefaultDisabledRules(),
			MinimumLength: 5,
			QuietPeriod:   1000 * time.Millisecond,
		},
		Provider: ProviderSettings{
			BaseURL:           "https://api.languagetool.org",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 20, // public API limit per IP
		},
		Interaction: InteractionSettings{
			HoverDelay:    200 * time.Millisecond,
			HoverOutGrace: 500 * time.Millisecond,
			ReplaceSettle: 800 * time.Millisecond,
			IgnoreSettle:  500 * time.Millisecond,
		},
		Ledger: LedgerSettings{
			Backend: LedgerBackendSQLite,
		},
		Cache: CacheSettings{
			TTL: 10 * time.Minute,
		},
	}
}

// AllLedgerBackends returns all available ledger backends.
func AllLedgerBackends() []LedgerBackend {
	return []LedgerBackend{
		LedgerBackendSQLite,
		LedgerBackendPostgres,
		LedgerBackendMemory,
	}
}
