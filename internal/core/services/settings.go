package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyLanguage          = "checker.language"
	keyDisabledRules     = "checker.disabled_rules"
	keyMinLength         = "checker.min_length"
	keyQuietPeriod       = "checker.quiet_period_ms"
	keyProviderURL       = "provider.base_url"
	keyProviderTimeout   = "provider.timeout_ms"
	keyRequestsPerMinute = "provider.requests_per_minute"
	keyHoverDelay        = "interaction.hover_delay_ms"
	keyHoverOutGrace     = "interaction.hover_out_grace_ms"
	keyReplaceSettle     = "interaction.replace_settle_ms"
	keyIgnoreSettle      = "interaction.ignore_settle_ms"
	keyLedgerBackend     = "ledger.backend"
	keyPostgresURL       = "ledger.postgres_url"
	keyRedisURL          = "cache.redis_url"
	keyCacheTTL          = "cache.ttl_seconds"
)

type keyKind int

const (
	kindString keyKind = iota
	kindStringList
	kindInt
)

var settingsKeys = []struct {
	key  string
	kind keyKind
}{
	{keyLanguage, kindString},
	{keyDisabledRules, kindStringList},
	{keyMinLength, kindInt},
	{keyQuietPeriod, kindInt},
	{keyProviderURL, kindString},
	{keyProviderTimeout, kindInt},
	{keyRequestsPerMinute, kindInt},
	{keyHoverDelay, kindInt},
	{keyHoverOutGrace, kindInt},
	{keyReplaceSettle, kindInt},
	{keyIgnoreSettle, kindInt},
	{keyLedgerBackend, kindString},
	{keyPostgresURL, kindString},
	{keyRedisURL, kindString},
	{keyCacheTTL, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Checker: domain.CheckerSettings{
			Language:      s.getString(keyLanguage, defaults.Checker.Language),
			DisabledRules: s.getStringSlice(keyDisabledRules, defaults.Checker.DisabledRules),
			MinimumLength: s.getInt(keyMinLength, defaults.Checker.MinimumLength),
			QuietPeriod:   s.getMillis(keyQuietPeriod, defaults.Checker.QuietPeriod),
		},
		Provider: domain.ProviderSettings{
			BaseURL:           s.getString(keyProviderURL, defaults.Provider.BaseURL),
			Timeout:           s.getMillis(keyProviderTimeout, defaults.Provider.Timeout),
			RequestsPerMinute: s.getInt(keyRequestsPerMinute, defaults.Provider.RequestsPerMinute),
		},
		Interaction: domain.InteractionSettings{
			HoverDelay:    s.getMillis(keyHoverDelay, defaults.Interaction.HoverDelay),
			HoverOutGrace: s.getMillis(keyHoverOutGrace, defaults.Interaction.HoverOutGrace),
			ReplaceSettle: s.getMillis(keyReplaceSettle, defaults.Interaction.ReplaceSettle),
			IgnoreSettle:  s.getMillis(keyIgnoreSettle, defaults.Interaction.IgnoreSettle),
		},
		Ledger: domain.LedgerSettings{
			Backend:     s.getLedgerBackend(defaults.Ledger.Backend),
			PostgresURL: s.configStore.GetString(keyPostgresURL),
		},
		Cache: domain.CacheSettings{
			RedisURL: s.configStore.GetString(keyRedisURL), // No default - empty disables the cache
			TTL:      time.Duration(s.getInt(keyCacheTTL, int(defaults.Cache.TTL/time.Second))) * time.Second,
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyLanguage, settings.Checker.Language},
		{keyDisabledRules, settings.Checker.DisabledRules},
		{keyMinLength, settings.Checker.MinimumLength},
		{keyQuietPeriod, settings.Checker.QuietPeriod.Milliseconds()},
		{keyProviderURL, settings.Provider.BaseURL},
		{keyProviderTimeout, settings.Provider.Timeout.Milliseconds()},
		{keyRequestsPerMinute, settings.Provider.RequestsPerMinute},
		{keyHoverDelay, settings.Interaction.HoverDelay.Milliseconds()},
		{keyHoverOutGrace, settings.Interaction.HoverOutGrace.Milliseconds()},
		{keyReplaceSettle, settings.Interaction.ReplaceSettle.Milliseconds()},
		{keyIgnoreSettle, settings.Interaction.IgnoreSettle.Milliseconds()},
		{keyLedgerBackend, settings.Ledger.Backend.String()},
		{keyPostgresURL, settings.Ledger.PostgresURL},
		{keyRedisURL, settings.Cache.RedisURL},
		{keyCacheTTL, int64(settings.Cache.TTL / time.Second)},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for a dotted config key and persists it.
func (s *SettingsService) Set(key, value string) error {
	for _, k := range settingsKeys {
		if k.key != key {
			continue
		}

		var parsed any
		switch k.kind {
		case kindString:
			if key == keyLedgerBackend && !domain.LedgerBackend(value).IsValid() {
				return fmt.Errorf("invalid ledger backend %q: %w", value, domain.ErrInvalidInput)
			}
			parsed = value
		case kindStringList:
			parsed = splitList(value)
		case kindInt:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
			}
			parsed = n
		}

		if err := s.configStore.Set(key, parsed); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("unknown setting %q: %w", key, domain.ErrNotFound)
}

// Keys returns every supported config key.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsKeys))
	for i, k := range settingsKeys {
		keys[i] = k.key
	}
	return keys
}

// Value returns the effective value of key, defaults applied, formatted the
// way Set parses it.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	millis := func(d time.Duration) string { return strconv.FormatInt(d.Milliseconds(), 10) }
	switch key {
	case keyLanguage:
		return settings.Checker.Language, nil
	case keyDisabledRules:
		return strings.Join(settings.Checker.DisabledRules, ","), nil
	case keyMinLength:
		return strconv.Itoa(settings.Checker.MinimumLength), nil
	case keyQuietPeriod:
		return millis(settings.Checker.QuietPeriod), nil
	case keyProviderURL:
		return settings.Provider.BaseURL, nil
	case keyProviderTimeout:
		return millis(settings.Provider.Timeout), nil
	case keyRequestsPerMinute:
		return strconv.Itoa(settings.Provider.RequestsPerMinute), nil
	case keyHoverDelay:
		return millis(settings.Interaction.HoverDelay), nil
	case keyHoverOutGrace:
		return millis(settings.Interaction.HoverOutGrace), nil
	case keyReplaceSettle:
		return millis(settings.Interaction.ReplaceSettle), nil
	case keyIgnoreSettle:
		return millis(settings.Interaction.IgnoreSettle), nil
	case keyLedgerBackend:
		return settings.Ledger.Backend.String(), nil
	case keyPostgresURL:
		return settings.Ledger.PostgresURL, nil
	case keyRedisURL:
		return settings.Cache.RedisURL, nil
	case keyCacheTTL:
		return strconv.FormatInt(int64(settings.Cache.TTL/time.Second), 10), nil
	default:
		return "", fmt.Errorf("unknown setting %q: %w", key, domain.ErrNotFound)
	}
}

// Validate checks that the configured backends can be opened.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Ledger.Backend.IsValid() {
		return fmt.Errorf("invalid ledger backend: %s", settings.Ledger.Backend)
	}
	if !settings.Ledger.IsConfigured() {
		return fmt.Errorf("ledger backend %q requires %s to be set",
			settings.Ledger.Backend.Description(), keyPostgresURL)
	}
	if settings.Provider.BaseURL == "" {
		return fmt.Errorf("%s must be set", keyProviderURL)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats a stored zero as a real value; only a missing key defaults.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	return time.Duration(s.getInt(key, int(defaultVal/time.Millisecond))) * time.Millisecond
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getLedgerBackend(defaultVal domain.LedgerBackend) domain.LedgerBackend {
	val := s.configStore.GetString(keyLedgerBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.LedgerBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
