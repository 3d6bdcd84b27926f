package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("checker.language", "en-GB")
	_ = store.Set("checker.disabled_rules", []any{"COMMA_PARENTHESIS_WHITESPACE"})
	_ = store.Set("checker.quiet_period_ms", int64(250))
	_ = store.Set("provider.requests_per_minute", 0)
	_ = store.Set("ledger.backend", "postgres")
	_ = store.Set("ledger.postgres_url", "postgres://localhost/proofmark")
	_ = store.Set("cache.ttl_seconds", 60)

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "en-GB", settings.Checker.Language)
	assert.Equal(t, []string{"COMMA_PARENTHESIS_WHITESPACE"}, settings.Checker.DisabledRules)
	assert.Equal(t, 250*time.Millisecond, settings.Checker.QuietPeriod)
	assert.Equal(t, 0, settings.Provider.RequestsPerMinute, "a stored zero disables throttling")
	assert.Equal(t, domain.LedgerBackendPostgres, settings.Ledger.Backend)
	assert.Equal(t, time.Minute, settings.Cache.TTL)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("ledger.backend", "localstorage")

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.LedgerBackendSQLite, settings.Ledger.Backend)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Checker.MinimumLength = 12
	settings.Interaction.HoverDelay = 350 * time.Millisecond
	settings.Cache.RedisURL = "redis://localhost:6379/0"

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{
			name: "string", key: "provider.base_url", value: "http://localhost:8081",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, "http://localhost:8081", s.Provider.BaseURL)
			},
		},
		{
			name: "list", key: "checker.disabled_rules", value: "A, B,,C",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, []string{"A", "B", "C"}, s.Checker.DisabledRules)
			},
		},
		{
			name: "empty list", key: "checker.disabled_rules", value: "",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Empty(t, s.Checker.DisabledRules)
			},
		},
		{
			name: "milliseconds", key: "interaction.replace_settle_ms", value: "1200",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, 1200*time.Millisecond, s.Interaction.ReplaceSettle)
			},
		},
		{
			name: "backend", key: "ledger.backend", value: "memory",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, domain.LedgerBackendMemory, s.Ledger.Backend)
			},
		},
		{name: "invalid backend", key: "ledger.backend", value: "cloud", wantErr: domain.ErrInvalidInput},
		{name: "not a number", key: "checker.min_length", value: "five", wantErr: domain.ErrInvalidInput},
		{name: "negative number", key: "checker.min_length", value: "-1", wantErr: domain.ErrInvalidInput},
		{name: "unknown key", key: "search.mode", value: "hybrid", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			err := service.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Len(t, keys, 15)
	assert.Contains(t, keys, "checker.quiet_period_ms")
	assert.Contains(t, keys, "cache.redis_url")
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	assert.NoError(t, service.Validate())

	_ = store.Set("ledger.backend", "postgres")
	assert.Error(t, service.Validate(), "postgres needs a URL")

	_ = store.Set("ledger.postgres_url", "postgres://localhost/proofmark")
	assert.NoError(t, service.Validate())
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_Value(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	lang, err := service.Value("checker.language")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLanguage, lang)

	quiet, err := service.Value("checker.quiet_period_ms")
	require.NoError(t, err)
	assert.Equal(t, "1000", quiet)

	require.NoError(t, service.Set("checker.disabled_rules", "A, B"))
	rules, err := service.Value("checker.disabled_rules")
	require.NoError(t, err)
	assert.Equal(t, "A,B", rules)

	_, err = service.Value("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettingsService_Value_EveryKeyResolves(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	for _, key := range service.Keys() {
		_, err := service.Value(key)
		assert.NoError(t, err, key)
	}
}
