package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// MockCheckService implements driving.CheckService for testing.
type MockCheckService struct {
	CheckFunc func(ctx context.Context, text string) ([]domain.Finding, error)
}

func (m *MockCheckService) Check(ctx context.Context, text string) ([]domain.Finding, error) {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, text)
	}
	return nil, nil
}

// MockLedgerService implements driving.LedgerService over a slice.
type MockLedgerService struct {
	entries []domain.SuppressionEntry
	AddErr  error
}

func (m *MockLedgerService) IsSuppressed(ruleID, raw string) bool {
	for _, e := range m.entries {
		if e.RuleID == ruleID && e.Text == strings.ToLower(strings.TrimSpace(raw)) {
			return true
		}
	}
	return false
}

func (m *MockLedgerService) Add(_ context.Context, ruleID, raw string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	entry := domain.SuppressionEntry{
		RuleID:    ruleID,
		Text:      strings.ToLower(strings.TrimSpace(raw)),
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	m.entries = append([]domain.SuppressionEntry{entry}, m.entries...)
	return nil
}

func (m *MockLedgerService) Clear(context.Context) error {
	m.entries = nil
	return nil
}

func (m *MockLedgerService) Entries() []domain.SuppressionEntry {
	return m.entries
}

func (m *MockLedgerService) Count() int {
	return len(m.entries)
}

// MockSettingsService implements driving.SettingsService over a map.
type MockSettingsService struct {
	settings domain.AppSettings
	values   map[string]string
	SetErr   error
}

func newMockSettingsService() *MockSettingsService {
	return &MockSettingsService{
		settings: domain.DefaultAppSettings(),
		values: map[string]string{
			"checker.language": "en-US",
			"ledger.backend":   "sqlite",
		},
	}
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *MockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	if _, ok := m.values[key]; !ok {
		return domain.ErrNotFound
	}
	m.values[key] = value
	return nil
}

func (m *MockSettingsService) Keys() []string {
	return []string{"checker.language", "ledger.backend"}
}

func (m *MockSettingsService) Value(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *MockSettingsService) Validate() error { return nil }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

var (
	_ driving.CheckService    = (*MockCheckService)(nil)
	_ driving.LedgerService   = (*MockLedgerService)(nil)
	_ driving.SettingsService = (*MockSettingsService)(nil)
)

// useServices installs svc for the duration of the test.
func useServices(t *testing.T, svc *Services) {
	t.Helper()
	SetOpener(func(context.Context) (*Services, error) { return svc, nil })
	t.Cleanup(func() { SetOpener(nil) })
}

// useSettings installs s for the duration of the test. The wizard's
// connectivity check succeeds unless the test replaces it with usePing.
func useSettings(t *testing.T, s driving.SettingsService) {
	t.Helper()
	SetSettingsService(s)
	usePing(t, func(context.Context, domain.ProviderSettings) error { return nil })
	t.Cleanup(func() { SetSettingsService(nil) })
}

// usePing replaces the wizard's connectivity check for the duration of the test.
func usePing(t *testing.T, fn func(context.Context, domain.ProviderSettings) error) {
	t.Helper()
	orig := pingProvider
	pingProvider = fn
	t.Cleanup(func() { pingProvider = orig })
}

// execute runs the root command with args and stdin, returning everything
// written to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		checkJSON = false
		checkNoColor = false
		checkJobs = 0
		ignoredJSON = false
		watchNoColor = false
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
