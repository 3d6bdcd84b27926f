package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/languagetool"
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

var errNoSettings = errors.New("settings service not configured")

// pingTimeout bounds the wizard's connectivity check.
const pingTimeout = 5 * time.Second

// pingProvider checks that the configured LanguageTool server answers.
var pingProvider = func(ctx context.Context, s domain.ProviderSettings) error {
	return languagetool.NewClientFromSettings(s).Ping(ctx)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the grammar provider, check timing, the ignored
errors ledger and the result cache.

Use subcommands to read or write single keys or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting by its dotted key, for example:

  proofmark settings set checker.language de-DE
  proofmark settings set ledger.backend postgres
  proofmark settings set checker.disabled_rules WHITESPACE_RULE,EN_QUOTES

Run "proofmark settings keys" for the full list.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys with their values",
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the provider and the ledger step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Checker]")
	cmd.Printf("  Language: %s\n", settings.Checker.Language)
	cmd.Printf("  Disabled rules: %s\n", orNotSet(strings.Join(settings.Checker.DisabledRules, ", ")))
	cmd.Printf("  Minimum length: %d\n", settings.Checker.MinimumLength)
	cmd.Printf("  Quiet period: %s\n", settings.Checker.QuietPeriod)
	cmd.Println()

	cmd.Println("[Provider]")
	cmd.Printf("  Base URL: %s\n", settings.Provider.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.Provider.Timeout)
	if settings.Provider.RequestsPerMinute > 0 {
		cmd.Printf("  Requests per minute: %d\n", settings.Provider.RequestsPerMinute)
	} else {
		cmd.Println("  Requests per minute: unlimited")
	}
	cmd.Println()

	cmd.Println("[Interaction]")
	cmd.Printf("  Hover delay: %s\n", settings.Interaction.HoverDelay)
	cmd.Printf("  Hover-out grace: %s\n", settings.Interaction.HoverOutGrace)
	cmd.Printf("  Replace feedback: %s\n", settings.Interaction.ReplaceSettle)
	cmd.Printf("  Ignore feedback: %s\n", settings.Interaction.IgnoreSettle)
	cmd.Println()

	cmd.Println("[Ledger]")
	cmd.Printf("  Backend: %s\n", settings.Ledger.Backend.Description())
	if settings.Ledger.Backend == domain.LedgerBackendPostgres {
		cmd.Printf("  Postgres URL: %s\n", orNotSet(redactURL(settings.Ledger.PostgresURL)))
	}
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.IsConfigured() {
		cmd.Printf("  Redis URL: %s\n", redactURL(settings.Cache.RedisURL))
		cmd.Printf("  TTL: %s\n", settings.Cache.TTL)
	} else {
		cmd.Println("  Disabled")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'proofmark settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	value, err := settingsService.Value(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	cmd.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("setting %s: %w", args[0], err)
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	for _, key := range settingsService.Keys() {
		value, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		cmd.Printf("%s = %s\n", key, value)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("proofmark Setup Wizard")
	cmd.Println("======================")
	cmd.Println()

	cmd.Printf("LanguageTool server [%s]: ", settings.Provider.BaseURL)
	if input := readLine(reader); input != "" {
		settings.Provider.BaseURL = input
	}

	cmd.Printf("Language [%s]: ", settings.Checker.Language)
	if input := readLine(reader); input != "" {
		settings.Checker.Language = input
	}
	cmd.Println()

	backends := domain.AllLedgerBackends()
	current := 1
	cmd.Println("Where should ignored errors be stored?")
	for i, b := range backends {
		if b == settings.Ledger.Backend {
			current = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Printf("Choice [%d]: ", current)
	settings.Ledger.Backend = backends[parseChoice(readLine(reader), len(backends), current)-1]

	if settings.Ledger.Backend == domain.LedgerBackendPostgres {
		cmd.Print("Postgres URL (input hidden, empty keeps current): ")
		if input := readSecret(reader); input != "" {
			settings.Ledger.PostgresURL = input
		}
		cmd.Println()
	}

	cmd.Printf("Redis URL for caching results (empty disables, '-' keeps current): ")
	if input := readLine(reader); input != "-" {
		settings.Cache.RedisURL = input
	}
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Print("Checking configuration... ")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	// An unreachable server is not fatal; it may simply not be running yet.
	cmd.Printf("Contacting LanguageTool at %s... ", redactURL(settings.Provider.BaseURL))
	ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
	defer cancel()
	if err := pingProvider(ctx, settings.Provider); err != nil {
		cmd.Printf("WARNING: %v\n", err)
		return nil
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// redactURL hides the password of a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "****"
	}
	return u.Redacted()
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo from a terminal, and falls back to reader.
func readSecret(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}
