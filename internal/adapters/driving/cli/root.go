// Package cli provides the proofmark command line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
	"github.com/custodia-labs/proofmark/internal/logger"
)

// version is set at build time.
var version = "dev"

// ErrNotConfigured is returned when a command runs without its services.
var ErrNotConfigured = errors.New("proofmark is not configured")

// Services are the core services behind the commands that need a provider
// or a ledger.
type Services struct {
	Check    driving.CheckService
	Ledger   driving.LedgerService
	Sessions driving.SessionFactory

	// Close releases the ledger store and cache connections.
	Close func() error
}

// Opener builds the services on first use, so commands that only touch
// settings never open the ledger or the provider.
type Opener func(ctx context.Context) (*Services, error)

var (
	settingsService driving.SettingsService
	opener          Opener

	openOnce sync.Once
	opened   *Services
	openErr  error

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "proofmark",
	Short: "Grammar checking for live documents",
	Long: `proofmark checks text with a LanguageTool server and keeps the
reported errors attached to the right words while you edit.

Use "proofmark edit" for the interactive editor, "proofmark check" for
one-shot checks and "proofmark watch" to follow a file as it changes.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetOpener sets how the remaining services are built and resets any
// services opened before.
func SetOpener(o Opener) {
	opener = o
	openOnce = sync.Once{}
	opened = nil
	openErr = nil
}

// services opens the services once per process.
func services(ctx context.Context) (*Services, error) {
	if opener == nil {
		return nil, ErrNotConfigured
	}
	openOnce.Do(func() {
		opened, openErr = opener(ctx)
		if openErr != nil {
			openErr = fmt.Errorf("opening services: %w", openErr)
		}
	})
	return opened, openErr
}

// closeServices releases whatever services were opened.
func closeServices() error {
	if opened == nil || opened.Close == nil {
		return nil
	}
	return opened.Close()
}

// Execute runs the root command with ctx and closes opened services.
func Execute(ctx context.Context) error {
	defer func() {
		if err := closeServices(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}
