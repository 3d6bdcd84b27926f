// Command proofmark is a grammar checker for live documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/cache/rediscache"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/clock"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/config/file"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/languagetool"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/cli"
	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/core/services"
	"github.com/custodia-labs/proofmark/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, cli.ErrFindings) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore(os.Getenv("PROOFMARK_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetOpener(func(ctx context.Context) (*cli.Services, error) {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		return open(ctx, settings)
	})

	return cli.Execute(ctx)
}

// open builds the ledger, the provider client and the services on top of
// them from settings.
func open(ctx context.Context, settings *domain.AppSettings) (*cli.Services, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	store, closeStore, err := openLedgerStore(ctx, settings.Ledger)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	ledger := services.NewSuppressionLedger(store, clock.System{})
	if err := ledger.Load(ctx); err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("loading ignored errors: %w", err)
	}

	var checker driven.GrammarChecker = languagetool.NewClientFromSettings(settings.Provider)
	if settings.Cache.IsConfigured() {
		cache, err := rediscache.New(ctx, settings.Cache.RedisURL, settings.Cache.TTL)
		if err != nil {
			// Checks still work without the cache.
			logger.Warn("result cache disabled: %v", err)
		} else {
			closers = append(closers, cache.Close)
			checker = services.NewCachedChecker(checker, cache)
		}
	}

	return &cli.Services{
		Check:    services.NewCheckService(checker, ledger, settings.Checker),
		Ledger:   ledger,
		Sessions: services.NewSessionFactory(checker, ledger, clock.System{}, *settings),
		Close:    closeAll,
	}, nil
}

func openLedgerStore(ctx context.Context, s domain.LedgerSettings) (driven.SuppressionStore, func() error, error) {
	switch s.Backend {
	case domain.LedgerBackendMemory:
		return memory.NewSuppressionStore(), nil, nil
	case domain.LedgerBackendPostgres:
		if s.PostgresURL == "" {
			return nil, nil, fmt.Errorf("%w: ledger.postgres_url is required for the postgres backend", domain.ErrInvalidInput)
		}
		store, err := postgres.Open(ctx, s.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres ledger: %w", err)
		}
		return store, store.Close, nil
	default:
		store, err := sqlite.NewStore(os.Getenv("PROOFMARK_DATA_DIR"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite ledger: %w", err)
		}
		return store.SuppressionStore(), store.Close, nil
	}
}
