// Package postgres provides a PostgreSQL-backed suppression ledger, so that
// several machines (or a team) can share one set of ignored errors.
//
// The connection goes through pgx's database/sql driver. The ledger is kept
// in the same JSON form as the SQLite store, as a JSONB value.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/ledgerjson"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.SuppressionStore = (*Store)(nil)

// Store is a SuppressionStore in a PostgreSQL database.
type Store struct {
	db *sql.DB
}

// Open connects to databaseURL and applies pending migrations.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(4)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the persisted ledger. Malformed entries are skipped.
func (s *Store) Load(ctx context.Context) ([]domain.SuppressionEntry, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value::text FROM proofmark_kv WHERE key = $1`, domain.LedgerStorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return decodeLedger(value), nil
}

// Append adds entry to the end of the ledger. The row is locked for the
// duration of the read-modify-write so concurrent writers do not lose entries.
func (s *Store) Append(ctx context.Context, entry domain.SuppressionEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Make sure the row exists so FOR UPDATE has something to lock.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO proofmark_kv (key, value) VALUES ($1, '[]'::jsonb) ON CONFLICT (key) DO NOTHING`,
		domain.LedgerStorageKey); err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}

	var value []byte
	if err := tx.QueryRowContext(ctx,
		`SELECT value::text FROM proofmark_kv WHERE key = $1 FOR UPDATE`,
		domain.LedgerStorageKey).Scan(&value); err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}

	data, err := ledgerjson.Encode(append(decodeLedger(value), entry))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE proofmark_kv SET value = $2::jsonb, updated_at = NOW() WHERE key = $1`,
		domain.LedgerStorageKey, string(data)); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}
	return nil
}

// Clear removes the ledger.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM proofmark_kv WHERE key = $1`, domain.LedgerStorageKey); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}

func decodeLedger(value []byte) []domain.SuppressionEntry {
	entries, skipped, err := ledgerjson.Decode(value)
	if err != nil {
		logger.Warn("postgres: unreadable ledger treated as empty: %v", err)
		return nil
	}
	if skipped > 0 {
		logger.Debug("postgres: skipped %d malformed ledger entries", skipped)
	}
	return entries
}

func applyMigrations(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS proofmark_schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, version := range files {
		var exists bool
		if err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM proofmark_schema_migrations WHERE version = $1)`,
			version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", version, err)
		}
		if exists {
			continue
		}

		contents, err := fs.ReadFile(fsys, version)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", version, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration tx %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, string(contents)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO proofmark_schema_migrations(version) VALUES($1)`, version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", version, err)
		}
	}

	return nil
}
