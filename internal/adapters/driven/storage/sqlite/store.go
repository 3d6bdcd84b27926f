package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/ledgerjson"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
	"github.com/custodia-labs/proofmark/internal/logger"
)

// Store is a SQLite database of key/value documents.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.proofmark/data/proofmark.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".proofmark", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "proofmark.db")

	// WAL lets the TUI and a concurrent `proofmark ignored` share the file.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SuppressionStore returns the ledger store backed by this database.
func (s *Store) SuppressionStore() driven.SuppressionStore {
	return &suppressionStore{store: s}
}

// migrate applies every NNN_name.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations(version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}

	return nil
}

// get returns the value stored under key. found is false when absent.
func get(ctx context.Context, q queryer, key string) (value string, found bool, err error) {
	err = q.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ==================== Suppression Store ====================

// suppressionStore implements driven.SuppressionStore.
type suppressionStore struct {
	store *Store
}

var _ driven.SuppressionStore = (*suppressionStore)(nil)

// Load returns the persisted ledger. Malformed entries are skipped.
func (s *suppressionStore) Load(ctx context.Context) ([]domain.SuppressionEntry, error) {
	value, found, err := get(ctx, s.store.db, domain.LedgerStorageKey)
	if err != nil || !found {
		return nil, err
	}
	return decodeLedger(value), nil
}

// Append adds entry to the end of the ledger.
func (s *suppressionStore) Append(ctx context.Context, entry domain.SuppressionEntry) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	value, _, err := get(ctx, tx, domain.LedgerStorageKey)
	if err != nil {
		return err
	}

	data, err := ledgerjson.Encode(append(decodeLedger(value), entry))
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, domain.LedgerStorageKey, string(data))
	if err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}

	return tx.Commit()
}

// Clear removes the ledger document.
func (s *suppressionStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", domain.LedgerStorageKey); err != nil {
		return fmt.Errorf("clearing ledger: %w", err)
	}
	return nil
}

func decodeLedger(value string) []domain.SuppressionEntry {
	entries, skipped, err := ledgerjson.Decode([]byte(value))
	if err != nil {
		logger.Warn("sqlite: unreadable ledger treated as empty: %v", err)
		return nil
	}
	if skipped > 0 {
		logger.Debug("sqlite: skipped %d malformed ledger entries", skipped)
	}
	return entries
}
