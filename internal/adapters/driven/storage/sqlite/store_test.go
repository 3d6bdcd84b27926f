package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "proofmark-sqlite-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := NewStore(tmpDir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func entry(ruleID, text string, ms int64) domain.SuppressionEntry {
	return domain.SuppressionEntry{RuleID: ruleID, Text: text, Timestamp: time.UnixMilli(ms).UTC()}
}

func TestNewStore(t *testing.T) {
	store := setupTestStore(t)

	assert.Equal(t, "proofmark.db", filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	// Re-running is a no-op.
	require.NoError(t, store.migrate(migrations.FS))
}

func TestSuppressionStore_EmptyLoad(t *testing.T) {
	store := setupTestStore(t)

	entries, err := store.SuppressionStore().Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSuppressionStore_AppendKeepsOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	ledger := setupTestStore(t).SuppressionStore()

	require.NoError(t, ledger.Append(ctx, entry("A", "one", 1000)))
	require.NoError(t, ledger.Append(ctx, entry("B", "two", 2000)))
	require.NoError(t, ledger.Append(ctx, entry("A", "one", 3000)))

	entries, err := ledger.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.SuppressionEntry{
		entry("A", "one", 1000),
		entry("B", "two", 2000),
		entry("A", "one", 3000),
	}, entries)
}

func TestSuppressionStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.SuppressionStore().Append(ctx, entry("A", "one", 1000)))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	entries, err := second.SuppressionStore().Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "one", entries[0].Text)
}

func TestSuppressionStore_StoredAsJSONUnderFixedKey(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.SuppressionStore().Append(ctx, entry("A", "one", 1000)))

	var value string
	require.NoError(t, store.db.QueryRow("SELECT value FROM kv WHERE key = ?",
		"ignored-grammar-errors-v2").Scan(&value))
	assert.JSONEq(t, `[{"ruleId":"A","text":"one","timestamp":1000}]`, value)
}

func TestSuppressionStore_SkipsMalformed(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.db.Exec("INSERT INTO kv (key, value) VALUES (?, ?)", domain.LedgerStorageKey,
		`[{"ruleId":"A","text":"one","timestamp":1},42,{"text":"no rule"}]`)
	require.NoError(t, err)

	entries, err := store.SuppressionStore().Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].RuleID)
}

func TestSuppressionStore_UnreadableLedgerIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.db.Exec("INSERT INTO kv (key, value) VALUES (?, ?)", domain.LedgerStorageKey, `{not json`)
	require.NoError(t, err)

	entries, err := store.SuppressionStore().Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSuppressionStore_Clear(t *testing.T) {
	ctx := context.Background()
	ledger := setupTestStore(t).SuppressionStore()
	require.NoError(t, ledger.Append(ctx, entry("A", "one", 1000)))

	require.NoError(t, ledger.Clear(ctx))

	entries, err := ledger.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, ledger.Clear(ctx), "clearing an empty ledger is fine")
}
