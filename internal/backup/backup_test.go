package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage"
	"github.com/sivaworkplace/money-expense-tracker/internal/storage/sqlitestore"
)

func setupStore(t *testing.T) storage.Store {
	t.Helper()
	f := storage.NewWithBackend(sqlitestore.New(sqlitestore.Config{Path: ":memory:"}, zerolog.Nop()), zerolog.Nop())
	require.NoError(t, f.Initialize())
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	store := setupStore(t)
	dir := t.TempDir()
	m := NewManager(store, dir, 0, zerolog.Nop())

	require.NoError(t, store.AddExpense(domain.Expense{ID: "e1", Amount: 50, Category: "food", Date: "2025-03-01"}))
	require.NoError(t, store.AddTag(domain.Tag{ID: "t1", Name: "work"}))

	path, err := m.Backup()
	require.NoError(t, err)
	assert.FileExists(t, path)

	// Mutate after the snapshot, then restore
	require.NoError(t, store.DeleteExpense("e1"))
	require.NoError(t, store.AddExpense(domain.Expense{ID: "e2", Amount: 99, Category: "transport", Date: "2025-04-01"}))

	require.NoError(t, m.Restore(path))

	expenses, err := store.GetAllExpenses()
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "e1", expenses[0].ID)

	tags, err := store.GetAllTags()
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "work", tags[0].Name)
}

func TestRestore_RejectsGarbage(t *testing.T) {
	store := setupStore(t)
	dir := t.TempDir()
	m := NewManager(store, dir, 0, zerolog.Nop())

	path := filepath.Join(dir, "backup_garbage.msgpack")
	require.NoError(t, os.WriteFile(path, []byte("not a real archive"), 0644))

	assert.Error(t, m.Restore(path))
}

func TestPrune_KeepsNewestArchives(t *testing.T) {
	store := setupStore(t)
	dir := t.TempDir()
	m := NewManager(store, dir, 2, zerolog.Nop())

	// Archive names carry second-resolution timestamps; seed distinct old ones
	// directly instead of sleeping between real backups.
	for _, name := range []string{
		"backup_20240101T000000.msgpack",
		"backup_20240102T000000.msgpack",
		"backup_20240103T000000.msgpack",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	_, err := m.Backup()
	require.NoError(t, err)

	paths, err := m.List()
	require.NoError(t, err)
	require.Len(t, paths, 2)

	// The real backup is the newest entry; the newest seeded archive survives
	assert.Equal(t, filepath.Join(dir, "backup_20240103T000000.msgpack"), paths[1])
}

func TestList_EmptyDirectory(t *testing.T) {
	store := setupStore(t)
	m := NewManager(store, filepath.Join(t.TempDir(), "never-created"), 5, zerolog.Nop())

	paths, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestJob(t *testing.T) {
	store := setupStore(t)
	m := NewManager(store, t.TempDir(), 0, zerolog.Nop())

	job := NewJob(m)
	assert.Equal(t, "backup", job.Name())
	assert.NoError(t, job.Run())

	paths, err := m.List()
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}
