package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupAndRestoreReadable(t *testing.T) {
	s := newTestStore(t)
	insert(t, s, "Rally", "Ana", "2024-06-10", "09:00", "10:00")

	dest := filepath.Join(t.TempDir(), "backup.db")
	require.NoError(t, s.Backup(dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	// The copy opens as a working store with the data intact.
	restored, err := Open(dest, s.logger)
	require.NoError(t, err)
	defer restored.Close()

	all, err := restored.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ana", all[0].Requester)
}

func TestCleanupBackups(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "reservations_old.db")
	require.NoError(t, os.WriteFile(oldFile, []byte("x"), 0o644))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, stale, stale))

	freshFile := filepath.Join(dir, "reservations_new.db")
	require.NoError(t, os.WriteFile(freshFile, []byte("x"), 0o644))

	otherFile := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(otherFile, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(otherFile, stale, stale))

	deleted, err := s.CleanupBackups(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = os.Stat(freshFile)
	assert.NoError(t, err)
	_, err = os.Stat(otherFile)
	assert.NoError(t, err, "non-db files are left alone")
	_, err = os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))
}
