package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedboard/internal/structures"
)

func testStore(t *testing.T) *Store {
	conf := &structures.Config{
		Credential: structures.CredentialConfig{
			FilePath: filepath.Join(t.TempDir(), "credential"),
			Mode:     0600,
		},
	}
	return NewStore(conf)
}

func TestStore_LoadEmpty(t *testing.T) {
	s := testStore(t)

	key, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", key)
}

func TestStore_RoundTrip(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Store("super-secret-admin-key"))

	key, ok, err := s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "super-secret-admin-key", key)
}

func TestStore_Overwrite(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Store("first"))
	require.NoError(t, s.Store("second"))

	key, ok, err := s.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", key)
}

func TestStore_Clear(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Store("key"))
	require.NoError(t, s.Clear())

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClearMissing(t *testing.T) {
	s := testStore(t)
	assert.NoError(t, s.Clear())
}

func TestStore_FileMode(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Store("key"))

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_NoTmpLeftBehind(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Store("key"))

	_, err := os.Stat(s.path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
