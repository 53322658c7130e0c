package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	in := &Tokens{
		IDToken:     "header.payload.sig",
		AccessToken: "access-abc",
		FetchedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in.IDToken, out.IDToken)
	assert.Equal(t, in.AccessToken, out.AccessToken)
	assert.True(t, in.FetchedAt.Equal(out.FetchedAt))
}

func TestStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file modes")
	}

	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save(&Tokens{IDToken: "x.y.z"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tokens.json"), []byte("{not json"), 0600))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestStore_Clear(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save(&Tokens{IDToken: "x.y.z"}))

	require.NoError(t, store.Clear())
	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))

	// Clearing again is not an error.
	require.NoError(t, store.Clear())
}

func TestStore_SaveCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".benchify")
	store := NewStore(dir)

	require.NoError(t, store.Save(&Tokens{IDToken: "x.y.z"}))
	_, err := os.Stat(dir)
	require.NoError(t, err)
}
