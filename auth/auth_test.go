package auth

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_SetPersistsAndLoads(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Set("  abc.def  "))
	assert.Equal(t, "abc.def", s.Token())
	assert.True(t, s.LoggedIn())

	info, err := os.Stat(filepath.Join(dir, TokenFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded := New(dir)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "abc.def", reloaded.Token())
}

func TestState_LoadMissingFile(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Load())
	assert.False(t, s.LoggedIn())
}

func TestState_ClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Set("tok"))
	require.NoError(t, s.Clear())

	assert.Equal(t, "", s.Token())
	_, err := os.Stat(filepath.Join(dir, TokenFile))
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}

func TestState_SetEmptyClears(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Set("tok"))
	require.NoError(t, s.Set(""))
	assert.False(t, s.LoggedIn())
	_, err := os.Stat(filepath.Join(dir, TokenFile))
	assert.True(t, os.IsNotExist(err))
}

func TestState_SetCreatesProfileDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles", "work")
	s := New(dir)
	require.NoError(t, s.Set("tok"))
	data, err := os.ReadFile(filepath.Join(dir, TokenFile))
	require.NoError(t, err)
	assert.Equal(t, "tok", string(data))
}

func TestState_MemoryOnly(t *testing.T) {
	s := New("")
	require.NoError(t, s.Load())
	require.NoError(t, s.Set("tok"))
	assert.Equal(t, "tok", s.Token())
	require.NoError(t, s.Clear())
	assert.Equal(t, "", s.Token())
}

func TestState_ConcurrentReads(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Set("tok"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Token()
		}()
	}
	require.NoError(t, s.Set("tok2"))
	wg.Wait()
	assert.Equal(t, "tok2", s.Token())
}
