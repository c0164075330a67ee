// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFingerprintIsDeterministic(t *testing.T) {
	a := Fingerprint([]byte("pyserial==3.5\nnumpy\n"))
	b := Fingerprint([]byte("pyserial==3.5\nnumpy\n"))
	c := Fingerprint([]byte("pyserial==3.5\nnumpy==1.26\n"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex-encoded sha256
}

func TestFingerprintFileMissingIsNotAnError(t *testing.T) {
	_, ok, err := FingerprintFile(filepath.Join(t.TempDir(), "requirements.txt"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	_, ok, err := store.Get()
	require.NoError(t, err)
	assert.False(t, ok, "fresh store must report no fingerprint")

	require.NoError(t, store.Set("abc123"))

	fp, ok, err := store.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", fp)

	// Set replaces the previous value.
	require.NoError(t, store.Set("def456"))
	fp, _, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "def456", fp)

	require.NoError(t, store.Clear())
	_, ok, err = store.Get()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestStoreSetLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Set("abc123"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SidecarName, entries[0].Name())
}

func TestCheckStates(t *testing.T) {
	t.Run("no manifest", func(t *testing.T) {
		dir := t.TempDir()
		state, fp, err := Check(filepath.Join(dir, "requirements.txt"), NewStore(dir))
		require.NoError(t, err)
		assert.Equal(t, StateNoManifest, state)
		assert.Empty(t, fp)
		assert.False(t, state.NeedsInstall())
	})

	t.Run("uninitialized", func(t *testing.T) {
		dir := t.TempDir()
		path := writeManifest(t, dir, "numpy\n")
		state, fp, err := Check(path, NewStore(dir))
		require.NoError(t, err)
		assert.Equal(t, StateUninitialized, state)
		assert.NotEmpty(t, fp)
		assert.True(t, state.NeedsInstall())
	})

	t.Run("fresh then stale after edit", func(t *testing.T) {
		dir := t.TempDir()
		path := writeManifest(t, dir, "numpy\n")
		store := NewStore(dir)

		_, fp, err := Check(path, store)
		require.NoError(t, err)
		require.NoError(t, store.Set(fp))

		state, _, err := Check(path, store)
		require.NoError(t, err)
		assert.Equal(t, StateFresh, state)
		assert.False(t, state.NeedsInstall())

		// Manifest drift must flip the state to stale exactly until the
		// next successful install records the new fingerprint.
		require.NoError(t, os.WriteFile(path, []byte("numpy\npyserial\n"), 0644))
		state, fp2, err := Check(path, store)
		require.NoError(t, err)
		assert.Equal(t, StateStale, state)
		assert.True(t, state.NeedsInstall())

		require.NoError(t, store.Set(fp2))
		state, _, err = Check(path, store)
		require.NoError(t, err)
		assert.Equal(t, StateFresh, state)
	})
}
