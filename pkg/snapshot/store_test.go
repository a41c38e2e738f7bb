package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authbridge/pkg/snapshot"
)

type testData struct {
	Counter int               `yaml:"counter"`
	Entries map[string]string `yaml:"entries"`
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()

	t.Run("directory gets the default name appended", func(t *testing.T) {
		got := snapshot.ResolvePath(dir, "data.yaml")
		assert.Equal(t, filepath.Join(dir, "data.yaml"), got)
	})

	t.Run("explicit file path is kept", func(t *testing.T) {
		path := filepath.Join(dir, "custom.yaml")
		got := snapshot.ResolvePath(path, "data.yaml")
		assert.Equal(t, path, got)
	})
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := snapshot.New(filepath.Join(t.TempDir(), "missing.yaml"))

	data := testData{Counter: 7}
	require.NoError(t, store.Load(&data))

	// untouched when the file does not exist yet
	assert.Equal(t, 7, data.Counter)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := snapshot.New(filepath.Join(t.TempDir(), "data.yaml"))

	in := testData{Counter: 3, Entries: map[string]string{"a": "1"}}
	require.NoError(t, store.Save(&in))

	var out testData
	require.NoError(t, store.Load(&out))
	assert.Equal(t, in, out)
}

func TestStore_Update(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	store := snapshot.New(path)

	var data testData
	require.NoError(t, store.Update(&data, func() error {
		data.Counter = 1
		data.Entries = map[string]string{"k": "v"}
		return nil
	}))

	// a second cycle sees the previous state
	var second testData
	require.NoError(t, store.Update(&second, func() error {
		second.Counter++
		return nil
	}))

	var out testData
	require.NoError(t, store.Load(&out))
	assert.Equal(t, 2, out.Counter)
	assert.Equal(t, map[string]string{"k": "v"}, out.Entries)
}

func TestStore_UpdateMutateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	store := snapshot.New(path)

	var data testData
	require.NoError(t, store.Update(&data, func() error {
		data.Counter = 42
		return nil
	}))

	var second testData
	err := store.Update(&second, func() error {
		second.Counter = 99
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	// failed mutation leaves the snapshot untouched
	var out testData
	require.NoError(t, store.Load(&out))
	assert.Equal(t, 42, out.Counter)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot yaml ["), 0o644))

	var data testData
	err := snapshot.New(path).Load(&data)
	assert.ErrorIs(t, err, snapshot.ErrCorruptSnapshot)
}
