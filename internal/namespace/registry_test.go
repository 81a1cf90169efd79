package namespace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(filepath.Join(t.TempDir(), "namespaces.json"))
}

func TestRegistryAddListSorted(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Add("zoe"))
	require.NoError(t, reg.Add("adam"))
	require.NoError(t, reg.Add("mia"))

	names, err := reg.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"adam", "mia", "zoe"}, names)
}

func TestRegistryAddIdempotent(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Add("adam"))
	require.NoError(t, reg.Add("adam"))

	names, err := reg.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"adam"}, names)
}

func TestRegistryDelete(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Add("adam"))
	require.NoError(t, reg.Add("mia"))
	require.NoError(t, reg.Delete("adam"))

	names, err := reg.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"mia"}, names)

	// Unknown names delete without error.
	require.NoError(t, reg.Delete("nobody"))
}

func TestRegistryMissingFile(t *testing.T) {
	reg := NewRegistry(filepath.Join(t.TempDir(), "missing", "namespaces.json"))

	names, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, reg.Delete("anything"))
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Error(t, reg.Add(""))
}

func TestRegistryFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "namespaces.json")
	reg := NewRegistry(path)
	require.NoError(t, reg.Add("adam"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var file struct {
		Namespaces []string `json:"namespaces"`
	}
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, []string{"adam"}, file.Namespaces)
}

func TestRegistryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "namespaces.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	reg := NewRegistry(path)
	_, err := reg.List()
	assert.Error(t, err)
}
