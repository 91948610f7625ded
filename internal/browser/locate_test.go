package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProfileDir(t *testing.T, root, name string, withHistory bool) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if withHistory {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "History"), []byte("x"), 0o600))
	}
	return dir
}

func TestHasHistory(t *testing.T) {
	root := t.TempDir()

	with := makeProfileDir(t, root, "Default", true)
	without := makeProfileDir(t, root, "Profile 1", false)

	assert.True(t, HasHistory(with))
	assert.False(t, HasHistory(without))
	assert.False(t, HasHistory(filepath.Join(root, "nope")))
}

func TestDiscoverUnder_FindsProfilesWithHistory(t *testing.T) {
	root := t.TempDir()
	makeProfileDir(t, root, "Default", true)
	makeProfileDir(t, root, "Profile 1", true)
	makeProfileDir(t, root, "Profile 2", false) // no history store
	makeProfileDir(t, root, "Crashpad", true)   // not a profile directory

	profiles := discoverUnder("Chrome", root)
	require.Len(t, profiles, 2)

	names := []string{profiles[0].Name, profiles[1].Name}
	assert.ElementsMatch(t, []string{"Default", "Profile 1"}, names)
	for _, p := range profiles {
		assert.Equal(t, "Chrome", p.Browser)
		assert.True(t, HasHistory(p.Path))
	}
}

func TestDiscoverUnder_MissingRoot(t *testing.T) {
	profiles := discoverUnder("Chrome", filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, profiles)
}

func TestDiscoverUnder_AppliesDisplayNames(t *testing.T) {
	root := t.TempDir()
	makeProfileDir(t, root, "Default", true)
	makeProfileDir(t, root, "Profile 1", true)

	localState := `{
		"profile": {
			"info_cache": {
				"Default": {"name": "Personal"},
				"Profile 1": {"name": "Work"}
			}
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "Local State"), []byte(localState), 0o600))

	profiles := discoverUnder("Edge", root)
	require.Len(t, profiles, 2)

	byPath := make(map[string]string)
	for _, p := range profiles {
		byPath[filepath.Base(p.Path)] = p.Name
	}
	assert.Equal(t, "Personal", byPath["Default"])
	assert.Equal(t, "Work", byPath["Profile 1"])
}

func TestDiscoverUnder_MalformedLocalStateFallsBack(t *testing.T) {
	root := t.TempDir()
	makeProfileDir(t, root, "Default", true)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Local State"), []byte("{broken"), 0o600))

	profiles := discoverUnder("Chrome", root)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Default", profiles[0].Name, "directory name is the fallback label")
}

func TestProfileHistoryPath(t *testing.T) {
	p := Profile{Browser: "Chrome", Name: "Default", Path: filepath.Join("u", "Default")}
	assert.Equal(t, filepath.Join("u", "Default", "History"), p.HistoryPath())
}

func TestSnapshot_CopiesAndCleansUp(t *testing.T) {
	src := filepath.Join(t.TempDir(), "History")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	path, cleanup, err := snapshot(src)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "cleanup removes the snapshot")

	cleanup() // safe to call twice
}

func TestSnapshot_MissingSource(t *testing.T) {
	_, _, err := snapshot(filepath.Join(t.TempDir(), "History"))
	assert.Error(t, err)
}
