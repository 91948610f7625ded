package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/linktrack/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedLink(t *testing.T, store *storage.Store, url, title string) *storage.Link {
	t.Helper()
	link, err := store.UpsertLink(context.Background(), storage.UpsertParams{
		URL: url, Title: title, VisitedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	return link
}

func TestListCommand_Human(t *testing.T) {
	store := openTestStore(t)
	seedLink(t, store, "https://go.dev/doc", "Go Documentation")
	seedLink(t, store, "https://example.com", "Example")

	cmd := &ListCommand{Sort: "title", Asc: true, Limit: 20}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	assert.Contains(t, out, "Go Documentation")
	assert.Contains(t, out, "https://example.com")
}

func TestListCommand_SearchFromArgs(t *testing.T) {
	store := openTestStore(t)
	seedLink(t, store, "https://go.dev/doc", "Go Documentation")
	seedLink(t, store, "https://example.com", "Example")

	cmd := &ListCommand{Limit: 20}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, []string{"go.dev"}))
	})

	assert.Contains(t, out, "go.dev")
	assert.NotContains(t, out, "example.com")
}

func TestListCommand_JSON(t *testing.T) {
	store := openTestStore(t)
	seedLink(t, store, "https://go.dev/doc", "Go Documentation")

	cmd := &ListCommand{Limit: 20, globals: &GlobalFlags{JSON: true}}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})

	var links []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &links))
	require.Len(t, links, 1)
	assert.Equal(t, "https://go.dev/doc", links[0]["url"])
}

func TestListCommand_Empty(t *testing.T) {
	store := openTestStore(t)

	cmd := &ListCommand{Limit: 20}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, nil))
	})
	assert.Contains(t, out, "No links found")
}

func TestEditCommand_UpdatesFields(t *testing.T) {
	store := openTestStore(t)
	link := seedLink(t, store, "https://example.com", "Before")

	cmd := &EditCommand{ID: link.ID, Title: "After", Notes: "note"}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})
	assert.Contains(t, out, "After")

	got, err := store.GetLink(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, "note", got.Notes)
}

func TestEditCommand_ToggleFavorite(t *testing.T) {
	store := openTestStore(t)
	link := seedLink(t, store, "https://example.com", "E")

	cmd := &EditCommand{ID: link.ID, Favorite: true}
	captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	got, err := store.GetLink(context.Background(), link.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)
}

func TestEditCommand_MissingLink(t *testing.T) {
	store := openTestStore(t)

	cmd := &EditCommand{ID: 999, Title: "x"}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})
	assert.Contains(t, out, "No link with id 999")
}

func TestTrashRestorePurgeFlow(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	link := seedLink(t, store, "https://example.com", "E")
	id := []string{intToStr(link.ID)}

	trash := &TrashCommand{}
	out := captureOutput(t, func() {
		require.NoError(t, trash.executeWithStore(store, id))
	})
	assert.Contains(t, out, "Trashed 1 link(s)")

	restore := &RestoreCommand{}
	out = captureOutput(t, func() {
		require.NoError(t, restore.executeWithStore(store, id))
	})
	assert.Contains(t, out, "Restored 1 link(s)")

	purge := &PurgeCommand{Force: true}
	out = captureOutput(t, func() {
		require.NoError(t, purge.executeWithStore(store, id))
	})
	assert.Contains(t, out, "Permanently deleted 1 link(s)")

	got, err := store.GetLink(ctx, link.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTrashCommand_RequiresIDs(t *testing.T) {
	store := openTestStore(t)
	cmd := &TrashCommand{}
	assert.Error(t, cmd.executeWithStore(store, nil))
}

func TestCategoryCommand_AddListRemove(t *testing.T) {
	store := openTestStore(t)

	add := &CategoryCommand{Color: "#123456"}
	out := captureOutput(t, func() {
		require.NoError(t, add.executeWithStore(store, []string{"add", "Work"}))
	})
	assert.Contains(t, out, "Created category")

	list := &CategoryCommand{}
	out = captureOutput(t, func() {
		require.NoError(t, list.executeWithStore(store, nil))
	})
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "#123456")

	rm := &CategoryCommand{}
	out = captureOutput(t, func() {
		require.NoError(t, rm.executeWithStore(store, []string{"rm", "1"}))
	})
	assert.Contains(t, out, "Deleted category 1")
}

func TestCategoryCommand_AssignUnassign(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	link := seedLink(t, store, "https://example.com", "E")
	cat, err := store.CreateCategory(ctx, "Work", "", 0)
	require.NoError(t, err)

	cmd := &CategoryCommand{}
	args := []string{"assign", intToStr(link.ID), intToStr(cat.ID)}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, args))
	})
	assert.Contains(t, out, "added to category")

	// Second assign is reported as already present.
	out = captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, args))
	})
	assert.Contains(t, out, "already in category")
}

func TestCategoryCommand_UnknownVerb(t *testing.T) {
	store := openTestStore(t)
	cmd := &CategoryCommand{}
	assert.Error(t, cmd.executeWithStore(store, []string{"frobnicate"}))
}

func TestTagCommand_AddAndList(t *testing.T) {
	store := openTestStore(t)
	link := seedLink(t, store, "https://example.com", "E")

	cmd := &TagCommand{}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, []string{"add", intToStr(link.ID), "reading"}))
	})
	assert.Contains(t, out, "Tagged link")

	out = captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, []string{"list"}))
	})
	assert.Contains(t, out, "reading")
}

func TestFilterCommand_AddListTest(t *testing.T) {
	store := openTestStore(t)

	add := &FilterCommand{Type: "domain", Description: "no ads"}
	out := captureOutput(t, func() {
		require.NoError(t, add.executeWithStore(store, []string{"add", "ads.example.com"}))
	})
	assert.Contains(t, out, "Added filter")

	list := &FilterCommand{}
	out = captureOutput(t, func() {
		require.NoError(t, list.executeWithStore(store, []string{"list"}))
	})
	assert.Contains(t, out, "ads.example.com")

	testCmd := &FilterCommand{}
	out = captureOutput(t, func() {
		require.NoError(t, testCmd.executeWithStore(store, []string{"test", "https://ads.example.com/banner"}))
	})
	assert.Contains(t, out, "would NOT be tracked")

	out = captureOutput(t, func() {
		require.NoError(t, testCmd.executeWithStore(store, []string{"test", "https://example.org/fine"}))
	})
	assert.Contains(t, out, "would be tracked")
}

func TestSourcesCommand_ListAndToggle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	src, err := store.RegisterSource(ctx, "Chrome", "Default", "/p")
	require.NoError(t, err)

	list := &SourcesCommand{}
	out := captureOutput(t, func() {
		require.NoError(t, list.executeWithStore(store))
	})
	assert.Contains(t, out, "Chrome/Default")
	assert.Contains(t, out, "never")

	disable := &SourcesCommand{Disable: src.ID}
	out = captureOutput(t, func() {
		require.NoError(t, disable.executeWithStore(store))
	})
	assert.Contains(t, out, "disabled")

	// Default listing hides disabled sources.
	out = captureOutput(t, func() {
		require.NoError(t, list.executeWithStore(store))
	})
	assert.Contains(t, out, "No sources registered")
}

func TestStatusCommand_Human(t *testing.T) {
	store := openTestStore(t)
	seedLink(t, store, "https://example.com", "E")

	cmd := &StatusCommand{version: "9.9.9"}
	out := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})
	assert.Contains(t, out, "linktrack 9.9.9")
	assert.Contains(t, out, "Links:      1")
	assert.Contains(t, out, "example.com")
}

func TestExportImportCommands_RoundTrip(t *testing.T) {
	src := openTestStore(t)
	dst := openTestStore(t)
	seedLink(t, src, "https://example.com/rt", "Round Trip")

	path := filepath.Join(t.TempDir(), "export.json")
	export := &ExportCommand{Out: path}
	out := captureOutput(t, func() {
		require.NoError(t, export.executeWithStore(src))
	})
	assert.Contains(t, out, "Exported 1 link(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://example.com/rt")

	imp := &ImportCommand{In: path}
	out = captureOutput(t, func() {
		require.NoError(t, imp.executeWithStore(dst))
	})
	assert.Contains(t, out, "1 new")

	link, err := dst.GetLinkByURL(context.Background(), "https://example.com/rt")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "Round Trip", link.Title)
}

func intToStr(id int64) string {
	return strconv.FormatInt(id, 10)
}
