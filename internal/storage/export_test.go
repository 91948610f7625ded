package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_ShapeAndContent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	link, err := store.UpsertLink(ctx, UpsertParams{URL: "https://example.com/e", Title: "E"})
	require.NoError(t, err)

	work, err := store.CreateCategory(ctx, "Work", "#111111", 0)
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, "Sub", "", work.ID)
	require.NoError(t, err)
	_, err = store.AddLinkToCategory(ctx, link.ID, work.ID)
	require.NoError(t, err)
	_, err = store.AddTagToLink(ctx, link.ID, "keep")
	require.NoError(t, err)

	deleted, err := store.UpsertLink(ctx, UpsertParams{URL: "https://example.com/gone"})
	require.NoError(t, err)
	_, err = store.DeleteLink(ctx, deleted.ID, false)
	require.NoError(t, err)

	doc, err := store.Export(ctx)
	require.NoError(t, err)

	assert.Equal(t, ExportVersion, doc.Version)
	assert.False(t, doc.ExportedAt.IsZero())

	require.Len(t, doc.Links, 1, "deleted links are not exported")
	assert.Equal(t, "https://example.com/e", doc.Links[0].URL)
	assert.Equal(t, []string{"Work"}, doc.Links[0].Categories)
	assert.Equal(t, []string{"keep"}, doc.Links[0].Tags)

	// The category tree is flattened, children included.
	names := make([]string, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Work", "Sub"}, names)
	assert.Equal(t, []string{"keep"}, doc.Tags)
}

func TestImport_NewLink(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	accessed := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

	stats, err := store.Import(ctx, &ExportDocument{
		Version: ExportVersion,
		Links: []ExportedLink{{
			URL: "https://example.com/new", Title: "New", Notes: "n",
			Favorite: true, AccessCount: 7,
			CreatedAt: created, LastAccessedAt: accessed,
			Categories: []string{"Imported"}, Tags: []string{"fresh"},
		}},
		Categories: []ExportedCategory{{Name: "Imported", Color: "#222222"}},
		Tags:       []string{"fresh"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.LinksNew)
	assert.Equal(t, 0, stats.LinksMerged)
	assert.Equal(t, 1, stats.NewCategories)
	assert.Equal(t, 1, stats.NewTags)

	link, err := store.GetLinkByURL(ctx, "https://example.com/new")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "New", link.Title)
	assert.Equal(t, int64(7), link.AccessCount)
	assert.True(t, link.Favorite)
	assert.True(t, link.CreatedAt.Equal(created))
	assert.True(t, link.LastAccessedAt.Equal(accessed))
	require.Len(t, link.Categories, 1)
	assert.Equal(t, "Imported", link.Categories[0].Name)
	require.Len(t, link.Tags, 1)
	assert.Equal(t, "fresh", link.Tags[0].Name)
}

func TestImport_MergesExistingLink(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	local := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.UpsertLink(ctx, UpsertParams{
			URL: "https://example.com/m", Title: "Local Title",
			VisitedAt: local.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	incoming := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stats, err := store.Import(ctx, &ExportDocument{
		Version: ExportVersion,
		Links: []ExportedLink{{
			URL: "https://example.com/m", Title: "Imported Title",
			Notes: "imported notes", Favorite: true,
			AccessCount: 3, LastAccessedAt: incoming,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LinksMerged)

	link, err := store.GetLinkByURL(ctx, "https://example.com/m")
	require.NoError(t, err)
	assert.Equal(t, int64(6), link.AccessCount, "max(5, 3) + 1")
	assert.True(t, link.LastAccessedAt.Equal(incoming), "newest side wins")
	assert.Equal(t, "Local Title", link.Title, "existing title is kept")
	assert.Equal(t, "imported notes", link.Notes, "empty notes are filled")
	assert.True(t, link.Favorite, "favorite merges with OR")
}

func TestImport_SkipsSoftDeletedTarget(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	link, err := store.UpsertLink(ctx, UpsertParams{URL: "https://example.com/s"})
	require.NoError(t, err)
	_, err = store.DeleteLink(ctx, link.ID, false)
	require.NoError(t, err)

	stats, err := store.Import(ctx, &ExportDocument{
		Version: ExportVersion,
		Links: []ExportedLink{{
			URL: "https://example.com/s", Title: "Back", AccessCount: 9,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LinksSkipped)

	got, err := store.GetLink(ctx, link.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted, "deletion wins over resurrection")
	assert.Equal(t, int64(1), got.AccessCount)
}

func TestImport_ExistingTaxonomySkipped(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "Already", "", 0)
	require.NoError(t, err)
	_, err = store.CreateTag(ctx, "seen")
	require.NoError(t, err)

	stats, err := store.Import(ctx, &ExportDocument{
		Version:    ExportVersion,
		Categories: []ExportedCategory{{Name: "Already"}, {Name: "Novel"}},
		Tags:       []string{"seen", "unseen"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NewCategories)
	assert.Equal(t, 1, stats.NewTags)
}

func TestImport_NilDocument(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Import(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := openTestStore(t)
	dst := openTestStore(t)
	ctx := context.Background()

	link, err := src.UpsertLink(ctx, UpsertParams{URL: "https://example.com/rt", Title: "RT"})
	require.NoError(t, err)
	_, err = src.AddTagToLink(ctx, link.ID, "round")
	require.NoError(t, err)

	doc, err := src.Export(ctx)
	require.NoError(t, err)

	stats, err := dst.Import(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LinksNew)

	got, err := dst.GetLinkByURL(ctx, "https://example.com/rt")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "RT", got.Title)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "round", got.Tags[0].Name)
}
