package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory_NameValidation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, "  ", "", 0)
	assert.ErrorIs(t, err, ErrInvalid)

	cat, err := store.CreateCategory(ctx, "  Work  ", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "Work", cat.Name, "name is trimmed")
	assert.Equal(t, "#808080", cat.Color, "default color applied")

	_, err = store.CreateCategory(ctx, "Work", "#ffffff", 0)
	assert.ErrorIs(t, err, ErrExists)
}

func TestGetCategories_BuildsForest(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	work, err := store.CreateCategory(ctx, "Work", "#112233", 0)
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, "Personal", "", 0)
	require.NoError(t, err)
	sub, err := store.CreateCategory(ctx, "Meetings", "", work.ID)
	require.NoError(t, err)

	roots, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	var gotWork *Category
	for _, r := range roots {
		assert.Equal(t, int64(0), r.ParentID)
		if r.Name == "Work" {
			gotWork = r
		}
	}
	require.NotNil(t, gotWork)
	require.Len(t, gotWork.Children, 1)
	assert.Equal(t, sub.ID, gotWork.Children[0].ID)
	assert.Equal(t, "Meetings", gotWork.Children[0].Name)
	assert.Equal(t, work.ID, gotWork.Children[0].ParentID)
}

func TestUpdateCategory_PartialAndMissing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Before", "#000000", 0)
	require.NoError(t, err)

	name := "After"
	ok, err := store.UpdateCategory(ctx, cat.ID, &name, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	roots, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "After", roots[0].Name)
	assert.Equal(t, "#000000", roots[0].Color, "color untouched")

	ok, err = store.UpdateCategory(ctx, cat.ID, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok, "nothing supplied is a no-op")

	ok, err = store.UpdateCategory(ctx, 9999, &name, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteCategory_CascadesChildrenNotLinks(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	parent, err := store.CreateCategory(ctx, "Parent", "", 0)
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, "Child", "", parent.ID)
	require.NoError(t, err)

	link, err := store.UpsertLink(ctx, UpsertParams{URL: "https://example.com/cat"})
	require.NoError(t, err)
	_, err = store.AddLinkToCategory(ctx, link.ID, parent.ID)
	require.NoError(t, err)

	ok, err := store.DeleteCategory(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	roots, err := store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, roots, "child categories cascade away")

	got, err := store.GetLink(ctx, link.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "the link itself survives")
	assert.Empty(t, got.Categories)
}

func TestAddLinkToCategory_DuplicateIsNoOp(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	link, err := store.UpsertLink(ctx, UpsertParams{URL: "https://example.com/dup"})
	require.NoError(t, err)
	cat, err := store.CreateCategory(ctx, "Dup", "", 0)
	require.NoError(t, err)

	ok, err := store.AddLinkToCategory(ctx, link.ID, cat.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AddLinkToCategory(ctx, link.ID, cat.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.RemoveLinkFromCategory(ctx, link.ID, cat.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.RemoveLinkFromCategory(ctx, link.ID, cat.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateTag_GetOrCreate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.CreateTag(ctx, "golang")
	require.NoError(t, err)

	second, err := store.CreateTag(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same name returns the existing tag")

	_, err = store.CreateTag(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalid)

	tags, err := store.GetTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestAddTagToLink_CreatesTagOnDemand(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	link, err := store.UpsertLink(ctx, UpsertParams{URL: "https://example.com/tag"})
	require.NoError(t, err)

	ok, err := store.AddTagToLink(ctx, link.ID, "reading")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AddTagToLink(ctx, link.ID, "reading")
	require.NoError(t, err)
	assert.False(t, ok, "duplicate association is a no-op")

	got, err := store.GetLink(ctx, link.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "reading", got.Tags[0].Name)

	ok, err = store.RemoveTagFromLink(ctx, link.ID, got.Tags[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = store.GetLink(ctx, link.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	// The tag itself is not garbage collected.
	tags, err := store.GetTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}
