package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/heritage-web/internal/bookmarks"
)

func TestNewBookmarkServiceRequiresCatalog(t *testing.T) {
	t.Parallel()

	_, err := NewBookmarkService(BookmarkServiceDeps{})
	require.ErrorIs(t, err, ErrCatalogMissing)
}

func TestBookmarkServiceAddRemoveList(t *testing.T) {
	t.Parallel()

	svc, err := NewBookmarkService(BookmarkServiceDeps{Catalog: testCatalog(t)})
	require.NoError(t, err)
	ctx := context.Background()
	store := bookmarks.Parse("")

	result := svc.Add(ctx, store, "6")
	require.True(t, result.Success)
	require.Equal(t, []string{"6"}, result.Bookmarks)
	require.NotNil(t, result.Cookie)
	require.Equal(t, bookmarks.CookieName, result.Cookie.Name)

	result = svc.Add(ctx, store, "6")
	require.Equal(t, []string{"6"}, result.Bookmarks)

	svc.Add(ctx, store, "unknown")
	svc.Add(ctx, store, "1")

	items, err := svc.List(ctx, store)
	require.NoError(t, err)
	require.Equal(t, []string{"6", "1"}, itemIDs(items))

	result = svc.Remove(ctx, store, "6")
	require.True(t, result.Success)
	require.Equal(t, []string{"unknown", "1"}, result.Bookmarks)
	require.NotNil(t, result.Cookie)

	items, err = svc.List(ctx, store)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, itemIDs(items))
}

func TestBookmarkServiceListCorruptCookie(t *testing.T) {
	t.Parallel()

	svc, err := NewBookmarkService(BookmarkServiceDeps{Catalog: testCatalog(t)})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), bookmarks.Parse("not valid json"))
	require.NoError(t, err)
	require.Empty(t, items)
}
