package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/heritage-web/internal/bookmarks"
	"finitefield.org/heritage-web/internal/catalog"
	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/platform/requestctx"
)

// BookmarkServiceDeps groups constructor parameters for the bookmark service.
type BookmarkServiceDeps struct {
	Catalog catalog.Repository
}

type bookmarkService struct {
	catalog catalog.Repository
}

// NewBookmarkService constructs the bookmark service.
func NewBookmarkService(deps BookmarkServiceDeps) (BookmarkService, error) {
	if deps.Catalog == nil {
		return nil, ErrCatalogMissing
	}
	return &bookmarkService{catalog: deps.Catalog}, nil
}

func (s *bookmarkService) Add(ctx context.Context, store *bookmarks.Store, id string) BookmarkResult {
	cookie := store.Add(id)
	requestctx.Logger(ctx).Debug("bookmark added", zap.String("item_id", strings.TrimSpace(id)))
	return BookmarkResult{Success: true, Bookmarks: store.IDs(), Cookie: cookie}
}

func (s *bookmarkService) Remove(ctx context.Context, store *bookmarks.Store, id string) BookmarkResult {
	cookie := store.Remove(id)
	requestctx.Logger(ctx).Debug("bookmark removed", zap.String("item_id", strings.TrimSpace(id)))
	return BookmarkResult{Success: true, Bookmarks: store.IDs(), Cookie: cookie}
}

func (s *bookmarkService) List(ctx context.Context, store *bookmarks.Store) ([]domain.HeritageItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return store.Resolve(ctx, s.catalog), nil
}
