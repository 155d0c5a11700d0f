package services

import (
	"context"
	"net/http"

	"finitefield.org/heritage-web/internal/bookmarks"
	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/enrich"
)

// ItemNotFoundMessage is the error text carried by a detail result for an unknown id.
const ItemNotFoundMessage = "Item not found"

// SearchResult is the payload of the search entry point.
type SearchResult struct {
	Items []domain.HeritageItem `json:"items"`
}

// DetailResult is the payload of the detail entry point. Item is nil and Error is set when the
// id does not resolve.
type DetailResult struct {
	Item  *domain.HeritageItem `json:"item"`
	Error string               `json:"error"`
}

// Found reports whether the detail lookup resolved an item.
func (r DetailResult) Found() bool {
	return r.Item != nil
}

// HeritageService exposes the catalog queries used by pages and the JSON API. Methods only fail
// when ctx is cancelled while waiting out simulated latency.
type HeritageService interface {
	Search(ctx context.Context, query string) (SearchResult, error)
	Detail(ctx context.Context, id string) (DetailResult, error)
	State(ctx context.Context, stateSlug string) ([]domain.HeritageItem, error)
	Region(ctx context.Context, fragment string) ([]domain.HeritageItem, error)
	Category(ctx context.Context, category string) ([]domain.HeritageItem, error)
	Featured(ctx context.Context, limit int) ([]domain.HeritageItem, error)
	PopularStates(ctx context.Context, limit int) ([]domain.StateCount, error)
	Regions(ctx context.Context) ([]domain.Region, error)
	RegionByID(ctx context.Context, id string) (domain.Region, error)
	SearchWikipedia(ctx context.Context, query string, limit int) ([]enrich.SearchResult, error)
	CatalogStats(ctx context.Context) CatalogStats
}

// CatalogStats summarises the loaded catalog for readiness checks.
type CatalogStats struct {
	Items   int `json:"items"`
	Regions int `json:"regions"`
}

// BookmarkResult is returned by bookmark mutations.
type BookmarkResult struct {
	Success   bool         `json:"success"`
	Bookmarks []string     `json:"bookmarks"`
	Cookie    *http.Cookie `json:"-"`
}

// BookmarkService applies bookmark mutations to a per-request store.
type BookmarkService interface {
	Add(ctx context.Context, store *bookmarks.Store, id string) BookmarkResult
	Remove(ctx context.Context, store *bookmarks.Store, id string) BookmarkResult
	List(ctx context.Context, store *bookmarks.Store) ([]domain.HeritageItem, error)
}
