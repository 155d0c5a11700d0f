package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finitefield.org/heritage-web/internal/domain"
)

// ErrEmptyCatalog is returned by loaders that found no heritage items.
var ErrEmptyCatalog = errors.New("catalog: no heritage items loaded")

// ErrNotFound reports a lookup for an id the catalog does not hold.
var ErrNotFound = errors.New("catalog: not found")

// Repository is the read-only data source behind the query layer. Implementations must be
// safe for concurrent use.
type Repository interface {
	All(ctx context.Context) []domain.HeritageItem
	ByID(ctx context.Context, id string) (domain.HeritageItem, bool)
	ByState(ctx context.Context, stateSlug string) []domain.HeritageItem
	ByRegion(ctx context.Context, fragment string) []domain.HeritageItem
	ByCategory(ctx context.Context, category string) []domain.HeritageItem
	Search(ctx context.Context, query string) []domain.HeritageItem
	Featured(ctx context.Context, limit int) []domain.HeritageItem
	PopularStates(ctx context.Context, limit int) []domain.StateCount
	Regions(ctx context.Context) []domain.Region
	RegionByID(ctx context.Context, id string) (domain.Region, bool)
}

// StaticRepository serves an immutable snapshot of items and regions held in memory.
type StaticRepository struct {
	items   []domain.HeritageItem
	regions []domain.Region
}

var _ Repository = (*StaticRepository)(nil)

// NewStaticRepository copies the supplied records into a new repository. Item identifiers must be
// non-empty and unique.
func NewStaticRepository(items []domain.HeritageItem, regions []domain.Region) (*StaticRepository, error) {
	seen := make(map[string]struct{}, len(items))
	copiedItems := make([]domain.HeritageItem, 0, len(items))
	for i, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: item at index %d has no id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate item id %q", id)
		}
		seen[id] = struct{}{}
		item.ID = id
		copiedItems = append(copiedItems, item.Clone())
	}

	copiedRegions := make([]domain.Region, 0, len(regions))
	for _, region := range regions {
		copiedRegions = append(copiedRegions, region.Clone())
	}

	return &StaticRepository{items: copiedItems, regions: copiedRegions}, nil
}

// All returns every item in catalog order.
func (r *StaticRepository) All(context.Context) []domain.HeritageItem {
	return filter(r.items, func(domain.HeritageItem) bool { return true })
}

// ByID looks up a single item.
func (r *StaticRepository) ByID(_ context.Context, id string) (domain.HeritageItem, bool) {
	return ByID(r.items, id)
}

// ByState returns the items for a state slug.
func (r *StaticRepository) ByState(_ context.Context, stateSlug string) []domain.HeritageItem {
	return ByState(r.items, stateSlug)
}

// ByRegion returns the items whose region contains fragment.
func (r *StaticRepository) ByRegion(_ context.Context, fragment string) []domain.HeritageItem {
	return ByRegion(r.items, fragment)
}

// ByCategory returns the items in a category.
func (r *StaticRepository) ByCategory(_ context.Context, category string) []domain.HeritageItem {
	return ByCategory(r.items, category)
}

// Search performs a free-text search.
func (r *StaticRepository) Search(_ context.Context, query string) []domain.HeritageItem {
	return Search(r.items, query)
}

// Featured returns the highest rated featured items.
func (r *StaticRepository) Featured(_ context.Context, limit int) []domain.HeritageItem {
	return Featured(r.items, limit)
}

// PopularStates returns per-state counts.
func (r *StaticRepository) PopularStates(_ context.Context, limit int) []domain.StateCount {
	return PopularStates(r.items, limit)
}

// Regions returns every region in declaration order.
func (r *StaticRepository) Regions(context.Context) []domain.Region {
	out := make([]domain.Region, 0, len(r.regions))
	for _, region := range r.regions {
		out = append(out, region.Clone())
	}
	return out
}

// RegionByID looks up a region by identifier, ignoring case.
func (r *StaticRepository) RegionByID(_ context.Context, id string) (domain.Region, bool) {
	id = strings.TrimSpace(id)
	for _, region := range r.regions {
		if strings.EqualFold(region.ID, id) {
			return region.Clone(), true
		}
	}
	return domain.Region{}, false
}
