package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"finitefield.org/heritage-web/internal/domain"
)

const (
	// DefaultFeaturedLimit is used when Featured receives a non-positive limit.
	DefaultFeaturedLimit = 8
	// DefaultPopularStatesLimit is used when PopularStates receives a non-positive limit.
	DefaultPopularStatesLimit = 6
)

type predicate func(domain.HeritageItem) bool

func filter(items []domain.HeritageItem, keep predicate) []domain.HeritageItem {
	out := make([]domain.HeritageItem, 0)
	for _, item := range items {
		if keep(item) {
			out = append(out, item.Clone())
		}
	}
	return out
}

// Search returns the items whose title, description, state, category or any tag contains query,
// ignoring case. The query is matched as given, surrounding spaces included; a blank query
// matches nothing.
func Search(items []domain.HeritageItem, query string) []domain.HeritageItem {
	if strings.TrimSpace(query) == "" {
		return []domain.HeritageItem{}
	}
	folder := cases.Fold()
	needle := fold(folder, query)
	contains := func(value string) bool {
		return strings.Contains(fold(folder, value), needle)
	}
	return filter(items, func(item domain.HeritageItem) bool {
		if contains(item.Title) || contains(item.Description) || contains(item.State) || contains(item.Category) {
			return true
		}
		return slices.ContainsFunc(item.Tags, contains)
	})
}

// ByState resolves a state slug to its display name and returns the items of that state.
func ByState(items []domain.HeritageItem, stateSlug string) []domain.HeritageItem {
	name := StateName(stateSlug)
	if name == "" {
		return []domain.HeritageItem{}
	}
	folder := cases.Fold()
	want := fold(folder, name)
	return filter(items, func(item domain.HeritageItem) bool {
		return fold(folder, item.State) == want
	})
}

// ByRegion returns the items whose region contains fragment, ignoring case.
func ByRegion(items []domain.HeritageItem, fragment string) []domain.HeritageItem {
	folder := cases.Fold()
	needle := fold(folder, fragment)
	return filter(items, func(item domain.HeritageItem) bool {
		return strings.Contains(fold(folder, item.Region), needle)
	})
}

// ByCategory returns the items whose category equals category, ignoring case.
func ByCategory(items []domain.HeritageItem, category string) []domain.HeritageItem {
	folder := cases.Fold()
	want := fold(folder, strings.TrimSpace(category))
	return filter(items, func(item domain.HeritageItem) bool {
		return fold(folder, item.Category) == want
	})
}

// ByID returns the item with the exact identifier.
func ByID(items []domain.HeritageItem, id string) (domain.HeritageItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item.Clone(), true
		}
	}
	return domain.HeritageItem{}, false
}

// Featured returns featured items ordered by descending rating, keeping catalog order on ties.
func Featured(items []domain.HeritageItem, limit int) []domain.HeritageItem {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	out := filter(items, func(item domain.HeritageItem) bool { return item.IsFeatured })
	slices.SortStableFunc(out, func(a, b domain.HeritageItem) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		}
		return 0
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PopularStates counts items per state and returns the states with the most items. Each state
// carries the image of its first item in catalog order; states with equal counts keep the order
// in which they were first seen.
func PopularStates(items []domain.HeritageItem, limit int) []domain.StateCount {
	if limit <= 0 {
		limit = DefaultPopularStatesLimit
	}
	index := make(map[string]int)
	out := make([]domain.StateCount, 0)
	for _, item := range items {
		if pos, ok := index[item.State]; ok {
			out[pos].Count++
			continue
		}
		index[item.State] = len(out)
		out = append(out, domain.StateCount{State: item.State, Count: 1, Image: item.Image})
	}
	slices.SortStableFunc(out, func(a, b domain.StateCount) int {
		return b.Count - a.Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryGroup is a run of items sharing a category.
type CategoryGroup struct {
	Category string
	Items    []domain.HeritageItem
}

// Slug is an anchor-friendly form of the category name.
func (g CategoryGroup) Slug() string {
	return StateSlug(g.Category)
}

// GroupByCategory partitions items by category, ordering groups by first appearance.
func GroupByCategory(items []domain.HeritageItem) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, item := range items {
		pos, ok := index[item.Category]
		if !ok {
			pos = len(groups)
			index[item.Category] = pos
			groups = append(groups, CategoryGroup{Category: item.Category})
		}
		groups[pos].Items = append(groups[pos].Items, item.Clone())
	}
	return groups
}
