package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/heritage-web/internal/domain"
)

func validItem(id, state string) domain.HeritageItem {
	return domain.HeritageItem{
		ID:          id,
		Title:       "Item " + id,
		Description: "desc",
		Image:       "/img.jpg",
		Category:    domain.CategoryMonuments,
		State:       state,
		Region:      "South India",
		Location:    "Somewhere",
		Source:      domain.SourceLocal,
		Rating:      4,
	}
}

func TestCheckReportsInvariantViolations(t *testing.T) {
	t.Parallel()

	regions := []domain.Region{
		{ID: "south", Name: "South India", States: []string{"Kerala", "Goa"}},
		{ID: "west", Name: "West India", States: []string{"Goa", "Gujarat"}},
	}

	broken := validItem("3", "Kerala")
	broken.Title = ""
	broken.Source = "blog"
	broken.Rating = 7
	broken.RelatedItems = []domain.RelatedItem{{ID: "99", Title: "Ghost"}}

	items := []domain.HeritageItem{
		validItem("1", "Kerala"),
		validItem("1", "Kerala"),
		broken,
		validItem("4", "Atlantis"),
		validItem("5", PanIndiaState),
	}

	issues := Check(items, regions)
	require.True(t, HasErrors(issues))

	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.String())
	}
	joined := strings.Join(messages, "\n")

	require.Contains(t, joined, `error: state "Goa" is listed in regions south, west`)
	require.Equal(t, 1, strings.Count(joined, "is listed in regions"))
	require.Contains(t, joined, "error: item 1: duplicate id")
	require.Equal(t, 1, strings.Count(joined, "duplicate id"))
	require.Contains(t, joined, "error: item 3: missing title")
	require.Contains(t, joined, `error: item 3: unknown source "blog"`)
	require.Contains(t, joined, "error: item 3: rating 7.0 outside 0-5")
	require.Contains(t, joined, `warning: item 3: related item "99" (Ghost) is not in the catalog`)
	require.Contains(t, joined, `error: item 4: state "Atlantis" does not belong to any region`)
	require.Contains(t, joined, `warning: item 5: state "Pan-India" spans every region`)
}

func TestCheckCleanCatalog(t *testing.T) {
	t.Parallel()

	regions := []domain.Region{{ID: "south", Name: "South India", States: []string{"Kerala"}}}
	issues := Check([]domain.HeritageItem{validItem("1", "Kerala"), validItem("2", "kerala")}, regions)
	require.Empty(t, issues)
	require.False(t, HasErrors(issues))
}

func TestCheckStateRepeatedWithinRegion(t *testing.T) {
	t.Parallel()

	regions := []domain.Region{
		{ID: "south", Name: "South India", States: []string{"Kerala", "Goa", "kerala"}},
		{ID: "west", Name: "West India", States: []string{"Goa", "Gujarat", "Goa"}},
	}
	issues := Check([]domain.HeritageItem{validItem("1", "Kerala")}, regions)

	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.String())
	}
	joined := strings.Join(messages, "\n")

	require.NotContains(t, joined, "south, south")
	require.NotContains(t, joined, `state "Kerala" is listed in regions`)
	require.Contains(t, joined, `warning: state "kerala" is listed more than once in region south`)
	require.Contains(t, joined, `warning: state "Goa" is listed more than once in region west`)
	require.Contains(t, joined, `error: state "Goa" is listed in regions south, west`)
	require.Equal(t, 1, strings.Count(joined, "is listed in regions"))
}
