package catalog

import (
	"fmt"
	"strings"

	"finitefield.org/heritage-web/internal/domain"
)

// Severity grades a consistency finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// PanIndiaState marks records that are not tied to a single state.
const PanIndiaState = "Pan-India"

// Issue is a single consistency finding about the catalog.
type Issue struct {
	Severity Severity
	ItemID   string
	Message  string
}

func (i Issue) String() string {
	if i.ItemID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: item %s: %s", i.Severity, i.ItemID, i.Message)
}

// HasErrors reports whether any issue is error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Check validates the catalog against its data invariants: unique ids, required fields, known
// sources, ratings within 0-5, resolvable related items, and every state belonging to exactly one
// region.
func Check(items []domain.HeritageItem, regions []domain.Region) []Issue {
	var issues []Issue
	add := func(severity Severity, id, format string, args ...any) {
		issues = append(issues, Issue{Severity: severity, ItemID: id, Message: fmt.Sprintf(format, args...)})
	}

	owners := make(map[string][]string)
	var states []string
	for _, region := range regions {
		listed := make(map[string]bool, len(region.States))
		for _, state := range region.States {
			key := strings.ToLower(state)
			if listed[key] {
				add(SeverityWarning, "", "state %q is listed more than once in region %s", state, region.ID)
				continue
			}
			listed[key] = true
			if _, seen := owners[key]; !seen {
				states = append(states, state)
			}
			owners[key] = append(owners[key], region.ID)
		}
	}
	for _, state := range states {
		if ids := owners[strings.ToLower(state)]; len(ids) > 1 {
			add(SeverityError, "", "state %q is listed in regions %s", state, strings.Join(ids, ", "))
		}
	}

	ids := make(map[string]int, len(items))
	for _, item := range items {
		ids[item.ID]++
	}

	for _, item := range items {
		if item.ID == "" {
			add(SeverityError, "", "item %q has no id", item.Title)
			continue
		}
		if ids[item.ID] > 1 {
			add(SeverityError, item.ID, "duplicate id")
			ids[item.ID] = 0
		}

		required := []struct {
			name  string
			value string
		}{
			{"title", item.Title},
			{"description", item.Description},
			{"image", item.Image},
			{"category", item.Category},
			{"state", item.State},
			{"region", item.Region},
			{"location", item.Location},
		}
		for _, field := range required {
			if strings.TrimSpace(field.value) == "" {
				add(SeverityError, item.ID, "missing %s", field.name)
			}
		}

		if !item.Source.Valid() {
			add(SeverityError, item.ID, "unknown source %q", item.Source)
		}
		if item.Rating < 0 || item.Rating > 5 {
			add(SeverityError, item.ID, "rating %.1f outside 0-5", item.Rating)
		}
		if item.VisitCount < 0 {
			add(SeverityError, item.ID, "negative visit count")
		}

		for _, related := range item.RelatedItems {
			if _, ok := ids[related.ID]; !ok {
				add(SeverityWarning, item.ID, "related item %q (%s) is not in the catalog", related.ID, related.Title)
			}
		}

		if item.State == "" {
			continue
		}
		switch n := len(owners[strings.ToLower(item.State)]); {
		case n == 0 && strings.EqualFold(item.State, PanIndiaState):
			add(SeverityWarning, item.ID, "state %q spans every region", item.State)
		case n == 0:
			add(SeverityError, item.ID, "state %q does not belong to any region", item.State)
		}
	}

	return issues
}
