package views

import (
	"html/template"

	"github.com/a-h/templ"

	"finitefield.org/heritage-web/internal/catalog"
	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/enrich"
)

// SiteName is shown in the header and page titles.
const SiteName = "India Aura"

// NavLink is a header navigation entry.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// Page carries the data every page shares with the layout.
type Page struct {
	Title       string
	Description string
	Path        string
	Nav         []NavLink
	Regions     []domain.Region
}

// NewPage builds the shared layout data, marking the nav entry matching path as active.
func NewPage(title, description, path string, regions []domain.Region) Page {
	links := []NavLink{
		{Label: "Home", Href: "/"},
		{Label: "Search", Href: "/search"},
		{Label: "Bookmarks", Href: "/bookmarks"},
	}
	for i := range links {
		links[i].Active = links[i].Href == path
	}
	return Page{
		Title:       title,
		Description: description,
		Path:        path,
		Nav:         links,
		Regions:     regions,
	}
}

// FullTitle is the document title.
func (p Page) FullTitle() string {
	if p.Title == "" {
		return SiteName
	}
	return p.Title + " | " + SiteName
}

type HomeData struct {
	Page
	Featured      []domain.HeritageItem
	PopularStates []domain.StateCount
}

type SearchData struct {
	Page
	Query     string
	Items     []domain.HeritageItem
	Wikipedia []enrich.SearchResult
}

type StateData struct {
	Page
	State  string
	Groups []catalog.CategoryGroup
	Total  int
}

type RegionData struct {
	Page
	Region domain.Region
	Items  []domain.HeritageItem
}

type CategoryData struct {
	Page
	Category string
	Items    []domain.HeritageItem
}

// DetailData is the view model of an item page. Body holds the rendered long description.
type DetailData struct {
	Page
	Item       domain.HeritageItem
	Body       template.HTML
	Bookmarked bool
}

type BookmarksData struct {
	Page
	Items []domain.HeritageItem
}

type NotFoundData struct {
	Page
	Message string
}

func Home(data HomeData) templ.Component           { return page("home", data) }
func Search(data SearchData) templ.Component       { return page("search", data) }
func State(data StateData) templ.Component         { return page("state", data) }
func Region(data RegionData) templ.Component       { return page("region", data) }
func Category(data CategoryData) templ.Component   { return page("category", data) }
func Detail(data DetailData) templ.Component       { return page("detail", data) }
func Bookmarks(data BookmarksData) templ.Component { return page("bookmarks", data) }
func NotFound(data NotFoundData) templ.Component   { return page("not_found", data) }
