package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finitefield.org/heritage-web/internal/bookmarks"
	"finitefield.org/heritage-web/internal/catalog"
	"finitefield.org/heritage-web/internal/content"
	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/platform/httpx"
	"finitefield.org/heritage-web/internal/platform/requestctx"
	"finitefield.org/heritage-web/internal/services"
	"finitefield.org/heritage-web/internal/views"
)

const (
	homeFeaturedLimit      = 8
	homePopularStatesLimit = 6
	searchWikipediaLimit   = 5
)

// PageHandlers serves the HTML pages.
type PageHandlers struct {
	heritage        services.HeritageService
	bookmarks       services.BookmarkService
	renderer        *content.Renderer
	secureCookies   bool
	wikipediaSearch bool
}

// PageOption customises construction of PageHandlers.
type PageOption func(*PageHandlers)

// WithPageHeritageService injects the heritage service dependency.
func WithPageHeritageService(svc services.HeritageService) PageOption {
	return func(h *PageHandlers) {
		h.heritage = svc
	}
}

// WithPageBookmarkService injects the bookmark service dependency.
func WithPageBookmarkService(svc services.BookmarkService) PageOption {
	return func(h *PageHandlers) {
		h.bookmarks = svc
	}
}

// WithPageRenderer overrides the long description renderer.
func WithPageRenderer(renderer *content.Renderer) PageOption {
	return func(h *PageHandlers) {
		if renderer != nil {
			h.renderer = renderer
		}
	}
}

// WithPageSecureCookies marks bookmark cookies as Secure.
func WithPageSecureCookies(secure bool) PageOption {
	return func(h *PageHandlers) {
		h.secureCookies = secure
	}
}

// WithPageWikipediaSearch adds encyclopedia results to the search page.
func WithPageWikipediaSearch(enabled bool) PageOption {
	return func(h *PageHandlers) {
		h.wikipediaSearch = enabled
	}
}

// NewPageHandlers constructs the HTML page handlers.
func NewPageHandlers(opts ...PageOption) *PageHandlers {
	h := &PageHandlers{renderer: content.NewRenderer()}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers the page routes.
func (h *PageHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.home)
	r.Get("/search", h.search)
	r.Get("/explore/{state}", h.state)
	r.Get("/regions/{regionID}", h.region)
	r.Get("/categories/{category}", h.category)
	r.Get("/heritage/{id}", h.detail)
	r.Get("/bookmarks", h.listBookmarks)
	r.Post("/bookmarks/{id}", h.addBookmark)
	r.Post("/bookmarks/{id}/delete", h.removeBookmark)
	r.Get("/placeholder.svg", placeholder)
}

// NotFound renders the not found page for unknown paths.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r, "The page you are looking for does not exist.")
}

func (h *PageHandlers) home(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}

	var (
		featured []domain.HeritageItem
		popular  []domain.StateCount
		regions  []domain.Region
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		featured, err = h.heritage.Featured(ctx, homeFeaturedLimit)
		return err
	})
	g.Go(func() error {
		var err error
		popular, err = h.heritage.PopularStates(ctx, homePopularStatesLimit)
		return err
	})
	g.Go(func() error {
		var err error
		regions, err = h.heritage.Regions(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, views.Home(views.HomeData{
		Page:          views.NewPage("", "Discover the monuments, festivals, music, dance and crafts of India.", "/", regions),
		Featured:      featured,
		PopularStates: popular,
	}))
}

func (h *PageHandlers) search(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()
	raw := r.URL.Query().Get("q")
	query := strings.TrimSpace(raw)

	result, err := h.heritage.Search(ctx, raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := views.SearchData{
		Page:  views.NewPage("Search", "", "/search", h.regions(ctx)),
		Query: query,
		Items: result.Items,
	}
	if query != "" {
		data.Title = "Search: " + query
		if h.wikipediaSearch {
			hits, err := h.heritage.SearchWikipedia(ctx, query, searchWikipediaLimit)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			data.Wikipedia = hits
		}
	}
	h.render(w, r, http.StatusOK, views.Search(data))
}

func (h *PageHandlers) state(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()
	slug := urlParam(r, "state")

	items, err := h.heritage.State(ctx, slug)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	name := catalog.StateName(slug)
	h.render(w, r, http.StatusOK, views.State(views.StateData{
		Page:   views.NewPage(name, "Cultural heritage of "+name, r.URL.Path, h.regions(ctx)),
		State:  name,
		Groups: catalog.GroupByCategory(items),
		Total:  len(items),
	}))
}

func (h *PageHandlers) region(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	region, err := h.heritage.RegionByID(ctx, urlParam(r, "regionID"))
	if errors.Is(err, catalog.ErrNotFound) {
		h.renderNotFound(w, r, "Region not found")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.heritage.Region(ctx, region.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, views.Region(views.RegionData{
		Page:   views.NewPage(region.Name, region.Description, r.URL.Path, h.regions(ctx)),
		Region: region,
		Items:  items,
	}))
}

func (h *PageHandlers) category(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()
	category := urlParam(r, "category")

	items, err := h.heritage.Category(ctx, category)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(items) > 0 {
		category = items[0].Category
	}

	h.render(w, r, http.StatusOK, views.Category(views.CategoryData{
		Page:     views.NewPage(category, "", r.URL.Path, h.regions(ctx)),
		Category: category,
		Items:    items,
	}))
}

func (h *PageHandlers) detail(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}
	ctx := r.Context()

	result, err := h.heritage.Detail(ctx, urlParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !result.Found() {
		h.renderNotFound(w, r, result.Error)
		return
	}

	item := *result.Item
	h.render(w, r, http.StatusOK, views.Detail(views.DetailData{
		Page:       views.NewPage(item.Title, item.Description, r.URL.Path, h.regions(ctx)),
		Item:       item,
		Body:       h.renderBody(ctx, item),
		Bookmarked: bookmarks.FromRequest(r).Has(item.ID),
	}))
}

func (h *PageHandlers) listBookmarks(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) || !h.bookmarksReady(w, r) {
		return
	}
	ctx := r.Context()

	items, err := h.bookmarks.List(ctx, bookmarks.FromRequest(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, views.Bookmarks(views.BookmarksData{
		Page:  views.NewPage("Bookmarks", "", "/bookmarks", h.regions(ctx)),
		Items: items,
	}))
}

func (h *PageHandlers) addBookmark(w http.ResponseWriter, r *http.Request) {
	if !h.bookmarksReady(w, r) {
		return
	}
	id := urlParam(r, "id")
	result := h.bookmarks.Add(r.Context(), bookmarks.FromRequest(r, bookmarks.WithSecure(h.secureCookies)), id)
	http.SetCookie(w, result.Cookie)
	http.Redirect(w, r, backTo(r, id), http.StatusSeeOther)
}

func (h *PageHandlers) removeBookmark(w http.ResponseWriter, r *http.Request) {
	if !h.bookmarksReady(w, r) {
		return
	}
	id := urlParam(r, "id")
	result := h.bookmarks.Remove(r.Context(), bookmarks.FromRequest(r, bookmarks.WithSecure(h.secureCookies)), id)
	http.SetCookie(w, result.Cookie)
	http.Redirect(w, r, backTo(r, id), http.StatusSeeOther)
}

func (h *PageHandlers) renderBody(ctx context.Context, item domain.HeritageItem) template.HTML {
	body, err := h.renderer.Render(item.LongDescription)
	if err != nil {
		requestctx.Logger(ctx).Warn("render long description failed", zap.String("item_id", item.ID), zap.Error(err))
		return template.HTML(template.HTMLEscapeString(item.LongDescription))
	}
	return body
}

// regions feeds the footer. A failure here only drops the footer links.
func (h *PageHandlers) regions(ctx context.Context) []domain.Region {
	regions, err := h.heritage.Regions(ctx)
	if err != nil {
		return nil
	}
	return regions
}

func (h *PageHandlers) ready(w http.ResponseWriter, r *http.Request) bool {
	if h.heritage == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_unavailable", "heritage catalog is unavailable", http.StatusServiceUnavailable))
		return false
	}
	return true
}

func (h *PageHandlers) bookmarksReady(w http.ResponseWriter, r *http.Request) bool {
	if h.bookmarks == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("bookmarks_unavailable", "bookmarks are unavailable", http.StatusServiceUnavailable))
		return false
	}
	return true
}

func (h *PageHandlers) renderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	var regions []domain.Region
	if h.heritage != nil {
		regions = h.regions(r.Context())
	}
	h.render(w, r, http.StatusNotFound, views.NotFound(views.NotFoundData{
		Page:    views.NewPage("Not Found", "", r.URL.Path, regions),
		Message: message,
	}))
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *PageHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(r.Context(), w, err)
}

// urlParam returns a path parameter with percent-encoding removed. chi matches against RawPath
// when the request has one, so only those params are still escaped.
func urlParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
	}
	return strings.TrimSpace(value)
}

// backTo picks the redirect target after a bookmark form post: the referring page when it is on
// this site, otherwise the item page.
func backTo(r *http.Request, id string) string {
	fallback := "/heritage/" + url.PathEscape(id)
	ref, err := url.Parse(r.Referer())
	if err != nil || r.Referer() == "" {
		return fallback
	}
	if ref.Host != "" && ref.Host != r.Host {
		return fallback
	}
	if !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return fallback
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return target
}
