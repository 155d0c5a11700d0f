package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/heritage-web/internal/bookmarks"
	"finitefield.org/heritage-web/internal/catalog"
	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/enrich"
	"finitefield.org/heritage-web/internal/platform/httpx"
	"finitefield.org/heritage-web/internal/platform/requestctx"
	"finitefield.org/heritage-web/internal/services"
)

const (
	maxListLimit       = 50
	apiCacheControl    = "public, max-age=300"
	errorInvalidLimit  = "invalid_limit"
	errorNotFound      = "not_found"
	errorUnavailable   = "catalog_unavailable"
	errorRequestCancel = "request_timeout"
)

// APIHandlers exposes the catalog and bookmarks as JSON.
type APIHandlers struct {
	heritage      services.HeritageService
	bookmarks     services.BookmarkService
	secureCookies bool
}

// APIOption customises construction of APIHandlers.
type APIOption func(*APIHandlers)

// WithAPIHeritageService injects the heritage service dependency.
func WithAPIHeritageService(svc services.HeritageService) APIOption {
	return func(h *APIHandlers) {
		h.heritage = svc
	}
}

// WithAPIBookmarkService injects the bookmark service dependency.
func WithAPIBookmarkService(svc services.BookmarkService) APIOption {
	return func(h *APIHandlers) {
		h.bookmarks = svc
	}
}

// WithAPISecureCookies marks bookmark cookies as Secure.
func WithAPISecureCookies(secure bool) APIOption {
	return func(h *APIHandlers) {
		h.secureCookies = secure
	}
}

// NewAPIHandlers constructs the JSON API handlers.
func NewAPIHandlers(opts ...APIOption) *APIHandlers {
	h := &APIHandlers{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers the API routes relative to the API prefix.
func (h *APIHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Group(func(catalogRoutes chi.Router) {
		catalogRoutes.Use(h.requireCatalog)
		catalogRoutes.Get("/search", h.search)
		catalogRoutes.Get("/heritage/{id}", h.detail)
		catalogRoutes.Get("/states/{slug}", h.state)
		catalogRoutes.Get("/regions", h.listRegions)
		catalogRoutes.Get("/regions/{regionID}", h.getRegion)
		catalogRoutes.Get("/regions/{regionID}/heritage", h.regionItems)
		catalogRoutes.Get("/categories/{category}", h.category)
		catalogRoutes.Get("/featured", h.featured)
		catalogRoutes.Get("/popular-states", h.popularStates)
		catalogRoutes.Get("/wikipedia/search", h.searchWikipedia)
	})
	r.Group(func(bookmarkRoutes chi.Router) {
		bookmarkRoutes.Use(h.requireBookmarks)
		bookmarkRoutes.Get("/bookmarks", h.listBookmarks)
		bookmarkRoutes.Post("/bookmarks/{id}", h.addBookmark)
		bookmarkRoutes.Delete("/bookmarks/{id}", h.removeBookmark)
	})
}

type itemsResponse struct {
	Items []domain.HeritageItem `json:"items"`
}

type stateResponse struct {
	State string                `json:"state"`
	Items []domain.HeritageItem `json:"items"`
}

type regionResponse struct {
	Region domain.Region         `json:"region"`
	Items  []domain.HeritageItem `json:"items"`
}

type regionsResponse struct {
	Regions []domain.Region `json:"regions"`
}

type popularStatesResponse struct {
	States []domain.StateCount `json:"states"`
}

type wikipediaResponse struct {
	Results []enrich.SearchResult `json:"results"`
}

func (h *APIHandlers) search(w http.ResponseWriter, r *http.Request) {
	result, err := h.heritage.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) detail(w http.ResponseWriter, r *http.Request) {
	result, err := h.heritage.Detail(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	if !result.Found() {
		httpx.WriteJSON(w, http.StatusNotFound, result)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) state(w http.ResponseWriter, r *http.Request) {
	slug := urlParam(r, "slug")
	items, err := h.heritage.State(r.Context(), slug)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Cache-Control", apiCacheControl)
	httpx.WriteJSON(w, http.StatusOK, stateResponse{State: catalog.StateName(slug), Items: items})
}

func (h *APIHandlers) listRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.heritage.Regions(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Cache-Control", apiCacheControl)
	httpx.WriteJSON(w, http.StatusOK, regionsResponse{Regions: regions})
}

func (h *APIHandlers) getRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := urlParam(r, "regionID")
	region, err := h.heritage.RegionByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError(errorNotFound, fmt.Sprintf("region %q not found", id), http.StatusNotFound))
			return
		}
		writeServiceError(ctx, w, err)
		return
	}

	items, err := h.heritage.Region(ctx, region.Name)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.Header().Set("Cache-Control", apiCacheControl)
	httpx.WriteJSON(w, http.StatusOK, regionResponse{Region: region, Items: items})
}

func (h *APIHandlers) regionItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.heritage.Region(r.Context(), urlParam(r, "regionID"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *APIHandlers) category(w http.ResponseWriter, r *http.Request) {
	items, err := h.heritage.Category(r.Context(), urlParam(r, "category"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *APIHandlers) featured(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	items, err := h.heritage.Featured(r.Context(), limit)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *APIHandlers) popularStates(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	states, err := h.heritage.PopularStates(r.Context(), limit)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, popularStatesResponse{States: states})
}

func (h *APIHandlers) searchWikipedia(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	results, err := h.heritage.SearchWikipedia(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, wikipediaResponse{Results: results})
}

func (h *APIHandlers) listBookmarks(w http.ResponseWriter, r *http.Request) {
	items, err := h.bookmarks.List(r.Context(), bookmarks.FromRequest(r))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httpx.WriteJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *APIHandlers) addBookmark(w http.ResponseWriter, r *http.Request) {
	result := h.bookmarks.Add(r.Context(), bookmarks.FromRequest(r, bookmarks.WithSecure(h.secureCookies)), urlParam(r, "id"))
	writeBookmarkResult(w, result)
}

func (h *APIHandlers) removeBookmark(w http.ResponseWriter, r *http.Request) {
	result := h.bookmarks.Remove(r.Context(), bookmarks.FromRequest(r, bookmarks.WithSecure(h.secureCookies)), urlParam(r, "id"))
	writeBookmarkResult(w, result)
}

func writeBookmarkResult(w http.ResponseWriter, result services.BookmarkResult) {
	if result.Cookie != nil {
		http.SetCookie(w, result.Cookie)
	}
	w.Header().Set("Cache-Control", "no-store")
	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) requireCatalog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.heritage == nil {
			httpx.WriteError(r.Context(), w, httpx.NewError(errorUnavailable, "heritage catalog is unavailable", http.StatusServiceUnavailable))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *APIHandlers) requireBookmarks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.bookmarks == nil {
			httpx.WriteError(r.Context(), w, httpx.NewError("bookmarks_unavailable", "bookmarks are unavailable", http.StatusServiceUnavailable))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseLimit reads the optional limit query parameter. Zero means the operation default.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		httpx.WriteError(r.Context(), w, httpx.NewError(errorInvalidLimit, "limit must be a positive integer", http.StatusBadRequest))
		return 0, false
	}
	if value > maxListLimit {
		value = maxListLimit
	}
	return value, true
}

func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		httpx.WriteError(ctx, w, httpx.NewError(errorRequestCancel, "request was cancelled before completion", http.StatusServiceUnavailable))
		return
	}
	requestctx.Logger(ctx).Error("api handler failed", zap.Error(err))
	httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
}
