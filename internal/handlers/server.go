package handlers

import (
	"net/http"
	"time"

	"finitefield.org/heritage-web/internal/services"
)

// Config holds the runtime dependencies of the site handler.
type Config struct {
	Heritage        services.HeritageService
	Bookmarks       services.BookmarkService
	SecureCookies   bool
	WikipediaSearch bool
	RequestTimeout  time.Duration
	StartedAt       time.Time
	Middlewares     []func(http.Handler) http.Handler
}

// New assembles pages, the JSON API and health probes behind one router.
func New(cfg Config) http.Handler {
	pages := NewPageHandlers(
		WithPageHeritageService(cfg.Heritage),
		WithPageBookmarkService(cfg.Bookmarks),
		WithPageSecureCookies(cfg.SecureCookies),
		WithPageWikipediaSearch(cfg.WikipediaSearch),
	)
	api := NewAPIHandlers(
		WithAPIHeritageService(cfg.Heritage),
		WithAPIBookmarkService(cfg.Bookmarks),
		WithAPISecureCookies(cfg.SecureCookies),
	)

	healthOpts := []HealthOption{WithHealthStartedAt(cfg.StartedAt)}
	if cfg.Heritage != nil {
		healthOpts = append(healthOpts, WithHealthCatalogStats(cfg.Heritage.CatalogStats))
	}

	opts := []Option{
		WithMiddlewares(cfg.Middlewares...),
		WithHealthHandlers(NewHealthHandlers(healthOpts...)),
		WithPageRoutes(pages.Routes),
		WithAPIRoutes(api.Routes),
		WithNotFoundHandler(pages.NotFound),
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, WithRequestTimeout(cfg.RequestTimeout))
	}
	return NewRouter(opts...)
}
