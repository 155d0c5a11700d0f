package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finitefield.org/heritage-web/internal/catalog"
	"finitefield.org/heritage-web/internal/handlers"
	"finitefield.org/heritage-web/internal/services"
)

type serverConfig struct {
	catalog         catalog.Repository
	enricher        services.ItemEnricher
	wikipedia       services.WikipediaSearcher
	latency         services.Latency
	secureCookies   bool
	wikipediaSearch bool
	middlewares     []func(http.Handler) http.Handler
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverConfig)

// WithCatalog replaces the embedded seed catalog.
func WithCatalog(repo catalog.Repository) ServerOption {
	return func(cfg *serverConfig) {
		cfg.catalog = repo
	}
}

// WithEnricher wires an enricher for detail lookups.
func WithEnricher(enricher services.ItemEnricher) ServerOption {
	return func(cfg *serverConfig) {
		cfg.enricher = enricher
	}
}

// WithWikipedia wires an encyclopedia search backend and shows its results on the search page.
func WithWikipedia(searcher services.WikipediaSearcher) ServerOption {
	return func(cfg *serverConfig) {
		cfg.wikipedia = searcher
		cfg.wikipediaSearch = true
	}
}

// WithLatency enables simulated query latency.
func WithLatency(latency services.Latency) ServerOption {
	return func(cfg *serverConfig) {
		cfg.latency = latency
	}
}

// WithSecureCookies marks bookmark cookies as Secure.
func WithSecureCookies() ServerOption {
	return func(cfg *serverConfig) {
		cfg.secureCookies = true
	}
}

// WithMiddlewares appends global middleware.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewHandler builds the site handler backed by the embedded catalog unless overridden.
func NewHandler(t testing.TB, opts ...ServerOption) http.Handler {
	t.Helper()

	cfg := serverConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.catalog == nil {
		repo, err := catalog.LoadEmbedded()
		if err != nil {
			t.Fatalf("load embedded catalog: %v", err)
		}
		cfg.catalog = repo
	}

	heritage, err := services.NewHeritageService(services.HeritageServiceDeps{
		Catalog:   cfg.catalog,
		Enricher:  cfg.enricher,
		Wikipedia: cfg.wikipedia,
		Latency:   cfg.latency,
	})
	if err != nil {
		t.Fatalf("heritage service: %v", err)
	}
	bookmarkSvc, err := services.NewBookmarkService(services.BookmarkServiceDeps{Catalog: cfg.catalog})
	if err != nil {
		t.Fatalf("bookmark service: %v", err)
	}

	return handlers.New(handlers.Config{
		Heritage:        heritage,
		Bookmarks:       bookmarkSvc,
		SecureCookies:   cfg.secureCookies,
		WikipediaSearch: cfg.wikipediaSearch,
		Middlewares:     cfg.middlewares,
	})
}

// NewServer constructs an httptest server running the full site stack.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(NewHandler(t, opts...))
	t.Cleanup(ts.Close)
	return ts
}

// NoRedirectClient returns a client that reports redirects instead of following them.
func NoRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
