package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/heritage-web/internal/catalog"
	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/enrich"
	"finitefield.org/heritage-web/internal/platform/requestctx"
)

// ItemEnricher fills absent fields of a record from an external source.
type ItemEnricher interface {
	Enrich(ctx context.Context, item domain.HeritageItem) domain.HeritageItem
}

// WikipediaSearcher runs encyclopedia searches.
type WikipediaSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]enrich.SearchResult, error)
}

// HeritageServiceDeps groups constructor parameters for the heritage service.
type HeritageServiceDeps struct {
	Catalog   catalog.Repository
	Enricher  ItemEnricher
	Wikipedia WikipediaSearcher
	Latency   Latency
	Logger    *zap.Logger
}

type heritageService struct {
	catalog   catalog.Repository
	enricher  ItemEnricher
	wikipedia WikipediaSearcher
	latency   Latency
	logger    *zap.Logger
}

// ErrCatalogMissing signals that the catalog dependency is absent.
var ErrCatalogMissing = errors.New("heritage service: catalog is not configured")

// NewHeritageService constructs the heritage service with the supplied dependencies.
func NewHeritageService(deps HeritageServiceDeps) (HeritageService, error) {
	if deps.Catalog == nil {
		return nil, ErrCatalogMissing
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &heritageService{
		catalog:   deps.Catalog,
		enricher:  deps.Enricher,
		wikipedia: deps.Wikipedia,
		latency:   deps.Latency,
		logger:    logger.Named("heritage_service"),
	}, nil
}

func (s *heritageService) Search(ctx context.Context, query string) (SearchResult, error) {
	if err := wait(ctx, s.latency.Search); err != nil {
		return SearchResult{Items: []domain.HeritageItem{}}, err
	}
	return SearchResult{Items: s.catalog.Search(ctx, query)}, nil
}

func (s *heritageService) Detail(ctx context.Context, id string) (DetailResult, error) {
	if err := wait(ctx, s.latency.Detail); err != nil {
		return DetailResult{}, err
	}

	item, ok := s.catalog.ByID(ctx, strings.TrimSpace(id))
	if !ok {
		return DetailResult{Error: ItemNotFoundMessage}, nil
	}
	if s.enricher != nil {
		item = s.enricher.Enrich(ctx, item)
	}
	return DetailResult{Item: &item}, nil
}

func (s *heritageService) State(ctx context.Context, stateSlug string) ([]domain.HeritageItem, error) {
	if err := wait(ctx, s.latency.State); err != nil {
		return nil, err
	}
	return s.catalog.ByState(ctx, stateSlug), nil
}

func (s *heritageService) Region(ctx context.Context, fragment string) ([]domain.HeritageItem, error) {
	if err := wait(ctx, s.latency.Region); err != nil {
		return nil, err
	}
	return s.catalog.ByRegion(ctx, fragment), nil
}

func (s *heritageService) Category(ctx context.Context, category string) ([]domain.HeritageItem, error) {
	if err := wait(ctx, s.latency.Category); err != nil {
		return nil, err
	}
	return s.catalog.ByCategory(ctx, category), nil
}

func (s *heritageService) Featured(ctx context.Context, limit int) ([]domain.HeritageItem, error) {
	if err := wait(ctx, s.latency.Featured); err != nil {
		return nil, err
	}
	return s.catalog.Featured(ctx, limit), nil
}

func (s *heritageService) PopularStates(ctx context.Context, limit int) ([]domain.StateCount, error) {
	if err := wait(ctx, s.latency.PopularStates); err != nil {
		return nil, err
	}
	return s.catalog.PopularStates(ctx, limit), nil
}

func (s *heritageService) Regions(ctx context.Context) ([]domain.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.Regions(ctx), nil
}

func (s *heritageService) RegionByID(ctx context.Context, id string) (domain.Region, error) {
	if err := ctx.Err(); err != nil {
		return domain.Region{}, err
	}
	region, ok := s.catalog.RegionByID(ctx, id)
	if !ok {
		return domain.Region{}, catalog.ErrNotFound
	}
	return region, nil
}

// SearchWikipedia forwards to the encyclopedia. Lookup failures are logged and yield no results.
func (s *heritageService) SearchWikipedia(ctx context.Context, query string, limit int) ([]enrich.SearchResult, error) {
	if s.wikipedia == nil || strings.TrimSpace(query) == "" {
		return []enrich.SearchResult{}, nil
	}
	results, err := s.wikipedia.Search(ctx, query, limit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.loggerFor(ctx).Warn("wikipedia search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return []enrich.SearchResult{}, nil
	}
	return results, nil
}

func (s *heritageService) CatalogStats(ctx context.Context) CatalogStats {
	return CatalogStats{
		Items:   len(s.catalog.All(ctx)),
		Regions: len(s.catalog.Regions(ctx)),
	}
}

func (s *heritageService) loggerFor(ctx context.Context) *zap.Logger {
	if logger := requestctx.Logger(ctx); logger != requestctx.NoopLogger() {
		return logger
	}
	return s.logger
}
