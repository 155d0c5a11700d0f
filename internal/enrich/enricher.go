package enrich

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"finitefield.org/heritage-web/internal/content"
	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/platform/requestctx"
)

const instrumentationName = "finitefield.org/heritage-web/internal/enrich"

const (
	outcomeMerged  = "merged"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
)

// SummaryFetcher looks up an encyclopedia summary by page title.
type SummaryFetcher interface {
	Summary(ctx context.Context, title string) (Summary, error)
}

// Enricher fills gaps in a record from the encyclopedia, once per call, without retries or caching.
type Enricher struct {
	fetcher  SummaryFetcher
	sanitize func(string) string
	tracer   trace.Tracer
	lookups  metric.Int64Counter
}

// EnricherOption customises an Enricher.
type EnricherOption func(*Enricher)

// WithSanitizer replaces the HTML sanitiser applied to remote rich text.
func WithSanitizer(fn func(string) string) EnricherOption {
	return func(e *Enricher) {
		if fn != nil {
			e.sanitize = fn
		}
	}
}

// NewEnricher constructs an Enricher backed by fetcher.
func NewEnricher(fetcher SummaryFetcher, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		fetcher:  fetcher,
		sanitize: content.NewPolicy().Sanitize,
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"heritage.enrichment.lookups",
		metric.WithDescription("Encyclopedia enrichment attempts by outcome"),
	)
	if err != nil {
		counter = noop.Int64Counter{}
	}
	e.lookups = counter
	return e
}

// NeedsEnrichment reports whether item is eligible for a lookup: it must come from Wikipedia and
// lack a long description or a significance statement.
func NeedsEnrichment(item domain.HeritageItem) bool {
	if item.Source != domain.SourceWikipedia {
		return false
	}
	return item.LongDescription == "" || item.Significance == ""
}

// Enrich returns item with absent fields filled from the encyclopedia. Any failure is logged and
// the original item is returned unchanged.
func (e *Enricher) Enrich(ctx context.Context, item domain.HeritageItem) domain.HeritageItem {
	if e == nil || e.fetcher == nil || !NeedsEnrichment(item) {
		if e != nil {
			e.record(ctx, outcomeSkipped)
		}
		return item
	}

	ctx, span := e.tracer.Start(ctx, "enrich.wikipedia.summary",
		trace.WithAttributes(
			attribute.String("heritage.item_id", item.ID),
			attribute.String("heritage.title", item.Title),
		),
	)
	defer span.End()

	summary, err := e.fetcher.Summary(ctx, item.Title)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summary lookup failed")
		e.record(ctx, outcomeFailed)
		requestctx.Logger(ctx).Warn("wikipedia enrichment failed",
			zap.String("item_id", item.ID),
			zap.String("title", item.Title),
			zap.Error(err),
		)
		return item
	}

	e.record(ctx, outcomeMerged)
	return Merge(item, summary.Item(e.sanitize))
}

func (e *Enricher) record(ctx context.Context, outcome string) {
	e.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
