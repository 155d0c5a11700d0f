package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/platform/requestctx"
)

type stubFetcher struct {
	summary Summary
	err     error
	titles  []string
}

func (s *stubFetcher) Summary(_ context.Context, title string) (Summary, error) {
	s.titles = append(s.titles, title)
	return s.summary, s.err
}

func redFortSummary() Summary {
	var s Summary
	s.Title = "Red Fort"
	s.Extract = "The Red Fort is a historic fort in Delhi."
	s.ExtractHTML = `<p>The <b>Red Fort</b> is a historic fort.</p><img src="x" onerror="alert(1)">`
	s.Thumbnail.Source = "https://upload.wikimedia.org/red-fort.jpg"
	s.ContentURLs.Desktop.Page = "https://en.wikipedia.org/wiki/Red_Fort"
	return s
}

func TestNeedsEnrichment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item domain.HeritageItem
		want bool
	}{
		{"complete wikipedia", domain.HeritageItem{Source: domain.SourceWikipedia, LongDescription: "x", Significance: "y"}, false},
		{"missing significance", domain.HeritageItem{Source: domain.SourceWikipedia, LongDescription: "x"}, true},
		{"missing long description", domain.HeritageItem{Source: domain.SourceWikipedia, Significance: "y"}, true},
		{"other source", domain.HeritageItem{Source: domain.SourceIncredibleIndia}, false},
		{"local source", domain.HeritageItem{Source: domain.SourceLocal}, false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, NeedsEnrichment(tc.item), tc.name)
	}
}

func TestEnrichFillsSignificanceButKeepsLongDescription(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{summary: redFortSummary()}
	enricher := NewEnricher(fetcher)

	item := domain.HeritageItem{
		ID:              "2",
		Title:           "Red Fort",
		Description:     "Historic fort in Delhi",
		LongDescription: "Local account of the fort.",
		Image:           "/red-fort.jpg",
		Source:          domain.SourceWikipedia,
	}

	got := enricher.Enrich(context.Background(), item)

	require.Equal(t, []string{"Red Fort"}, fetcher.titles)
	require.Equal(t, "The Red Fort is a historic fort in Delhi.", got.Significance)
	require.Equal(t, "Local account of the fort.", got.LongDescription)
	require.Equal(t, "/red-fort.jpg", got.Image)
	require.Equal(t, "Historic fort in Delhi", got.Description)
	require.Equal(t, "https://en.wikipedia.org/wiki/Red_Fort", got.SourceURL)
}

func TestEnrichSanitizesRemoteLongDescription(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(&stubFetcher{summary: redFortSummary()})
	got := enricher.Enrich(context.Background(), domain.HeritageItem{
		ID:           "2",
		Title:        "Red Fort",
		Significance: "Seat of Mughal power",
		Source:       domain.SourceWikipedia,
	})

	require.Contains(t, got.LongDescription, "<b>Red Fort</b>")
	require.NotContains(t, got.LongDescription, "onerror")
	require.Equal(t, "Seat of Mughal power", got.Significance)
	require.Equal(t, "https://upload.wikimedia.org/red-fort.jpg", got.Image)
}

func TestEnrichFailureReturnsOriginalAndLogs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := requestctx.WithLogger(context.Background(), zap.New(core))

	fetcher := &stubFetcher{err: &StatusError{URL: "https://example.test", StatusCode: 503}}
	item := domain.HeritageItem{ID: "9", Title: "Holi", Source: domain.SourceWikipedia, Tags: []string{"Spring"}}

	got := NewEnricher(fetcher).Enrich(ctx, item)

	require.Equal(t, item, got)
	entries := logs.FilterMessage("wikipedia enrichment failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "9", entries[0].ContextMap()["item_id"])
}

func TestEnrichSkipsIneligibleItems(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{err: errors.New("must not be called")}
	enricher := NewEnricher(fetcher)

	item := domain.HeritageItem{ID: "14", Title: "Goa Carnival", Source: domain.SourceIncredibleIndia}
	require.Equal(t, item, enricher.Enrich(context.Background(), item))
	require.Empty(t, fetcher.titles)

	var nilEnricher *Enricher
	require.Equal(t, item, nilEnricher.Enrich(context.Background(), item))
}

func TestEnrichUsesCustomSanitizer(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(&stubFetcher{summary: redFortSummary()}, WithSanitizer(func(string) string { return "sanitized" }))
	got := enricher.Enrich(context.Background(), domain.HeritageItem{ID: "2", Title: "Red Fort", Source: domain.SourceWikipedia})
	require.Equal(t, "sanitized", got.LongDescription)
}
