package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"finitefield.org/heritage-web/internal/bookmarks"
	"finitefield.org/heritage-web/internal/domain"
	"finitefield.org/heritage-web/internal/enrich"
	"finitefield.org/heritage-web/internal/testutil"
)

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func bookmarkCookie(ids ...string) *http.Cookie {
	store := bookmarks.Parse("")
	for _, id := range ids {
		store.Add(id)
	}
	c := store.Cookie()
	return &http.Cookie{Name: c.Name, Value: c.Value}
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)
	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "India Aura", doc.Find("title").Text())
	require.Equal(t, 8, doc.Find(".featured .item-card").Length())
	require.Equal(t, 6, doc.Find(".popular-states .state-row").Length())
	require.Equal(t, "Pan-India", doc.Find(".popular-states .state-name").First().Text())
	require.Equal(t, 5, doc.Find(".regions .region-card").Length())
}

func TestSearchPage(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)

	rec := get(t, h, "/search?q=taj")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Taj Mahal", doc.Find(".item-card h3").First().Text())
	require.Equal(t, "taj", doc.Find(".search input[name=q]").AttrOr("value", ""))

	rec = get(t, h, "/search")
	doc = testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, 1, doc.Find(".search-prompt").Length())
	require.Equal(t, 0, doc.Find(".item-card").Length())
}

type fixedSearcher []enrich.SearchResult

func (f fixedSearcher) Search(context.Context, string, int) ([]enrich.SearchResult, error) {
	return f, nil
}

func TestSearchPageShowsWikipediaResults(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t, testutil.WithWikipedia(fixedSearcher{
		{PageID: 1, Title: "Hampi", Snippet: "Ruins of Vijayanagara", SourceURL: "https://en.wikipedia.org/wiki/Hampi"},
	}))
	doc := testutil.ParseHTML(t, get(t, h, "/search?q=hampi").Body.Bytes())
	require.Equal(t, 1, doc.Find(".wiki-result").Length())
	require.Equal(t, "https://en.wikipedia.org/wiki/Hampi", doc.Find(".wiki-result a").AttrOr("href", ""))
}

func TestStatePage(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)
	rec := get(t, h, "/explore/tamil-nadu")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Tamil Nadu", doc.Find(".state h1").Text())
	var titles []string
	doc.Find(".item-card h3").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	require.Equal(t, []string{"Meenakshi Temple", "Bharatanatyam"}, titles)

	rec = get(t, h, "/explore/atlantis")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, testutil.ParseHTML(t, rec.Body.Bytes()).Find(".empty-state").Length())
}

func TestRegionPage(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)
	rec := get(t, h, "/regions/south")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "South India", doc.Find(".region h1").Text())
	require.Greater(t, doc.Find(".item-card").Length(), 0)

	rec = get(t, h, "/regions/atlantis")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Region not found")
}

func TestCategoryPage(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)
	rec := get(t, h, "/categories/"+url.PathEscape("Art & Craft"))
	require.Equal(t, http.StatusOK, rec.Code)
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Art & Craft", doc.Find(".category h1").Text())
	require.Contains(t, doc.Find(".item-card h3").Text(), "Madhubani Art")
}

func TestDetailPage(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)
	rec := get(t, h, "/heritage/1")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Taj Mahal", doc.Find("#detail-title").Text())
	require.Equal(t, "Taj Mahal | India Aura", doc.Find("title").Text())
	require.Contains(t, doc.Find(".long-description").Text(), "ivory-white marble mausoleum")
	require.Equal(t, 4, doc.Find(".gallery img").Length())
	require.Equal(t, 2, doc.Find(".related-item").Length())
	require.Equal(t, "/bookmarks/1", doc.Find(".bookmark-form").AttrOr("action", ""))

	rec = get(t, h, "/heritage/1", bookmarkCookie("1"))
	doc = testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "/bookmarks/1/delete", doc.Find(".bookmark-form").AttrOr("action", ""))
}

type significanceEnricher struct{}

func (significanceEnricher) Enrich(_ context.Context, item domain.HeritageItem) domain.HeritageItem {
	item.Significance = "Filled from the encyclopedia."
	return item
}

func TestDetailPageUsesEnricher(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t, testutil.WithEnricher(significanceEnricher{}))
	doc := testutil.ParseHTML(t, get(t, h, "/heritage/2").Body.Bytes())
	require.Contains(t, doc.Find(".significance").Text(), "Filled from the encyclopedia.")
}

func TestDetailPageNotFound(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)
	rec := get(t, h, "/heritage/nonexistent")
	require.Equal(t, http.StatusNotFound, rec.Code)
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Item not found", doc.Find(".not-found p").First().Text())
}

func TestUnknownPageRendersNotFound(t *testing.T) {
	t.Parallel()

	rec := get(t, testutil.NewHandler(t), "/does/not/exist")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestBookmarksPageKeepsOrderAndDropsUnknown(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)
	rec := get(t, h, "/bookmarks", bookmarkCookie("3", "404", "1"))
	require.Equal(t, http.StatusOK, rec.Code)

	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	var ids []string
	doc.Find(".bookmark-row").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("data-id", ""))
	})
	require.Equal(t, []string{"3", "1"}, ids)

	rec = get(t, h, "/bookmarks", &http.Cookie{Name: bookmarks.CookieName, Value: "garbage"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, testutil.ParseHTML(t, rec.Body.Bytes()).Find(".empty-state").Length())
}

func TestBookmarkFormPostRedirects(t *testing.T) {
	t.Parallel()

	h := testutil.NewHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/bookmarks/1", nil)
	req.Header.Set("Referer", "http://example.com/search?q=taj")
	req.Host = "example.com"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/search?q=taj", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, []string{"1"}, bookmarks.Parse(cookies[0].Value).IDs())

	req = httptest.NewRequest(http.MethodPost, "/bookmarks/1/delete", nil)
	req.Header.Set("Referer", "https://evil.example/phish")
	req.AddCookie(&http.Cookie{Name: cookies[0].Name, Value: cookies[0].Value})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/heritage/1", rec.Header().Get("Location"))
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, bookmarks.Parse(cookies[0].Value).IDs())
	require.Equal(t, 30*24*60*60, cookies[0].MaxAge)
}

func TestPlaceholderImage(t *testing.T) {
	t.Parallel()

	rec := get(t, testutil.NewHandler(t), "/placeholder.svg?height=150&width=200&text=Red+Fort%3Cscript%3E")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "<svg"))
	require.Contains(t, body, `width="200"`)
	require.Contains(t, body, "Red Fort&lt;script&gt;")
}
