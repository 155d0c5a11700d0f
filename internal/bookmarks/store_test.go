package bookmarks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finitefield.org/heritage-web/internal/domain"
)

type mapResolver map[string]domain.HeritageItem

func (m mapResolver) ByID(_ context.Context, id string) (domain.HeritageItem, bool) {
	item, ok := m[id]
	return item, ok
}

func catalogResolver() mapResolver {
	return mapResolver{
		"1": {ID: "1", Title: "Taj Mahal"},
		"2": {ID: "2", Title: "Red Fort"},
		"3": {ID: "3", Title: "Ajanta Caves"},
	}
}

func titles(items []domain.HeritageItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

// roundTrip simulates the browser sending back the cookie the server just set.
func roundTrip(t *testing.T, cookie *http.Cookie) *Store {
	t.Helper()
	rec := httptest.NewRecorder()
	http.SetCookie(rec, cookie)

	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return FromRequest(req)
}

func TestAddThenListIncludesItemOnce(t *testing.T) {
	t.Parallel()

	store := FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	store.Add("2")
	cookie := store.Add("2")

	next := roundTrip(t, cookie)
	require.Equal(t, []string{"2"}, next.IDs())
	require.Equal(t, []string{"Red Fort"}, titles(next.Resolve(context.Background(), catalogResolver())))
}

func TestRemoveThenListExcludesItem(t *testing.T) {
	t.Parallel()

	store := Parse(`["1","2","3"]`)
	cookie := store.Remove("2")
	require.Equal(t, []string{"Taj Mahal", "Ajanta Caves"}, titles(roundTrip(t, cookie).Resolve(context.Background(), catalogResolver())))

	cookie = store.Remove("never-added")
	require.Equal(t, []string{"1", "3"}, roundTrip(t, cookie).IDs())
}

func TestResolveKeepsStoredOrderAndDropsUnknownIDs(t *testing.T) {
	t.Parallel()

	store := Parse(`["3","404","1"]`)
	items := store.Resolve(context.Background(), catalogResolver())
	require.Equal(t, []string{"Ajanta Caves", "Taj Mahal"}, titles(items))
	require.Equal(t, []string{"3", "404", "1"}, store.IDs())
}

func TestInvalidPayloadIsEmpty(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"not valid json", `{"ids":["1"]}`, `[1,2]`, "%zz", `["1"`} {
		store := Parse(value)
		require.Empty(t, store.IDs(), value)
		require.Empty(t, store.Resolve(context.Background(), catalogResolver()), value)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", "bookmarks=not valid json")
	require.Empty(t, FromRequest(req).Resolve(context.Background(), catalogResolver()))
}

func TestInvalidPayloadIsReplacedOnWrite(t *testing.T) {
	t.Parallel()

	store := Parse("not valid json")
	cookie := store.Add("1")
	require.Equal(t, []string{"1"}, roundTrip(t, cookie).IDs())
}

func TestParseAcceptsEscapedAndRawJSON(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"1", "2"}, Parse(url.QueryEscape(`["1","2"]`)).IDs())
	require.Equal(t, []string{"1", "2"}, Parse(`["1","2"]`).IDs())
	require.Equal(t, []string{"1", "2"}, Parse(`["1"," 1 ","","2","1"]`).IDs())
}

func TestParseRawJSONKeepsPlusAndPercent(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"a+b", "c%20d"}, Parse(`["a+b","c%20d"]`).IDs())

	store := Parse("")
	store.Add("a+b")
	store.Add("c%20d")
	require.Equal(t, []string{"a+b", "c%20d"}, roundTrip(t, store.Cookie()).IDs())
}

func TestCookieAttributes(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := Parse("", WithClock(func() time.Time { return now }), WithSecure(true))

	for _, cookie := range []*http.Cookie{store.Add("5"), store.Remove("5"), store.Remove("5")} {
		require.Equal(t, "bookmarks", cookie.Name)
		require.Equal(t, "/", cookie.Path)
		require.Equal(t, 30*24*60*60, cookie.MaxAge)
		require.Equal(t, now.Add(30*24*time.Hour), cookie.Expires)
		require.True(t, cookie.HttpOnly)
		require.True(t, cookie.Secure)
		require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	}

	decoded, err := url.QueryUnescape(store.Cookie().Value)
	require.NoError(t, err)
	require.Equal(t, "[]", decoded)

	store.Add("5")
	store.Add("7")
	decoded, err = url.QueryUnescape(store.Cookie().Value)
	require.NoError(t, err)
	require.Equal(t, `["5","7"]`, decoded)
	require.True(t, store.Has("7"))
	require.False(t, store.Has("6"))
}

func TestCookieValueSurvivesSetCookie(t *testing.T) {
	t.Parallel()

	store := Parse("")
	store.Add(`id with "quotes", commas;`)
	rec := httptest.NewRecorder()
	http.SetCookie(rec, store.Cookie())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, []string{`id with "quotes", commas;`}, Parse(cookies[0].Value).IDs())
}
