// Package bookmarks keeps a visitor's bookmarked item ids in a browser cookie.
package bookmarks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"finitefield.org/heritage-web/internal/domain"
)

const (
	// CookieName is the name of the cookie holding the JSON array of ids.
	CookieName = "bookmarks"
	// MaxAge is the rolling lifetime applied on every write.
	MaxAge = 30 * 24 * time.Hour
)

// Resolver looks up a catalog item by id.
type Resolver interface {
	ByID(ctx context.Context, id string) (domain.HeritageItem, bool)
}

// Store is a per-request view of the bookmark cookie. It is not safe for concurrent use; build
// one per request with FromRequest.
type Store struct {
	ids    []string
	secure bool
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithSecure marks written cookies as Secure.
func WithSecure(secure bool) Option {
	return func(s *Store) {
		s.secure = secure
	}
}

// WithClock overrides the clock used for cookie expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// FromRequest reads the bookmark cookie from r. A missing or unreadable cookie yields an empty store.
func FromRequest(r *http.Request, opts ...Option) *Store {
	value := ""
	if r != nil {
		if c, err := r.Cookie(CookieName); err == nil {
			value = c.Value
		}
	}
	return Parse(value, opts...)
}

// Parse decodes a cookie value. Invalid payloads are treated as an empty set.
func Parse(value string, opts ...Option) *Store {
	s := &Store{ids: decode(value), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func decode(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}
	// Raw JSON is taken as is so ids holding '+' or '%' survive.
	if !strings.HasPrefix(value, "[") {
		unescaped, err := url.QueryUnescape(value)
		if err != nil {
			return []string{}
		}
		value = unescaped
	}

	var raw []string
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return []string{}
	}

	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// IDs returns the bookmarked ids in stored order.
func (s *Store) IDs() []string {
	return slices.Clone(s.ids)
}

// Has reports whether id is bookmarked.
func (s *Store) Has(id string) bool {
	return slices.Contains(s.ids, strings.TrimSpace(id))
}

// Add appends id when it is not already present and returns the cookie to write. The cookie is
// returned even when nothing changed so the expiry rolls forward.
func (s *Store) Add(id string) *http.Cookie {
	id = strings.TrimSpace(id)
	if id != "" && !slices.Contains(s.ids, id) {
		s.ids = append(s.ids, id)
	}
	return s.Cookie()
}

// Remove drops id and returns the cookie to write. Removing an absent id is not an error.
func (s *Store) Remove(id string) *http.Cookie {
	id = strings.TrimSpace(id)
	s.ids = slices.DeleteFunc(s.ids, func(existing string) bool { return existing == id })
	return s.Cookie()
}

// Cookie encodes the current set as a site-wide cookie with a fresh expiry.
func (s *Store) Cookie() *http.Cookie {
	payload, err := json.Marshal(s.ids)
	if err != nil {
		payload = []byte("[]")
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(string(payload)),
		Path:     "/",
		MaxAge:   int(MaxAge / time.Second),
		Expires:  s.now().Add(MaxAge).UTC(),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Resolve maps the stored ids to catalog items in stored order, dropping ids the catalog does not know.
func (s *Store) Resolve(ctx context.Context, resolver Resolver) []domain.HeritageItem {
	items := make([]domain.HeritageItem, 0, len(s.ids))
	if resolver == nil {
		return items
	}
	for _, id := range s.ids {
		if item, ok := resolver.ByID(ctx, id); ok {
			items = append(items, item)
		}
	}
	return items
}
