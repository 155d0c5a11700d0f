package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPlaceholderWidth  = 400
	defaultPlaceholderHeight = 300
	maxPlaceholderSide       = 4000
	maxPlaceholderText       = 80
	placeholderCacheControl  = "public, max-age=86400"
)

// placeholder draws the stand-in image referenced by catalog records until real photography is
// uploaded. Query parameters: width, height, text.
func placeholder(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width := placeholderSide(q.Get("width"), defaultPlaceholderWidth)
	height := placeholderSide(q.Get("height"), defaultPlaceholderHeight)

	text := strings.TrimSpace(q.Get("text"))
	if runes := []rune(text); len(runes) > maxPlaceholderText {
		text = string(runes[:maxPlaceholderText])
	}
	fontSize := min(width, height) / 10
	if fontSize < 8 {
		fontSize = 8
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", placeholderCacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#f3e8d8"/>`+
		`<text x="50%%" y="50%%" font-family="sans-serif" font-size="%d" fill="#8a5a2b" text-anchor="middle" dominant-baseline="middle">%s</text>`+
		`</svg>`, width, height, width, height, fontSize, html.EscapeString(text))
}

func placeholderSide(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}
	if v > maxPlaceholderSide {
		return maxPlaceholderSide
	}
	return v
}
