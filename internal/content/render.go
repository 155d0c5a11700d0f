// Package content turns stored long-form text into safe HTML for the pages.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown or HTML fragments into sanitised HTML.
type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewRenderer constructs a Renderer with the shared sanitising policy.
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Table, extension.Typographer),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: NewPolicy(),
	}
}

// NewPolicy returns the sanitising policy used for long descriptions and remote summaries.
func NewPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Sanitize strips anything outside the policy from an HTML fragment.
func (r *Renderer) Sanitize(fragment string) string {
	return r.policy.Sanitize(fragment)
}

// Render converts body to HTML. Bodies that already look like HTML are only sanitised;
// anything else is treated as markdown.
func (r *Renderer) Render(body string) (template.HTML, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", nil
	}
	if LooksLikeHTML(body) {
		return template.HTML(r.policy.Sanitize(body)), nil
	}

	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("content: render markdown: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// LooksLikeHTML reports whether body starts with an element tag.
func LooksLikeHTML(body string) bool {
	body = strings.TrimSpace(body)
	if len(body) < 3 || body[0] != '<' {
		return false
	}
	c := body[1]
	return c == '/' || c == '!' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
