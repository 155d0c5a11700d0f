// Package views renders the site's HTML pages. Pages are html/template files embedded in the
// binary and exposed as templ components so handlers serve them through templ.Handler.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"finitefield.org/heritage-web/internal/catalog"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const layoutFile = "templates/layout.tmpl"

var (
	pagesOnce sync.Once
	pages     map[string]*template.Template
	pagesErr  error
)

var printer = message.NewPrinter(language.English)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"stateSlug":  catalog.StateSlug,
		"pathEscape": url.PathEscape,
		"rating": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
		"count": func(n int64) string {
			return printer.Sprintf("%d", n)
		},
		"join": strings.Join,
		"year": func() int { return time.Now().Year() },
	}
}

func parsePages() (map[string]*template.Template, error) {
	layout, err := template.New("layout").Funcs(funcMap()).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("views: read templates: %w", err)
	}

	out := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || "templates/"+name == layoutFile {
			continue
		}
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("views: clone layout: %w", err)
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		out[strings.TrimSuffix(name, ".tmpl")] = page
	}
	return out, nil
}

// Parse validates every embedded page. Servers call it at startup so template errors surface
// before the first request.
func Parse() error {
	_, err := loadPages()
	return err
}

func loadPages() (map[string]*template.Template, error) {
	pagesOnce.Do(func() {
		pages, pagesErr = parsePages()
	})
	return pages, pagesErr
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		set, err := loadPages()
		if err != nil {
			return err
		}
		t, ok := set[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "base", data)
	})
}
