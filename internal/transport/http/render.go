package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates
var templateFS embed.FS

var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

var funcs = template.FuncMap{
	"rupees":   formatRupees,
	"whatsapp": whatsAppLink,
	"join":     strings.Join,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
	"datep": func(t *time.Time) string {
		if t == nil {
			return "never"
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
	"pageURL": pageURL,
	"add":     func(a, b int) int { return a + b },
}

// Views holds one template set per page, each sharing the layout.
type Views struct {
	pages map[string]*template.Template
}

// NewViews parses the embedded templates.
func NewViews() (*Views, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	v := &Views{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f, err)
		}
		v.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return v, nil
}

// Render writes page wrapped in the layout.
func (v *Views) Render(w io.Writer, page string, data any) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// formatRupees renders whole rupees with Indian digit grouping.
func formatRupees(v int64) string {
	return "₹" + rupeePrinter.Sprintf("%d", v)
}

// whatsAppLink builds a click-to-chat link. {product} in tmpl is replaced
// by the product name. An empty number yields "".
func whatsAppLink(number, tmpl, product string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}
	if tmpl == "" {
		tmpl = "Hi, I'm interested in {product}"
	}
	text := strings.ReplaceAll(tmpl, "{product}", product)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}

// pageURL returns the query string of q with page replaced.
func pageURL(q url.Values, page int) string {
	next := url.Values{}
	for k, vs := range q {
		next[k] = append([]string(nil), vs...)
	}
	next.Set("page", strconv.Itoa(page))
	return "?" + next.Encode()
}
