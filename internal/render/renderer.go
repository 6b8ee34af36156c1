package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

//go:embed templates/*.gohtml templates/partials/*.gohtml templates/pages/*.gohtml
var templateFS embed.FS

//go:embed static/site.css
var stylesheet []byte

// StylesheetPath is where the layout links the site stylesheet.
const StylesheetPath = "/static/site.css"

// Stylesheet returns the embedded site stylesheet.
func Stylesheet() []byte {
	return stylesheet
}

const (
	PageHome     = "home"
	PageIndex    = "locations"
	PageLocation = "location"
	PageNotFound = "notfound"
	PageQuote    = "quote"
)

var pageNames = []string{PageHome, PageIndex, PageLocation, PageNotFound, PageQuote}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// New parses every page template once at startup.
func New(logger *slog.Logger) (*Renderer, error) {
	return NewFromFS(templateFS, logger)
}

// NewFromFS parses templates from fsys, which must hold the same layout as the
// embedded set.
func NewFromFS(fsys fs.FS, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{
		pages:  make(map[string]*template.Template, len(pageNames)),
		logger: logger,
	}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs()).ParseFS(fsys,
			"templates/layout.gohtml",
			"templates/partials/*.gohtml",
			"templates/pages/"+name+".gohtml",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the page only after it executed fully, so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	out, err := r.RenderBytes(page, data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func (r *Renderer) RenderBytes(page string, data any) ([]byte, error) {
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("page", page),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"join":           strings.Join,
		"lower":          strings.ToLower,
		"add":            func(a, b int) int { return a + b },
		"dict":           dict,
		"stylesheetPath": func() string { return StylesheetPath },
		"tel": func(site types.SiteConfig) template.URL {
			return template.URL(site.PhoneHref())
		},
	}
}

// dict builds a map from alternating keys and values so partials can take
// more than one argument.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict requires an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
