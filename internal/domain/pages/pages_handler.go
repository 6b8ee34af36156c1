package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/roofing-site/internal/content"
	"github.com/FACorreiaa/roofing-site/internal/render"
	"github.com/FACorreiaa/roofing-site/internal/types"
	"github.com/FACorreiaa/roofing-site/pkg/observability"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeCSS  = "text/css; charset=utf-8"

	locationPrefix = "/locations/"
	NotFoundPath   = "/404.html"
)

// Page is one rendered document.
type Page struct {
	Path        string
	ContentType string
	Status      int
	Body        []byte
}

// Handler serves the public HTML pages, the sitemap and robots.txt.
type Handler struct {
	svc      Service
	renderer *render.Renderer
	cache    *cache.Cache
	maxAge   time.Duration
	logger   *slog.Logger
}

// NewHandler wires the page handler. pageCache may be nil to disable caching.
func NewHandler(svc Service, renderer *render.Renderer, pageCache *cache.Cache, maxAge time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		renderer: renderer,
		cache:    pageCache,
		maxAge:   maxAge,
		logger:   logger,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.serve)
	mux.HandleFunc("GET /locations", h.serve)
	mux.HandleFunc("GET /locations/{slug}", h.serve)
	mux.HandleFunc("GET /sitemap.xml", h.serve)
	mux.HandleFunc("GET /robots.txt", h.serve)
	mux.HandleFunc("GET "+render.StylesheetPath, h.serve)
	mux.HandleFunc("/", h.notFound)
}

// FlushCache drops every cached page. It is subscribed to catalog reloads.
func (h *Handler) FlushCache(_ *content.Catalog) {
	if h.cache == nil {
		return
	}
	h.cache.Flush()
	h.logger.Info("Page cache flushed")
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	path := r.URL.Path

	if body, ok := h.cached(path); ok {
		observability.PageCacheLookups.WithLabelValues("hit").Inc()
		w.Header().Set("X-Cache", "HIT")
		h.write(w, path, Page{Path: path, ContentType: contentTypeFor(path), Status: http.StatusOK, Body: body})
		return
	}

	page, err := h.RenderPath(ctx, path)
	switch {
	case errors.Is(err, types.ErrNotFound):
		h.notFound(w, r)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "Failed to render page",
			slog.String("path", path),
			slog.Any("error", err))
		observability.PageRenders.WithLabelValues(pageName(path), "500").Inc()
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		observability.PageCacheLookups.WithLabelValues("miss").Inc()
		h.cache.SetDefault(path, page.Body)
		w.Header().Set("X-Cache", "MISS")
	}
	h.write(w, path, page)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	page, err := h.renderNotFound(r.Context(), r.URL.Path)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render not found page", slog.Any("error", err))
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	h.write(w, r.URL.Path, page)
}

func (h *Handler) write(w http.ResponseWriter, path string, page Page) {
	w.Header().Set("Content-Type", page.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(page.Body)))
	if page.Status == http.StatusOK && h.maxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.maxAge.Seconds())))
	}
	w.WriteHeader(page.Status)
	_, _ = w.Write(page.Body)
	observability.PageRenders.WithLabelValues(pageName(path), strconv.Itoa(page.Status)).Inc()
}

func (h *Handler) cached(path string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	v, ok := h.cache.Get(path)
	if !ok {
		return nil, false
	}
	body, ok := v.([]byte)
	return body, ok
}

// RenderPath renders the document served at path. Unknown paths and slugs
// return an error wrapping types.ErrNotFound, except NotFoundPath which
// renders the 404 page itself.
func (h *Handler) RenderPath(ctx context.Context, path string) (Page, error) {
	start := time.Now()
	name := pageName(path)
	defer func() {
		observability.PageRenderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	switch {
	case path == "/":
		view, err := h.svc.HomePage(ctx)
		if err != nil {
			return Page{}, err
		}
		return h.html(path, render.PageHome, view, http.StatusOK)
	case path == "/locations":
		view, err := h.svc.IndexPage(ctx)
		if err != nil {
			return Page{}, err
		}
		return h.html(path, render.PageIndex, view, http.StatusOK)
	case strings.HasPrefix(path, locationPrefix):
		slug := strings.TrimPrefix(path, locationPrefix)
		if slug == "" || slug != strings.TrimSpace(slug) || strings.Contains(slug, "/") {
			return Page{}, fmt.Errorf("path %q: %w", path, types.ErrNotFound)
		}
		view, err := h.svc.LocationPage(ctx, slug)
		if errors.Is(err, types.ErrBadRequest) {
			return Page{}, fmt.Errorf("path %q: %w", path, types.ErrNotFound)
		}
		if err != nil {
			return Page{}, err
		}
		return h.html(path, render.PageLocation, view, http.StatusOK)
	case path == "/sitemap.xml":
		body, err := h.svc.Sitemap(ctx)
		if err != nil {
			return Page{}, err
		}
		return Page{Path: path, ContentType: contentTypeXML, Status: http.StatusOK, Body: body}, nil
	case path == "/robots.txt":
		body, err := h.svc.Robots(ctx)
		if err != nil {
			return Page{}, err
		}
		return Page{Path: path, ContentType: contentTypeText, Status: http.StatusOK, Body: []byte(body)}, nil
	case path == render.StylesheetPath:
		return Page{Path: path, ContentType: contentTypeCSS, Status: http.StatusOK, Body: render.Stylesheet()}, nil
	case path == NotFoundPath:
		return h.renderNotFound(ctx, "/")
	default:
		return Page{}, fmt.Errorf("path %q: %w", path, types.ErrNotFound)
	}
}

func (h *Handler) renderNotFound(ctx context.Context, path string) (Page, error) {
	view, err := h.svc.NotFoundPage(ctx, path)
	if err != nil {
		return Page{}, err
	}
	return h.html(path, render.PageNotFound, view, http.StatusNotFound)
}

func (h *Handler) html(path, page string, view any, status int) (Page, error) {
	body, err := h.renderer.RenderBytes(page, view)
	if err != nil {
		return Page{}, err
	}
	return Page{Path: path, ContentType: contentTypeHTML, Status: status, Body: body}, nil
}

func contentTypeFor(path string) string {
	switch path {
	case "/sitemap.xml":
		return contentTypeXML
	case "/robots.txt":
		return contentTypeText
	case render.StylesheetPath:
		return contentTypeCSS
	default:
		return contentTypeHTML
	}
}

// pageName keeps metric label cardinality bounded.
func pageName(path string) string {
	switch {
	case path == "/":
		return render.PageHome
	case path == "/locations":
		return render.PageIndex
	case strings.HasPrefix(path, locationPrefix):
		return render.PageLocation
	case path == "/sitemap.xml":
		return "sitemap"
	case path == "/robots.txt":
		return "robots"
	case path == render.StylesheetPath:
		return "stylesheet"
	default:
		return render.PageNotFound
	}
}
