package pages

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/roofing-site/internal/content"
	"github.com/FACorreiaa/roofing-site/internal/domain/location"
	"github.com/FACorreiaa/roofing-site/internal/render"
	"github.com/FACorreiaa/roofing-site/internal/seo"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

var (
	titlePattern  = regexp.MustCompile(`<title>(.*?)</title>`)
	jsonLDPattern = regexp.MustCompile(`(?s)<script type="application/ld\+json">(.*?)</script>`)
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type fixture struct {
	catalog *content.Catalog
	handler *Handler
	server  *httptest.Server
}

func newFixture(t *testing.T, pageCache *cache.Cache) fixture {
	t.Helper()

	catalog, err := content.Default()
	require.NoError(t, err)
	logger := newTestLogger()

	store := content.NewStore(catalog, nil, logger)
	svc := NewPageService(location.NewLocationService(store, logger), logger)
	renderer, err := render.New(logger)
	require.NoError(t, err)

	h := NewHandler(svc, renderer, pageCache, 5*time.Minute, logger)
	mux := http.NewServeMux()
	h.Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return fixture{catalog: catalog, handler: h, server: server}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestLocationPage_EverySlugRenders(t *testing.T) {
	f := newFixture(t, nil)

	for _, loc := range f.catalog.Locations() {
		t.Run(loc.Slug, func(t *testing.T) {
			resp, body := get(t, f.server.URL+"/locations/"+loc.Slug)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, contentTypeHTML, resp.Header.Get("Content-Type"))

			title := titlePattern.FindStringSubmatch(body)
			require.Len(t, title, 2)
			assert.Contains(t, html.UnescapeString(title[1]), loc.City)

			blocks := jsonLDPattern.FindAllStringSubmatch(body, -1)
			require.Len(t, blocks, 3)

			var business, breadcrumbs, faq map[string]any
			require.NoError(t, json.Unmarshal([]byte(blocks[0][1]), &business))
			require.NoError(t, json.Unmarshal([]byte(blocks[1][1]), &breadcrumbs))
			require.NoError(t, json.Unmarshal([]byte(blocks[2][1]), &faq))

			assert.Equal(t, f.catalog.Site().Phone, business["telephone"])
			assert.Contains(t, blocks[0][1], loc.City)
			assert.Equal(t, "BreadcrumbList", breadcrumbs["@type"])
			assert.Equal(t, "FAQPage", faq["@type"])
			assert.Contains(t, blocks[2][1], loc.City)
		})
	}
}

func TestLocationPage_UnknownSlug(t *testing.T) {
	f := newFixture(t, nil)

	for _, path := range []string{"/locations/atlantis", "/locations/", "/no-such-page"} {
		resp, body := get(t, f.server.URL+path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, body, "Page not found", path)
		assert.Contains(t, body, `<meta name="robots" content="noindex">`, path)
	}
}

func TestLocationPage_NonCanonicalSlug(t *testing.T) {
	pageCache := cache.New(time.Minute, time.Minute)
	f := newFixture(t, pageCache)

	tests := []struct {
		name string
		path string
	}{
		{name: "blank", path: "/locations/%20"},
		{name: "tab", path: "/locations/%09"},
		{name: "leading space", path: "/locations/%20denver"},
		{name: "trailing space", path: "/locations/denver%20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, f.server.URL+tt.path)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Contains(t, body, "Page not found")
		})
	}
	assert.Zero(t, pageCache.ItemCount())

	_, err := f.handler.RenderPath(context.Background(), "/locations/ ")
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = f.handler.RenderPath(context.Background(), "/locations/ denver")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestLocationPage_Spotlight(t *testing.T) {
	f := newFixture(t, nil)

	var with, without *types.LocationData
	for _, loc := range f.catalog.Locations() {
		if loc.Spotlight != nil && with == nil {
			with = &loc
		}
		if loc.Spotlight == nil && without == nil {
			without = &loc
		}
	}
	require.NotNil(t, with)
	require.NotNil(t, without)

	_, body := get(t, f.server.URL+"/locations/"+with.Slug)
	assert.Contains(t, body, html.EscapeString(with.Spotlight.Heading))

	_, body = get(t, f.server.URL+"/locations/"+without.Slug)
	assert.NotContains(t, body, `class="spotlight"`)
}

func TestLocationPage_Cache(t *testing.T) {
	f := newFixture(t, cache.New(time.Minute, time.Minute))
	url := f.server.URL + "/locations/denver"

	resp, first := get(t, url)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))

	resp, second := get(t, url)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	assert.Equal(t, first, second)

	f.handler.FlushCache(f.catalog)
	resp, _ = get(t, url)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
}

func TestHomeAndIndex(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := get(t, f.server.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, loc := range f.catalog.Locations() {
		assert.Contains(t, body, `href="/locations/`+loc.Slug+`"`)
	}

	resp, body = get(t, f.server.URL+"/locations")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Service Areas")
}

func TestSitemapAndRobots(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := get(t, f.server.URL+"/sitemap.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contentTypeXML, resp.Header.Get("Content-Type"))

	var set seo.URLSet
	require.NoError(t, xml.Unmarshal([]byte(body), &set))
	assert.Len(t, set.URLs, len(f.catalog.Locations())+2)

	resp, body = get(t, f.server.URL+"/robots.txt")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "/sitemap.xml"))
}

func TestStylesheet(t *testing.T) {
	f := newFixture(t, nil)

	resp, body := get(t, f.server.URL+render.StylesheetPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contentTypeCSS, resp.Header.Get("Content-Type"))
	assert.Contains(t, body, ".site-header")

	_, page := get(t, f.server.URL+"/locations/denver")
	assert.Contains(t, page, `<link rel="stylesheet" href="`+render.StylesheetPath+`">`)
}

func TestRenderPath_NotFoundDocument(t *testing.T) {
	f := newFixture(t, nil)

	page, err := f.handler.RenderPath(context.Background(), NotFoundPath)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, page.Status)

	_, err = f.handler.RenderPath(context.Background(), "/locations/a/b")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestNearby(t *testing.T) {
	locs := []types.LocationData{{Slug: "a"}, {Slug: "b"}, {Slug: "c"}, {Slug: "d"}, {Slug: "e"}, {Slug: "f"}}

	got := nearby(locs, "b")
	require.Len(t, got, maxNearby)
	for _, l := range got {
		assert.NotEqual(t, "b", l.Slug)
	}
}
