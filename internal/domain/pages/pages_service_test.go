package pages

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/roofing-site/internal/content"
	"github.com/FACorreiaa/roofing-site/internal/domain/location"
	"github.com/FACorreiaa/roofing-site/internal/render"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

func newTestPageService(t *testing.T) *ServiceImpl {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)
	logger := newTestLogger()
	svc := NewPageService(location.NewLocationService(content.NewStore(catalog, nil, logger), logger), logger)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestPageService_LocationPage(t *testing.T) {
	svc := newTestPageService(t)

	view, err := svc.LocationPage(context.Background(), "aurora")
	require.NoError(t, err)

	assert.Equal(t, "Aurora", view.Location.City)
	assert.Contains(t, view.Meta.Title, "Aurora")
	assert.Equal(t, "aurora", view.Form.Values.LocationSlug)
	assert.Equal(t, 2026, view.Year)
	assert.NotEmpty(t, view.FAQs)

	require.Len(t, view.JSONLD, 3)
	for _, doc := range view.JSONLD {
		assert.True(t, json.Valid([]byte(doc)), string(doc))
	}
	for _, n := range view.Nearby {
		assert.NotEqual(t, "aurora", n.Slug)
	}
}

func TestPageService_LocationPage_NotFound(t *testing.T) {
	svc := newTestPageService(t)

	view, err := svc.LocationPage(context.Background(), "atlantis")
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Nil(t, view)
}

func TestPageService_QuotePageKeepsValues(t *testing.T) {
	svc := newTestPageService(t)

	view, err := svc.QuotePage(context.Background(), render.QuoteForm{
		Values: render.QuoteValues{Name: "Sam"},
		Errors: map[string]string{"phone": "required"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", view.Form.Values.Name)
	assert.Equal(t, "required", view.Form.Errors["phone"])
	assert.NotEmpty(t, view.Form.Locations)
	assert.Equal(t, "noindex", view.Meta.Robots)
}

func TestPageService_Sitemap(t *testing.T) {
	svc := newTestPageService(t)

	raw, err := svc.Sitemap(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<lastmod>2026-05-01</lastmod>")
}
