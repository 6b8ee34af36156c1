package seo

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

func testSite() types.SiteConfig {
	return types.SiteConfig{
		Name:           "Ridgeline Roofing",
		BaseURL:        "https://roofs.example.com/",
		Phone:          "(303) 555-0148",
		Email:          "office@example.com",
		DefaultOGImage: "/static/og.jpg",
		Logo:           "/static/logo.png",
		PriceRange:     "$$",
		Address:        types.PostalAddress{Street: "1 Main St", Locality: "Denver", Region: "CO", PostalCode: "80202", Country: "US"},
		Hours:          []types.OpeningHour{{Days: []string{"Monday"}, Opens: "07:00", Closes: "18:00"}},
		Rating:         types.Rating{Value: 4.9, Count: 100},
	}
}

func testLocation() types.LocationData {
	return types.LocationData{
		City:          "Aurora",
		State:         "CO",
		Slug:          "aurora",
		County:        "Arapahoe County",
		Neighborhoods: []string{"Southlands", "Saddle Rock", "Murphy Creek", "Hoffman Heights"},
		WeatherNote:   "Hail <big> & frequent.",
		Description:   "Aurora roofs.",
		HeroImage:     "/static/img/aurora.jpg",
		Latitude:      39.7,
		Longitude:     -104.8,
		FAQs:          []types.FAQ{{Question: "Local question?", Answer: "Local answer."}},
	}
}

func testServices() []types.Service {
	return []types.Service{
		{Slug: "roof-repair", Title: "Roof Repair", ShortDescription: "Fix leaks."},
		{Slug: "roof-replacement", Title: "Roof Replacement", ShortDescription: "New roofs."},
	}
}

func TestLocationMeta(t *testing.T) {
	meta := LocationMeta(testSite(), testLocation(), testServices())

	assert.Equal(t, "Roofing Contractor in Aurora, CO | Ridgeline Roofing", meta.Title)
	assert.Equal(t, "https://roofs.example.com/locations/aurora", meta.Canonical)
	assert.Contains(t, meta.Description, "Aurora, CO")
	assert.Contains(t, meta.Description, "Southlands, Saddle Rock and Murphy Creek and more")
	assert.Contains(t, meta.Description, "(303) 555-0148")

	assert.Equal(t, meta.Canonical, meta.OpenGraph.URL)
	require.Len(t, meta.OpenGraph.Images, 1)
	assert.Equal(t, "https://roofs.example.com/static/img/aurora.jpg", meta.OpenGraph.Images[0].URL)
	assert.Equal(t, "summary_large_image", meta.Twitter.Card)

	assert.Contains(t, meta.Keywords, "roofing aurora")
	assert.Contains(t, meta.Keywords, "roof repair aurora")
	assert.Contains(t, meta.Keywords, "arapahoe county roofing")
	assert.Contains(t, meta.KeywordString(), "roofer aurora co")
}

func TestLocationMeta_NoNeighborhoods(t *testing.T) {
	loc := testLocation()
	loc.Neighborhoods = nil
	loc.HeroImage = ""

	meta := LocationMeta(testSite(), loc, nil)
	assert.NotContains(t, meta.Description, "serving")
	assert.Equal(t, "https://roofs.example.com/static/og.jpg", meta.OpenGraph.Images[0].URL)
}

func TestLocationKeywords_Deduplicated(t *testing.T) {
	loc := testLocation()
	loc.Neighborhoods = []string{"Aurora", "Aurora"}

	kws := locationKeywords(loc, nil)
	seen := map[string]int{}
	for _, k := range kws {
		seen[k]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, k)
	}
}

func TestPageMeta(t *testing.T) {
	meta := PageMeta(testSite(), "/locations", "Service Areas", "Where we work.")
	assert.Equal(t, "Service Areas | Ridgeline Roofing", meta.Title)
	assert.Equal(t, "https://roofs.example.com/locations", meta.Canonical)

	home := PageMeta(testSite(), "/", "", "Home.")
	assert.Equal(t, "Ridgeline Roofing", home.Title)
	assert.Equal(t, "https://roofs.example.com/", home.Canonical)
}

func TestAbsoluteURL(t *testing.T) {
	site := testSite()
	assert.Equal(t, "https://roofs.example.com/a", AbsoluteURL(site, "a"))
	assert.Equal(t, "https://cdn.example.com/x.jpg", AbsoluteURL(site, "https://cdn.example.com/x.jpg"))
}

func TestLocationFAQs(t *testing.T) {
	faqs := LocationFAQs(testSite(), testLocation())

	require.Len(t, faqs, 5)
	assert.Contains(t, faqs[0].Question, "Aurora")
	assert.Contains(t, faqs[2].Answer, "(303) 555-0148")
	assert.Equal(t, "Hail <big> & frequent.", faqs[3].Answer)
	assert.Equal(t, "Local question?", faqs[4].Question)
}

func TestLocalBusiness(t *testing.T) {
	doc := LocalBusiness(testSite(), testLocation(), testServices())
	out, err := Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "https://schema.org", decoded["@context"])
	assert.Equal(t, []any{"RoofingContractor", "LocalBusiness"}, decoded["@type"])
	assert.Equal(t, "(303) 555-0148", decoded["telephone"])
	assert.Equal(t, "Ridgeline Roofing - Aurora", decoded["name"])
	assert.Equal(t, "https://roofs.example.com/locations/aurora#business", decoded["@id"])

	geo := decoded["geo"].(map[string]any)
	assert.Equal(t, "GeoCoordinates", geo["@type"])

	area := decoded["areaServed"].([]any)
	require.Len(t, area, 5)
	assert.Equal(t, "Aurora, CO", area[0].(map[string]any)["name"])

	catalog := decoded["hasOfferCatalog"].(map[string]any)
	assert.Len(t, catalog["itemListElement"], 2)

	rating := decoded["aggregateRating"].(map[string]any)
	assert.Equal(t, 100.0, rating["reviewCount"])
}

func TestLocalBusiness_OmitsEmptyOptionals(t *testing.T) {
	site := testSite()
	site.Rating = types.Rating{}
	loc := testLocation()
	loc.Latitude, loc.Longitude = 0, 0

	doc := LocalBusiness(site, loc, nil)
	assert.Nil(t, doc.Geo)
	assert.Nil(t, doc.AggregateRating)
	assert.Nil(t, doc.HasOfferCatalog)
}

func TestBreadcrumbList(t *testing.T) {
	doc := BreadcrumbList(testSite(), LocationCrumbs(testLocation()))

	require.Len(t, doc.ItemListElement, 3)
	for i, item := range doc.ItemListElement {
		assert.Equal(t, i+1, item.Position)
		assert.Equal(t, "ListItem", item.Type)
	}
	assert.Equal(t, "https://roofs.example.com/", doc.ItemListElement[0].Item)
	assert.Equal(t, "https://roofs.example.com/locations/aurora", doc.ItemListElement[2].Item)
	assert.Equal(t, "Aurora", doc.ItemListElement[2].Name)
}

func TestFAQPage_EscapesHTML(t *testing.T) {
	out, err := Marshal(FAQPage(LocationFAQs(testSite(), testLocation())))
	require.NoError(t, err)

	assert.NotContains(t, out, "<big>")
	assert.Contains(t, out, `\u003cbig\u003e`)
	assert.True(t, json.Valid([]byte(out)))

	var decoded FAQPageSchema
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "FAQPage", decoded.Type)
	assert.Len(t, decoded.MainEntity, 5)
	assert.Equal(t, "Answer", decoded.MainEntity[0].AcceptedAnswer.Type)
}

func TestSitemap(t *testing.T) {
	set := BuildSitemap(testSite(), []types.LocationData{testLocation()}, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	raw, err := MarshalSitemap(set)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(raw), "<?xml"))

	var decoded URLSet
	require.NoError(t, xml.Unmarshal(raw, &decoded))
	require.Len(t, decoded.URLs, 3)
	assert.Equal(t, "https://roofs.example.com/locations/aurora", decoded.URLs[2].Loc)
	assert.Equal(t, "2026-03-01", decoded.URLs[2].LastMod)
}

func TestRobotsTxt(t *testing.T) {
	robots := RobotsTxt(testSite())
	assert.Contains(t, robots, "Sitemap: https://roofs.example.com/sitemap.xml")
}
