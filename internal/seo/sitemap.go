package seo

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type URL struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   float64  `xml:"priority,omitempty"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// BuildSitemap lists the home page, the locations index and every location.
func BuildSitemap(site types.SiteConfig, locations []types.LocationData, lastMod time.Time) URLSet {
	mod := lastMod.UTC().Format("2006-01-02")

	set := URLSet{
		XMLNS: sitemapNS,
		URLs: []URL{
			{Loc: AbsoluteURL(site, "/"), LastMod: mod, ChangeFreq: "weekly", Priority: 1.0},
			{Loc: AbsoluteURL(site, "/locations"), LastMod: mod, ChangeFreq: "weekly", Priority: 0.9},
		},
	}
	for _, loc := range locations {
		set.URLs = append(set.URLs, URL{
			Loc:        LocationURL(site, loc.Slug),
			LastMod:    mod,
			ChangeFreq: "monthly",
			Priority:   0.8,
		})
	}
	return set
}

// MarshalSitemap renders the URL set with the XML declaration.
func MarshalSitemap(set URLSet) ([]byte, error) {
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// RobotsTxt allows everything and points crawlers at the sitemap.
func RobotsTxt(site types.SiteConfig) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /quote\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", AbsoluteURL(site, "/sitemap.xml"))
	return b.String()
}
