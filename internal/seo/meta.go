package seo

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

// Meta is everything that ends up in <head> for one page.
type Meta struct {
	Title       string
	Description string
	Keywords    []string
	Canonical   string
	OpenGraph   OpenGraph
	Twitter     Twitter
	Robots      string
}

type OpenGraph struct {
	Title       string
	Description string
	URL         string
	SiteName    string
	Type        string
	Locale      string
	Images      []Image
}

type Twitter struct {
	Card        string
	Site        string
	Title       string
	Description string
	Images      []string
}

type Image struct {
	URL    string
	Width  int
	Height int
	Alt    string
}

// KeywordString joins keywords for the keywords meta tag.
func (m Meta) KeywordString() string {
	return strings.Join(m.Keywords, ", ")
}

const (
	ogImageWidth  = 1200
	ogImageHeight = 630
)

// LocationMeta builds title, description, keywords, Open Graph and Twitter
// tags for a location landing page.
func LocationMeta(site types.SiteConfig, loc types.LocationData, services []types.Service) Meta {
	title := fmt.Sprintf("Roofing Contractor in %s | %s", loc.CityState(), site.Name)
	description := locationDescription(site, loc)
	canonical := LocationURL(site, loc.Slug)

	image := Image{
		URL:    AbsoluteURL(site, firstNonEmpty(loc.HeroImage, site.DefaultOGImage)),
		Width:  ogImageWidth,
		Height: ogImageHeight,
		Alt:    fmt.Sprintf("%s roofing project in %s", site.Name, loc.CityState()),
	}

	return Meta{
		Title:       title,
		Description: description,
		Keywords:    locationKeywords(loc, services),
		Canonical:   canonical,
		Robots:      "index, follow",
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			URL:         canonical,
			SiteName:    site.Name,
			Type:        "website",
			Locale:      "en_US",
			Images:      []Image{image},
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Site:        site.TwitterHandle,
			Title:       title,
			Description: description,
			Images:      []string{image.URL},
		},
	}
}

// PageMeta builds metadata for non-location pages.
func PageMeta(site types.SiteConfig, path, title, description string) Meta {
	fullTitle := title
	if fullTitle == "" {
		fullTitle = site.Name
	} else if !strings.Contains(fullTitle, site.Name) {
		fullTitle = title + " | " + site.Name
	}
	canonical := AbsoluteURL(site, path)
	image := AbsoluteURL(site, site.DefaultOGImage)

	return Meta{
		Title:       fullTitle,
		Description: description,
		Canonical:   canonical,
		Robots:      "index, follow",
		OpenGraph: OpenGraph{
			Title:       fullTitle,
			Description: description,
			URL:         canonical,
			SiteName:    site.Name,
			Type:        "website",
			Locale:      "en_US",
			Images:      []Image{{URL: image, Width: ogImageWidth, Height: ogImageHeight, Alt: site.Name}},
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Site:        site.TwitterHandle,
			Title:       fullTitle,
			Description: description,
			Images:      []string{image},
		},
	}
}

func locationDescription(site types.SiteConfig, loc types.LocationData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trusted roofing contractor in %s. Roof replacement, repair and storm damage restoration", loc.CityState())

	if n := min(3, len(loc.Neighborhoods)); n > 0 {
		b.WriteString(" serving ")
		b.WriteString(joinList(loc.Neighborhoods[:n]))
		if len(loc.Neighborhoods) > n {
			b.WriteString(" and more")
		}
	}
	fmt.Fprintf(&b, ". Free inspections, call %s.", site.Phone)
	return b.String()
}

func locationKeywords(loc types.LocationData, services []types.Service) []string {
	city := strings.ToLower(loc.City)
	state := strings.ToLower(loc.State)

	candidates := []string{
		"roofing " + city,
		"roofer " + city + " " + state,
		"roofing contractor " + city + " " + state,
	}
	for _, s := range services {
		candidates = append(candidates, strings.ToLower(s.Title)+" "+city)
	}
	if loc.County != "" {
		candidates = append(candidates, strings.ToLower(loc.County)+" roofing")
	}
	for _, n := range loc.Neighborhoods {
		candidates = append(candidates, "roofing "+strings.ToLower(n))
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, k := range candidates {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// LocationURL is the canonical URL of a location page.
func LocationURL(site types.SiteConfig, slug string) string {
	return AbsoluteURL(site, "/locations/"+slug)
}

// AbsoluteURL resolves a site-relative path against the base URL. Absolute
// URLs pass through.
func AbsoluteURL(site types.SiteConfig, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimSuffix(site.BaseURL, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
