package seo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

const schemaContext = "https://schema.org"

// LocalBusinessSchema is the RoofingContractor document for a location page.
type LocalBusinessSchema struct {
	Context                   string                 `json:"@context"`
	Type                      []string               `json:"@type"`
	ID                        string                 `json:"@id"`
	Name                      string                 `json:"name"`
	Description               string                 `json:"description,omitempty"`
	URL                       string                 `json:"url"`
	Telephone                 string                 `json:"telephone"`
	Email                     string                 `json:"email,omitempty"`
	Image                     string                 `json:"image,omitempty"`
	Logo                      string                 `json:"logo,omitempty"`
	PriceRange                string                 `json:"priceRange,omitempty"`
	FoundingDate              string                 `json:"foundingDate,omitempty"`
	Address                   PostalAddressSchema    `json:"address"`
	Geo                       *GeoSchema             `json:"geo,omitempty"`
	AreaServed                []PlaceSchema          `json:"areaServed"`
	OpeningHoursSpecification []OpeningHoursSchema   `json:"openingHoursSpecification,omitempty"`
	AggregateRating           *AggregateRatingSchema `json:"aggregateRating,omitempty"`
	HasOfferCatalog           *OfferCatalogSchema    `json:"hasOfferCatalog,omitempty"`
}

type PostalAddressSchema struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry"`
}

type GeoSchema struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PlaceSchema struct {
	Type        string       `json:"@type"`
	Name        string       `json:"name"`
	ContainedIn *PlaceSchema `json:"containedInPlace,omitempty"`
}

type OpeningHoursSchema struct {
	Type      string   `json:"@type"`
	DayOfWeek []string `json:"dayOfWeek"`
	Opens     string   `json:"opens"`
	Closes    string   `json:"closes"`
}

type AggregateRatingSchema struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
	BestRating  int     `json:"bestRating"`
}

type OfferCatalogSchema struct {
	Type            string        `json:"@type"`
	Name            string        `json:"name"`
	ItemListElement []OfferSchema `json:"itemListElement"`
}

type OfferSchema struct {
	Type        string        `json:"@type"`
	ItemOffered ServiceSchema `json:"itemOffered"`
}

type ServiceSchema struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	AreaServed  string `json:"areaServed,omitempty"`
}

// BreadcrumbListSchema is the BreadcrumbList document.
type BreadcrumbListSchema struct {
	Context         string           `json:"@context"`
	Type            string           `json:"@type"`
	ItemListElement []ListItemSchema `json:"itemListElement"`
}

type ListItemSchema struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

// FAQPageSchema is the FAQPage document.
type FAQPageSchema struct {
	Context    string           `json:"@context"`
	Type       string           `json:"@type"`
	MainEntity []QuestionSchema `json:"mainEntity"`
}

type QuestionSchema struct {
	Type           string       `json:"@type"`
	Name           string       `json:"name"`
	AcceptedAnswer AnswerSchema `json:"acceptedAnswer"`
}

type AnswerSchema struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// Crumb is one breadcrumb step.
type Crumb struct {
	Name string
	Path string
}

// LocalBusiness builds the RoofingContractor document for a location.
func LocalBusiness(site types.SiteConfig, loc types.LocationData, services []types.Service) LocalBusinessSchema {
	pageURL := LocationURL(site, loc.Slug)

	city := PlaceSchema{Type: "City", Name: loc.CityState()}
	areaServed := []PlaceSchema{city}
	for _, n := range loc.Neighborhoods {
		c := city
		areaServed = append(areaServed, PlaceSchema{Type: "Place", Name: n, ContainedIn: &c})
	}

	doc := LocalBusinessSchema{
		Context:      schemaContext,
		Type:         []string{"RoofingContractor", "LocalBusiness"},
		ID:           pageURL + "#business",
		Name:         fmt.Sprintf("%s - %s", site.Name, loc.City),
		Description:  loc.Description,
		URL:          pageURL,
		Telephone:    site.Phone,
		Email:        site.Email,
		PriceRange:   site.PriceRange,
		FoundingDate: site.Founded,
		Address: PostalAddressSchema{
			Type:            "PostalAddress",
			StreetAddress:   site.Address.Street,
			AddressLocality: site.Address.Locality,
			AddressRegion:   site.Address.Region,
			PostalCode:      site.Address.PostalCode,
			AddressCountry:  site.Address.Country,
		},
		AreaServed: areaServed,
	}

	if img := firstNonEmpty(loc.HeroImage, site.DefaultOGImage); img != "" {
		doc.Image = AbsoluteURL(site, img)
	}
	if site.Logo != "" {
		doc.Logo = AbsoluteURL(site, site.Logo)
	}
	if loc.HasGeo() {
		doc.Geo = &GeoSchema{Type: "GeoCoordinates", Latitude: loc.Latitude, Longitude: loc.Longitude}
	}
	for _, h := range site.Hours {
		doc.OpeningHoursSpecification = append(doc.OpeningHoursSpecification, OpeningHoursSchema{
			Type:      "OpeningHoursSpecification",
			DayOfWeek: h.Days,
			Opens:     h.Opens,
			Closes:    h.Closes,
		})
	}
	if site.Rating.Count > 0 {
		doc.AggregateRating = &AggregateRatingSchema{
			Type:        "AggregateRating",
			RatingValue: site.Rating.Value,
			ReviewCount: site.Rating.Count,
			BestRating:  5,
		}
	}
	if len(services) > 0 {
		catalog := &OfferCatalogSchema{
			Type: "OfferCatalog",
			Name: fmt.Sprintf("Roofing Services in %s", loc.City),
		}
		for _, s := range services {
			catalog.ItemListElement = append(catalog.ItemListElement, OfferSchema{
				Type: "Offer",
				ItemOffered: ServiceSchema{
					Type:        "Service",
					Name:        s.Title,
					Description: s.ShortDescription,
					AreaServed:  loc.CityState(),
				},
			})
		}
		doc.HasOfferCatalog = catalog
	}

	return doc
}

// BreadcrumbList numbers crumbs from 1 and resolves their paths.
func BreadcrumbList(site types.SiteConfig, crumbs []Crumb) BreadcrumbListSchema {
	doc := BreadcrumbListSchema{
		Context:         schemaContext,
		Type:            "BreadcrumbList",
		ItemListElement: make([]ListItemSchema, 0, len(crumbs)),
	}
	for i, c := range crumbs {
		doc.ItemListElement = append(doc.ItemListElement, ListItemSchema{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     AbsoluteURL(site, c.Path),
		})
	}
	return doc
}

// LocationCrumbs is Home > Service Areas > City.
func LocationCrumbs(loc types.LocationData) []Crumb {
	return []Crumb{
		{Name: "Home", Path: "/"},
		{Name: "Service Areas", Path: "/locations"},
		{Name: loc.City, Path: "/locations/" + loc.Slug},
	}
}

// FAQPage builds the FAQPage document.
func FAQPage(faqs []types.FAQ) FAQPageSchema {
	doc := FAQPageSchema{
		Context:    schemaContext,
		Type:       "FAQPage",
		MainEntity: make([]QuestionSchema, 0, len(faqs)),
	}
	for _, f := range faqs {
		doc.MainEntity = append(doc.MainEntity, QuestionSchema{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: AnswerSchema{Type: "Answer", Text: f.Answer},
		})
	}
	return doc
}

// Marshal encodes a schema document for a <script type="application/ld+json">
// element. encoding/json escapes <, > and &, so the output cannot close the
// script tag early.
func Marshal(doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal structured data: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
