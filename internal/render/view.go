package render

import (
	"html/template"

	"github.com/FACorreiaa/roofing-site/internal/seo"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

// Base carries the layout data every page needs.
type Base struct {
	Site      types.SiteConfig
	Meta      seo.Meta
	JSONLD    []template.JS
	Locations []types.LocationData
	Year      int
}

type HomeView struct {
	Base
	Services []types.Service
	Form     QuoteForm
}

type IndexView struct {
	Base
}

// LocationView is the landing page for one service city.
type LocationView struct {
	Base
	Location types.LocationData
	Services []types.Service
	FAQs     []types.FAQ
	Nearby   []types.LocationData
	Form     QuoteForm
}

type NotFoundView struct {
	Base
	Path string
}

// QuoteView is shown after a form post, either with errors or as a receipt.
type QuoteView struct {
	Base
	Form      QuoteForm
	Submitted bool
	QuoteID   string
}

// QuoteForm feeds the quote-form partial.
type QuoteForm struct {
	Action    string
	Heading   string
	Locations []types.LocationData
	Services  []types.Service
	Values    QuoteValues
	Errors    map[string]string
}

type QuoteValues struct {
	Name         string
	Phone        string
	Email        string
	Address      string
	LocationSlug string
	ServiceSlug  string
	Message      string
}
