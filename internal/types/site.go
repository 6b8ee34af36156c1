package types

// SiteConfig holds business-wide details used in page chrome, metadata and
// the LocalBusiness schema.
type SiteConfig struct {
	Name           string        `json:"name" yaml:"name"`
	LegalName      string        `json:"legal_name" yaml:"legalName"`
	Tagline        string        `json:"tagline" yaml:"tagline"`
	BaseURL        string        `json:"base_url" yaml:"baseURL"`
	Phone          string        `json:"phone" yaml:"phone"`
	Email          string        `json:"email" yaml:"email"`
	Address        PostalAddress `json:"address" yaml:"address"`
	Hours          []OpeningHour `json:"hours" yaml:"hours"`
	PriceRange     string        `json:"price_range" yaml:"priceRange"`
	Rating         Rating        `json:"rating" yaml:"rating"`
	Logo           string        `json:"logo" yaml:"logo"`
	DefaultOGImage string        `json:"default_og_image" yaml:"defaultOGImage"`
	Founded        string        `json:"founded" yaml:"founded"`
	TwitterHandle  string        `json:"twitter_handle,omitempty" yaml:"twitterHandle,omitempty"`
}

type PostalAddress struct {
	Street     string `json:"street" yaml:"street"`
	Locality   string `json:"locality" yaml:"locality"`
	Region     string `json:"region" yaml:"region"`
	PostalCode string `json:"postal_code" yaml:"postalCode"`
	Country    string `json:"country" yaml:"country"`
}

// OpeningHour is one row of openingHoursSpecification. Days use schema.org
// day names ("Monday"), times are HH:MM.
type OpeningHour struct {
	Days   []string `json:"days" yaml:"days"`
	Opens  string   `json:"opens" yaml:"opens"`
	Closes string   `json:"closes" yaml:"closes"`
}

type Rating struct {
	Value float64 `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
}

// PhoneHref returns the phone number as a tel: link target.
func (s SiteConfig) PhoneHref() string {
	digits := make([]rune, 0, len(s.Phone))
	for _, r := range s.Phone {
		if (r >= '0' && r <= '9') || r == '+' {
			digits = append(digits, r)
		}
	}
	return "tel:" + string(digits)
}
