package types

// LocationData is a single service city. Records are loaded from the content
// catalog at startup and never mutated afterwards.
type LocationData struct {
	City          string     `json:"city" yaml:"city"`
	State         string     `json:"state" yaml:"state"`
	Slug          string     `json:"slug" yaml:"slug"`
	Neighborhoods []string   `json:"neighborhoods" yaml:"neighborhoods"`
	Landmarks     []string   `json:"landmarks" yaml:"landmarks"`
	Population    string     `json:"population" yaml:"population"`
	County        string     `json:"county" yaml:"county"`
	WeatherNote   string     `json:"weather_note" yaml:"weatherNote"`
	Description   string     `json:"description" yaml:"description"`
	HeroImage     string     `json:"hero_image" yaml:"heroImage"`
	Latitude      float64    `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude     float64    `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	Spotlight     *Spotlight `json:"spotlight,omitempty" yaml:"spotlight,omitempty"`
	FAQs          []FAQ      `json:"faqs,omitempty" yaml:"faqs,omitempty"`
}

// Spotlight is a block of copy written for one city only.
type Spotlight struct {
	Heading    string   `json:"heading" yaml:"heading"`
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`
	Bullets    []string `json:"bullets,omitempty" yaml:"bullets,omitempty"`
}

// FAQ is a question/answer pair rendered on the page and in the FAQPage schema.
type FAQ struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// CityState returns "City, ST".
func (l LocationData) CityState() string {
	return l.City + ", " + l.State
}

// HasGeo reports whether coordinates were provided for the location.
func (l LocationData) HasGeo() bool {
	return l.Latitude != 0 || l.Longitude != 0
}
