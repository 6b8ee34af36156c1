package types

// Service is one roofing service offered in every location.
type Service struct {
	ID               string   `json:"id" yaml:"id"`
	Slug             string   `json:"slug" yaml:"slug"`
	Title            string   `json:"title" yaml:"title"`
	Icon             string   `json:"icon" yaml:"icon"`
	ShortDescription string   `json:"short_description" yaml:"shortDescription"`
	Keywords         []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}
