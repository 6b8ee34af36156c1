package seo

import (
	"fmt"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

// LocationFAQs returns the questions shown on a location page: the shared
// set with the city filled in, followed by any written for that city.
func LocationFAQs(site types.SiteConfig, loc types.LocationData) []types.FAQ {
	city := loc.City
	faqs := []types.FAQ{
		{
			Question: fmt.Sprintf("How much does a new roof cost in %s?", city),
			Answer: fmt.Sprintf("Most %s homes fall between $12,000 and $28,000 for a full asphalt shingle replacement, depending on size, pitch and material. "+
				"%s provides a free written estimate after an on-site inspection.", city, site.Name),
		},
		{
			Question: fmt.Sprintf("How long does a roof replacement take in %s?", city),
			Answer:   "A typical single-family replacement takes one to two days once materials are delivered. Weather and permit inspections can add a day.",
		},
		{
			Question: fmt.Sprintf("Do you offer free roof inspections in %s?", city),
			Answer:   fmt.Sprintf("Yes. Call %s to schedule a free inspection anywhere in %s. You receive a photo report whether or not you hire us.", site.Phone, loc.CityState()),
		},
	}

	if loc.WeatherNote != "" {
		faqs = append(faqs, types.FAQ{
			Question: fmt.Sprintf("How does %s weather affect my roof?", city),
			Answer:   loc.WeatherNote,
		})
	}

	return append(faqs, loc.FAQs...)
}
