package types

import "time"

// LeadStatistics summarizes quote requests received since a point in time.
type LeadStatistics struct {
	Since      time.Time             `json:"since,omitzero"`
	Total      int64                 `json:"total"`
	ByStatus   map[QuoteStatus]int64 `json:"by_status"`
	ByLocation []LocationCount       `json:"by_location"`
}

// LocationCount is the number of quote requests for one city. An empty slug
// counts requests that named no city.
type LocationCount struct {
	LocationSlug string `json:"location_slug"`
	Count        int64  `json:"count"`
}
