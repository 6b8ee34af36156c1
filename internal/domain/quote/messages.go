package quote

import (
	"time"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

type SubmitQuoteRequest struct {
	types.CreateQuoteParams
}

type SubmitQuoteResponse struct {
	Quote types.QuoteRequest `json:"quote"`
}

type ListQuotesRequest struct {
	LocationSlug string     `json:"location_slug,omitempty"`
	Status       string     `json:"status,omitempty"`
	Since        *time.Time `json:"since,omitempty"`
	Limit        int        `json:"limit,omitempty"`
}

type ListQuotesResponse struct {
	Quotes []types.QuoteRequest `json:"quotes"`
}

type UpdateQuoteStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type UpdateQuoteStatusResponse struct {
	Quote types.QuoteRequest `json:"quote"`
}
