package types

import (
	"time"

	"github.com/google/uuid"
)

type QuoteStatus string

const (
	QuoteStatusNew       QuoteStatus = "new"
	QuoteStatusContacted QuoteStatus = "contacted"
	QuoteStatusClosed    QuoteStatus = "closed"
)

// QuoteRequest is a lead captured by the quote form.
type QuoteRequest struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Phone            string      `json:"phone,omitempty"`
	Email            string      `json:"email,omitempty"`
	Address          string      `json:"address,omitempty"`
	LocationSlug     string      `json:"location_slug,omitempty"`
	ServiceSlug      string      `json:"service_slug,omitempty"`
	Message          string      `json:"message,omitempty"`
	DetectedServices []string    `json:"detected_services,omitempty"`
	Status           QuoteStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
}

// CreateQuoteParams is the raw form input.
type CreateQuoteParams struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	LocationSlug string `json:"location_slug"`
	ServiceSlug  string `json:"service_slug"`
	Message      string `json:"message"`
}

// QuoteFilter narrows ListQuotes. Zero values mean "any".
type QuoteFilter struct {
	LocationSlug string
	Status       QuoteStatus
	Since        time.Time
	Limit        int
}
