package statistics

import (
	"time"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

type GetLeadStatisticsRequest struct {
	// Since limits the counts to recent requests. Nil counts everything.
	Since *time.Time `json:"since,omitempty"`
}

type GetLeadStatisticsResponse struct {
	Statistics types.LeadStatistics `json:"statistics"`
}
