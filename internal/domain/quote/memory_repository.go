package quote

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps quotes in process. It backs the site when no
// database is configured and is lost on restart.
type MemoryRepository struct {
	mu     sync.RWMutex
	quotes []types.QuoteRequest
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, q *types.QuoteRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.quotes {
		if existing.ID == q.ID {
			return fmt.Errorf("quote %s: %w", q.ID, types.ErrConflict)
		}
	}
	stored := *q
	stored.DetectedServices = slices.Clone(q.DetectedServices)
	r.quotes = append(r.quotes, stored)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*types.QuoteRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, q := range r.quotes {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, fmt.Errorf("quote %s: %w", id, types.ErrNotFound)
}

func (r *MemoryRepository) List(_ context.Context, filter types.QuoteFilter) ([]types.QuoteRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []types.QuoteRequest
	for i := len(r.quotes) - 1; i >= 0; i-- {
		q := r.quotes[i]
		if filter.LocationSlug != "" && q.LocationSlug != filter.LocationSlug {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if !filter.Since.IsZero() && q.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, q)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, status types.QuoteStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.quotes {
		if r.quotes[i].ID == id {
			r.quotes[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("quote %s: %w", id, types.ErrNotFound)
}
