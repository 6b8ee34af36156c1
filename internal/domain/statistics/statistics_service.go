package statistics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	LeadStatistics(ctx context.Context, since time.Time) (*types.LeadStatistics, error)
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// LeadStatistics counts quote requests since the given time. A zero since
// counts every request.
func (s *ServiceImpl) LeadStatistics(ctx context.Context, since time.Time) (*types.LeadStatistics, error) {
	ctx, span := otel.Tracer("StatisticsService").Start(ctx, "LeadStatistics", trace.WithAttributes(
		attribute.String("since", since.Format(time.RFC3339)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "LeadStatistics"))

	if since.After(time.Now()) {
		return nil, fmt.Errorf("since is in the future: %w", types.ErrBadRequest)
	}

	var (
		byStatus   map[types.QuoteStatus]int64
		byLocation []types.LocationCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = s.repo.CountByStatus(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		byLocation, err = s.repo.CountByLocation(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Failed to get lead statistics", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get lead statistics")
		return nil, fmt.Errorf("failed to get lead statistics: %w", err)
	}

	stats := &types.LeadStatistics{
		Since:      since,
		ByStatus:   byStatus,
		ByLocation: byLocation,
	}
	for _, n := range byStatus {
		stats.Total += n
	}
	if stats.ByLocation == nil {
		stats.ByLocation = []types.LocationCount{}
	}

	l.InfoContext(ctx, "Successfully retrieved lead statistics", slog.Int64("total", stats.Total))
	span.SetAttributes(attribute.Int64("quotes.total", stats.Total))
	return stats, nil
}
