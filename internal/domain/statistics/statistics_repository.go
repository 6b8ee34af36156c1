package statistics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/roofing-site/internal/types"
	"github.com/FACorreiaa/roofing-site/pkg/db"
)

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*ListingRepository)(nil)
)

type Repository interface {
	// CountByStatus counts quote requests created at or after since, per status.
	CountByStatus(ctx context.Context, since time.Time) (map[types.QuoteStatus]int64, error)
	// CountByLocation counts quote requests created at or after since, per city,
	// busiest first.
	CountByLocation(ctx context.Context, since time.Time) ([]types.LocationCount, error)
}

type PostgresRepository struct {
	db     db.Querier
	logger *slog.Logger
}

func NewPostgresRepository(q db.Querier, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     q,
		logger: logger,
	}
}

func countQuery(column string, since time.Time) squirrel.SelectBuilder {
	builder := squirrel.Select(column, "COUNT(*)").
		From("quote_requests").
		PlaceholderFormat(squirrel.Dollar).
		GroupBy(column)
	if !since.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{"created_at": since})
	}
	return builder
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, since time.Time) (map[types.QuoteStatus]int64, error) {
	ctx, span := otel.Tracer("StatisticsRepository").Start(ctx, "CountByStatus", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
	))
	defer span.End()

	query, args, err := countQuery("status", since).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status count query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count quotes by status",
			slog.String("method", "CountByStatus"),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("failed to count quotes by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.QuoteStatus]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[types.QuoteStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	span.SetStatus(codes.Ok, "Counted by status")
	return counts, nil
}

func (r *PostgresRepository) CountByLocation(ctx context.Context, since time.Time) ([]types.LocationCount, error) {
	ctx, span := otel.Tracer("StatisticsRepository").Start(ctx, "CountByLocation", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
	))
	defer span.End()

	query, args, err := countQuery("COALESCE(location_slug, '')", since).
		OrderBy("COUNT(*) DESC", "1").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build location count query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count quotes by location",
			slog.String("method", "CountByLocation"),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("failed to count quotes by location: %w", err)
	}
	defer rows.Close()

	var counts []types.LocationCount
	for rows.Next() {
		var c types.LocationCount
		if err := rows.Scan(&c.LocationSlug, &c.Count); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan location count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating location counts: %w", err)
	}

	span.SetAttributes(attribute.Int("locations.count", len(counts)))
	span.SetStatus(codes.Ok, "Counted by location")
	return counts, nil
}

// QuoteLister is satisfied by quote repositories.
type QuoteLister interface {
	List(ctx context.Context, filter types.QuoteFilter) ([]types.QuoteRequest, error)
}

// ListingRepository counts in memory over a QuoteLister. It backs the
// statistics when no database is configured.
type ListingRepository struct {
	quotes QuoteLister
}

func NewListingRepository(quotes QuoteLister) *ListingRepository {
	return &ListingRepository{quotes: quotes}
}

func (r *ListingRepository) CountByStatus(ctx context.Context, since time.Time) (map[types.QuoteStatus]int64, error) {
	quotes, err := r.quotes.List(ctx, types.QuoteFilter{Since: since})
	if err != nil {
		return nil, err
	}
	counts := make(map[types.QuoteStatus]int64)
	for _, q := range quotes {
		counts[q.Status]++
	}
	return counts, nil
}

func (r *ListingRepository) CountByLocation(ctx context.Context, since time.Time) ([]types.LocationCount, error) {
	quotes, err := r.quotes.List(ctx, types.QuoteFilter{Since: since})
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]int64)
	for _, q := range quotes {
		bySlug[q.LocationSlug]++
	}

	counts := make([]types.LocationCount, 0, len(bySlug))
	for slug, n := range bySlug {
		counts = append(counts, types.LocationCount{LocationSlug: slug, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].LocationSlug < counts[j].LocationSlug
	})
	return counts, nil
}
