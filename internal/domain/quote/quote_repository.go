package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/roofing-site/internal/types"
	"github.com/FACorreiaa/roofing-site/pkg/db"
)

var _ Repository = (*PostgresRepository)(nil)

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, q *types.QuoteRequest) error
	Get(ctx context.Context, id uuid.UUID) (*types.QuoteRequest, error)
	List(ctx context.Context, filter types.QuoteFilter) ([]types.QuoteRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.QuoteStatus) error
}

var quoteColumns = []string{
	"id",
	"name",
	"COALESCE(phone, '')",
	"COALESCE(email, '')",
	"COALESCE(address, '')",
	"COALESCE(location_slug, '')",
	"COALESCE(service_slug, '')",
	"COALESCE(message, '')",
	"detected_services",
	"status",
	"created_at",
}

type PostgresRepository struct {
	logger *slog.Logger
	db     db.Querier
}

func NewPostgresRepository(q db.Querier, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     q,
	}
}

func (r *PostgresRepository) Create(ctx context.Context, q *types.QuoteRequest) error {
	ctx, span := otel.Tracer("QuoteRepository").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("quote.id", q.ID.String()),
	))
	defer span.End()

	query := `
        INSERT INTO quote_requests (
            id, name, phone, email, address, location_slug, service_slug,
            message, detected_services, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	detected := q.DetectedServices
	if detected == nil {
		detected = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		q.ID,
		q.Name,
		q.Phone,
		q.Email,
		q.Address,
		q.LocationSlug,
		q.ServiceSlug,
		q.Message,
		detected,
		string(q.Status),
		q.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("quote %s: %w", q.ID, types.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Failed to insert quote request",
			slog.String("method", "Create"),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return fmt.Errorf("failed to insert quote request: %w", err)
	}

	span.SetStatus(codes.Ok, "Quote inserted")
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*types.QuoteRequest, error) {
	ctx, span := otel.Tracer("QuoteRepository").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("quote.id", id.String()),
	))
	defer span.End()

	query, args, err := squirrel.Select(quoteColumns...).
		From("quote_requests").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quote query: %w", err)
	}

	q, err := scanQuote(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "quote not found")
			return nil, fmt.Errorf("quote %s: %w", id, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("failed to fetch quote request: %w", err)
	}
	return q, nil
}

// List applies the optional location, status and since filters, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter types.QuoteFilter) ([]types.QuoteRequest, error) {
	ctx, span := otel.Tracer("QuoteRepository").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("filter.location", filter.LocationSlug),
		attribute.String("filter.status", string(filter.Status)),
		attribute.Int("limit", filter.Limit),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "List"))

	builder := squirrel.Select(quoteColumns...).
		From("quote_requests").
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("created_at DESC")

	if filter.LocationSlug != "" {
		builder = builder.Where(squirrel.Eq{"location_slug": filter.LocationSlug})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{"created_at": filter.Since})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quote list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query quote requests", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("failed to query quote requests: %w", err)
	}
	defer rows.Close()

	var quotes []types.QuoteRequest
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan quote request: %w", err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating quote rows: %w", err)
	}

	span.SetAttributes(attribute.Int("quotes.count", len(quotes)))
	return quotes, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status types.QuoteStatus) error {
	ctx, span := otel.Tracer("QuoteRepository").Start(ctx, "UpdateStatus", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("quote.id", id.String()),
		attribute.String("quote.status", string(status)),
	))
	defer span.End()

	query, args, err := squirrel.Update("quote_requests").
		PlaceholderFormat(squirrel.Dollar).
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build status update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quote %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func scanQuote(row pgx.Row) (*types.QuoteRequest, error) {
	var (
		q      types.QuoteRequest
		status string
	)
	err := row.Scan(
		&q.ID,
		&q.Name,
		&q.Phone,
		&q.Email,
		&q.Address,
		&q.LocationSlug,
		&q.ServiceSlug,
		&q.Message,
		&q.DetectedServices,
		&status,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Status = types.QuoteStatus(status)
	return &q, nil
}
