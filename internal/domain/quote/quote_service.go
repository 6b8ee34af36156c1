package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/roofing-site/internal/content"
	"github.com/FACorreiaa/roofing-site/internal/domain/location"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service interface {
	Submit(ctx context.Context, params types.CreateQuoteParams) (*types.QuoteRequest, error)
	List(ctx context.Context, filter types.QuoteFilter) ([]types.QuoteRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.QuoteStatus) (*types.QuoteRequest, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repo       Repository
	catalog    location.Service
	publisher  Publisher
	classifier atomic.Pointer[Classifier]
	now        func() time.Time
}

var _ Service = (*ServiceImpl)(nil)

func NewQuoteService(repo Repository, catalog location.Service, publisher Publisher, logger *slog.Logger) *ServiceImpl {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		now:       time.Now,
	}
}

// Submit validates and stores a quote request, then announces it. A failed
// announcement is logged but does not fail the submission.
func (s *ServiceImpl) Submit(ctx context.Context, params types.CreateQuoteParams) (*types.QuoteRequest, error) {
	ctx, span := otel.Tracer("QuoteService").Start(ctx, "Submit")
	defer span.End()

	l := s.logger.With(slog.String("method", "Submit"))

	params = normalize(params)
	fields := validateFields(params)
	if err := s.validateReferences(ctx, params, fields); err != nil {
		l.ErrorContext(ctx, "Failed to check catalog references", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog lookup failed")
		return nil, err
	}
	if len(fields) > 0 {
		verr := &ValidationError{Fields: fields}
		l.InfoContext(ctx, "Rejected quote request", slog.Int("invalid_fields", len(fields)))
		span.SetStatus(codes.Error, "validation failed")
		return nil, verr
	}

	classifier, err := s.currentClassifier(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	q := &types.QuoteRequest{
		ID:               uuid.New(),
		Name:             params.Name,
		Phone:            params.Phone,
		Email:            params.Email,
		Address:          params.Address,
		LocationSlug:     params.LocationSlug,
		ServiceSlug:      params.ServiceSlug,
		Message:          params.Message,
		DetectedServices: classifier.Detect(params.Message),
		Status:           types.QuoteStatusNew,
		CreatedAt:        s.now().UTC(),
	}
	span.SetAttributes(
		attribute.String("quote.id", q.ID.String()),
		attribute.String("quote.location", q.LocationSlug),
		attribute.StringSlice("quote.detected_services", q.DetectedServices),
	)

	if err := s.repo.Create(ctx, q); err != nil {
		l.ErrorContext(ctx, "Failed to store quote request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to store quote request: %w", err)
	}

	if err := s.publisher.PublishSubmitted(ctx, q); err != nil {
		l.WarnContext(ctx, "Failed to publish quote event",
			slog.String("quote_id", q.ID.String()),
			slog.Any("error", err))
		span.RecordError(err)
	}

	l.InfoContext(ctx, "Quote request stored",
		slog.String("quote_id", q.ID.String()),
		slog.String("location", q.LocationSlug),
		slog.Any("detected_services", q.DetectedServices))
	span.SetStatus(codes.Ok, "Quote stored")
	return q, nil
}

// List returns stored quotes, newest first.
func (s *ServiceImpl) List(ctx context.Context, filter types.QuoteFilter) ([]types.QuoteRequest, error) {
	ctx, span := otel.Tracer("QuoteService").Start(ctx, "List")
	defer span.End()

	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", filter.Status, types.ErrBadRequest)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}

	quotes, err := s.repo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to list quote requests: %w", err)
	}
	span.SetAttributes(attribute.Int("quotes.count", len(quotes)))
	return quotes, nil
}

func (s *ServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status types.QuoteStatus) (*types.QuoteRequest, error) {
	ctx, span := otel.Tracer("QuoteService").Start(ctx, "UpdateStatus")
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateStatus"), slog.String("quote_id", id.String()))

	if id == uuid.Nil {
		return nil, fmt.Errorf("quote id is required: %w", types.ErrBadRequest)
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, types.ErrBadRequest)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load quote request: %w", err)
	}

	l.InfoContext(ctx, "Quote status updated", slog.String("status", string(status)))
	return q, nil
}

// ResetClassifier drops the keyword matcher so the next submission rebuilds
// it from the reloaded catalog.
func (s *ServiceImpl) ResetClassifier(_ *content.Catalog) {
	s.classifier.Store(nil)
}

func (s *ServiceImpl) currentClassifier(ctx context.Context) (*Classifier, error) {
	if c := s.classifier.Load(); c != nil {
		return c, nil
	}
	services, err := s.catalog.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	c := NewClassifier(services)
	s.classifier.Store(c)
	return c, nil
}

// validateReferences adds field errors for unknown location or service slugs.
// Only unexpected lookup failures are returned.
func (s *ServiceImpl) validateReferences(ctx context.Context, p types.CreateQuoteParams, fields map[string]string) error {
	if p.LocationSlug != "" {
		if _, err := s.catalog.GetLocation(ctx, p.LocationSlug); err != nil {
			if !errors.Is(err, types.ErrNotFound) {
				return err
			}
			fields["location"] = "Choose a city from the list."
		}
	}
	if p.ServiceSlug != "" {
		if _, err := s.catalog.GetService(ctx, p.ServiceSlug); err != nil {
			if !errors.Is(err, types.ErrNotFound) {
				return err
			}
			fields["service"] = "Choose a service from the list."
		}
	}
	return nil
}

func validStatus(s types.QuoteStatus) bool {
	switch s {
	case types.QuoteStatusNew, types.QuoteStatusContacted, types.QuoteStatusClosed:
		return true
	}
	return false
}
