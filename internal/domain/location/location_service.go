package location

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/roofing-site/internal/content"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

// CatalogSource hands out the active content catalog. *content.Store
// satisfies it.
type CatalogSource interface {
	Catalog() *content.Catalog
}

type Service interface {
	GetLocation(ctx context.Context, slug string) (*types.LocationData, error)
	ListLocations(ctx context.Context) ([]types.LocationData, error)
	GetService(ctx context.Context, slug string) (*types.Service, error)
	ListServices(ctx context.Context) ([]types.Service, error)
	Site(ctx context.Context) (types.SiteConfig, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	catalog CatalogSource
}

var _ Service = (*ServiceImpl)(nil)

func NewLocationService(catalog CatalogSource, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		catalog: catalog,
	}
}

// GetLocation finds a service city by slug.
func (s *ServiceImpl) GetLocation(ctx context.Context, slug string) (*types.LocationData, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "GetLocation")
	defer span.End()

	l := s.logger.With(slog.String("method", "GetLocation"), slog.String("slug", slug))
	span.SetAttributes(attribute.String("location.slug", slug))

	slug = strings.TrimSpace(slug)
	if slug == "" {
		span.SetStatus(codes.Error, "empty slug")
		return nil, fmt.Errorf("slug is required: %w", types.ErrBadRequest)
	}

	loc, ok := s.catalog.Catalog().FindLocation(slug)
	if !ok {
		l.InfoContext(ctx, "Location not found")
		span.SetStatus(codes.Error, "location not found")
		return nil, fmt.Errorf("location %q: %w", slug, types.ErrNotFound)
	}

	span.SetAttributes(attribute.String("location.city", loc.City))
	span.SetStatus(codes.Ok, "Location found")
	return &loc, nil
}

// ListLocations returns every service city in catalog order.
func (s *ServiceImpl) ListLocations(ctx context.Context) ([]types.LocationData, error) {
	_, span := otel.Tracer("LocationService").Start(ctx, "ListLocations")
	defer span.End()

	locations := s.catalog.Catalog().Locations()
	span.SetAttributes(attribute.Int("locations.count", len(locations)))
	return locations, nil
}

func (s *ServiceImpl) GetService(ctx context.Context, slug string) (*types.Service, error) {
	_, span := otel.Tracer("LocationService").Start(ctx, "GetService")
	defer span.End()

	span.SetAttributes(attribute.String("service.slug", slug))

	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("service slug is required: %w", types.ErrBadRequest)
	}
	svc, ok := s.catalog.Catalog().FindService(slug)
	if !ok {
		span.SetStatus(codes.Error, "service not found")
		return nil, fmt.Errorf("service %q: %w", slug, types.ErrNotFound)
	}
	return &svc, nil
}

func (s *ServiceImpl) ListServices(ctx context.Context) ([]types.Service, error) {
	_, span := otel.Tracer("LocationService").Start(ctx, "ListServices")
	defer span.End()

	services := s.catalog.Catalog().Services()
	span.SetAttributes(attribute.Int("services.count", len(services)))
	return services, nil
}

func (s *ServiceImpl) Site(_ context.Context) (types.SiteConfig, error) {
	return s.catalog.Catalog().Site(), nil
}
