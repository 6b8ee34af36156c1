package pages

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/roofing-site/internal/domain/location"
	"github.com/FACorreiaa/roofing-site/internal/render"
	"github.com/FACorreiaa/roofing-site/internal/seo"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

const maxNearby = 4

// Service builds the view models behind every public page.
type Service interface {
	HomePage(ctx context.Context) (*render.HomeView, error)
	IndexPage(ctx context.Context) (*render.IndexView, error)
	LocationPage(ctx context.Context, slug string) (*render.LocationView, error)
	NotFoundPage(ctx context.Context, path string) (*render.NotFoundView, error)
	QuotePage(ctx context.Context, form render.QuoteForm) (*render.QuoteView, error)
	Sitemap(ctx context.Context) ([]byte, error)
	Robots(ctx context.Context) (string, error)
}

type ServiceImpl struct {
	logger    *slog.Logger
	locations location.Service
	now       func() time.Time
}

var _ Service = (*ServiceImpl)(nil)

func NewPageService(locations location.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		locations: locations,
		now:       time.Now,
	}
}

// LocationPage assembles a city landing page: metadata, FAQs and the
// LocalBusiness, BreadcrumbList and FAQPage documents.
func (s *ServiceImpl) LocationPage(ctx context.Context, slug string) (*render.LocationView, error) {
	ctx, span := otel.Tracer("PageService").Start(ctx, "LocationPage")
	defer span.End()

	l := s.logger.With(slog.String("method", "LocationPage"), slog.String("slug", slug))
	span.SetAttributes(attribute.String("location.slug", slug))

	loc, err := s.locations.GetLocation(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "location lookup failed")
		return nil, fmt.Errorf("failed to load location page: %w", err)
	}

	base, services, err := s.base(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog read failed")
		return nil, err
	}

	faqs := seo.LocationFAQs(base.Site, *loc)
	base.Meta = seo.LocationMeta(base.Site, *loc, services)
	base.JSONLD, err = marshalAll(
		seo.LocalBusiness(base.Site, *loc, services),
		seo.BreadcrumbList(base.Site, seo.LocationCrumbs(*loc)),
		seo.FAQPage(faqs),
	)
	if err != nil {
		l.ErrorContext(ctx, "Failed to build structured data", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "structured data failed")
		return nil, err
	}

	form := quoteForm(base.Locations, services)
	form.Heading = fmt.Sprintf("Get a Free Roofing Estimate in %s", loc.City)
	form.Values.LocationSlug = loc.Slug

	span.SetStatus(codes.Ok, "Location page built")
	return &render.LocationView{
		Base:     base,
		Location: *loc,
		Services: services,
		FAQs:     faqs,
		Nearby:   nearby(base.Locations, loc.Slug),
		Form:     form,
	}, nil
}

func (s *ServiceImpl) HomePage(ctx context.Context) (*render.HomeView, error) {
	ctx, span := otel.Tracer("PageService").Start(ctx, "HomePage")
	defer span.End()

	base, services, err := s.base(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	base.Meta = seo.PageMeta(base.Site, "/", base.Site.Tagline,
		fmt.Sprintf("%s: roof replacement, repair and storm damage restoration. Call %s for a free inspection.", base.Site.Name, base.Site.Phone))

	return &render.HomeView{
		Base:     base,
		Services: services,
		Form:     quoteForm(base.Locations, services),
	}, nil
}

func (s *ServiceImpl) IndexPage(ctx context.Context) (*render.IndexView, error) {
	ctx, span := otel.Tracer("PageService").Start(ctx, "IndexPage")
	defer span.End()

	base, _, err := s.base(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	base.Meta = seo.PageMeta(base.Site, "/locations", "Service Areas",
		fmt.Sprintf("Cities served by %s. Find local roofing pricing, neighborhoods and FAQs.", base.Site.Name))
	base.JSONLD, err = marshalAll(seo.BreadcrumbList(base.Site, []seo.Crumb{
		{Name: "Home", Path: "/"},
		{Name: "Service Areas", Path: "/locations"},
	}))
	if err != nil {
		return nil, err
	}
	return &render.IndexView{Base: base}, nil
}

func (s *ServiceImpl) NotFoundPage(ctx context.Context, path string) (*render.NotFoundView, error) {
	base, _, err := s.base(ctx)
	if err != nil {
		return nil, err
	}
	base.Meta = seo.PageMeta(base.Site, path, "Page Not Found", "The page you requested could not be found.")
	base.Meta.Robots = "noindex"
	return &render.NotFoundView{Base: base, Path: path}, nil
}

// QuotePage wraps a submitted form, either to show validation errors or the
// receipt.
func (s *ServiceImpl) QuotePage(ctx context.Context, form render.QuoteForm) (*render.QuoteView, error) {
	base, services, err := s.base(ctx)
	if err != nil {
		return nil, err
	}
	base.Meta = seo.PageMeta(base.Site, "/quote", "Request a Free Estimate", "Request a free roofing estimate.")
	base.Meta.Robots = "noindex"

	full := quoteForm(base.Locations, services)
	full.Values = form.Values
	full.Errors = form.Errors
	return &render.QuoteView{Base: base, Form: full}, nil
}

func (s *ServiceImpl) Sitemap(ctx context.Context) ([]byte, error) {
	ctx, span := otel.Tracer("PageService").Start(ctx, "Sitemap")
	defer span.End()

	site, err := s.locations.Site(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("sitemap.locations", len(locations)))
	return seo.MarshalSitemap(seo.BuildSitemap(site, locations, s.now()))
}

func (s *ServiceImpl) Robots(ctx context.Context) (string, error) {
	site, err := s.locations.Site(ctx)
	if err != nil {
		return "", err
	}
	return seo.RobotsTxt(site), nil
}

func (s *ServiceImpl) base(ctx context.Context) (render.Base, []types.Service, error) {
	site, err := s.locations.Site(ctx)
	if err != nil {
		return render.Base{}, nil, fmt.Errorf("failed to load site config: %w", err)
	}
	locations, err := s.locations.ListLocations(ctx)
	if err != nil {
		return render.Base{}, nil, fmt.Errorf("failed to list locations: %w", err)
	}
	services, err := s.locations.ListServices(ctx)
	if err != nil {
		return render.Base{}, nil, fmt.Errorf("failed to list services: %w", err)
	}
	return render.Base{
		Site:      site,
		Locations: locations,
		Year:      s.now().Year(),
	}, services, nil
}

func quoteForm(locations []types.LocationData, services []types.Service) render.QuoteForm {
	return render.QuoteForm{
		Action:    "/quote",
		Locations: locations,
		Services:  services,
	}
}

// nearby returns up to maxNearby other cities in catalog order.
func nearby(locations []types.LocationData, slug string) []types.LocationData {
	out := make([]types.LocationData, 0, maxNearby)
	for _, l := range locations {
		if l.Slug == slug {
			continue
		}
		out = append(out, l)
		if len(out) == maxNearby {
			break
		}
	}
	return out
}

func marshalAll(docs ...any) ([]template.JS, error) {
	out := make([]template.JS, 0, len(docs))
	for _, doc := range docs {
		raw, err := seo.Marshal(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, template.JS(raw))
	}
	return out, nil
}
