package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/roofing-site/internal/domain/pages"
	"github.com/FACorreiaa/roofing-site/internal/render"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

const defaultConcurrency = 4

// PageRenderer renders a site path to a document. *pages.Handler implements it.
type PageRenderer interface {
	RenderPath(ctx context.Context, path string) (pages.Page, error)
}

// LocationLister lists the cities to export. location.Service implements it.
type LocationLister interface {
	ListLocations(ctx context.Context) ([]types.LocationData, error)
}

// Sink stores one exported document under key, a slash-separated relative
// path such as "locations/denver/index.html".
type Sink interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Result summarizes an export run.
type Result struct {
	Pages    int
	Bytes    int64
	Duration time.Duration
}

type Exporter struct {
	renderer    PageRenderer
	locations   LocationLister
	sink        Sink
	concurrency int
	logger      *slog.Logger
}

func NewExporter(renderer PageRenderer, locations LocationLister, sink Sink, concurrency int, logger *slog.Logger) *Exporter {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Exporter{
		renderer:    renderer,
		locations:   locations,
		sink:        sink,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run renders every public page and writes it to the sink. The first failure
// cancels the remaining work and is returned.
func (e *Exporter) Run(ctx context.Context) (Result, error) {
	ctx, span := otel.Tracer("Exporter").Start(ctx, "Run")
	defer span.End()

	l := e.logger.With(slog.String("method", "Run"))
	start := time.Now()

	paths, err := e.paths(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing paths failed")
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("export.paths", len(paths)))

	var (
		written atomic.Int64
		size    atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, err := e.renderer.RenderPath(gctx, path)
			if err != nil {
				return fmt.Errorf("render %s: %w", path, err)
			}
			key := KeyFor(path)
			if err := e.sink.Put(gctx, key, page.Body, page.ContentType); err != nil {
				return fmt.Errorf("write %s: %w", key, err)
			}
			written.Add(1)
			size.Add(int64(len(page.Body)))
			l.DebugContext(gctx, "Exported page", slog.String("path", path), slog.String("key", key))
			return nil
		})
	}

	err = g.Wait()
	res := Result{Pages: int(written.Load()), Bytes: size.Load(), Duration: time.Since(start)}
	if err != nil {
		l.ErrorContext(ctx, "Export failed", slog.Any("error", err), slog.Int("written", res.Pages))
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
		return res, err
	}

	l.InfoContext(ctx, "Export complete",
		slog.Int("pages", res.Pages),
		slog.Int64("bytes", res.Bytes),
		slog.Duration("duration", res.Duration))
	span.SetStatus(codes.Ok, "export complete")
	return res, nil
}

func (e *Exporter) paths(ctx context.Context) ([]string, error) {
	locations, err := e.locations.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	paths := []string{"/", "/locations", "/sitemap.xml", "/robots.txt", render.StylesheetPath, pages.NotFoundPath}
	for _, loc := range locations {
		paths = append(paths, "/locations/"+loc.Slug)
	}
	return paths, nil
}

// KeyFor maps a site path to the file that serves it from a static host.
func KeyFor(path string) string {
	trimmed := strings.Trim(path, "/")
	switch {
	case trimmed == "":
		return "index.html"
	case strings.Contains(trimmed[strings.LastIndex(trimmed, "/")+1:], "."):
		return trimmed
	default:
		return trimmed + "/index.html"
	}
}
