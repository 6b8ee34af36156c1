package observability

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageRenders counts rendered pages by template and HTTP status.
	PageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roofsite",
		Name:      "page_renders_total",
		Help:      "Rendered pages by page name and status code.",
	}, []string{"page", "status"})

	// PageRenderDuration observes template execution time.
	PageRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roofsite",
		Name:      "page_render_duration_seconds",
		Help:      "Time spent building and rendering a page.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"page"})

	// PageCacheLookups counts rendered page cache lookups by result.
	PageCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roofsite",
		Name:      "page_cache_lookups_total",
		Help:      "Rendered page cache lookups by result (hit or miss).",
	}, []string{"result"})

	// QuoteSubmissions counts quote form submissions by outcome.
	QuoteSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roofsite",
		Name:      "quote_submissions_total",
		Help:      "Quote requests by channel and outcome.",
	}, []string{"channel", "outcome"})

	// ContentReloads counts content catalog reloads.
	ContentReloads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roofsite",
		Name:      "content_reloads_total",
		Help:      "Successful content catalog reloads.",
	})

	rpcRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roofsite",
		Name:      "rpc_requests_total",
		Help:      "Connect RPC requests by procedure and code.",
	}, []string{"procedure", "code"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roofsite",
		Name:      "rpc_duration_seconds",
		Help:      "Connect RPC handling time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})
)

// NewMetricsInterceptor records request counts and latency per procedure.
func NewMetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			procedure := req.Spec().Procedure
			rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			rpcRequests.WithLabelValues(procedure, codeLabel(err)).Inc()

			return resp, err
		}
	}
}

func codeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code().String()
	}
	return connect.CodeUnknown.String()
}
