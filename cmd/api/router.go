package api

import (
	"net/http"
	"slices"

	"connectrpc.com/connect"
	connectcors "connectrpc.com/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/roofing-site/internal/domain/location"
	"github.com/FACorreiaa/roofing-site/internal/domain/quote"
	"github.com/FACorreiaa/roofing-site/internal/domain/statistics"
	"github.com/FACorreiaa/roofing-site/pkg/interceptors"
	"github.com/FACorreiaa/roofing-site/pkg/observability"
)

const requestIDHeader = "X-Request-ID"

// PublicProcedures may be called without an admin token.
var PublicProcedures = slices.Concat([]string{
	location.ListLocationsProcedure,
	location.GetLocationProcedure,
	location.ListServicesProcedure,
}, quote.PublicProcedures)

// SetupRouter configures all routes and returns the HTTP service
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	jwtSecret := []byte(deps.Config.Auth.JWTSecret)
	if len(jwtSecret) == 0 {
		deps.Logger.Warn("JWT secret is empty; admin procedures will reject every request")
	}

	tracer := otel.GetTracerProvider().Tracer("roofsite/api")

	chain := []connect.Interceptor{
		interceptors.NewRequestIDInterceptor(requestIDHeader),
		interceptors.NewTracingInterceptor(tracer),
		observability.NewMetricsInterceptor(),
	}
	if limiter := newLimiter(deps); limiter != nil {
		chain = append(chain, interceptors.NewRateLimitInterceptor(limiter))
	}
	chain = append(chain,
		interceptors.NewRecoveryInterceptor(deps.Logger),
		interceptors.NewLoggingInterceptor(deps.Logger),
		interceptors.NewAuthInterceptor(jwtSecret, PublicProcedures...),
	)

	// Register Connect RPC routes
	registerConnectRoutes(mux, deps, connect.WithInterceptors(chain...))

	// Register page and form routes
	registerSiteRoutes(mux, deps)

	// Register health and metrics routes
	registerUtilityRoutes(mux, deps)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   connectcors.AllowedMethods(),
		AllowedHeaders:   append(connectcors.AllowedHeaders(), "Authorization", requestIDHeader),
		ExposedHeaders:   append(connectcors.ExposedHeaders(), requestIDHeader),
		AllowCredentials: true,
	})

	return interceptors.Chain(corsHandler.Handler(mux),
		interceptors.RequestIDMiddleware(requestIDHeader),
		interceptors.LoggingMiddleware(deps.Logger),
		interceptors.RecoveryMiddleware(deps.Logger),
	)
}

func newLimiter(deps *Dependencies) *rate.Limiter {
	perSecond, burst := deps.Config.Server.RateLimitPerSecond, deps.Config.Server.RateLimitBurst
	if perSecond <= 0 || burst <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(perSecond)), burst)
}

// registerConnectRoutes registers the location, quote and statistics RPC services
func registerConnectRoutes(mux *http.ServeMux, deps *Dependencies, opts connect.HandlerOption) {
	locationPath, locationHandler := location.NewServiceHandler(deps.LocationHandler, opts)
	mux.Handle(locationPath, locationHandler)
	deps.Logger.Info("registered Connect RPC service", "path", locationPath)

	quotePath, quoteHandler := quote.NewServiceHandler(deps.QuoteHandler, opts)
	mux.Handle(quotePath, quoteHandler)
	deps.Logger.Info("registered Connect RPC service", "path", quotePath)

	statsPath, statsHandler := statistics.NewServiceHandler(deps.StatsHandler, opts)
	mux.Handle(statsPath, statsHandler)
	deps.Logger.Info("registered Connect RPC service", "path", statsPath)

	deps.Logger.Info("Connect RPC routes configured")
}

// registerSiteRoutes registers the HTML pages and the quote form
func registerSiteRoutes(mux *http.ServeMux, deps *Dependencies) {
	deps.PageHandler.Register(mux)

	var mws []interceptors.Middleware
	if limiter := newLimiter(deps); limiter != nil {
		mws = append(mws, interceptors.RateLimitMiddleware(limiter))
	}
	deps.QuoteForm.Register(mux, mws...)

	deps.Logger.Info("site routes configured")
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.Health(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("database unhealthy"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	deps.Logger.Info("registered health check", "path", "/health")

	// Readiness check endpoint
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil || deps.Store.Catalog() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("content not loaded"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	deps.Logger.Info("registered readiness check", "path", "/ready")

	// Metrics endpoint (Prometheus)
	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}
