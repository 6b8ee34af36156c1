package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/roofing-site/internal/content"
	"github.com/FACorreiaa/roofing-site/internal/domain/location"
	"github.com/FACorreiaa/roofing-site/internal/domain/pages"
	"github.com/FACorreiaa/roofing-site/internal/domain/quote"
	"github.com/FACorreiaa/roofing-site/internal/domain/statistics"
	"github.com/FACorreiaa/roofing-site/internal/render"
	"github.com/FACorreiaa/roofing-site/pkg/config"
	"github.com/FACorreiaa/roofing-site/pkg/db"
	"github.com/FACorreiaa/roofing-site/pkg/observability"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Content
	Store     *content.Store
	Watcher   *content.Watcher
	Renderer  *render.Renderer
	PageCache *cache.Cache

	// Repositories
	QuoteRepo quote.Repository
	StatsRepo statistics.Repository
	Publisher quote.Publisher

	// Services
	LocationSvc location.Service
	PageSvc     pages.Service
	QuoteSvc    *quote.ServiceImpl
	StatsSvc    statistics.Service

	// Handlers
	LocationHandler *location.Handler
	PageHandler     *pages.Handler
	QuoteHandler    *quote.Handler
	QuoteForm       *quote.FormHandler
	StatsHandler    *statistics.Handler
}

// InitSite initializes what is needed to render pages: the content catalog,
// templates and page services. It opens no network connections.
func InitSite(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initContent(); err != nil {
		return nil, fmt.Errorf("failed to init content: %w", err)
	}

	if err := deps.initPages(); err != nil {
		return nil, fmt.Errorf("failed to init pages: %w", err)
	}

	return deps, nil
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps, err := InitSite(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := deps.initDatabase(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()
	deps.initServices()
	deps.initHandlers()

	if err := deps.startWatcher(ctx); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to start content watcher: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initContent loads the catalog from CONTENT_DIR when set, otherwise from the
// embedded defaults.
func (d *Dependencies) initContent() error {
	if dir := d.Config.Content.Dir; dir != "" {
		source := os.DirFS(dir)
		catalog, err := content.Load(source)
		if err != nil {
			return err
		}
		d.Store = content.NewStore(catalog, source, d.Logger)
		d.Logger.Info("content loaded from directory",
			slog.String("dir", dir),
			slog.Int("locations", len(catalog.Locations())))
		return nil
	}

	catalog, err := content.Default()
	if err != nil {
		return err
	}
	d.Store = content.NewStore(catalog, nil, d.Logger)
	d.Logger.Info("embedded content loaded", slog.Int("locations", len(catalog.Locations())))
	return nil
}

func (d *Dependencies) initPages() error {
	renderer, err := render.New(d.Logger)
	if err != nil {
		return err
	}
	d.Renderer = renderer
	d.PageCache = cache.New(d.Config.Cache.PageTTL, d.Config.Cache.CleanupInterval)

	d.LocationSvc = location.NewLocationService(d.Store, d.Logger)
	d.PageSvc = pages.NewPageService(d.LocationSvc, d.Logger)
	d.PageHandler = pages.NewHandler(d.PageSvc, d.Renderer, d.PageCache, d.Config.Cache.PageTTL, d.Logger)

	d.Store.Subscribe(d.PageHandler.FlushCache)
	d.Store.Subscribe(func(*content.Catalog) { observability.ContentReloads.Inc() })
	return nil
}

// initDatabase connects and migrates when DB_HOST is set. Without a database
// quote requests are kept in memory.
func (d *Dependencies) initDatabase() error {
	if !d.Config.Database.Enabled() {
		d.Logger.Warn("DB_HOST not set; quote requests will be kept in memory")
		return nil
	}

	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        d.Config.Database.MaxConns,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	if d.DB != nil {
		d.QuoteRepo = quote.NewPostgresRepository(d.DB.Pool, d.Logger)
		d.StatsRepo = statistics.NewPostgresRepository(d.DB.Pool, d.Logger)
	} else {
		d.QuoteRepo = quote.NewMemoryRepository()
		d.StatsRepo = statistics.NewListingRepository(d.QuoteRepo)
	}

	if brokers := d.Config.Kafka.Brokers; len(brokers) > 0 {
		d.Publisher = quote.NewKafkaPublisher(brokers, d.Config.Kafka.QuoteTopic, d.Logger)
		d.Logger.Info("publishing quote events", slog.String("topic", d.Config.Kafka.QuoteTopic))
	} else {
		d.Publisher = quote.NopPublisher{}
	}

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.QuoteSvc = quote.NewQuoteService(d.QuoteRepo, d.LocationSvc, d.Publisher, d.Logger)
	d.Store.Subscribe(d.QuoteSvc.ResetClassifier)
	d.StatsSvc = statistics.NewService(d.StatsRepo, d.Logger)
	d.Logger.Info("services initialized")
}

func (d *Dependencies) initHandlers() {
	d.LocationHandler = location.NewHandler(d.LocationSvc, d.Logger)
	d.QuoteHandler = quote.NewHandler(d.QuoteSvc, d.Logger)
	d.QuoteForm = quote.NewFormHandler(d.QuoteSvc, d.PageSvc, d.Renderer, d.Logger)
	d.StatsHandler = statistics.NewHandler(d.StatsSvc, d.Logger)
	d.Logger.Info("handlers initialized")
}

func (d *Dependencies) startWatcher(ctx context.Context) error {
	if d.Config.Content.Dir == "" || !d.Config.Content.Watch {
		return nil
	}
	w, err := content.NewWatcher(d.Config.Content.Dir, d.Store, d.Logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	d.Watcher = w
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Watcher != nil {
		d.Watcher.Stop()
	}
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Error("failed to close publisher", slog.Any("error", err))
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	if d.PageCache != nil {
		d.PageCache.Flush()
	}
	d.Logger.Info("cleanup completed")
}
