package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"

	"movie-discovery-browser/internal/catalog"
	"movie-discovery-browser/internal/config"
	"movie-discovery-browser/internal/database"
	"movie-discovery-browser/internal/enrich"
	"movie-discovery-browser/internal/handler"
	"movie-discovery-browser/internal/metrics"
	"movie-discovery-browser/internal/repository"
	"movie-discovery-browser/internal/service"
	"movie-discovery-browser/internal/tmdb"
	"movie-discovery-browser/internal/watchlist"
)

func main() {
	envFile := flag.String("env-file", ".env", "path to a .env file")
	catalogSource := flag.StringP("catalog", "c", "", "catalog file path or URL (overrides CATALOG_SOURCE)")
	port := flag.StringP("port", "p", "", "listen port (overrides SERVER_PORT)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *catalogSource != "" {
		cfg.Catalog.Source = *catalogSource
	}
	if *port != "" {
		cfg.Port = *port
	}

	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Redis when something needs it (non-fatal for the cache)
	var rdb *redis.Client
	if cfg.Watchlist.Backend == config.BackendRedis || cfg.TMDB.Enabled() {
		rdb, err = database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, running without cache", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	kv, closeKV, err := openWatchlistStore(cfg, rdb)
	if err != nil {
		slog.Error("failed to open watchlist storage", "backend", cfg.Watchlist.Backend, "error", err)
		os.Exit(1)
	}
	defer closeKV()

	// Initialize layers
	svc := service.NewBrowserService(
		watchlist.New(kv, cfg.Watchlist.Key),
		service.WithFallbackPoster(cfg.Catalog.FallbackPoster),
	)
	enricher, err := newEnricher(cfg, rdb)
	if err != nil {
		slog.Error("failed to initialize TMDB client", "error", err)
		os.Exit(1)
	}

	go loadCatalog(ctx, cfg.Catalog.Source, svc, enricher)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Browser",
		ServerHeader: "Movie-Browser",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// API routes
	handler.RegisterRoutes(app, handler.NewBrowserHandler(svc), handler.NewWatchlistHandler(svc))

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		slog.Info("shutting down movie browser...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := net.JoinHostPort(cfg.Addr, cfg.Port)
	slog.Info("starting movie browser", "addr", addr, "watchlist_backend", cfg.Watchlist.Backend)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadCatalog loads the catalog, hands it to the session, and then runs
// poster enrichment when enabled.
func loadCatalog(ctx context.Context, source string, svc *service.BrowserService, enricher *enrich.Enricher) {
	store, err := catalog.Load(ctx, source)
	if err != nil {
		metrics.CatalogLoads.WithLabelValues("failed").Inc()
		slog.Error("failed to load catalog", "source", source, "error", err)
		svc.Fail(err)
		return
	}
	metrics.CatalogLoads.WithLabelValues("ok").Inc()
	metrics.CatalogSize.Set(float64(store.Len()))
	svc.Attach(store)

	if enricher == nil {
		return
	}
	enricher.Run(ctx, store)
	if _, _, err := svc.Refresh(ctx); err != nil {
		slog.Warn("failed to refresh view after enrichment", "error", err)
	}
}

func newEnricher(cfg *config.Config, rdb *redis.Client) (*enrich.Enricher, error) {
	if !cfg.TMDB.Enabled() {
		slog.Info("TMDB_API_KEY not set, poster enrichment disabled")
		return nil, nil
	}
	client, err := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL,
		tmdb.WithRateLimit(cfg.TMDB.RatePerSec, cfg.TMDB.Concurrency),
	)
	if err != nil {
		return nil, err
	}
	return enrich.New(client, cfg.TMDB.ImageBaseURL,
		enrich.WithConcurrency(cfg.TMDB.Concurrency),
		enrich.WithTimeout(cfg.TMDB.Timeout),
		enrich.WithCache(rdb, cfg.TMDB.CacheTTL),
	), nil
}

func openWatchlistStore(cfg *config.Config, rdb *redis.Client) (watchlist.KV, func(), error) {
	noop := func() {}
	switch cfg.Watchlist.Backend {
	case config.BackendSQLite:
		db, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewSQLRepository(db, repository.SQLite), closer(db), nil
	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.DB)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewSQLRepository(db, repository.Postgres), closer(db), nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, noop, fmt.Errorf("redis backend selected but Redis is unavailable")
		}
		return repository.NewRedisRepository(rdb, "movie-browser:"), noop, nil
	default:
		repo, err := repository.NewFileRepository(cfg.Watchlist.Dir)
		if err != nil {
			return nil, noop, err
		}
		return repo, noop, nil
	}
}

func closer(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}
}
