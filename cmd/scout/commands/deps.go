package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mlefloch/stockscout/internal/fundamentals"
	"github.com/mlefloch/stockscout/internal/history"
	"github.com/mlefloch/stockscout/internal/metrics"
	"github.com/mlefloch/stockscout/internal/pipeline"
	"github.com/mlefloch/stockscout/internal/quote"
	"github.com/mlefloch/stockscout/internal/report"
	"github.com/mlefloch/stockscout/internal/technical"
	"github.com/mlefloch/stockscout/internal/universe"
	"github.com/mlefloch/stockscout/pkg/config"
	"github.com/mlefloch/stockscout/pkg/database"
	"github.com/mlefloch/stockscout/pkg/httputil"
	"github.com/mlefloch/stockscout/pkg/logger"
	"github.com/mlefloch/stockscout/pkg/redisutil"
)

// runtime bundles the shared dependency graph behind the scan, api and
// scheduler commands. Postgres and Redis are optional: the pipeline runs
// without them, it just loses persistence and caching.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redisutil.Client
	pipe     *pipeline.Pipeline
	resolver *quote.Resolver
	repo     *report.Repository
	metrics  *metrics.Metrics
}

// initRuntime wires the full dependency graph. progress may be nil.
func initRuntime(progress pipeline.ProgressFunc) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	rt := &runtime{cfg: cfg, log: log}

	// Optional Redis cache.
	redisClient, err := redisutil.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	rt.redis = redisClient
	if redisClient.Enabled() {
		log.Info("Connected to Redis")
	}
	cache := redisutil.NewCache(redisClient, "scout")

	// Optional Postgres persistence.
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		rt.db = db
		rt.repo = report.NewRepository(db.Pool)
		log.Info("Connected to database")
	}

	// One client for JSON APIs, one paced client for scraped pages.
	apiClient := httputil.New(log)
	scrapeClient := httputil.New(log).WithPacing(cfg.Scan.Delay)

	providers := []quote.Provider{
		quote.NewYahooProvider(apiClient, log),
		quote.NewBoursierProvider(scrapeClient, log),
		quote.NewMorningstarProvider(scrapeClient, log),
	}
	rt.resolver = quote.NewResolver(providers, cfg.Quote, cache, log)

	fx := quote.NewFXConverter(apiClient, log)

	if cfg.MetricsEnabled {
		rt.metrics = metrics.New(prometheus.DefaultRegisterer)
	}

	rt.pipe = pipeline.New(pipeline.Options{
		Config:   cfg,
		Source:   universe.NewAggregator(scrapeClient, log),
		Fund:     fundamentals.NewYahooProvider(apiClient, cache, log),
		History:  history.NewYahooProvider(apiClient, log),
		Analyzer: technical.NewAnalyzer(fx, log),
		Resolver: rt.resolver,
		Metrics:  rt.metrics,
		Progress: progress,
		Logger:   log,
	})

	return rt, nil
}

// Close releases database and Redis connections.
func (rt *runtime) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
}
