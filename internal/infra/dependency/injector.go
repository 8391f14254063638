// Package dependency provides dependency injection for the application.
package dependency

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pocketledger/backend/config"
	"github.com/pocketledger/backend/internal/application/usecase/entry"
	"github.com/pocketledger/backend/internal/application/usecase/stats"
	"github.com/pocketledger/backend/internal/infra/server/router"
	"github.com/pocketledger/backend/internal/integration/cache"
	"github.com/pocketledger/backend/internal/integration/entrypoint/controller"
	"github.com/pocketledger/backend/internal/integration/entrypoint/middleware"
	"github.com/pocketledger/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config           *config.Config
	DB               *gorm.DB
	Router           *router.Router
	WriteRateLimiter *middleware.RateLimiter
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil; summary caching is then disabled.
func NewInjector(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	dbHealthChecker func() bool,
	cacheHealthChecker func() bool,
) *Injector {
	// Create repositories
	entryRepo := persistence.NewEntryRepository(db)

	// Create the summary cache when redis is available
	var summaryCache stats.SummaryCache
	if redisClient != nil {
		summaryCache = cache.NewSummaryCache(redisClient)
	}

	// Create entry use cases
	createEntryUseCase := entry.NewCreateEntryUseCase(entryRepo, summaryCache)
	listEntriesUseCase := entry.NewListEntriesUseCase(entryRepo)

	// Create the aggregation pipeline
	aggregator := stats.NewAggregator(cfg.Aggregation.ChunkSize)
	formatter := stats.NewFormatter(cfg.Aggregation.CategoryCap)
	getSummaryUseCase := stats.NewGetSummaryUseCase(
		entryRepo,
		summaryCache,
		aggregator,
		formatter,
		cfg.Aggregation.PagedThreshold,
		cfg.Aggregation.PageSize,
		cfg.Aggregation.SummaryTTL,
	)

	// Create controllers and middleware
	healthController := controller.NewHealthController(dbHealthChecker, cacheHealthChecker)
	entryController := controller.NewEntryController(createEntryUseCase, listEntriesUseCase)
	statsController := controller.NewStatsController(getSummaryUseCase)
	userContext := middleware.NewUserContext()
	writeRateLimiter := middleware.NewRateLimiterWithConfig(
		cfg.RateLimit.MaxAttempts,
		cfg.RateLimit.Window,
	)

	return &Injector{
		Config:           cfg,
		DB:               db,
		WriteRateLimiter: writeRateLimiter,
		Router: router.NewRouter(
			healthController,
			entryController,
			statsController,
			userContext,
			writeRateLimiter,
		),
	}
}
