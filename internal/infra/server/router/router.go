// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pocketledger/backend/internal/integration/entrypoint/controller"
	"github.com/pocketledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine           *gin.Engine
	healthController *controller.HealthController
	entryController  *controller.EntryController
	statsController  *controller.StatsController
	userContext      *middleware.UserContext
	writeRateLimiter *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	entryController *controller.EntryController,
	statsController *controller.StatsController,
	userContext *middleware.UserContext,
	writeRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController: healthController,
		entryController:  entryController,
		statsController:  statsController,
		userContext:      userContext,
		writeRateLimiter: writeRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		// Entry routes (require a resolvable user identity)
		if r.entryController != nil && r.userContext != nil {
			entries := v1.Group("/entries")
			entries.Use(r.userContext.Resolve())
			{
				entries.GET("", r.entryController.List)
				if r.writeRateLimiter != nil {
					entries.POST("", r.writeRateLimiter.Middleware(), r.entryController.Create)
				} else {
					entries.POST("", r.entryController.Create)
				}
			}
		}

		// Stats routes (require a resolvable user identity)
		if r.statsController != nil && r.userContext != nil {
			stats := v1.Group("/stats")
			stats.Use(r.userContext.Resolve())
			{
				stats.GET("/summary", r.statsController.GetSummary)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
