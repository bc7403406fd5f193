package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"places-autocomplete/internal/handlers"
	"places-autocomplete/internal/middleware"
	"places-autocomplete/internal/repositories"
	"places-autocomplete/internal/services"
	"places-autocomplete/internal/transformers"
	"places-autocomplete/internal/validators"
	"places-autocomplete/pkg/cache"
	"places-autocomplete/pkg/config"
	"places-autocomplete/pkg/logger"
	"places-autocomplete/pkg/metrics"
	"places-autocomplete/pkg/places"

	"github.com/gin-gonic/gin"
)

// App represents the application structure
type App struct {
	Config         *config.Config
	Router         *gin.Engine
	ControlHandler *handlers.ControlHandler
	ControlService *services.ControlService
	RateLimiter    *middleware.RateLimiter
	Server         *http.Server

	// cancelled on shutdown; scopes background jobs and request contexts
	baseCtx        context.Context
	stopBackground context.CancelFunc
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}
	app.baseCtx, app.stopBackground = context.WithCancel(context.Background())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize infrastructure
	app.initializeCache()
	app.initializeMetrics()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize the Redis connection used for output notifications
func (a *App) initializeCache() {
	redisCfg, err := cache.LoadRedisConfig(a.Config)
	if err != nil {
		logger.GlobalLogger.Errorf("Invalid Redis configuration: %v", err)
		os.Exit(1)
	}
	if err := cache.InitRedis(redisCfg); err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(middleware.PerMinute(a.Config.RateLimit.PerMinute), a.Config.RateLimit.Burst)
	go a.RateLimiter.Cleanup(a.baseCtx, time.Hour)
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	placesCfg := a.Config.Places

	// repositories
	controlRepo := repositories.NewControlRepository()

	// transformers
	addrTrans := transformers.NewAddressTransformer()

	// validators
	controlValidator := validators.NewControlValidator()

	// widget loader; every control gets its own widget and client
	loader := places.NewScriptLoader(placesCfg.ScriptURL, places.ClientConfig{
		BaseURL:    placesCfg.BaseURL,
		Language:   placesCfg.Language,
		Timeout:    placesCfg.Timeout,
		MaxRetries: placesCfg.MaxRetries,
	})

	// services
	a.ControlService = services.NewControlService(
		controlRepo,
		loader,
		addrTrans,
		controlValidator,
		cache.NewNotifier(cache.RedisClient),
		services.ControlOptions{
			DefaultAPIKey: placesCfg.APIKey,
			ScriptBaseURL: placesCfg.ScriptURL,
			Language:      placesCfg.Language,
		},
	)

	// handlers
	a.ControlHandler = handlers.NewControlHandler(a.ControlService)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	a.stopBackground()
	cache.CloseRedis()
}
