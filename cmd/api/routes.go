package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"time"

	"places-autocomplete/internal/middleware"
	"places-autocomplete/pkg/cache"
	"places-autocomplete/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.setupOpsRoutes()
	a.setupHealthCheck()
	a.setupAPIRoutes()
}

// setupOpsRoutes exposes metrics and, outside production, pprof
func (a *App) setupOpsRoutes() {
	if !a.Config.IsProduction() {
		a.Router.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupHealthCheck configures health check endpoint
func (a *App) setupHealthCheck() {
	a.Router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := cache.RedisClient.Ping(ctx).Err(); err != nil {
			logger.GlobalLogger.Errorf("Redis ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Redis unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	api := a.Router.Group("/api")

	controls := api.Group("/controls")
	controls.Use(middleware.AuthMiddleware(a.Config.JWT.Secret))
	{
		controls.POST("", a.ControlHandler.CreateControl)
		controls.PUT("/:id/view", a.ControlHandler.UpdateView)
		controls.POST("/:id/blur", a.ControlHandler.Blur)
		controls.GET("/:id/predictions", a.ControlHandler.GetPredictions)
		controls.POST("/:id/select", a.ControlHandler.SelectPlace)
		controls.POST("/:id/place", a.ControlHandler.SubmitPlace)
		controls.GET("/:id/outputs", a.ControlHandler.GetOutputs)
		controls.GET("/:id/events", a.ControlHandler.StreamEvents)
		controls.DELETE("/:id", a.ControlHandler.DeleteControl)
	}
}
