package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/menumaker/api/handler"
	"github.com/use-agent/menumaker/api/middleware"
	"github.com/use-agent/menumaker/config"
	"github.com/use-agent/menumaker/scraper"
	"github.com/use-agent/menumaker/store"
	"github.com/use-agent/menumaker/webhook"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so the desktop shell can probe it.
func NewRouter(sc *scraper.Scraper, st *store.Store, notifier *webhook.Notifier, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(sc, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(sc))
	protected.POST("/extract", handler.Extract(sc))

	protected.POST("/batch/scrape", handler.PostBatch(sc, notifier, cfg.Batch))
	protected.GET("/batch/:id", handler.GetBatch())

	protected.GET("/data", handler.GetData(st))
	protected.PUT("/data", handler.PutData(st))

	return r
}
