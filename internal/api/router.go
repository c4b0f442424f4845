package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"parking-ledger-backend/config"
	"parking-ledger-backend/internal/ledger"
	"parking-ledger-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(l ledger.Ledger, serverCfg *config.ServerConfig, exportCfg *config.ExportConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(l)

	rateLimiter := mw.RateLimiter(rate.Limit(serverCfg.RateLimitPerSec), serverCfg.RateLimitBurst)

	// Tariff rules change rarely; everything else must reflect writes
	// immediately and is served uncached.
	ttl := time.Duration(serverCfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/stays", handler.OpenStay)
		api.POST("/stays/:plate/exit", handler.CloseStay)
		api.GET("/stays", handler.ListActive)

		api.GET("/history", handler.QueryHistory)
		api.GET("/history/export", handler.ExportHistory(exportCfg.Filename))

		api.GET("/tariffs", caching, GetTariffs(l.DB()))
	}

	return r
}
