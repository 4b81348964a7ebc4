package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"qc-tracking-backend/config"
	"qc-tracking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg config.ServerConfig, d Deps) *gin.Engine {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	responses := mw.NewResponseCache(cache.New(ttl, 2*ttl))
	handler := NewHandler(d, responses)

	r := gin.New()
	r.Use(mw.Logger(handler.log), mw.Recovery(handler.log), mw.CORS(cfg.CORSOrigins))

	limit := rate.Limit(cfg.RateLimitPerSec)
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	caching := mw.Cache(responses, ttl)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(limit, burst, cfg.RequestIPHeader))
	{
		api.GET("/master", caching, handler.GetMaster)
		api.GET("/standards", caching, handler.GetStandards)

		api.GET("/data", caching, handler.ListData)
		api.POST("/data", handler.CreateData)
		api.GET("/data/export", handler.ExportData)

		api.GET("/summary", caching, handler.GetSummary)
		api.POST("/evaluate", handler.Evaluate)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
