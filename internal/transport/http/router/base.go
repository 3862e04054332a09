package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"syriazone/internal/core/config"
	mdw "syriazone/internal/transport/http/middleware"
)

const maxBody = 16 << 20

// newBase 两个引擎共用的中间件链 + /health /metrics
func newBase(l *zap.Logger, h config.HTTP) *gin.Engine {
	r := gin.New()
	r.ContextWithFallback = true

	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.AccessLog(l),
		mdw.Metrics(),
		cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
		mdw.RateLimit(rate.Limit(h.RateLimitRPS), h.RateLimitBurst),
		mdw.ConcurrencyLimit(h.MaxConcurrency),
		mdw.MaxBodyBytes(maxBody),
		mdw.Timeout(requestTimeout(h)),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}

func requestTimeout(h config.HTTP) time.Duration {
	if h.WriteTimeoutSec > 1 {
		return time.Duration(h.WriteTimeoutSec-1) * time.Second
	}
	return 10 * time.Second
}
