package restapi

import (
	"time"

	"neo_wallet/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(h *WalletHandler, allowedOrigins []string, zapLogger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/holdings/:address", h.GetHoldingsHandler)
		v1.GET("/transactions/:address", h.GetTransactionsHandler)
		v1.POST("/transfers", h.PostTransferHandler)
		v1.POST("/claims", h.PostClaimHandler)
		v1.GET("/claims/current", h.GetCurrentClaimHandler)
		v1.GET("/claims/stream", h.StreamClaimHandler)
		v1.GET("/notifications", h.GetNotificationsHandler)
	}

	return router
}

// ZapLoggerMiddleware пишет каждый запрос в zap.
func ZapLoggerMiddleware(zapLogger *zap.Logger) gin.HandlerFunc {
	log := zapLogger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
