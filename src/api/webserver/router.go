package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/goalzilla/goalzilla/src/api/config"
	"github.com/goalzilla/goalzilla/src/core"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, svc *core.Service) {
	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://goalzilla.app"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	walletH := NewWallet(rdb, svc, []byte(cfg.JWTSecret))
	campaignH := NewCampaigns(db, rdb, svc)
	limiter := NewRateLimiter(30, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/wallet/connect", walletH.Connect)
		v1.POST("/wallet/token", walletH.Token)
		v1.GET("/wallet", walletH.Status)

		v1.GET("/campaigns", campaignH.List)
		v1.GET("/campaigns/browse", campaignH.Browse)
		v1.GET("/campaigns/mine", campaignH.Mine)
		v1.GET("/campaigns/:id", campaignH.Get)
		v1.POST("/campaigns/refresh", campaignH.Refresh)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)), RateLimitMiddleware(limiter))
		secured.POST("/campaigns", campaignH.Create)
	}
}

// New builds the HTTP router around the application core.
func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, svc *core.Service) *gin.Engine {
	r := gin.Default()
	attachRoutes(r, cfg, db, rdb, svc)
	return r
}
