package router

import (
	"log"

	"directdm/config"
	"directdm/controllers"
	"directdm/middleware"
	"directdm/processor"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"

	dbpkg "directdm/db"
)

// Initialize wires all routes and middlewares. The webhook handler gets its
// dependencies explicitly; dashboard reads use the gin-context DB handle.
func Initialize(r *gin.Engine, cfg config.Configuration, database *gorm.DB) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(dbpkg.SetDBtoContext(database))

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})

	webhook := &controllers.Webhook{
		VerifyToken: cfg.Webhook.VerifyToken,
		AppSecret:   cfg.Webhook.AppSecret,
		Processor:   processor.New(database),
		Limiter:     middleware.NewKeyLimiter(cfg.Webhook.RateLimitPerMinute),
	}

	api := r.Group("/api")

	// Instagram webhook (handshake + deliveries)
	api.GET("/webhooks/instagram", webhook.Verify)
	api.POST("/webhooks/instagram", webhook.Update)

	// Dashboard reads
	api.GET("/messages", Logger(), controllers.GetMessages)
	api.GET("/analytics", Logger(), controllers.GetAnalytics)
	api.GET("/failures", Logger(), controllers.GetFailures)

	log.Printf("Routes initialized")
}
