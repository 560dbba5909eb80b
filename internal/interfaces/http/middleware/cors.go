package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/repairpos/backend/internal/infrastructure/config"
)

var defaultCORSHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader, "X-Tenant-ID"}

// CORS builds the gin-contrib/cors middleware from the HTTP config.
// An empty origin list rejects every cross-origin request.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     cfg.CORSAllowMethods,
		AllowHeaders:     cfg.CORSAllowHeaders,
		ExposeHeaders:    []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = defaultCORSHeaders
	}

	for _, o := range cfg.CORSAllowOrigins {
		if o == "*" {
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return cors.New(c)
		}
	}
	if len(cfg.CORSAllowOrigins) == 0 {
		c.AllowOriginFunc = func(string) bool { return false }
	} else {
		c.AllowOrigins = cfg.CORSAllowOrigins
	}
	return cors.New(c)
}
