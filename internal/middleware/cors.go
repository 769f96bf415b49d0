package middleware

import (
	"time"

	"go-empower/internal/shared/contextutil"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows every origin when allowedOrigins is empty.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, contextutil.RequestIDHeader, IdempotencyHeader)
	cfg.ExposeHeaders = []string{contextutil.RequestIDHeader, ReplayedHeader}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
