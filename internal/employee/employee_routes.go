package employee

import (
	"go-empower/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	r.Use(middleware.ContextLogger(logger))

	employees := r.Group("/employees")
	{
		employees.GET("",
			middleware.RateLimitByIP(10, 30),
			handler.GetAll,
		)

		employees.GET("/:id",
			middleware.RateLimitByIP(10, 30),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByIP(1, 5),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByIP(2, 5),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByIP(1, 3),
			handler.Delete,
		)
	}

	r.GET("/employee-stats",
		middleware.RateLimitByIP(5, 20),
		handler.GetStats,
	)

	r.GET("/recent-employees",
		middleware.RateLimitByIP(5, 20),
		handler.GetRecent,
	)

	r.GET("/departments",
		middleware.RateLimitByIP(5, 20),
		handler.GetDepartments,
	)
}
