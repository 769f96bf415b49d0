package app

import (
	"database/sql"

	"go-empower/internal/config"
	"go-empower/internal/employee"
	"go-empower/internal/messaging/kafka"
	"go-empower/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
) {
	logger := zap.L()

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo, rdb, cfg.Redis.StatsCacheTTL, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.CORS(cfg.CORSAllowedOrigins))

	api := router.Group("/api")
	{
		employee.RegisterRoutes(api, employeeHandler, rdb, logger.Named("http"))
	}
}
