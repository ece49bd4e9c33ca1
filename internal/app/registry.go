package app

import (
	"database/sql"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/identity"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	identityRepo := identity.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(db)
	leaveRepo := leave.NewRepository(db, gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	identityService := identity.NewService(identityRepo, rdb)
	rbacService, err := rbac.NewService(identityService)
	if err != nil {
		return err
	}
	notifier := notification.NewOutboxNotifier(outboxRepo)
	balanceService := balance.NewService(db, balanceRepo)
	leaveService := leave.NewService(db, leaveRepo, balanceRepo, identityService, notifier)

	// --- Handlers ---
	balanceHandler := balance.NewHandler(balanceService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		// /leaves/balance must be registered ahead of /leaves/:id.
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	return nil
}
