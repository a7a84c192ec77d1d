package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-farm-monitor/internal/config"
	"smart-farm-monitor/internal/control"
	"smart-farm-monitor/internal/delivery/http/handler"
	"smart-farm-monitor/internal/infrastructure/database/postgres"
	"smart-farm-monitor/internal/logger"
	"smart-farm-monitor/internal/middleware"
	"smart-farm-monitor/internal/usecase/board"
	"smart-farm-monitor/internal/usecase/dashboard"
	"smart-farm-monitor/internal/usecase/farm"
	"smart-farm-monitor/internal/usecase/store"
	"smart-farm-monitor/internal/usecase/user"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB, bridge *control.Bridge) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	// Uploaded board images are served straight from disk.
	router.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)

	userRepository := postgres.NewUserRepository(db)
	farmRepository := postgres.NewFarmRepository(db)
	telemetryRepository := postgres.NewTelemetryRepository(db)
	boardRepository := postgres.NewBoardRepository(db)
	storeRepository := postgres.NewStoreRepository(db)

	userService := user.NewService(userRepository, farmRepository, telemetryRepository, cfg)
	farmService := farm.NewService(farmRepository)
	dashboardService := dashboard.NewService(farmRepository, telemetryRepository)
	boardService := board.NewService(boardRepository, userRepository)
	storeService := store.NewService(storeRepository, farmRepository)

	userHandler := handler.NewUserHandler(userService, cfg)
	farmHandler := handler.NewFarmHandler(farmService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	boardHandler := handler.NewBoardHandler(boardService, cfg.Upload)
	storeHandler := handler.NewStoreHandler(storeService)
	controlHandler := handler.NewControlHandler(bridge)

	root := router.Group("")
	{
		userHandler.RegisterPublicRoutes(root)
		boardHandler.RegisterPublicRoutes(root)
		storeHandler.RegisterPublicRoutes(root)

		protected := root.Group("")
		protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
		{
			userHandler.RegisterProfileRoutes(protected)
			farmHandler.RegisterRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)
			boardHandler.RegisterRoutes(protected)
			storeHandler.RegisterRoutes(protected)
			controlHandler.RegisterRoutes(protected)

			admin := protected.Group("")
			admin.Use(middleware.AdminOnly())
			storeHandler.RegisterAdminRoutes(admin)
		}
	}

	logger.Info("All routes initialized")
	return router
}
