package main

import (
	"log"
	"net/http"

	_ "taxreturn/api/swagger" // swagger docs
	"taxreturn/internal/config"
	"taxreturn/internal/database"
	"taxreturn/internal/handler"
	"taxreturn/internal/logger"
	"taxreturn/internal/middleware"
	"taxreturn/internal/repository"
	"taxreturn/internal/service"
	"taxreturn/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Personal Income Tax Filing API
// @version         1.0
// @description     Computes DPFO type B returns, flags compliance risks and hands filings over to accountants.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, loaded := config.Load("configs/.env")

	logg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer func() { _ = logg.Sync() }()
	if !loaded {
		logg.Info("no configs/.env file found, using the environment only")
	}

	params, err := cfg.TaxParams()
	if err != nil {
		logg.Fatal("tax parameters could not be loaded", zap.String("file", cfg.TaxParamsFile), zap.Error(err))
	}
	logg.Info("tax parameters loaded", zap.Int("tax_year", params.TaxYear))

	db, err := database.NewConnection(cfg.DatabaseURL, logg)
	if err != nil {
		logg.Fatal("database connection failed", zap.Error(err))
	}
	logg.Info("connected to PostgreSQL")

	middleware.InitJWT([]byte(cfg.JWTSecret))

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(logg.Named("ws"))
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	filingRepo := repository.NewFilingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)

	taxService := service.NewTaxService(params)
	userService := service.NewUserService(userRepo, auditRepo, []byte(cfg.JWTSecret), logg)
	filingService := service.NewFilingService(filingRepo, auditRepo, txManager, taxService, wsHub, logg)
	reviewService := service.NewReviewService(reviewRepo, filingRepo, auditRepo, txManager, taxService, wsHub, logg)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(statisticsRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	taxHandler := handler.NewTaxHandler(taxService)
	filingHandler := handler.NewFilingHandler(filingService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	auditHandler := handler.NewAuditHandler(auditService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logg))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "tax_year": params.TaxYear})
	})

	// Reviewer event stream and keystroke recomputation
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})
	router.GET("/ws/compute", func(c *gin.Context) {
		websocket.ServeCompute(taxService, logg.Named("ws"), c)
	})

	userHandler.RegisterRoutes(router.Group(""))
	taxHandler.RegisterRoutes(router.Group(""))
	filingHandler.RegisterRoutes(router.Group(""))
	reviewHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	logg.Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logg.Fatal("server failed", zap.Error(err))
	}
}

// requestLogger logs one structured line per request, plus any handler errors.
func requestLogger(logg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		}
		if len(c.Errors) > 0 {
			logg.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logg.Debug("request", fields...)
	}
}
