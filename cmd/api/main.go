package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "salescrm/api/swagger" // swagger docs
	"salescrm/internal/cache"
	"salescrm/internal/config"
	"salescrm/internal/database"
	"salescrm/internal/handler"
	"salescrm/internal/logger"
	"salescrm/internal/metrics"
	"salescrm/internal/middleware"
	"salescrm/internal/repository"
	"salescrm/internal/service"
	"salescrm/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title           Sales CRM API
// @version         1.0
// @description     Sales tracking with commission, bonus and reward point compensation on confirmation.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewConnection(cfg.DB.DSN(), database.Options{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	}, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	log.Info("connected to PostgreSQL", zap.String("host", cfg.DB.Host), zap.String("db", cfg.DB.Name))

	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	dashboardCache := newCache(cfg.Redis, log)

	middleware.InitAuth([]byte(cfg.JWTSecret))

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	router := newRouter(cfg, db, dashboardCache, wsHub, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newCache(cfg config.RedisConfig, log *zap.Logger) cache.Cache {
	if !cfg.Enabled() {
		log.Info("redis not configured, dashboard caching disabled")
		return cache.NewNoop()
	}

	rc := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, dashboard caching disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = rc.Close()
		return cache.NewNoop()
	}
	return cache.NewRedisCache(rc)
}

func newRouter(cfg config.Config, db *gorm.DB, dashboardCache cache.Cache, wsHub *websocket.Hub, log *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	auditRepo := repository.NewAuditRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	salesRepRepo := repository.NewSalesRepRepository(db)
	ruleRepo := repository.NewPlanTierRuleRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	rewardPointRepo := repository.NewRewardPointRepository(db)
	prizeRepo := repository.NewPrizeRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	callLogRepo := repository.NewCallLogRepository(db)
	partnerRepo := repository.NewFinancingPartnerRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	reportRepo := repository.NewReportRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	financialReportRepo := repository.NewFinancialReportRepository(db)

	compensationService := service.NewCompensationService(salesRepRepo, ruleRepo, commissionRepo, rewardPointRepo, auditRepo, txManager, log)
	saleService := service.NewSaleService(service.SaleServiceDeps{
		SaleRepo:        saleRepo,
		CatalogRepo:     catalogRepo,
		SalesRepRepo:    salesRepRepo,
		CommissionRepo:  commissionRepo,
		RewardPointRepo: rewardPointRepo,
		AuditRepo:       auditRepo,
		Compensation:    compensationService,
		TxManager:       txManager,
		Events:          wsHub,
		Cache:           dashboardCache,
		Log:             log,
	})
	catalogService := service.NewCatalogService(catalogRepo, salesRepRepo, ruleRepo, auditRepo, txManager)
	rewardService := service.NewRewardService(salesRepRepo, rewardPointRepo, prizeRepo, redemptionRepo, catalogRepo, auditRepo, txManager)
	callLogService := service.NewCallLogService(callLogRepo, salesRepRepo, saleRepo)
	partnerService := service.NewFinancingPartnerService(partnerRepo, catalogRepo, txManager)
	dashboardService := service.NewDashboardService(dashboardRepo, reportRepo, dashboardCache, cfg.DashboardCacheTTL, log)
	auditService := service.NewAuditService(auditRepo)
	leadService := service.NewLeadService(leadRepo, salesRepRepo, catalogRepo, auditRepo, txManager)
	financialReportService := service.NewFinancialReportService(financialReportRepo, dashboardRepo, catalogRepo, auditRepo, txManager)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log), metrics.Middleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DB_UNAVAILABLE"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/metrics", metrics.Handler())

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// API Routing
	api := router.Group("")
	handler.NewSaleHandler(saleService).RegisterRoutes(api)
	handler.NewCatalogHandler(catalogService).RegisterRoutes(api)
	handler.NewRewardHandler(rewardService).RegisterRoutes(api)
	handler.NewCallLogHandler(callLogService).RegisterRoutes(api)
	handler.NewFinancingPartnerHandler(partnerService).RegisterRoutes(api)
	handler.NewLeadHandler(leadService).RegisterRoutes(api)
	handler.NewFinancialReportHandler(financialReportService).RegisterRoutes(api)
	handler.NewDashboardHandler(dashboardService).RegisterRoutes(api)
	handler.NewAuditHandler(auditService).RegisterRoutes(api)

	return router
}
