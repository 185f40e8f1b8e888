package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edumetrics-ng/results-api/api/swagger"
	"github.com/edumetrics-ng/results-api/internal/handler"
	"github.com/edumetrics-ng/results-api/internal/middleware"
	"github.com/edumetrics-ng/results-api/internal/models"
	"github.com/edumetrics-ng/results-api/internal/repository"
	"github.com/edumetrics-ng/results-api/internal/service"
	"github.com/edumetrics-ng/results-api/pkg/cache"
	"github.com/edumetrics-ng/results-api/pkg/config"
	"github.com/edumetrics-ng/results-api/pkg/database"
	"github.com/edumetrics-ng/results-api/pkg/logger"
	corsmiddleware "github.com/edumetrics-ng/results-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edumetrics-ng/results-api/pkg/middleware/requestid"
)

// @title School Results API
// @version 1.0.0
// @description Result computation, ranking and reporting for multi-tenant schools
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Rankings and analytics degrade to recompute-per-request without Redis.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	termRepo := repository.NewTermRepository(db)
	gradingRepo := repository.NewGradingRepository(db)
	resultRepo := repository.NewResultRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	gradingSvc := service.NewGradingService(gradingRepo, validate, logr)
	rankingCache := cacheSvc
	if !cfg.Rankings.CacheEnabled {
		rankingCache = nil
	}
	rankingSvc := service.NewRankingService(resultRepo, rankingCache, cfg.Rankings.CacheTTL, logr)
	summarySvc := service.NewSummaryService(summaryRepo, resultRepo, rankingSvc, logr)
	resultSvc := service.NewResultService(resultRepo, termRepo, gradingSvc, rankingSvc, summarySvc, metricsSvc, validate, logr)
	analyticsSvc := service.NewAnalyticsService(resultRepo, termRepo, cacheSvc, cfg.Analytics.CacheTTL, logr)
	reportSvc := service.NewReportService(resultRepo, studentRepo, summaryRepo, termRepo, cfg.Reports, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	resultHandler := handler.NewResultHandler(resultSvc)
	rankingHandler := handler.NewRankingHandler(rankingSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, summarySvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	gradingHandler := handler.NewGradingHandler(gradingSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	protected.POST("/results/batch", middleware.RequireCapability(models.CapEnterResults), resultHandler.Batch)
	protected.POST("/results/submit", middleware.RequireCapability(models.CapSubmitResults), resultHandler.Submit)
	protected.GET("/results", middleware.RequireCapability(models.CapViewResults), resultHandler.List)

	protected.GET("/rankings/class", middleware.RequireCapability(models.CapViewRankings), rankingHandler.Class)
	protected.GET("/rankings/subject", middleware.RequireCapability(models.CapViewRankings), rankingHandler.Subject)

	if cfg.Analytics.Enabled {
		protected.GET("/analytics/students/:id", middleware.RequireCapability(models.CapViewAnalytics), analyticsHandler.StudentPerformance)
		protected.GET("/analytics/students/:id/summary", middleware.RequireCapability(models.CapViewAnalytics), analyticsHandler.TermSummary)
	}

	protected.GET("/reports/students/:id/card", middleware.RequireCapability(models.CapViewReports), reportHandler.Card)
	protected.GET("/reports/students/:id/card.pdf", middleware.RequireCapability(models.CapViewReports), reportHandler.CardPDF)
	protected.GET("/reports/broadsheet.csv", middleware.RequireCapability(models.CapViewReports), reportHandler.Broadsheet)

	protected.GET("/grading-tables", middleware.RequireCapability(models.CapManageGrading), gradingHandler.List)
	protected.POST("/grading-tables", middleware.RequireCapability(models.CapManageGrading), gradingHandler.Create)

	protected.GET("/metrics/snapshot", middleware.RequireCapability(models.CapManageGrading), metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
