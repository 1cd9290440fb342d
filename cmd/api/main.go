package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-conduct-api/api/swagger"
	"github.com/noah-isme/school-conduct-api/internal/handler"
	"github.com/noah-isme/school-conduct-api/internal/middleware"
	"github.com/noah-isme/school-conduct-api/internal/repository"
	"github.com/noah-isme/school-conduct-api/internal/service"
	"github.com/noah-isme/school-conduct-api/pkg/cache"
	"github.com/noah-isme/school-conduct-api/pkg/config"
	"github.com/noah-isme/school-conduct-api/pkg/database"
	"github.com/noah-isme/school-conduct-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-conduct-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-conduct-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-conduct-api/pkg/storage"
)

// @title School Conduct API
// @version 1.0.0
// @description Administrative backend for student conduct tracking
// @BasePath /api
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

	if cfg.UsingDefaultSecret() {
		logr.Warn("JWT_SECRET not set, using insecure development secret")
	}

	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.Seed(ctx, db); err != nil {
		logr.Fatal("failed to seed database", zap.Error(err))
	}

	validate := validator.New()

	var cacheService *service.CacheService
	if cfg.Stats.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			cacheService = service.NewCacheService(cacheRepo, cfg.Stats.CacheTTL, logr, true)
			logr.Info("statistics cache enabled", zap.Duration("ttl", cfg.Stats.CacheTTL))
		}
	}

	uploadStore, err := storage.NewUploadStorage(cfg.Upload.Dir)
	if err != nil {
		logr.Fatal("failed to prepare upload storage", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	behaviorTypeRepo := repository.NewBehaviorTypeRepository(db)
	scoreItemRepo := repository.NewScoreItemRepository(db)
	teacherBehaviorRepo := repository.NewTeacherBehaviorRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	logRepo := repository.NewOperationLogRepository(db)

	auditService := service.NewAuditService(logRepo, logr)
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	userService := service.NewUserService(userRepo, validate, logr)
	studentService := service.NewStudentService(studentRepo, behaviorRepo, validate, logr)
	behaviorService := service.NewBehaviorService(behaviorRepo, studentRepo, behaviorTypeRepo, validate, logr)
	behaviorTypeService := service.NewBehaviorTypeService(behaviorTypeRepo, validate, logr)
	scoreItemService := service.NewScoreItemService(scoreItemRepo, validate, logr)
	teacherBehaviorService := service.NewTeacherBehaviorService(teacherBehaviorRepo, scoreItemRepo, validate, logr)
	statsService := service.NewStatisticsService(statsRepo, behaviorRepo, cacheService, logr)

	var metricsService *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsService = service.NewMetricsService()
	}

	authHandler := handler.NewAuthHandler(authService, auditService)
	userHandler := handler.NewUserHandler(userService, auditService)
	studentHandler := handler.NewStudentHandler(studentService, statsService, auditService)
	behaviorHandler := handler.NewBehaviorHandler(behaviorService, statsService, auditService)
	behaviorTypeHandler := handler.NewBehaviorTypeHandler(behaviorTypeService, statsService, auditService)
	scoreItemHandler := handler.NewScoreItemHandler(scoreItemService, auditService)
	teacherBehaviorHandler := handler.NewTeacherBehaviorHandler(teacherBehaviorService, auditService)
	statsHandler := handler.NewStatisticsHandler(statsService)
	logHandler := handler.NewLogHandler(auditService)
	uploadHandler := handler.NewUploadHandler(uploadStore, cfg.Upload.MaxSizeBytes)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if metricsService != nil {
		r.GET("/metrics", gin.WrapH(metricsService.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static("/uploads", uploadStore.BaseDir())

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/verify-token", authHandler.Verify)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))
	{
		students := protected.Group("/students")
		{
			students.GET("", studentHandler.List)
			students.POST("", studentHandler.Create)
			students.GET("/template", studentHandler.Template)
			students.POST("/import", studentHandler.Import)
			students.POST("/batch-delete", studentHandler.BatchDelete)
			students.GET("/:id", studentHandler.Get)
			students.PUT("/:id", studentHandler.Update)
			students.DELETE("/:id", studentHandler.Delete)
			students.GET("/:id/report", studentHandler.Report)
		}

		behaviors := protected.Group("/behaviors")
		{
			behaviors.GET("", behaviorHandler.List)
			behaviors.POST("", behaviorHandler.Create)
			behaviors.GET("/stats", behaviorHandler.Stats)
			behaviors.GET("/:id", behaviorHandler.Get)
			behaviors.PUT("/:id", behaviorHandler.Update)
			behaviors.DELETE("/:id", behaviorHandler.Delete)
		}

		behaviorTypes := protected.Group("/behavior-types")
		{
			behaviorTypes.GET("", behaviorTypeHandler.List)
			behaviorTypes.POST("", behaviorTypeHandler.Create)
			behaviorTypes.PUT("/:id", behaviorTypeHandler.Update)
			behaviorTypes.DELETE("/:id", behaviorTypeHandler.Delete)
		}

		scoreItems := protected.Group("/score-items")
		{
			scoreItems.GET("", scoreItemHandler.List)
			scoreItems.POST("", scoreItemHandler.Create)
			scoreItems.GET("/:id", scoreItemHandler.Get)
			scoreItems.PUT("/:id", scoreItemHandler.Update)
			scoreItems.DELETE("/:id", scoreItemHandler.Delete)
		}

		teacherBehaviors := protected.Group("/teacher-behaviors")
		{
			teacherBehaviors.GET("", teacherBehaviorHandler.List)
			teacherBehaviors.POST("", teacherBehaviorHandler.Create)
			teacherBehaviors.GET("/class-scores", teacherBehaviorHandler.ClassScores)
			teacherBehaviors.GET("/:id", teacherBehaviorHandler.Get)
			teacherBehaviors.PUT("/:id", teacherBehaviorHandler.Update)
			teacherBehaviors.DELETE("/:id", teacherBehaviorHandler.Delete)
		}

		statistics := protected.Group("/statistics")
		{
			statistics.GET("", statsHandler.Dashboard)
			statistics.GET("/analysis", statsHandler.Analysis)
			statistics.GET("/type-distribution", statsHandler.TypeDistribution)
			statistics.GET("/risk-warning", statsHandler.RiskWarning)
			statistics.GET("/class-info", statsHandler.ClassInfo)
			statistics.GET("/behavior-types", statsHandler.BehaviorTypes)
			statistics.GET("/class", statsHandler.Classes)
			statistics.GET("/student/:id", statsHandler.Student)
			statistics.GET("/summary", statsHandler.Summary)
		}

		protected.POST("/upload", uploadHandler.Upload)
		protected.POST("/users/change-password", userHandler.ChangePassword)

		admin := protected.Group("")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id/password", userHandler.UpdatePassword)
			admin.PATCH("/users/:id/status", userHandler.UpdateStatus)
			admin.DELETE("/users/:id", userHandler.Delete)
			admin.GET("/logs", logHandler.List)
			admin.DELETE("/logs/batch", logHandler.BatchDelete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
