package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	internalhandler "github.com/deptsched/coursetime/internal/handler"
	"github.com/deptsched/coursetime/internal/orchestrator"
	"github.com/deptsched/coursetime/internal/progress"
	"github.com/deptsched/coursetime/internal/repository"
	"github.com/deptsched/coursetime/internal/service"
	"github.com/deptsched/coursetime/pkg/cache"
	"github.com/deptsched/coursetime/pkg/config"
	"github.com/deptsched/coursetime/pkg/database"
	"github.com/deptsched/coursetime/pkg/logger"
	"github.com/deptsched/coursetime/pkg/metrics"
	corsmiddleware "github.com/deptsched/coursetime/pkg/middleware/cors"
	reqidmiddleware "github.com/deptsched/coursetime/pkg/middleware/requestid"
)

// @title Coursetime Scheduler API
// @version 0.1.0
// @description Hierarchical phase-ordered constraint scheduler for weekly department timetables
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, progress falls back to in-memory", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	metricsSvc := metrics.New()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	snapshotRepo := repository.NewSnapshotRepository(db)
	progressStore := progress.New(redisClient, cfg.Scheduler.ProgressTTL)
	settings := orchestrator.Settings{
		Workers:              cfg.Scheduler.Workers,
		Seed:                 cfg.Scheduler.Seed,
		BaseTimeoutSeconds:   cfg.Scheduler.BaseTimeoutSeconds,
		PerCourseSeconds:     cfg.Scheduler.PerCourseSeconds,
		GecBoostSeconds:      cfg.Scheduler.GecBoostSeconds,
		PeBoostSeconds:       cfg.Scheduler.PeBoostSeconds,
		MajorsY3BoostSeconds: cfg.Scheduler.MajorsY3BoostSeconds,
	}
	schedulerSvc := service.New(snapshotRepo, progressStore, settings, metricsSvc, logr)
	schedulerHandler := internalhandler.NewSchedulerHandler(schedulerSvc)

	schedules := api.Group("/schedules")
	schedules.POST("/generate", schedulerHandler.Generate)
	schedules.GET("/status/:process_id", schedulerHandler.Status)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("starting coursetime-api", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server stopped", "error", err)
	}
}
