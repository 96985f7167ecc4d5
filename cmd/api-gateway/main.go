package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lesson-booking-api/api/swagger"
	"github.com/noah-isme/lesson-booking-api/internal/handler"
	internalmiddleware "github.com/noah-isme/lesson-booking-api/internal/middleware"
	"github.com/noah-isme/lesson-booking-api/internal/models"
	"github.com/noah-isme/lesson-booking-api/internal/repository"
	"github.com/noah-isme/lesson-booking-api/internal/service"
	"github.com/noah-isme/lesson-booking-api/pkg/cache"
	"github.com/noah-isme/lesson-booking-api/pkg/config"
	"github.com/noah-isme/lesson-booking-api/pkg/database"
	"github.com/noah-isme/lesson-booking-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lesson-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lesson-booking-api/pkg/middleware/requestid"
)

// @title Lesson Booking API
// @version 1.0.0
// @description Conflict-checked lesson booking and weekly timetables
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

type periodSource interface {
	ListAll(ctx context.Context) ([]models.Period, error)
}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	dependencies := map[string]handler.Pinger{"postgres": db}

	var cacheRepo *repository.CacheRepository
	if cfg.Timetable.CacheEnabled {
		var client *redis.Client
		client, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, timetable cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client)
			dependencies["redis"] = handler.PingFunc(cacheRepo.Ping)
		}
	}

	var periods periodSource = repository.NewPeriodRepository(db)
	if cfg.Timetable.PeriodCatalogFile != "" {
		periods = repository.NewYAMLPeriodRepository(cfg.Timetable.PeriodCatalogFile)
		logr.Info("period catalog loaded from file", zap.String("file", cfg.Timetable.PeriodCatalogFile))
	}

	metrics := service.NewMetricsService()
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Timetable.CacheTTL, logr, true)
	}

	lessonRepo := repository.NewLessonRepository(db)
	lessonSvc := service.NewLessonService(service.LessonServiceDeps{
		Lessons:   lessonRepo,
		Periods:   periods,
		Tx:        repository.NewTxRunner(db),
		Detector:  service.NewConflictDetector(lessonRepo, metrics, logr),
		Builder:   service.NewTimetableBuilder(service.PeriodMatchMode(cfg.Timetable.PeriodMatch), cfg.Timetable.Location),
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validator.New(),
		Logger:    logr,
	})
	periodSvc := service.NewPeriodService(periods, logr)
	exportSvc := service.NewExportService(lessonSvc, nil, nil, logr)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	ops := handler.NewMetricsHandler(metrics, dependencies, logr)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r.Group(cfg.APIPrefix), handler.Routes{
		Lessons: handler.NewLessonHandler(lessonSvc, exportSvc),
		Periods: handler.NewPeriodHandler(periodSvc),
		Tokens:  tokenSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("period_match", cfg.Timetable.PeriodMatch),
			zap.String("timezone", cfg.Timetable.Location.String()),
			zap.Bool("timetable_cache", cacheSvc.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
