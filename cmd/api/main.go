package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-studio-api/internal/handler"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	"github.com/noah-isme/lesson-studio-api/internal/repository"
	"github.com/noah-isme/lesson-studio-api/internal/service"
	"github.com/noah-isme/lesson-studio-api/pkg/cache"
	"github.com/noah-isme/lesson-studio-api/pkg/config"
	"github.com/noah-isme/lesson-studio-api/pkg/database"
	"github.com/noah-isme/lesson-studio-api/pkg/logger"
)

// @title Lesson Studio API
// @version 1.0.0
// @description Lesson plan authoring, validation, review and assignment.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type planStore interface {
	List(ctx context.Context, filter models.LessonPlanFilter) ([]models.LessonPlan, error)
	GetByID(ctx context.Context, id string) (*models.LessonPlan, error)
	Save(ctx context.Context, plan *models.LessonPlan) error
	Delete(ctx context.Context, id string) error
	SaveAssignment(ctx context.Context, plan *models.LessonPlan, items []models.ContentItem) error
}

type contentStore interface {
	Append(ctx context.Context, items ...models.ContentItem) error
	List(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error)
}

// storage bundles the selected persistence adapters with their health probes.
type storage struct {
	plans   planStore
	content contentStore
	cache   *repository.CacheRepository
	checks  map[string]handler.ReadinessCheck
	closers []func() error
}

func (s *storage) Close() {
	for _, closeFn := range s.closers {
		_ = closeFn()
	}
}

func openStorage(cfg *config.Config, logr *zap.Logger) (*storage, error) {
	s := &storage{checks: map[string]handler.ReadinessCheck{}}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		s.plans = repository.NewLessonPlanRepository(db)
		s.content = repository.NewContentRepository(db)
		s.checks["database"] = db.PingContext
		s.closers = append(s.closers, db.Close)
	default:
		content := repository.NewMemoryContentRepository()
		s.plans = repository.NewMemoryLessonPlanRepository(content)
		s.content = content
	}

	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, lesson plan cache disabled", zap.Error(err))
			s.cache = repository.NewCacheRepository(nil, "lesson-studio", logr)
		} else {
			s.cache = repository.NewCacheRepository(client, "lesson-studio", logr)
			s.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
		s.closers = append(s.closers, s.cache.Close)
	}

	return s, nil
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStorage(cfg, logr)
	if err != nil {
		logr.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	validate := service.NewRequestValidator()
	contentSvc := service.NewContentService(store.content, validate, logr)
	planOpts := []service.LessonPlanServiceOption{
		service.WithReassignment(cfg.LessonPlan.AllowReassignment),
		service.WithLessonPlanMetrics(metrics),
	}
	if store.cache != nil {
		planOpts = append(planOpts, service.WithLessonPlanCache(
			service.NewCacheService(store.cache, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled),
		))
	}
	planSvc := service.NewLessonPlanService(store.plans, contentSvc, validate, logr, planOpts...)
	validationSvc := service.NewValidationService(planSvc, metrics, logr)
	reportSvc := service.NewValidationReportService(nil, nil, logr)

	router := newRouter(routerDeps{
		cfg:      cfg,
		logger:   logr,
		metrics:  metrics,
		tokens:   service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer),
		plans:    handler.NewLessonPlanHandler(planSvc, validationSvc, reportSvc),
		content:  handler.NewContentHandler(contentSvc),
		leveling: handler.NewLevelingHandler(validate),
		ops:      handler.NewMetricsHandler(metrics, store.checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
