package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lesson-studio-api/api/swagger"
	"github.com/noah-isme/lesson-studio-api/internal/handler"
	"github.com/noah-isme/lesson-studio-api/internal/middleware"
	"github.com/noah-isme/lesson-studio-api/internal/models"
	"github.com/noah-isme/lesson-studio-api/internal/service"
	"github.com/noah-isme/lesson-studio-api/pkg/config"
	"github.com/noah-isme/lesson-studio-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lesson-studio-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lesson-studio-api/pkg/middleware/requestid"
)

type routerDeps struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *service.MetricsService
	tokens   middleware.TokenValidator
	plans    *handler.LessonPlanHandler
	content  *handler.ContentHandler
	leveling *handler.LevelingHandler
	ops      *handler.MetricsHandler
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.logger))
	r.Use(corsmiddleware.New(corsmiddleware.DefaultOptions(d.cfg.CORS.AllowedOrigins)))
	if d.metrics != nil {
		r.Use(middleware.Metrics(d.metrics))
	}
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", d.ops.Health)
	r.GET("/ready", d.ops.Ready)
	if d.metrics != nil {
		r.GET("/metrics", d.ops.Prometheus)
	}
	if d.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(d.cfg.APIPrefix)
	api.Use(middleware.JWT(d.tokens))

	staff := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)

	plans := api.Group("/lesson-plans", staff)
	plans.POST("", d.plans.Create)
	plans.GET("", d.plans.List)
	plans.GET("/:id", d.plans.Get)
	plans.PUT("/:id", d.plans.Update)
	plans.DELETE("/:id", d.plans.Delete)
	plans.POST("/:id/validate", d.plans.Validate)
	plans.POST("/:id/validations", d.plans.AddValidation)
	plans.POST("/:id/transition", d.plans.Transition)
	plans.POST("/:id/assign", d.plans.Assign)
	plans.GET("/:id/report", d.plans.Report)

	content := api.Group("/content")
	content.GET("/me", middleware.RequireRoles(models.RoleStudent), d.content.Me)
	content.GET("/students/:studentId", middleware.RequireRolesOrSelf("studentId", models.RoleTeacher, models.RoleAdmin), d.content.ForStudent)
	content.GET("/authored", staff, d.content.Authored)
	content.POST("/stories", staff, d.content.CreateStory)

	leveling := api.Group("/leveling")
	leveling.GET("/frameworks/:framework", d.leveling.Framework)
	leveling.GET("/proficiency", d.leveling.Proficiency)

	admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/metrics", d.ops.Snapshot)

	return r
}
