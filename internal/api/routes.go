package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hrops/forms-gateway/docs" // 导入生成的 docs 包
	"github.com/hrops/forms-gateway/internal/auth"
	"github.com/hrops/forms-gateway/internal/config"
)

// Controllers 路由装配需要的控制器集合
type Controllers struct {
	Form       *FormController
	Ingest     *IngestController
	Statistics *StatisticsController
	Health     *HealthController
}

// SetupRoutes 配置路由
func SetupRoutes(cfg *config.Config, ctrls Controllers, validator *auth.TokenValidator) *gin.Engine {
	if config.IsProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(ErrorHandlerMiddleware())
	router.Use(SecurityHeadersMiddleware())
	if cfg != nil {
		router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))
	}

	// 健康检查
	if ctrls.Health != nil {
		router.GET("/health", ctrls.Health.Check)
	}

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// Swagger UI 路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// BPM 中间件推送入口
	// 用 bskey 认证,不走客户端 JWT;中间件重试凶猛,单独限流
	if ctrls.Ingest != nil {
		push := router.Group("/api/bpm")
		push.Use(RateLimitMiddleware(100, 200))
		push.POST("/push", ctrls.Ingest.HandlePush)
	}

	// API v1 路由组:内部系统的查询与管理接口
	v1 := router.Group("/api/v1")
	if cfg != nil && cfg.Auth.Enabled && validator != nil {
		v1.Use(auth.Middleware(validator))
	}
	{
		if ctrls.Form != nil {
			forms := v1.Group("/forms")
			{
				forms.GET("", ctrls.Form.ListForms)
				forms.GET("/:id", ctrls.Form.GetForm)
				forms.POST("/:id/sync", ctrls.Form.SyncForm)
				forms.POST("/:id/cancel", ctrls.Form.CancelForm)
				forms.GET("/:id/history", ctrls.Form.GetHistory)
				forms.GET("/:id/synclogs", ctrls.Form.GetSyncLogs)
			}
		}

		if ctrls.Statistics != nil {
			statistics := v1.Group("/statistics")
			{
				statistics.GET("/forms/by-status", ctrls.Statistics.GetFormsByStatus)
				statistics.GET("/forms/by-type", ctrls.Statistics.GetFormsByType)
				statistics.GET("/sync", ctrls.Statistics.GetSyncStatistics)
			}
		}
	}

	return router
}
