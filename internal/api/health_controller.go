package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EnginePinger BPM 引擎连通性探测
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// HealthController 健康检查控制器
// 主库不可用才算 unhealthy;镜像库或引擎不可用只降级,
// 网关此时仍能基于本地数据服务读请求
type HealthController struct {
	primary   *gorm.DB
	secondary *gorm.DB
	engine    EnginePinger
}

// NewHealthController 创建健康检查控制器
func NewHealthController(primary, secondary *gorm.DB, engine EnginePinger) *HealthController {
	return &HealthController{
		primary:   primary,
		secondary: secondary,
		engine:    engine,
	}
}

// Check 健康检查
func (c *HealthController) Check(ctx *gin.Context) {
	status := "healthy"
	checks := make(map[string]string)

	// 主库:权威存储,不可用即整体不健康
	if c.primary != nil {
		if err := c.checkDatabase(ctx.Request.Context(), c.primary); err != nil {
			status = "unhealthy"
			checks["primary_database"] = "unhealthy: " + err.Error()
		} else {
			checks["primary_database"] = "healthy"
		}
	} else {
		status = "unhealthy"
		checks["primary_database"] = "not configured"
	}

	// 镜像库:尽力而为,不可用只降级
	if c.secondary != nil {
		if err := c.checkDatabase(ctx.Request.Context(), c.secondary); err != nil {
			if status == "healthy" {
				status = "degraded"
			}
			checks["secondary_database"] = "unhealthy: " + err.Error()
		} else {
			checks["secondary_database"] = "healthy"
		}
	} else {
		checks["secondary_database"] = "not configured"
	}

	// BPM 引擎:不可达时本地读仍可服务
	if c.engine != nil {
		if err := c.checkEngine(ctx.Request.Context()); err != nil {
			if status == "healthy" {
				status = "degraded"
			}
			checks["bpm_engine"] = "unhealthy: " + err.Error()
		} else {
			checks["bpm_engine"] = "healthy"
		}
	} else {
		checks["bpm_engine"] = "not configured"
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	ctx.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// checkDatabase 检查数据库连接
func (c *HealthController) checkDatabase(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// checkEngine 检查 BPM 引擎连通性
func (c *HealthController) checkEngine(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.engine.Ping(ctx)
}
