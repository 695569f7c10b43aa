package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrops/forms-gateway/internal/service"
)

// StatisticsController 统计控制器
type StatisticsController struct {
	statisticsService service.StatisticsService
}

// NewStatisticsController 创建统计控制器
func NewStatisticsController(statisticsService service.StatisticsService) *StatisticsController {
	return &StatisticsController{
		statisticsService: statisticsService,
	}
}

// GetFormsByStatus 按状态统计表单
// @Summary      按状态统计表单数量
// @Tags         查询统计
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /statistics/forms/by-status [get]
// @Security     BearerAuth
func (c *StatisticsController) GetFormsByStatus(ctx *gin.Context) {
	stats, err := c.statisticsService.GetFormStatisticsByStatus()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get statistics", err.Error())
		return
	}
	Success(ctx, stats)
}

// GetFormsByType 按类型统计表单
// @Summary      按表单类型统计表单数量
// @Tags         查询统计
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /statistics/forms/by-type [get]
// @Security     BearerAuth
func (c *StatisticsController) GetFormsByType(ctx *gin.Context) {
	stats, err := c.statisticsService.GetFormStatisticsByType()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get statistics", err.Error())
		return
	}
	Success(ctx, stats)
}

// GetSyncStatistics 同步统计
// @Summary      获取同步成功率与积压统计
// @Tags         查询统计
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /statistics/sync [get]
// @Security     BearerAuth
func (c *StatisticsController) GetSyncStatistics(ctx *gin.Context) {
	stats, err := c.statisticsService.GetSyncStatistics()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get sync statistics", err.Error())
		return
	}
	Success(ctx, stats)
}
