package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrops/forms-gateway/internal/service"
)

// IngestController 推送接入控制器
// BPM 中间件的回调约定:HTTP 层恒为 200,业务结果放在 {code, msg} 里
type IngestController struct {
	ingestService service.IngestService
}

// NewIngestController 创建推送接入控制器
func NewIngestController(ingestService service.IngestService) *IngestController {
	return &IngestController{
		ingestService: ingestService,
	}
}

// HandlePush 处理批量推送
// @Summary      接收 BPM 中间件的表单事件批量推送
// @Description  校验推送密钥后逐条落库,至少一条成功即返回 code 200
// @Tags         推送接入
// @Accept       json
// @Produce      json
// @Param        request body service.PushRequest true "推送批次"
// @Success      200  {object}  service.PushResult
// @Router       /bpm/push [post]
func (c *IngestController) HandlePush(ctx *gin.Context) {
	var req service.PushRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusOK, &service.PushResult{
			Code: service.PushCodeBadRequest,
			Msg:  "invalid request body",
		})
		return
	}

	result := c.ingestService.ProcessPush(ctx.Request.Context(), &req)
	ctx.JSON(http.StatusOK, result)
}
