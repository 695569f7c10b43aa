package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrops/forms-gateway/internal/service"
	"github.com/hrops/forms-gateway/internal/utils"
)

// FormController 表单控制器
type FormController struct {
	syncService  service.SyncService
	queryService service.QueryService
}

// NewFormController 创建表单控制器
func NewFormController(syncService service.SyncService, queryService service.QueryService) *FormController {
	return &FormController{
		syncService:  syncService,
		queryService: queryService,
	}
}

// GetForm 获取表单
// @Summary      获取表单详情
// @Description  本地存在直接返回;本地缺失时从 BPM 引擎同步拉取后返回
// @Tags         表单
// @Produce      json
// @Param        id path string true "表单 ID(流程序列号)"
// @Param        form_type query string false "表单类型提示"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /forms/{id} [get]
// @Security     BearerAuth
func (c *FormController) GetForm(ctx *gin.Context) {
	formID := ctx.Param("id")
	if err := utils.ValidateFormID(formID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid form id", err.Error())
		return
	}

	form, err := c.syncService.EnsureExists(ctx.Request.Context(), formID, ctx.Query("form_type"))
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get form", err.Error())
		return
	}
	if form == nil {
		Error(ctx, http.StatusNotFound, "form not found", "form does not exist locally and could not be fetched from the bpm engine")
		return
	}

	Success(ctx, form)
}

// ListForms 列出表单
// @Summary      获取表单列表
// @Description  分页获取表单列表,支持多条件查询、排序
// @Tags         表单
// @Produce      json
// @Param        form_type query string false "表单类型"
// @Param        status query string false "表单状态"
// @Param        applicant_id query string false "申请人 ID"
// @Param        company_id query string false "公司 ID"
// @Param        is_cancelled query bool false "是否已取消"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        sort_by query string false "排序字段" default(created_at)
// @Param        order query string false "排序方向" Enums(asc, desc) default(desc)
// @Success      200  {object}  PaginatedResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /forms [get]
// @Security     BearerAuth
func (c *FormController) ListForms(ctx *gin.Context) {
	filter := service.ListFormsFilter{
		Page:     1,
		PageSize: 20,
	}

	if v := ctx.Query("form_type"); v != "" {
		filter.FormType = &v
	}
	if v := ctx.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := ctx.Query("applicant_id"); v != "" {
		filter.ApplicantID = &v
	}
	if v := ctx.Query("company_id"); v != "" {
		filter.CompanyID = &v
	}
	if v := ctx.Query("is_cancelled"); v != "" {
		cancelled := v == "true" || v == "1"
		filter.IsCancelled = &cancelled
	}
	if v := ctx.Query("start_time"); v != "" {
		filter.StartTime = &v
	}
	if v := ctx.Query("end_time"); v != "" {
		filter.EndTime = &v
	}
	if page, ok := parsePositiveInt(ctx.Query("page")); ok {
		filter.Page = page
	}
	if pageSize, ok := parsePositiveInt(ctx.Query("page_size")); ok {
		filter.PageSize = pageSize
	}
	filter.SortBy = ctx.Query("sort_by")
	filter.Order = ctx.Query("order")

	forms, total, err := c.queryService.ListForms(&filter)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "failed to list forms", err.Error())
		return
	}

	totalPage := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))

	Paginated(ctx, forms, PaginationInfo{
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// SyncForm 刷新表单
// @Summary      强制从 BPM 引擎刷新表单
// @Description  无条件拉取引擎最新快照并落库,拉取失败返回 BPM_FETCH_FAILED 结果码
// @Tags         表单
// @Produce      json
// @Param        id path string true "表单 ID(流程序列号)"
// @Param        form_type query string false "表单类型提示"
// @Param        operator_id query string false "操作人 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /forms/{id}/sync [post]
// @Security     BearerAuth
func (c *FormController) SyncForm(ctx *gin.Context) {
	formID := ctx.Param("id")
	if err := utils.ValidateFormID(formID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid form id", err.Error())
		return
	}

	result, err := c.syncService.SyncFromBPM(ctx.Request.Context(), formID, ctx.Query("form_type"), ctx.Query("operator_id"))
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to sync form", err.Error())
		return
	}

	Success(ctx, result)
}

// CancelForm 取消表单
// @Summary      取消表单
// @Description  本地取消权威生效;可选向 BPM 引擎传播,传播失败返回 BPM_SYNC_PENDING
// @Tags         表单
// @Accept       json
// @Produce      json
// @Param        id path string true "表单 ID(流程序列号)"
// @Param        request body service.CancelRequest true "取消请求"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /forms/{id}/cancel [post]
// @Security     BearerAuth
func (c *FormController) CancelForm(ctx *gin.Context) {
	formID := ctx.Param("id")
	if err := utils.ValidateFormID(formID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid form id", err.Error())
		return
	}

	var req service.CancelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		Error(ctx, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	req.FormID = formID

	result, err := c.syncService.Cancel(ctx.Request.Context(), &req)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to cancel form", err.Error())
		return
	}

	Success(ctx, result)
}

// GetHistory 获取审批历史
// @Summary      获取表单审批历史
// @Tags         表单
// @Produce      json
// @Param        id path string true "表单 ID(流程序列号)"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /forms/{id}/history [get]
// @Security     BearerAuth
func (c *FormController) GetHistory(ctx *gin.Context) {
	formID := ctx.Param("id")
	if err := utils.ValidateFormID(formID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid form id", err.Error())
		return
	}

	history, err := c.queryService.GetApprovalHistory(formID)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get approval history", err.Error())
		return
	}

	Success(ctx, history)
}

// GetSyncLogs 获取同步日志
// @Summary      获取表单同步日志
// @Tags         表单
// @Produce      json
// @Param        id path string true "表单 ID(流程序列号)"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /forms/{id}/synclogs [get]
// @Security     BearerAuth
func (c *FormController) GetSyncLogs(ctx *gin.Context) {
	formID := ctx.Param("id")
	if err := utils.ValidateFormID(formID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid form id", err.Error())
		return
	}

	logs, err := c.queryService.GetSyncLogs(formID)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get sync logs", err.Error())
		return
	}

	Success(ctx, logs)
}

// parsePositiveInt 解析正整数查询参数
func parsePositiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
