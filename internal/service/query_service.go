package service

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hrops/forms-gateway/internal/model"
	"github.com/hrops/forms-gateway/internal/repository"
	"github.com/hrops/forms-gateway/internal/utils"
)

// QueryService 查询服务接口
// 只读主库;镜像库是给报表方消费的,网关自己的查询不碰它
type QueryService interface {
	ListForms(filter *ListFormsFilter) ([]*model.FormModel, int64, error)
	GetApprovalHistory(formID string) ([]*model.ApprovalHistoryModel, error)
	GetSyncLogs(formID string) ([]*model.SyncLogModel, error)
}

// ListFormsFilter 表单列表查询过滤器
type ListFormsFilter struct {
	FormType    *string
	Status      *string
	ApplicantID *string
	CompanyID   *string
	IsCancelled *bool
	StartTime   *string
	EndTime     *string
	Page        int
	PageSize    int
	SortBy      string
	Order       string
}

// queryService 查询服务实现
type queryService struct {
	db          *gorm.DB
	historyRepo repository.ApprovalHistoryRepository
	syncLogRepo repository.SyncLogRepository
}

// NewQueryService 创建查询服务
func NewQueryService(db *gorm.DB, historyRepo repository.ApprovalHistoryRepository, syncLogRepo repository.SyncLogRepository) QueryService {
	return &queryService{
		db:          db,
		historyRepo: historyRepo,
		syncLogRepo: syncLogRepo,
	}
}

// ListForms 列出表单
func (s *queryService) ListForms(filter *ListFormsFilter) ([]*model.FormModel, int64, error) {
	// 构建查询
	query := s.db.Model(&model.FormModel{})

	// 应用过滤条件
	if filter.FormType != nil {
		query = query.Where("form_type = ?", *filter.FormType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ApplicantID != nil {
		query = query.Where("applicant_id = ?", *filter.ApplicantID)
	}
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.IsCancelled != nil {
		query = query.Where("is_cancelled = ?", *filter.IsCancelled)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count forms: %w", err)
	}

	// 应用排序（验证排序字段，防止 SQL 注入）
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	if err := utils.ValidateSortField(sortBy); err != nil {
		return nil, 0, fmt.Errorf("invalid sort field: %w", err)
	}
	order := utils.SanitizeSortOrder(filter.Order)
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))

	// 应用分页
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)

	// 执行查询
	var forms []*model.FormModel
	if err := query.Find(&forms).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query forms: %w", err)
	}

	return forms, total, nil
}

// GetApprovalHistory 获取表单的审批历史
func (s *queryService) GetApprovalHistory(formID string) ([]*model.ApprovalHistoryModel, error) {
	return s.historyRepo.FindByFormID(formID)
}

// GetSyncLogs 获取表单的同步日志
func (s *queryService) GetSyncLogs(formID string) ([]*model.SyncLogModel, error) {
	return s.syncLogRepo.FindByFormID(formID)
}
