package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrops/forms-gateway/internal/model"
)

// ApprovalHistoryRepository 审批历史仓储接口
// 仅追加,随 BPM 上报单调增长;写失败记日志后丢弃
type ApprovalHistoryRepository interface {
	Append(entries ...*model.ApprovalHistoryModel)
	FindByFormID(formID string) ([]*model.ApprovalHistoryModel, error)
	NextSequenceNo(formID string) (int, error)
}

// approvalHistoryRepository 双库审批历史仓储实现
type approvalHistoryRepository struct {
	primary   *gorm.DB
	secondary *gorm.DB
	logger    *logrus.Logger
}

// NewApprovalHistoryRepository 创建审批历史仓储
func NewApprovalHistoryRepository(primary, secondary *gorm.DB, logger *logrus.Logger) ApprovalHistoryRepository {
	return &approvalHistoryRepository{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Append 追加审批历史记录
func (r *approvalHistoryRepository) Append(entries ...*model.ApprovalHistoryModel) {
	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.CreatedAt = time.Now()

		if err := r.primary.Create(entry).Error; err != nil {
			r.logger.WithFields(logrus.Fields{
				"form_id":     entry.FormID,
				"sequence_no": entry.SequenceNo,
			}).WithError(err).Warn("failed to append approval history")
			continue
		}
		if r.secondary != nil {
			if err := r.secondary.Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
				r.logger.WithField("form_id", entry.FormID).
					WithError(err).Warn("failed to mirror approval history")
			}
		}
	}
}

// FindByFormID 查询表单的审批历史,按序号升序
func (r *approvalHistoryRepository) FindByFormID(formID string) ([]*model.ApprovalHistoryModel, error) {
	var entries []*model.ApprovalHistoryModel
	err := r.primary.Where("form_id = ?", formID).
		Order("sequence_no ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query approval history: %w", err)
	}
	return entries, nil
}

// NextSequenceNo 计算表单下一个审批序号
func (r *approvalHistoryRepository) NextSequenceNo(formID string) (int, error) {
	var max int
	err := r.primary.Model(&model.ApprovalHistoryModel{}).
		Where("form_id = ?", formID).
		Select("COALESCE(MAX(sequence_no), 0)").Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query max sequence no: %w", err)
	}
	return max + 1, nil
}
