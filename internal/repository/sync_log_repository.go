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

// SyncLogRepository 同步日志仓储接口
// 审计日志写失败绝不能阻塞业务操作,Append 内部吞掉所有错误
type SyncLogRepository interface {
	Append(entry *model.SyncLogModel)
	FindByFormID(formID string) ([]*model.SyncLogModel, error)
}

// syncLogRepository 双库同步日志仓储实现
type syncLogRepository struct {
	primary   *gorm.DB
	secondary *gorm.DB
	logger    *logrus.Logger
}

// NewSyncLogRepository 创建同步日志仓储
func NewSyncLogRepository(primary, secondary *gorm.DB, logger *logrus.Logger) SyncLogRepository {
	return &syncLogRepository{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Append 追加一条同步日志
func (r *syncLogRepository) Append(entry *model.SyncLogModel) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SyncTime.IsZero() {
		entry.SyncTime = time.Now()
	}
	entry.CreatedAt = time.Now()

	if err := r.primary.Create(entry).Error; err != nil {
		r.logger.WithField("form_id", entry.FormID).
			WithError(err).Warn("failed to append sync log")
		return
	}
	if r.secondary != nil {
		if err := r.secondary.Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
			r.logger.WithField("form_id", entry.FormID).
				WithError(err).Warn("failed to mirror sync log")
		}
	}
}

// FindByFormID 查询表单的同步日志,按同步时间倒序
func (r *syncLogRepository) FindByFormID(formID string) ([]*model.SyncLogModel, error) {
	var entries []*model.SyncLogModel
	err := r.primary.Where("form_id = ?", formID).
		Order("sync_time DESC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sync logs: %w", err)
	}
	return entries, nil
}
