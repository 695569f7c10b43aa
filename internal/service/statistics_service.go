package service

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hrops/forms-gateway/internal/model"
)

// StatisticsService 统计服务接口
type StatisticsService interface {
	GetFormStatisticsByStatus() ([]*FormStatisticsByStatus, error)
	GetFormStatisticsByType() ([]*FormStatisticsByType, error)
	GetSyncStatistics() (*SyncStatistics, error)
}

// FormStatisticsByStatus 按状态统计
type FormStatisticsByStatus struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// FormStatisticsByType 按表单类型统计
type FormStatisticsByType struct {
	FormType string `json:"form_type"`
	Count    int64  `json:"count"`
}

// SyncStatistics 同步统计
type SyncStatistics struct {
	TotalSyncs     int64   `json:"total_syncs"`
	SuccessCount   int64   `json:"success_count"`
	FailedCount    int64   `json:"failed_count"`
	PartialCount   int64   `json:"partial_count"`
	SuccessRate    float64 `json:"success_rate"`
	UnsyncedForms  int64   `json:"unsynced_forms"`
	CancelledForms int64   `json:"cancelled_forms"`
}

// statisticsService 统计服务实现
type statisticsService struct {
	db *gorm.DB
}

// NewStatisticsService 创建统计服务
func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetFormStatisticsByStatus 按状态统计表单
func (s *statisticsService) GetFormStatisticsByStatus() ([]*FormStatisticsByStatus, error) {
	var results []struct {
		Status string
		Count  int64
	}

	err := s.db.Model(&model.FormModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get form statistics by status: %w", err)
	}

	stats := make([]*FormStatisticsByStatus, 0, len(results))
	for _, r := range results {
		stats = append(stats, &FormStatisticsByStatus{
			Status: r.Status,
			Count:  r.Count,
		})
	}

	return stats, nil
}

// GetFormStatisticsByType 按表单类型统计
func (s *statisticsService) GetFormStatisticsByType() ([]*FormStatisticsByType, error) {
	var results []struct {
		FormType string
		Count    int64
	}

	err := s.db.Model(&model.FormModel{}).
		Select("form_type, COUNT(*) as count").
		Group("form_type").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get form statistics by type: %w", err)
	}

	stats := make([]*FormStatisticsByType, 0, len(results))
	for _, r := range results {
		stats = append(stats, &FormStatisticsByType{
			FormType: r.FormType,
			Count:    r.Count,
		})
	}

	return stats, nil
}

// GetSyncStatistics 获取同步统计
func (s *statisticsService) GetSyncStatistics() (*SyncStatistics, error) {
	var totalCount int64
	err := s.db.Model(&model.SyncLogModel{}).Count(&totalCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count sync logs: %w", err)
	}

	var successCount int64
	err = s.db.Model(&model.SyncLogModel{}).
		Where("sync_status = ?", model.SyncStatusSuccess).
		Count(&successCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count successful syncs: %w", err)
	}

	var failedCount int64
	err = s.db.Model(&model.SyncLogModel{}).
		Where("sync_status = ?", model.SyncStatusFailed).
		Count(&failedCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count failed syncs: %w", err)
	}

	var partialCount int64
	err = s.db.Model(&model.SyncLogModel{}).
		Where("sync_status = ?", model.SyncStatusPartial).
		Count(&partialCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count partial syncs: %w", err)
	}

	var unsyncedForms int64
	err = s.db.Model(&model.FormModel{}).
		Where("is_synced_to_bpm = ?", false).
		Count(&unsyncedForms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unsynced forms: %w", err)
	}

	var cancelledForms int64
	err = s.db.Model(&model.FormModel{}).
		Where("is_cancelled = ?", true).
		Count(&cancelledForms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count cancelled forms: %w", err)
	}

	successRate := 0.0
	if totalCount > 0 {
		successRate = float64(successCount) / float64(totalCount) * 100
	}

	return &SyncStatistics{
		TotalSyncs:     totalCount,
		SuccessCount:   successCount,
		FailedCount:    failedCount,
		PartialCount:   partialCount,
		SuccessRate:    successRate,
		UnsyncedForms:  unsyncedForms,
		CancelledForms: cancelledForms,
	}, nil
}
