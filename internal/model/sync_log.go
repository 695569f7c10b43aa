package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// 同步类型
const (
	SyncTypeFetch  = "FETCH"
	SyncTypePush   = "PUSH"
	SyncTypeCancel = "CANCEL"
)

// 同步方向
const (
	SyncDirectionIn  = "IN"  // BPM -> 网关
	SyncDirectionOut = "OUT" // 网关 -> BPM
)

// 同步结果
const (
	SyncStatusSuccess = "SUCCESS"
	SyncStatusFailed  = "FAILED"
	SyncStatusPartial = "PARTIAL"
)

// SyncLogModel 同步日志数据模型
// 仅追加的审计记录,每次同步尝试写一条,永不修改或删除
type SyncLogModel struct {
	ID               string         `gorm:"primaryKey;type:varchar(64)"`
	FormID           string         `gorm:"type:varchar(64);not null;index"`
	SyncType         string         `gorm:"type:varchar(16);not null"`
	SyncDirection    string         `gorm:"type:varchar(8);not null"`
	SyncStatus       string         `gorm:"type:varchar(16);not null;index"`
	RequestSnapshot  datatypes.JSON `gorm:"type:jsonb"`
	ResponseSnapshot datatypes.JSON `gorm:"type:jsonb"`
	ErrorMessage     string         `gorm:"type:text"`
	OperatorID       string         `gorm:"type:varchar(64)"`
	SyncTime         time.Time      `gorm:"not null;index"`
	CreatedAt        time.Time      `gorm:"not null"`
}

// TableName 指定表名
func (SyncLogModel) TableName() string {
	return "sync_logs"
}

// Validate 验证同步日志模型
func (sl *SyncLogModel) Validate() error {
	if sl.FormID == "" {
		return errors.New("form ID is required")
	}
	if sl.SyncType == "" {
		return errors.New("sync type is required")
	}
	if sl.SyncStatus == "" {
		return errors.New("sync status is required")
	}
	return nil
}
