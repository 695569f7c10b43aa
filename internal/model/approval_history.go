package model

import (
	"errors"
	"time"
)

// ApprovalHistoryModel 审批历史数据模型
// 按 sequence_no 排序的单表单审批动作列表,随 BPM 上报单调增长,仅追加
type ApprovalHistoryModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)"`
	FormID       string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_history_form_seq,priority:1"`
	SequenceNo   int       `gorm:"not null;uniqueIndex:idx_history_form_seq,priority:2"`
	ApproverID   string    `gorm:"type:varchar(64);not null"`
	ApproverName string    `gorm:"type:varchar(64)"`
	Action       string    `gorm:"type:varchar(32);not null"` // approve, reject, transfer ...
	Comment      string    `gorm:"type:text"`
	ActionTime   time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName 指定表名
func (ApprovalHistoryModel) TableName() string {
	return "approval_history"
}

// Validate 验证审批历史模型
func (ah *ApprovalHistoryModel) Validate() error {
	if ah.FormID == "" {
		return errors.New("form ID is required")
	}
	if ah.ApproverID == "" {
		return errors.New("approver ID is required")
	}
	if ah.Action == "" {
		return errors.New("action is required")
	}
	return nil
}
