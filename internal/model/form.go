package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// 表单类型
const (
	FormTypeLeave        = "LEAVE"
	FormTypeOvertime     = "OVERTIME"
	FormTypeBusinessTrip = "BUSINESS_TRIP"
	FormTypeCancelLeave  = "CANCEL_LEAVE"
	FormTypeAttendance   = "ATTENDANCE"
	FormTypeOther        = "OTHER"
)

// 表单状态(内部状态枚举)
const (
	FormStatusPending    = "PENDING"
	FormStatusProcessing = "PROCESSING"
	FormStatusApproved   = "APPROVED"
	FormStatusRejected   = "REJECTED"
	FormStatusCancelled  = "CANCELLED"
	FormStatusWithdrawn  = "WITHDRAWN"
)

// FormModel 表单数据模型
// 以 BPM 流程实例为单位的本地权威记录,form_id 为流程序列号,
// 在主库和镜像库中共用同一主键
type FormModel struct {
	FormID      string `gorm:"primaryKey;type:varchar(64);column:form_id"`
	FormCode    string `gorm:"type:varchar(64);index"`          // BPM 流程编码
	FormType    string `gorm:"type:varchar(32);not null;index"` // 表单类型
	FormVersion string `gorm:"type:varchar(16)"`

	ApplicantID   string `gorm:"type:varchar(64);index"` // 申请人 ID
	ApplicantName string `gorm:"type:varchar(64)"`
	ApplicantDept string `gorm:"type:varchar(64)"`
	CompanyID     string `gorm:"type:varchar(64);index"`

	Status              string `gorm:"type:varchar(32);not null;index"` // 内部状态
	BpmStatus           string `gorm:"type:varchar(64)"`                // BPM 原始状态(审计用)
	CurrentApproverID   string `gorm:"type:varchar(64)"`
	CurrentApproverName string `gorm:"type:varchar(64)"`
	ApprovalComment     string `gorm:"type:text"`

	FormData  datatypes.JSON `gorm:"type:jsonb"` // 表单字段(网关不校验内部结构)
	ApplyDate time.Time      `gorm:"index"`

	// 本地专属字段,外部同步不得覆盖
	IsCancelled  bool       `gorm:"not null;default:false;index"`
	CancelReason string     `gorm:"type:text"`
	CancelTime   *time.Time `gorm:""`
	CancelledBy  string     `gorm:"type:varchar(64)"`

	// 同步簿记
	IsSyncedToBpm    bool       `gorm:"not null;default:false"`
	LastSyncTime     *time.Time `gorm:""`
	SyncErrorMessage string     `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (FormModel) TableName() string {
	return "forms"
}

// Validate 验证表单模型
func (fm *FormModel) Validate() error {
	if fm.FormID == "" {
		return errors.New("form ID is required")
	}
	if fm.FormType == "" {
		return errors.New("form type is required")
	}
	if fm.Status == "" {
		return errors.New("form status is required")
	}
	return nil
}

// IsTerminal 判断表单是否处于终态
func (fm *FormModel) IsTerminal() bool {
	switch fm.Status {
	case FormStatusApproved, FormStatusRejected, FormStatusCancelled, FormStatusWithdrawn:
		return true
	}
	return false
}

// ValidFormType 判断表单类型是否合法
func ValidFormType(t string) bool {
	switch t {
	case FormTypeLeave, FormTypeOvertime, FormTypeBusinessTrip,
		FormTypeCancelLeave, FormTypeAttendance, FormTypeOther:
		return true
	}
	return false
}
