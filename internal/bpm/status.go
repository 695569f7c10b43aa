package bpm

import (
	"strings"

	"github.com/hrops/forms-gateway/internal/model"
)

// statusTable BPM 引擎状态 -> 内部状态映射表
// 未识别的状态一律回落到 PENDING,避免把未知状态误判为终态
var statusTable = map[string]string{
	"ACTIVE":     model.FormStatusPending,
	"RUNNING":    model.FormStatusProcessing,
	"PROCESSING": model.FormStatusProcessing,
	"COMPLETED":  model.FormStatusApproved,
	"APPROVED":   model.FormStatusApproved,
	"REJECTED":   model.FormStatusRejected,
	"TERMINATED": model.FormStatusCancelled,
	"CANCELLED":  model.FormStatusCancelled,
	"ABORTED":    model.FormStatusWithdrawn,
}

// MapStatus 将 BPM 引擎状态映射为内部状态
func MapStatus(external string) string {
	if mapped, ok := statusTable[strings.ToUpper(strings.TrimSpace(external))]; ok {
		return mapped
	}
	return model.FormStatusPending
}

// formTypeRule 表单类型推断规则
// keywords 中所有关键字都命中才匹配,按声明顺序优先
type formTypeRule struct {
	keywords []string
	formType string
}

// formTypeRules 从流程编码推断表单类型的规则表
// CANCEL+LEAVE 必须排在 LEAVE 之前,否则销假单会被识别为请假单
var formTypeRules = []formTypeRule{
	{keywords: []string{"CANCEL", "LEAVE"}, formType: model.FormTypeCancelLeave},
	{keywords: []string{"LEAVE"}, formType: model.FormTypeLeave},
	{keywords: []string{"OVERTIME"}, formType: model.FormTypeOvertime},
	{keywords: []string{"BUSINESS"}, formType: model.FormTypeBusinessTrip},
	{keywords: []string{"TRIP"}, formType: model.FormTypeBusinessTrip},
	{keywords: []string{"ATTENDANCE"}, formType: model.FormTypeAttendance},
}

// InferFormType 根据流程编码推断表单类型,无法识别时返回 OTHER
func InferFormType(formCode string) string {
	code := strings.ToUpper(formCode)
	for _, rule := range formTypeRules {
		matched := true
		for _, kw := range rule.keywords {
			if !strings.Contains(code, kw) {
				matched = false
				break
			}
		}
		if matched {
			return rule.formType
		}
	}
	return model.FormTypeOther
}
