package bpm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hrops/forms-gateway/internal/model"
	"gorm.io/datatypes"
)

// ErrUnrecognizedPayload 响应不包含可识别的表单详情结构
var ErrUnrecognizedPayload = errors.New("bpm payload does not match any known shape")

// ErrInstanceNotFound 流程实例列表中没有匹配的序列号
var ErrInstanceNotFound = errors.New("process instance not found in search result")

// applyDateLayouts ApplyDate 解析尝试的时间格式
var applyDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
}

// Normalize 将 BPM 直接表单详情响应解析为规范表单记录
// payload 是引擎返回的扁平对象;typeHint 为空时从流程编码推断表单类型
// 无法识别的结构返回错误,调用方必须按"不可获取"处理,不得落一条空记录
func Normalize(payload map[string]interface{}, formID, typeHint string) (*model.FormModel, error) {
	if payload == nil {
		return nil, ErrUnrecognizedPayload
	}

	status := pickString(payload, "status")
	userID := pickString(payload, "userId")
	formCode := pickString(payload, "formCode")
	if status == "" && userID == "" && formCode == "" {
		return nil, ErrUnrecognizedPayload
	}

	formType := typeHint
	if formType == "" || !model.ValidFormType(formType) {
		formType = InferFormType(formCode)
	}

	now := time.Now()
	form := &model.FormModel{
		FormID:              formID,
		FormCode:            formCode,
		FormType:            formType,
		FormVersion:         pickString(payload, "version"),
		ApplicantID:         userID,
		ApplicantName:       pickString(payload, "userName"),
		ApplicantDept:       pickString(payload, "deptName"),
		CompanyID:           pickString(payload, "companyId"),
		Status:              MapStatus(status),
		BpmStatus:           status,
		CurrentApproverID:   pickString(payload, "approverId"),
		CurrentApproverName: pickString(payload, "approverName"),
		ApprovalComment:     pickString(payload, "comment"),
		ApplyDate:           parseApplyDate(pickString(payload, "applyDate"), now),
		IsSyncedToBpm:       true,
		LastSyncTime:        &now,
	}

	if raw, ok := pickRaw(payload, "formData"); ok {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal form data: %w", err)
		}
		form.FormData = datatypes.JSON(data)
	}

	return form, nil
}

// NormalizeInstanceList 流程实例查询结果的回落解析
// 线性扫描实例数组,序列号等于请求的 formID 时递归进直接解析
func NormalizeInstanceList(instances []interface{}, formID, typeHint string) (*model.FormModel, error) {
	for _, item := range instances {
		node, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if pickString(node, "serialNo") == formID {
			return Normalize(node, formID, typeHint)
		}
	}
	return nil, ErrInstanceNotFound
}

// ExtractApprovalHistory 从表单详情中尽力提取审批动作列表
// 序号按出现位置从 1 开始;结构缺失或不可识别时返回空,绝不报错,
// 审批历史缺失不影响表单本身的同步
func ExtractApprovalHistory(payload map[string]interface{}, formID string) []*model.ApprovalHistoryModel {
	raw, ok := pickRaw(payload, "records")
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	now := time.Now()
	var entries []*model.ApprovalHistoryModel
	for i, item := range items {
		node, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		approverID := pickString(node, "approverId")
		action := pickString(node, "action")
		if approverID == "" || action == "" {
			continue
		}
		entries = append(entries, &model.ApprovalHistoryModel{
			FormID:       formID,
			SequenceNo:   i + 1,
			ApproverID:   approverID,
			ApproverName: pickString(node, "approverName"),
			Action:       action,
			Comment:      pickString(node, "comment"),
			ActionTime:   parseApplyDate(pickString(node, "actionTime"), now),
		})
	}
	return entries
}

// parseApplyDate 尽力解析申请时间,解析失败回落到 now
// ApplyDate 只是展示信息,不值得让整次规范化失败
func parseApplyDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	for _, layout := range applyDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}
