package bpm

import (
	"fmt"
	"strings"
)

// fieldCandidates 每个逻辑字段可接受的外部属性名,按优先级排列
// BPM 引擎对不同流程模板暴露的字段名并不一致,候选名单作为数据维护,
// 新的引擎差异只需要在这里加一项
var fieldCandidates = map[string][]string{
	"serialNo":     {"processSerialNo", "serialNo", "processInstanceId"},
	"status":       {"status", "processStatus", "state"},
	"userId":       {"userId", "uid", "applyUserId", "applicantId"},
	"userName":     {"userName", "applyUserName", "applicantName"},
	"deptName":     {"deptName", "applyDeptName", "department"},
	"companyId":    {"companyId", "corpId"},
	"formCode":     {"formCode", "processCode", "processDefCode"},
	"version":      {"version", "formVersion"},
	"formData":     {"formData", "formFields", "data"},
	"approverId":   {"approverId", "currentApproverId", "assignee"},
	"approverName": {"approverName", "currentApproverName", "assigneeName"},
	"comment":      {"comment", "approvalComment", "opinion"},
	"applyDate":    {"applyDate", "createTime", "applyTime"},
	"records":      {"approvalRecords", "records", "workitems"},
	"action":       {"action", "operation", "result"},
	"actionTime":   {"actionTime", "operateTime", "finishTime"},
}

// pickRaw 按候选名单从键值树中取第一个存在的字段
func pickRaw(node map[string]interface{}, field string) (interface{}, bool) {
	for _, key := range fieldCandidates[field] {
		if v, ok := node[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// pickString 按候选名单取字符串字段,数字值也转为字符串
func pickString(node map[string]interface{}, field string) string {
	v, ok := pickRaw(node, field)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		// JSON 数字统一反序列化为 float64
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%v", s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
