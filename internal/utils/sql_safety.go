package utils

import (
	"errors"
	"strings"
)

// sortableFormFields 表单列表允许的排序字段白名单
// 排序字段会被拼进 ORDER BY,白名单之外的输入一律拒绝
var sortableFormFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"apply_date":   true,
	"status":       true,
	"form_type":    true,
	"form_code":    true,
	"applicant_id": true,
	"company_id":   true,
}

// ValidateSortField 验证排序字段，防止 SQL 注入
func ValidateSortField(field string) error {
	if field == "" {
		return errors.New("sort field cannot be empty")
	}
	if !sortableFormFields[strings.ToLower(field)] {
		return errors.New("sort field is not allowed")
	}
	return nil
}

// ValidateSortOrder 验证排序方向
func ValidateSortOrder(order string) error {
	upperOrder := strings.ToUpper(strings.TrimSpace(order))
	if upperOrder != "ASC" && upperOrder != "DESC" {
		return errors.New("sort order must be ASC or DESC")
	}
	return nil
}

// SanitizeSortOrder 清理排序方向
func SanitizeSortOrder(order string) string {
	upperOrder := strings.ToUpper(strings.TrimSpace(order))
	if upperOrder == "ASC" || upperOrder == "DESC" {
		return upperOrder
	}
	return "DESC" // 默认降序
}
