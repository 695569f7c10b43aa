package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateSortField 白名单内的字段放行
func TestValidateSortField(t *testing.T) {
	for _, field := range []string{"created_at", "updated_at", "apply_date", "status", "form_type"} {
		assert.NoError(t, ValidateSortField(field), field)
	}
	assert.NoError(t, ValidateSortField("Created_At"))
}

// TestValidateSortFieldRejected 白名单之外一律拒绝
func TestValidateSortFieldRejected(t *testing.T) {
	assert.Error(t, ValidateSortField(""))
	assert.Error(t, ValidateSortField("form_data"))
	assert.Error(t, ValidateSortField("created_at; DROP TABLE forms--"))
}

// TestSanitizeSortOrder 非法排序方向回落到 DESC
func TestSanitizeSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", SanitizeSortOrder("asc"))
	assert.Equal(t, "DESC", SanitizeSortOrder(" desc "))
	assert.Equal(t, "DESC", SanitizeSortOrder("sideways"))
	assert.Equal(t, "DESC", SanitizeSortOrder(""))
}

// TestValidateSortOrder 排序方向校验
func TestValidateSortOrder(t *testing.T) {
	assert.NoError(t, ValidateSortOrder("ASC"))
	assert.NoError(t, ValidateSortOrder("desc"))
	assert.Error(t, ValidateSortOrder("random"))
}
