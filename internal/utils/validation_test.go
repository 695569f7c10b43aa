package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateFormID 测试表单 ID 校验
func TestValidateFormID(t *testing.T) {
	assert.NoError(t, ValidateFormID("PSN-2026-0001"))
	assert.NoError(t, ValidateFormID("abc_123"))

	assert.ErrorIs(t, ValidateFormID(""), ErrEmptyID)
	assert.ErrorIs(t, ValidateFormID("id with spaces"), ErrInvalidIDFormat)
	assert.ErrorIs(t, ValidateFormID("id';DROP TABLE forms--"), ErrInvalidIDFormat)
	assert.ErrorIs(t, ValidateFormID(strings.Repeat("a", 65)), ErrIDTooLong)
}

// TestSanitizeString 测试字符串清理
func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;", SanitizeString("<script>"))
	assert.Equal(t, "line1\nline2", SanitizeString("line1\nline2"))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
}

// TestTrimAndValidate 测试清理并校验
func TestTrimAndValidate(t *testing.T) {
	out, err := TrimAndValidate("  hello  ", 10)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = TrimAndValidate("   ", 10)
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = TrimAndValidate("toolongvalue", 5)
	assert.ErrorIs(t, err, ErrStringTooLong)
}
