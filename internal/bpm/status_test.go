package bpm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrops/forms-gateway/internal/model"
)

// TestMapStatus 测试 BPM 状态映射
func TestMapStatus(t *testing.T) {
	cases := []struct {
		external string
		expected string
	}{
		{"ACTIVE", model.FormStatusPending},
		{"RUNNING", model.FormStatusProcessing},
		{"PROCESSING", model.FormStatusProcessing},
		{"COMPLETED", model.FormStatusApproved},
		{"APPROVED", model.FormStatusApproved},
		{"REJECTED", model.FormStatusRejected},
		{"TERMINATED", model.FormStatusCancelled},
		{"CANCELLED", model.FormStatusCancelled},
		{"ABORTED", model.FormStatusWithdrawn},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, MapStatus(c.external), "status %s", c.external)
	}
}

// TestMapStatusNormalization 测试状态映射的大小写与空白归一化
func TestMapStatusNormalization(t *testing.T) {
	assert.Equal(t, model.FormStatusProcessing, MapStatus("running"))
	assert.Equal(t, model.FormStatusApproved, MapStatus("  Completed  "))
}

// TestMapStatusUnknown 未识别的状态回落到 PENDING
func TestMapStatusUnknown(t *testing.T) {
	assert.Equal(t, model.FormStatusPending, MapStatus("SUSPENDED"))
	assert.Equal(t, model.FormStatusPending, MapStatus(""))
}

// TestInferFormType 测试表单类型推断
func TestInferFormType(t *testing.T) {
	cases := []struct {
		formCode string
		expected string
	}{
		{"HR_LEAVE_V2", model.FormTypeLeave},
		{"hr_leave_v2", model.FormTypeLeave},
		{"OVERTIME_APPLY", model.FormTypeOvertime},
		{"BUSINESS_TRIP", model.FormTypeBusinessTrip},
		{"TRIP_REQUEST", model.FormTypeBusinessTrip},
		{"ATTENDANCE_FIX", model.FormTypeAttendance},
		{"EXPENSE_CLAIM", model.FormTypeOther},
		{"", model.FormTypeOther},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, InferFormType(c.formCode), "code %s", c.formCode)
	}
}

// TestInferFormTypeCancelLeavePrecedence 销假单的识别必须先于请假单
func TestInferFormTypeCancelLeavePrecedence(t *testing.T) {
	assert.Equal(t, model.FormTypeCancelLeave, InferFormType("HR_CANCEL_LEAVE"))
	assert.Equal(t, model.FormTypeCancelLeave, InferFormType("LEAVE_CANCEL_V1"))
	assert.Equal(t, model.FormTypeLeave, InferFormType("HR_LEAVE"))
}
