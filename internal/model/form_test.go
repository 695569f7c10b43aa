package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormModelValidate 必填字段校验
func TestFormModelValidate(t *testing.T) {
	form := &FormModel{
		FormID:   "PSN-001",
		FormType: FormTypeLeave,
		Status:   FormStatusPending,
	}
	assert.NoError(t, form.Validate())

	assert.Error(t, (&FormModel{FormType: FormTypeLeave, Status: FormStatusPending}).Validate())
	assert.Error(t, (&FormModel{FormID: "PSN-001", Status: FormStatusPending}).Validate())
	assert.Error(t, (&FormModel{FormID: "PSN-001", FormType: FormTypeLeave}).Validate())
}

// TestFormModelIsTerminal 终态判定
func TestFormModelIsTerminal(t *testing.T) {
	cases := map[string]bool{
		FormStatusPending:    false,
		FormStatusProcessing: false,
		FormStatusApproved:   true,
		FormStatusRejected:   true,
		FormStatusCancelled:  true,
		FormStatusWithdrawn:  true,
	}
	for status, want := range cases {
		form := &FormModel{Status: status}
		assert.Equal(t, want, form.IsTerminal(), status)
	}
}

// TestValidFormType 表单类型合法性
func TestValidFormType(t *testing.T) {
	for _, ft := range []string{FormTypeLeave, FormTypeOvertime, FormTypeBusinessTrip, FormTypeCancelLeave, FormTypeAttendance, FormTypeOther} {
		assert.True(t, ValidFormType(ft), ft)
	}
	assert.False(t, ValidFormType(""))
	assert.False(t, ValidFormType("PAYROLL"))
}
