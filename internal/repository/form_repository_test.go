package repository

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hrops/forms-gateway/internal/database"
	"github.com/hrops/forms-gateway/internal/model"
)

// newTestDB 创建内存数据库并迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接各自独立,必须收敛到单连接
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// newTestLogger 测试用静默日志
func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// sampleForm 构造一条测试表单
func sampleForm(formID string) *model.FormModel {
	return &model.FormModel{
		FormID:      formID,
		FormCode:    "HR_LEAVE_V2",
		FormType:    model.FormTypeLeave,
		ApplicantID: "u-1001",
		CompanyID:   "c-01",
		Status:      model.FormStatusPending,
		BpmStatus:   "ACTIVE",
		ApplyDate:   time.Now(),
	}
}

// TestFormRepositoryCreateAndGet 测试创建与查询
func TestFormRepositoryCreateAndGet(t *testing.T) {
	repo := NewFormRepository(newTestDB(t), nil, newTestLogger())

	created, err := repo.Create(sampleForm("PSN-001"))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID("PSN-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.FormTypeLeave, got.FormType)
	assert.Equal(t, "u-1001", got.ApplicantID)
}

// TestFormRepositoryGetMissing 缺行返回 (nil, nil) 而不是错误
func TestFormRepositoryGetMissing(t *testing.T) {
	repo := NewFormRepository(newTestDB(t), nil, newTestLogger())

	got, err := repo.GetByID("PSN-404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestFormRepositoryMirror 主库写入同步镜像到从库
func TestFormRepositoryMirror(t *testing.T) {
	primary := newTestDB(t)
	secondary := newTestDB(t)
	repo := NewFormRepository(primary, secondary, newTestLogger())

	_, err := repo.Create(sampleForm("PSN-002"))
	require.NoError(t, err)

	var mirrored model.FormModel
	require.NoError(t, secondary.Where("form_id = ?", "PSN-002").First(&mirrored).Error)
	assert.Equal(t, model.FormStatusPending, mirrored.Status)

	// 更新后镜像行跟进
	form, err := repo.GetByID("PSN-002")
	require.NoError(t, err)
	form.Status = model.FormStatusApproved
	_, err = repo.Update(form)
	require.NoError(t, err)

	require.NoError(t, secondary.Where("form_id = ?", "PSN-002").First(&mirrored).Error)
	assert.Equal(t, model.FormStatusApproved, mirrored.Status)
}

// TestFormRepositoryMirrorBackfill 镜像库缺行时更新落成插入
func TestFormRepositoryMirrorBackfill(t *testing.T) {
	primary := newTestDB(t)
	repo := NewFormRepository(primary, nil, newTestLogger())

	_, err := repo.Create(sampleForm("PSN-003"))
	require.NoError(t, err)

	// 镜像库后接入,更新时行还不存在
	secondary := newTestDB(t)
	repo = NewFormRepository(primary, secondary, newTestLogger())

	form, err := repo.GetByID("PSN-003")
	require.NoError(t, err)
	form.Status = model.FormStatusProcessing
	_, err = repo.Update(form)
	require.NoError(t, err)

	var mirrored model.FormModel
	require.NoError(t, secondary.Where("form_id = ?", "PSN-003").First(&mirrored).Error)
	assert.Equal(t, model.FormStatusProcessing, mirrored.Status)
}

// TestFormRepositorySecondaryFailureIsolated 镜像库故障不影响主库写入
func TestFormRepositorySecondaryFailureIsolated(t *testing.T) {
	primary := newTestDB(t)
	secondary := newTestDB(t)

	// 关掉从库连接模拟故障
	sqlDB, err := secondary.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	repo := NewFormRepository(primary, secondary, newTestLogger())

	created, err := repo.Create(sampleForm("PSN-004"))
	require.NoError(t, err)
	require.NotNil(t, created)

	got, err := repo.GetByID("PSN-004")
	require.NoError(t, err)
	require.NotNil(t, got)
}

// TestFormRepositoryCreateIdempotent 重复创建收敛为合并更新
func TestFormRepositoryCreateIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewFormRepository(db, nil, newTestLogger())

	_, err := repo.Create(sampleForm("PSN-005"))
	require.NoError(t, err)

	dup := sampleForm("PSN-005")
	dup.Status = model.FormStatusApproved
	dup.BpmStatus = "COMPLETED"
	saved, err := repo.Create(dup)
	require.NoError(t, err)
	assert.Equal(t, model.FormStatusApproved, saved.Status)

	var count int64
	require.NoError(t, db.Model(&model.FormModel{}).Where("form_id = ?", "PSN-005").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestFormRepositoryCancel 测试取消
func TestFormRepositoryCancel(t *testing.T) {
	repo := NewFormRepository(newTestDB(t), nil, newTestLogger())

	_, err := repo.Create(sampleForm("PSN-006"))
	require.NoError(t, err)

	cancelled, err := repo.Cancel("PSN-006", "submitted wrong dates", "u-1001")
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled)
	assert.Equal(t, model.FormStatusCancelled, cancelled.Status)
	assert.Equal(t, "submitted wrong dates", cancelled.CancelReason)
	assert.Equal(t, "u-1001", cancelled.CancelledBy)
	require.NotNil(t, cancelled.CancelTime)
}

// TestFormRepositoryCancelTwice 第二次取消报 ErrAlreadyCancelled 且不触碰 UpdatedAt
func TestFormRepositoryCancelTwice(t *testing.T) {
	repo := NewFormRepository(newTestDB(t), nil, newTestLogger())

	_, err := repo.Create(sampleForm("PSN-007"))
	require.NoError(t, err)

	first, err := repo.Cancel("PSN-007", "reason", "u-1")
	require.NoError(t, err)

	_, err = repo.Cancel("PSN-007", "another reason", "u-2")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	got, err := repo.GetByID("PSN-007")
	require.NoError(t, err)
	assert.Equal(t, "reason", got.CancelReason)
	assert.Equal(t, "u-1", got.CancelledBy)
	assert.WithinDuration(t, first.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

// TestFormRepositoryCancelMissing 取消不存在的表单报 ErrFormNotFound
func TestFormRepositoryCancelMissing(t *testing.T) {
	repo := NewFormRepository(newTestDB(t), nil, newTestLogger())

	_, err := repo.Cancel("PSN-404", "reason", "u-1")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

// TestFormRepositoryCreateOrUpdatePreservesLocalFields 外部同步不得覆盖本地取消状态
func TestFormRepositoryCreateOrUpdatePreservesLocalFields(t *testing.T) {
	repo := NewFormRepository(newTestDB(t), nil, newTestLogger())

	_, err := repo.Create(sampleForm("PSN-008"))
	require.NoError(t, err)
	_, err = repo.Cancel("PSN-008", "cancelled locally", "u-1")
	require.NoError(t, err)

	// BPM 侧上报的快照没有取消概念
	now := time.Now()
	incoming := sampleForm("PSN-008")
	incoming.Status = model.FormStatusApproved
	incoming.BpmStatus = "COMPLETED"
	incoming.IsSyncedToBpm = true
	incoming.LastSyncTime = &now

	saved, err := repo.CreateOrUpdate(incoming)
	require.NoError(t, err)

	assert.True(t, saved.IsCancelled)
	assert.Equal(t, "cancelled locally", saved.CancelReason)
	assert.Equal(t, "u-1", saved.CancelledBy)
	require.NotNil(t, saved.CancelTime)
	// 外部可变字段照常合并
	assert.Equal(t, "COMPLETED", saved.BpmStatus)
	assert.True(t, saved.IsSyncedToBpm)
}

// TestFormRepositoryCreateOrUpdateFillsGaps 既有行缺值时从快照补齐
func TestFormRepositoryCreateOrUpdateFillsGaps(t *testing.T) {
	repo := NewFormRepository(newTestDB(t), nil, newTestLogger())

	// 推送只带了最小字段
	base := &model.FormModel{
		FormID:   "PSN-009",
		FormType: model.FormTypeOther,
		Status:   model.FormStatusPending,
	}
	_, err := repo.Create(base)
	require.NoError(t, err)

	richer := sampleForm("PSN-009")
	saved, err := repo.CreateOrUpdate(richer)
	require.NoError(t, err)

	assert.Equal(t, "HR_LEAVE_V2", saved.FormCode)
	assert.Equal(t, model.FormTypeLeave, saved.FormType)
	assert.Equal(t, "u-1001", saved.ApplicantID)
	assert.Equal(t, "c-01", saved.CompanyID)
}
