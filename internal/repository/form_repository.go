package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrops/forms-gateway/internal/metrics"
	"github.com/hrops/forms-gateway/internal/model"
)

// 取消操作的典型失败,调用方据此映射为结果码而不是异常
var (
	ErrFormNotFound     = errors.New("form not found")
	ErrAlreadyCancelled = errors.New("form already cancelled")
)

// FormRepository 表单仓储接口
// 主库写入是权威路径,失败向上传播;镜像库写入尽力而为,失败只记日志
type FormRepository interface {
	GetByID(formID string) (*model.FormModel, error)
	Create(form *model.FormModel) (*model.FormModel, error)
	Update(form *model.FormModel) (*model.FormModel, error)
	CreateOrUpdate(form *model.FormModel) (*model.FormModel, error)
	Cancel(formID, reason, operatorID string) (*model.FormModel, error)
}

// formRepository 双库表单仓储实现
type formRepository struct {
	primary   *gorm.DB
	secondary *gorm.DB // 可为 nil(未配置镜像库)
	logger    *logrus.Logger
}

// NewFormRepository 创建表单仓储
func NewFormRepository(primary, secondary *gorm.DB, logger *logrus.Logger) FormRepository {
	return &formRepository{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// GetByID 根据表单 ID 查找表单,只读主库
// 不存在不是错误:缺失是常态,由上层决定是否去 BPM 拉取
func (r *formRepository) GetByID(formID string) (*model.FormModel, error) {
	var form model.FormModel
	err := r.primary.Where("form_id = ?", formID).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query form: %w", err)
	}
	return &form, nil
}

// Create 创建表单
// 主库主键冲突时回落到合并更新:并发同步同一表单时两个插入都能成功收敛
func (r *formRepository) Create(form *model.FormModel) (*model.FormModel, error) {
	now := time.Now()
	form.CreatedAt = now
	form.UpdatedAt = now

	if err := r.primary.Create(form).Error; err != nil {
		if !isDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to create form: %w", err)
		}
		// 已有同 ID 行,按更新处理
		existing, getErr := r.GetByID(form.FormID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, fmt.Errorf("failed to create form: %w", err)
		}
		mergeExternalFields(existing, form)
		return r.Update(existing)
	}

	r.mirror("create", form)
	return form, nil
}

// Update 更新表单
// 主库更新必须成功;镜像库缺行时按插入处理而不是报错
func (r *formRepository) Update(form *model.FormModel) (*model.FormModel, error) {
	form.UpdatedAt = time.Now()

	if err := r.primary.Save(form).Error; err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}

	r.mirror("update", form)
	return form, nil
}

// CreateOrUpdate 创建或更新表单
// 已存在时只把外部可变字段合并到现有行,本地专属字段天然不在合并集内
func (r *formRepository) CreateOrUpdate(form *model.FormModel) (*model.FormModel, error) {
	existing, err := r.GetByID(form.FormID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return r.Create(form)
	}

	mergeExternalFields(existing, form)
	return r.Update(existing)
}

// Cancel 取消表单
// 第二次取消返回 ErrAlreadyCancelled 且不触碰 UpdatedAt
func (r *formRepository) Cancel(formID, reason, operatorID string) (*model.FormModel, error) {
	form, err := r.GetByID(formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if form.IsCancelled {
		return nil, ErrAlreadyCancelled
	}

	now := time.Now()
	form.IsCancelled = true
	form.CancelReason = reason
	form.CancelTime = &now
	form.CancelledBy = operatorID
	form.Status = model.FormStatusCancelled

	return r.Update(form)
}

// mirror 镜像库尽力写入
// 用 upsert 保证镜像缺行时落成插入;任何错误都止步于此,记日志后丢弃
func (r *formRepository) mirror(op string, form *model.FormModel) {
	if r.secondary == nil {
		return
	}
	err := r.secondary.Clauses(clause.OnConflict{UpdateAll: true}).Create(form).Error
	if err != nil {
		metrics.RecordMirrorFailure(op)
		r.logger.WithFields(logrus.Fields{
			"form_id": form.FormID,
			"op":      op,
		}).WithError(err).Warn("secondary store write failed")
	}
}

// mergeExternalFields 把外部可变字段合并到现有行
// IsCancelled/CancelReason/CancelTime/CancelledBy 和 CreatedAt 不在合并集内,
// 本地取消状态永远压过 BPM 上报的状态
func mergeExternalFields(dst, src *model.FormModel) {
	dst.Status = src.Status
	dst.BpmStatus = src.BpmStatus
	dst.CurrentApproverID = src.CurrentApproverID
	dst.CurrentApproverName = src.CurrentApproverName
	dst.ApprovalComment = src.ApprovalComment
	dst.IsSyncedToBpm = src.IsSyncedToBpm
	dst.LastSyncTime = src.LastSyncTime
	if len(src.FormData) > 0 {
		dst.FormData = src.FormData
	}
	// 下列字段只在现有行缺值时补齐,BPM 不会改写它们
	if dst.FormCode == "" {
		dst.FormCode = src.FormCode
	}
	if dst.FormType == "" || dst.FormType == model.FormTypeOther {
		if src.FormType != "" {
			dst.FormType = src.FormType
		}
	}
	if dst.FormVersion == "" {
		dst.FormVersion = src.FormVersion
	}
	if dst.ApplicantID == "" {
		dst.ApplicantID = src.ApplicantID
	}
	if dst.ApplicantName == "" {
		dst.ApplicantName = src.ApplicantName
	}
	if dst.ApplicantDept == "" {
		dst.ApplicantDept = src.ApplicantDept
	}
	if dst.CompanyID == "" {
		dst.CompanyID = src.CompanyID
	}
	if dst.ApplyDate.IsZero() {
		dst.ApplyDate = src.ApplyDate
	}
}

// isDuplicateKeyError 判断是否为主键/唯一键冲突
// gorm 的错误翻译依赖方言配置,这里同时做字符串兜底
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
