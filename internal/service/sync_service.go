package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/hrops/forms-gateway/internal/bpm"
	"github.com/hrops/forms-gateway/internal/metrics"
	"github.com/hrops/forms-gateway/internal/model"
	"github.com/hrops/forms-gateway/internal/repository"
)

// 业务结果码
// 调用方拿到的是稳定的结果码,不是引擎或数据库的原始报错
const (
	CodeSuccess          = "SUCCESS"
	CodeBPMFetchFailed   = "BPM_FETCH_FAILED"
	CodeFormNotFound     = "FORM_NOT_FOUND"
	CodeAlreadyCancelled = "ALREADY_CANCELLED"
	CodeCancelled        = "CANCELLED"
	CodeBPMSyncPending   = "BPM_SYNC_PENDING"
)

// EngineClient BPM 引擎客户端接口
type EngineClient interface {
	FetchFormDetail(ctx context.Context, formID string) (map[string]interface{}, error)
	SearchProcessInstances(ctx context.Context, formID, processCode string) ([]interface{}, error)
	CancelProcess(ctx context.Context, formID, operatorID, reason string) error
}

// SyncResult 同步结果
type SyncResult struct {
	Code    string           `json:"code"`
	Message string           `json:"message,omitempty"`
	Form    *model.FormModel `json:"form,omitempty"`
}

// CancelRequest 取消表单请求
// @Description 取消表单的请求参数
type CancelRequest struct {
	FormID         string `json:"form_id"`             // 表单 ID,接口层以路径参数为准
	Reason         string `json:"reason"`              // 取消原因
	OperatorID     string `json:"operator_id"`         // 操作人 ID
	PropagateToBPM bool   `json:"propagate_to_bpm"`    // 是否向 BPM 引擎传播取消
	FormTypeHint   string `json:"form_type,omitempty"` // 表单类型提示(可选)
}

// CancelResult 取消结果
type CancelResult struct {
	Code    string           `json:"code"`
	Message string           `json:"message,omitempty"`
	Form    *model.FormModel `json:"form,omitempty"`
}

// SyncService 表单同步服务接口
// 单表单的状态机:ABSENT -> FETCHING -> {PERSISTED, FETCH_FAILED}
type SyncService interface {
	EnsureExists(ctx context.Context, formID, typeHint string) (*model.FormModel, error)
	SyncFromBPM(ctx context.Context, formID, typeHint, operatorID string) (*SyncResult, error)
	Cancel(ctx context.Context, req *CancelRequest) (*CancelResult, error)
}

// syncService 表单同步服务实现
type syncService struct {
	engine       EngineClient
	formRepo     repository.FormRepository
	syncLogRepo  repository.SyncLogRepository
	historyRepo  repository.ApprovalHistoryRepository
	processCodes map[string]string // 表单类型 -> BPM 流程编码,实例检索回落用
	logger       *logrus.Logger
}

// NewSyncService 创建表单同步服务
func NewSyncService(
	engine EngineClient,
	formRepo repository.FormRepository,
	syncLogRepo repository.SyncLogRepository,
	historyRepo repository.ApprovalHistoryRepository,
	processCodes map[string]string,
	logger *logrus.Logger,
) SyncService {
	return &syncService{
		engine:       engine,
		formRepo:     formRepo,
		syncLogRepo:  syncLogRepo,
		historyRepo:  historyRepo,
		processCodes: processCodes,
		logger:       logger,
	}
}

// EnsureExists 确保表单在本地存在
// 本地有行即为本次调用的权威结果,不触发外部拉取;
// 缺失时同步拉取,拉取失败返回 (nil, nil),由调用方决定如何呈现
func (s *syncService) EnsureExists(ctx context.Context, formID, typeHint string) (*model.FormModel, error) {
	existing, err := s.formRepo.GetByID(formID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	result, err := s.SyncFromBPM(ctx, formID, typeHint, "")
	if err != nil {
		return nil, err
	}
	if result.Code != CodeSuccess {
		return nil, nil
	}
	return result.Form, nil
}

// SyncFromBPM 从 BPM 引擎拉取并落库
// 拉取/解析失败是可恢复条件:记 FAILED 日志后返回 BPM_FETCH_FAILED 结果码;
// 主库写失败才作为错误向上传播
func (s *syncService) SyncFromBPM(ctx context.Context, formID, typeHint, operatorID string) (*SyncResult, error) {
	payload, form, err := s.fetchNormalized(ctx, formID, typeHint)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"form_id":   formID,
			"form_type": typeHint,
		}).WithError(err).Warn("failed to fetch form from bpm engine")

		s.syncLogRepo.Append(&model.SyncLogModel{
			FormID:        formID,
			SyncType:      model.SyncTypeFetch,
			SyncDirection: model.SyncDirectionIn,
			SyncStatus:    model.SyncStatusFailed,
			ErrorMessage:  err.Error(),
			OperatorID:    operatorID,
		})
		metrics.RecordFormSync("fetch_failed")
		return &SyncResult{
			Code:    CodeBPMFetchFailed,
			Message: "form is temporarily unavailable from the bpm engine",
		}, nil
	}

	// 主库写入必须成功;CreateOrUpdate 的合并集不含本地取消字段,
	// 已取消的表单同步后取消状态原样保留
	saved, err := s.formRepo.CreateOrUpdate(form)
	if err != nil {
		return nil, fmt.Errorf("failed to persist synced form: %w", err)
	}

	s.appendNewApprovalHistory(formID, payload)

	s.syncLogRepo.Append(&model.SyncLogModel{
		FormID:           formID,
		SyncType:         model.SyncTypeFetch,
		SyncDirection:    model.SyncDirectionIn,
		SyncStatus:       model.SyncStatusSuccess,
		ResponseSnapshot: marshalSnapshot(payload),
		OperatorID:       operatorID,
	})
	metrics.RecordFormSync("success")

	return &SyncResult{Code: CodeSuccess, Form: saved}, nil
}

// Cancel 取消表单
// 本地取消权威且即时生效;向引擎传播尽力而为,传播失败落 PARTIAL 日志并
// 在表单上记 SyncErrorMessage,对调用方呈现为"已取消,BPM 待同步"而非失败
func (s *syncService) Cancel(ctx context.Context, req *CancelRequest) (*CancelResult, error) {
	// 网关从未见过的表单也可能在引擎侧真实存在,先确保本地有行
	form, err := s.EnsureExists(ctx, req.FormID, req.FormTypeHint)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return &CancelResult{
			Code:    CodeFormNotFound,
			Message: "form does not exist locally or in the bpm engine",
		}, nil
	}

	cancelled, err := s.formRepo.Cancel(req.FormID, req.Reason, req.OperatorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFormNotFound):
			return &CancelResult{Code: CodeFormNotFound, Message: "form not found"}, nil
		case errors.Is(err, repository.ErrAlreadyCancelled):
			return &CancelResult{Code: CodeAlreadyCancelled, Message: "form is already cancelled"}, nil
		default:
			return nil, err
		}
	}

	if !req.PropagateToBPM {
		return &CancelResult{Code: CodeCancelled, Form: cancelled}, nil
	}

	if err := s.engine.CancelProcess(ctx, req.FormID, req.OperatorID, req.Reason); err != nil {
		s.logger.WithField("form_id", req.FormID).
			WithError(err).Warn("failed to propagate cancellation to bpm engine")

		cancelled.IsSyncedToBpm = false
		cancelled.SyncErrorMessage = err.Error()
		if updated, uerr := s.formRepo.Update(cancelled); uerr == nil {
			cancelled = updated
		}

		s.syncLogRepo.Append(&model.SyncLogModel{
			FormID:        req.FormID,
			SyncType:      model.SyncTypeCancel,
			SyncDirection: model.SyncDirectionOut,
			SyncStatus:    model.SyncStatusPartial,
			ErrorMessage:  err.Error(),
			OperatorID:    req.OperatorID,
		})
		metrics.RecordFormSync("partial")
		return &CancelResult{
			Code:    CodeBPMSyncPending,
			Message: "cancelled locally, bpm sync pending",
			Form:    cancelled,
		}, nil
	}

	s.syncLogRepo.Append(&model.SyncLogModel{
		FormID:        req.FormID,
		SyncType:      model.SyncTypeCancel,
		SyncDirection: model.SyncDirectionOut,
		SyncStatus:    model.SyncStatusSuccess,
		OperatorID:    req.OperatorID,
	})
	return &CancelResult{Code: CodeCancelled, Form: cancelled}, nil
}

// fetchNormalized 拉取并规范化表单
// 先试表单详情接口;详情不可得或结构不可识别时回落到流程实例检索
func (s *syncService) fetchNormalized(ctx context.Context, formID, typeHint string) (map[string]interface{}, *model.FormModel, error) {
	payload, err := s.engine.FetchFormDetail(ctx, formID)
	if err == nil {
		form, nerr := bpm.Normalize(payload, formID, typeHint)
		if nerr == nil {
			return payload, form, nil
		}
		err = nerr
	}

	instances, serr := s.engine.SearchProcessInstances(ctx, formID, s.processCodes[typeHint])
	if serr != nil {
		return nil, nil, fmt.Errorf("form detail failed (%v), instance search failed: %w", err, serr)
	}
	form, nerr := bpm.NormalizeInstanceList(instances, formID, typeHint)
	if nerr != nil {
		return nil, nil, fmt.Errorf("form detail failed (%v), instance search: %w", err, nerr)
	}
	return map[string]interface{}{"instances": instances}, form, nil
}

// appendNewApprovalHistory 把引擎上报的新审批动作追加到历史
// 任何失败只记日志,不影响表单同步本身
func (s *syncService) appendNewApprovalHistory(formID string, payload map[string]interface{}) {
	entries := bpm.ExtractApprovalHistory(payload, formID)
	if len(entries) == 0 {
		return
	}
	next, err := s.historyRepo.NextSequenceNo(formID)
	if err != nil {
		s.logger.WithField("form_id", formID).
			WithError(err).Warn("failed to determine next approval sequence")
		return
	}

	// 序号按引擎上报的原始位置编号,跳过的坏记录会留下空洞,
	// 必须按序号而不是切片位置筛新动作
	var fresh []*model.ApprovalHistoryModel
	for _, entry := range entries {
		if entry.SequenceNo >= next {
			fresh = append(fresh, entry)
		}
	}
	if len(fresh) == 0 {
		return
	}
	s.historyRepo.Append(fresh...)
}

// marshalSnapshot 序列化响应快照,失败时留空
func marshalSnapshot(payload interface{}) datatypes.JSON {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
