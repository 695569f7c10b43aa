package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hrops/forms-gateway/internal/bpm"
	"github.com/hrops/forms-gateway/internal/metrics"
	"github.com/hrops/forms-gateway/internal/model"
	"github.com/hrops/forms-gateway/internal/repository"
	"github.com/hrops/forms-gateway/internal/utils"
)

// 推送响应码,沿用 BPM 中间件约定的字符串码
const (
	PushCodeOK         = "200"
	PushCodeBadRequest = "203"
	PushCodeFailed     = "500"
)

// PushItem 推送批次中的单条表单事件
type PushItem struct {
	ProcessSerialNo string `json:"processSerialNo"`
	FormCode        string `json:"formCode,omitempty"`
	Version         string `json:"version,omitempty"`
	UID             string `json:"uid,omitempty"`
}

// PushRequest 批量推送请求
// @Description BPM 中间件推送的表单事件批次
type PushRequest struct {
	BsKey     string     `json:"bskey"`
	CompanyID string     `json:"companyId"`
	BpmData   []PushItem `json:"bpmData"`
}

// PushResult 批量推送处理结果
type PushResult struct {
	Code      string `json:"code"`
	Msg       string `json:"msg"`
	Processed int    `json:"-"`
	Failed    int    `json:"-"`
}

// IngestService 批量推送服务接口
type IngestService interface {
	ProcessPush(ctx context.Context, req *PushRequest) *PushResult
	UpdateBsKey(bsKey string)
}

// ingestService 批量推送服务实现
// 每条推送独立落库,单条失败不影响批次内其他条目
type ingestService struct {
	engine   EngineClient
	formRepo repository.FormRepository
	syncLogs repository.SyncLogRepository
	bsKey    string
	bsKeyMu  sync.RWMutex
	logger   *logrus.Logger
}

// NewIngestService 创建批量推送服务
func NewIngestService(
	engine EngineClient,
	formRepo repository.FormRepository,
	syncLogs repository.SyncLogRepository,
	bsKey string,
	logger *logrus.Logger,
) IngestService {
	return &ingestService{
		engine:   engine,
		formRepo: formRepo,
		syncLogs: syncLogs,
		bsKey:    bsKey,
		logger:   logger,
	}
}

// UpdateBsKey 轮换推送密钥
// 配置热加载时调用,正在处理中的批次仍按旧密钥判定
func (s *ingestService) UpdateBsKey(bsKey string) {
	s.bsKeyMu.Lock()
	s.bsKey = bsKey
	s.bsKeyMu.Unlock()
}

// currentBsKey 读取当前生效的推送密钥
func (s *ingestService) currentBsKey() string {
	s.bsKeyMu.RLock()
	defer s.bsKeyMu.RUnlock()
	return s.bsKey
}

// ProcessPush 处理一个推送批次
// 密钥或参数不合法在任何副作用之前硬拒绝(203);
// 至少一条成功即整体成功(200),常见故障是批次里夹几条坏数据
func (s *ingestService) ProcessPush(ctx context.Context, req *PushRequest) *PushResult {
	if req == nil || !utils.SecureCompare(req.BsKey, s.currentBsKey()) {
		return &PushResult{Code: PushCodeBadRequest, Msg: "invalid bskey"}
	}
	if req.CompanyID == "" {
		return &PushResult{Code: PushCodeBadRequest, Msg: "companyId is required"}
	}
	if len(req.BpmData) == 0 {
		return &PushResult{Code: PushCodeBadRequest, Msg: "bpmData is empty"}
	}

	processed, failed := 0, 0
	for i := range req.BpmData {
		if err := s.processItem(ctx, req.CompanyID, &req.BpmData[i]); err != nil {
			failed++
			s.logger.WithFields(logrus.Fields{
				"company_id": req.CompanyID,
				"serial_no":  req.BpmData[i].ProcessSerialNo,
			}).WithError(err).Warn("failed to ingest pushed form event")
			continue
		}
		processed++
	}

	if processed == 0 {
		return &PushResult{
			Code:   PushCodeFailed,
			Msg:    fmt.Sprintf("failed to process all %d records", failed),
			Failed: failed,
		}
	}
	return &PushResult{
		Code:      PushCodeOK,
		Msg:       fmt.Sprintf("processed %d records", processed),
		Processed: processed,
		Failed:    failed,
	}
}

// processItem 落库一条推送事件
// 缺序列号直接算失败,不落半条记录;更详细的表单详情拉取尽力而为,
// 拉不到也要把基础记录存下来
func (s *ingestService) processItem(ctx context.Context, companyID string, item *PushItem) error {
	if item.ProcessSerialNo == "" {
		metrics.RecordIngestItem("skipped")
		return fmt.Errorf("missing processSerialNo")
	}

	formType := bpm.InferFormType(item.FormCode)
	form := &model.FormModel{
		FormID:      item.ProcessSerialNo,
		FormCode:    item.FormCode,
		FormType:    formType,
		FormVersion: item.Version,
		ApplicantID: item.UID,
		CompanyID:   companyID,
		Status:      model.FormStatusPending,
	}

	if payload, err := s.engine.FetchFormDetail(ctx, item.ProcessSerialNo); err == nil {
		if richer, nerr := bpm.Normalize(payload, item.ProcessSerialNo, formType); nerr == nil {
			if richer.CompanyID == "" {
				richer.CompanyID = companyID
			}
			if richer.FormCode == "" {
				richer.FormCode = item.FormCode
			}
			if richer.FormVersion == "" {
				richer.FormVersion = item.Version
			}
			if richer.ApplicantID == "" {
				richer.ApplicantID = item.UID
			}
			form = richer
		}
	}

	if _, err := s.formRepo.CreateOrUpdate(form); err != nil {
		metrics.RecordIngestItem("failed")
		s.syncLogs.Append(&model.SyncLogModel{
			FormID:        item.ProcessSerialNo,
			SyncType:      model.SyncTypePush,
			SyncDirection: model.SyncDirectionIn,
			SyncStatus:    model.SyncStatusFailed,
			ErrorMessage:  err.Error(),
		})
		return err
	}

	metrics.RecordIngestItem("persisted")
	s.syncLogs.Append(&model.SyncLogModel{
		FormID:        item.ProcessSerialNo,
		SyncType:      model.SyncTypePush,
		SyncDirection: model.SyncDirectionIn,
		SyncStatus:    model.SyncStatusSuccess,
	})
	return nil
}
