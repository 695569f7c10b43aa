package bpm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
	"github.com/sirupsen/logrus"

	"github.com/hrops/forms-gateway/internal/metrics"
)

// Client BPM 引擎 HTTP 客户端
// 引擎的响应外层是 {code, msg, data},code 可能是字符串也可能是数字
type Client struct {
	http   *req.Client
	logger *logrus.Logger
}

// engineResponse BPM 引擎响应外层
type engineResponse struct {
	Code interface{}     `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// NewClient 创建 BPM 引擎客户端
func NewClient(baseURL, appKey string, timeout time.Duration, logger *logrus.Logger) *Client {
	httpClient := req.C().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetCommonHeader("X-App-Key", appKey).
		SetCommonContentType("application/json")

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// FetchFormDetail 按流程序列号获取表单详情
// 返回引擎的原始键值树,由 Normalize 做字段提取
func (c *Client) FetchFormDetail(ctx context.Context, formID string) (map[string]interface{}, error) {
	start := time.Now()
	var envelope engineResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("processSerialNo", formID).
		SetSuccessResult(&envelope).
		Get("/open/api/form/detail")
	metrics.RecordBPMRequest("form_detail", err == nil && resp.IsSuccessState(), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch form detail: %w", err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("bpm engine returned http status %s", resp.Status)
	}
	if !isSuccessCode(envelope.Code) {
		return nil, fmt.Errorf("bpm engine rejected form detail request: %s", envelope.Msg)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode form detail payload: %w", err)
	}
	return payload, nil
}

// SearchProcessInstances 按序列号和流程编码检索流程实例列表
func (c *Client) SearchProcessInstances(ctx context.Context, formID, processCode string) ([]interface{}, error) {
	start := time.Now()
	var envelope engineResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("serialNo", formID).
		SetQueryParam("processCode", processCode).
		SetSuccessResult(&envelope).
		Get("/open/api/process/instances")
	metrics.RecordBPMRequest("instance_search", err == nil && resp.IsSuccessState(), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to search process instances: %w", err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("bpm engine returned http status %s", resp.Status)
	}
	if !isSuccessCode(envelope.Code) {
		return nil, fmt.Errorf("bpm engine rejected instance search: %s", envelope.Msg)
	}

	var instances []interface{}
	if err := json.Unmarshal(envelope.Data, &instances); err != nil {
		return nil, fmt.Errorf("failed to decode instance list payload: %w", err)
	}
	return instances, nil
}

// CancelProcess 请求引擎终止流程实例
func (c *Client) CancelProcess(ctx context.Context, formID, operatorID, reason string) error {
	start := time.Now()
	var envelope engineResponse

	body := map[string]string{
		"processSerialNo": formID,
		"operatorId":      operatorID,
		"reason":          reason,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetSuccessResult(&envelope).
		Post("/open/api/process/cancel")
	metrics.RecordBPMRequest("process_cancel", err == nil && resp.IsSuccessState(), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to cancel process: %w", err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("bpm engine returned http status %s", resp.Status)
	}
	if !isSuccessCode(envelope.Code) {
		return fmt.Errorf("bpm engine rejected cancel request: %s", envelope.Msg)
	}
	return nil
}

// Ping 探测引擎可达性,健康检查用
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/open/api/ping")
	if err != nil {
		return fmt.Errorf("bpm engine unreachable: %w", err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("bpm engine returned http status %s", resp.Status)
	}
	return nil
}

// isSuccessCode 引擎的成功码不统一,字符串和数字形式的 200/0 都认作成功
func isSuccessCode(code interface{}) bool {
	switch v := code.(type) {
	case string:
		return v == "200" || v == "0" || v == "success"
	case float64:
		return v == 200 || v == 0
	case nil:
		// 部分接口成功时不回 code
		return true
	}
	return false
}
