package bpm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLogger 测试用静默日志
func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// TestClientFetchFormDetail 测试表单详情拉取
func TestClientFetchFormDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/open/api/form/detail", r.URL.Path)
		assert.Equal(t, "PSN-001", r.URL.Query().Get("processSerialNo"))
		assert.Equal(t, "test-key", r.Header.Get("X-App-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"200","msg":"ok","data":{"status":"ACTIVE","userId":"u-1"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second, newTestLogger())
	payload, err := client.FetchFormDetail(context.Background(), "PSN-001")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", payload["status"])
	assert.Equal(t, "u-1", payload["userId"])
}

// TestClientFetchFormDetailNumericCode 引擎返回数字 code 也认作成功
func TestClientFetchFormDetailNumericCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"msg":"ok","data":{"status":"COMPLETED"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second, newTestLogger())
	payload, err := client.FetchFormDetail(context.Background(), "PSN-002")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", payload["status"])
}

// TestClientFetchFormDetailRejected 业务错误码转成 error
func TestClientFetchFormDetailRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"403","msg":"invalid app key"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", 5*time.Second, newTestLogger())
	_, err := client.FetchFormDetail(context.Background(), "PSN-003")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid app key")
}

// TestClientSearchProcessInstances 测试实例检索
func TestClientSearchProcessInstances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/open/api/process/instances", r.URL.Path)
		assert.Equal(t, "PSN-004", r.URL.Query().Get("serialNo"))
		assert.Equal(t, "HR_LEAVE", r.URL.Query().Get("processCode"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"200","data":[{"serialNo":"PSN-004","status":"ACTIVE"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second, newTestLogger())
	instances, err := client.SearchProcessInstances(context.Background(), "PSN-004", "HR_LEAVE")
	require.NoError(t, err)
	require.Len(t, instances, 1)
}

// TestClientCancelProcess 测试流程取消
func TestClientCancelProcess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/open/api/process/cancel", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"0","msg":"cancelled"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second, newTestLogger())
	err := client.CancelProcess(context.Background(), "PSN-005", "op-1", "wrong form")
	assert.NoError(t, err)
}

// TestClientEngineUnreachable 引擎不可达返回网络错误
func TestClientEngineUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key", time.Second, newTestLogger())

	_, err := client.FetchFormDetail(context.Background(), "PSN-006")
	assert.Error(t, err)
	assert.Error(t, client.Ping(context.Background()))
}

// TestIsSuccessCode 引擎成功码的各种形态
func TestIsSuccessCode(t *testing.T) {
	assert.True(t, isSuccessCode("200"))
	assert.True(t, isSuccessCode("0"))
	assert.True(t, isSuccessCode("success"))
	assert.True(t, isSuccessCode(float64(200)))
	assert.True(t, isSuccessCode(float64(0)))
	assert.True(t, isSuccessCode(nil))
	assert.False(t, isSuccessCode("500"))
	assert.False(t, isSuccessCode(float64(403)))
	assert.False(t, isSuccessCode(true))
}
