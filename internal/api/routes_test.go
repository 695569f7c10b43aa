package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hrops/forms-gateway/internal/config"
	"github.com/hrops/forms-gateway/internal/database"
	"github.com/hrops/forms-gateway/internal/model"
	"github.com/hrops/forms-gateway/internal/repository"
	"github.com/hrops/forms-gateway/internal/service"
)

const testBsKey = "push-secret"

// stubEngine 路由测试用的引擎替身
type stubEngine struct {
	detail    map[string]interface{}
	detailErr error
	pingErr   error
}

func (s *stubEngine) FetchFormDetail(ctx context.Context, formID string) (map[string]interface{}, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.detail, nil
}

func (s *stubEngine) SearchProcessInstances(ctx context.Context, formID, processCode string) ([]interface{}, error) {
	return nil, errors.New("no instances")
}

func (s *stubEngine) CancelProcess(ctx context.Context, formID, operatorID, reason string) error {
	return nil
}

func (s *stubEngine) Ping(ctx context.Context) error {
	return s.pingErr
}

// newTestRouter 在内存库上装配完整路由
func newTestRouter(t *testing.T, engine *stubEngine) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	forms := repository.NewFormRepository(db, nil, logger)
	logs := repository.NewSyncLogRepository(db, nil, logger)
	history := repository.NewApprovalHistoryRepository(db, nil, logger)

	syncSvc := service.NewSyncService(engine, forms, logs, history, nil, logger)
	ingestSvc := service.NewIngestService(engine, forms, logs, testBsKey, logger)
	querySvc := service.NewQueryService(db, history, logs)
	statsSvc := service.NewStatisticsService(db)

	cfg := config.Default()
	router := SetupRoutes(cfg, Controllers{
		Form:       NewFormController(syncSvc, querySvc),
		Ingest:     NewIngestController(ingestSvc),
		Statistics: NewStatisticsController(statsSvc),
		Health:     NewHealthController(db, nil, engine),
	}, nil)

	return router, db
}

// TestPushEndpointInvalidBsKey 密钥不符时 HTTP 仍为 200,业务码 203
func TestPushEndpointInvalidBsKey(t *testing.T) {
	router, db := newTestRouter(t, &stubEngine{})

	body := `{"bskey":"wrong","companyId":"c-01","bpmData":[{"processSerialNo":"PSN-001"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bpm/push", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"203"`)

	var count int64
	require.NoError(t, db.Model(&model.FormModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

// TestPushEndpointSuccess 合法批次落库并返回 200 业务码
func TestPushEndpointSuccess(t *testing.T) {
	router, db := newTestRouter(t, &stubEngine{detailErr: errors.New("engine down")})

	body := `{"bskey":"push-secret","companyId":"c-01","bpmData":[{"processSerialNo":"PSN-002","formCode":"HR_LEAVE_V2","uid":"u-1"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bpm/push", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"200"`)

	var count int64
	require.NoError(t, db.Model(&model.FormModel{}).Where("form_id = ?", "PSN-002").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestPushEndpointMalformedBody 非法 JSON 返回业务码 203
func TestPushEndpointMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bpm/push", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"203"`)
}

// TestGetFormInvalidID 非法表单 ID 返回 400
func TestGetFormInvalidID(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/bad%20id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetFormNotFound 本地缺失且引擎不可达返回 404
func TestGetFormNotFound(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{detailErr: errors.New("engine down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/PSN-404", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestGetFormFetchesFromEngine 本地缺失时经引擎拉取后返回
func TestGetFormFetchesFromEngine(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{detail: map[string]interface{}{
		"status":   "RUNNING",
		"userId":   "u-1001",
		"formCode": "HR_LEAVE_V2",
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/PSN-005", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-1001")
	assert.Contains(t, w.Body.String(), model.FormStatusProcessing)
}

// TestCancelFormEndpoint 取消接口闭环
func TestCancelFormEndpoint(t *testing.T) {
	router, db := newTestRouter(t, &stubEngine{detail: map[string]interface{}{
		"status": "RUNNING", "userId": "u-1", "formCode": "HR_LEAVE_V2",
	}})

	body := `{"reason":"wrong dates","operator_id":"u-1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/PSN-006/cancel", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), service.CodeCancelled)

	var form model.FormModel
	require.NoError(t, db.Where("form_id = ?", "PSN-006").First(&form).Error)
	assert.True(t, form.IsCancelled)
}

// TestHealthEndpoint 主库健康时返回 200
func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"primary_database":"healthy"`)
}

// TestHealthEndpointEngineDown 引擎不可达只降级,不算不健康
func TestHealthEndpointEngineDown(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{pingErr: errors.New("engine down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

// TestRequestIDHeader 响应带上请求 ID,透传调用方的值
func TestRequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "rid-123", w.Header().Get("X-Request-ID"))

	// 未传入时自动生成
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// TestSecurityHeaders 安全头齐全
func TestSecurityHeaders(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

// TestMetricsEndpoint Prometheus 指标可抓取
func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, &stubEngine{})

	// 先打一次业务请求,保证计数器有样本可导出
	warm := httptest.NewRecorder()
	router.ServeHTTP(warm, httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "api_requests_total")
}
