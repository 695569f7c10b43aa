package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BPM 引擎调用计数与耗时
	bpmRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bpm_requests_total",
			Help: "Total number of BPM engine requests",
		},
		[]string{"operation", "result"},
	)

	bpmRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bpm_request_duration_seconds",
			Help:    "BPM engine request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// 表单同步结果计数
	formSyncsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_syncs_total",
			Help: "Total number of form sync attempts",
		},
		[]string{"result"}, // success, fetch_failed, partial
	)

	// 批量推送条目计数
	ingestItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_items_total",
			Help: "Total number of pushed batch items",
		},
		[]string{"outcome"}, // persisted, skipped, failed
	)

	// 镜像库写失败计数
	mirrorFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_write_failures_total",
			Help: "Total number of secondary store write failures",
		},
		[]string{"op"},
	)

	// 数据库连接数(区分主库/镜像库)
	databaseConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
		[]string{"store"},
	)

	databaseConnectionsIdle = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
		[]string{"store"},
	)

	databaseConnectionsMax = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
		[]string{"store"},
	)

	// 表单状态分布
	formsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forms_by_status",
			Help: "Number of forms by status",
		},
		[]string{"status"},
	)
)

var (
	once sync.Once
)

func init() {
	// 注册指标
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(bpmRequestsTotal)
	prometheus.MustRegister(bpmRequestDuration)
	prometheus.MustRegister(formSyncsTotal)
	prometheus.MustRegister(ingestItemsTotal)
	prometheus.MustRegister(mirrorFailuresTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)
	prometheus.MustRegister(formsByStatus)

	// 注册 Go 运行时指标（只注册一次）
	once.Do(func() {
		// 尝试注册 Go 运行时指标，如果已注册则忽略错误
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordBPMRequest 记录 BPM 引擎调用
func RecordBPMRequest(operation string, success bool, duration float64) {
	result := "success"
	if !success {
		result = "failure"
	}
	bpmRequestsTotal.WithLabelValues(operation, result).Inc()
	bpmRequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordFormSync 记录一次表单同步结果
func RecordFormSync(result string) {
	formSyncsTotal.WithLabelValues(result).Inc()
}

// RecordIngestItem 记录批量推送条目处理结果
func RecordIngestItem(outcome string) {
	ingestItemsTotal.WithLabelValues(outcome).Inc()
}

// RecordMirrorFailure 记录镜像库写失败
func RecordMirrorFailure(op string) {
	mirrorFailuresTotal.WithLabelValues(op).Inc()
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(store string, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.WithLabelValues(store).Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.WithLabelValues(store).Set(float64(stats.Idle))
	databaseConnectionsMax.WithLabelValues(store).Set(float64(stats.MaxOpenConnections))

	return nil
}

// UpdateFormsByStatus 更新表单状态分布指标
func UpdateFormsByStatus(status string, count float64) {
	formsByStatus.WithLabelValues(status).Set(count)
}
