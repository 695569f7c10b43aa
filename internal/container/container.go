package container

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hrops/forms-gateway/internal/api"
	"github.com/hrops/forms-gateway/internal/auth"
	"github.com/hrops/forms-gateway/internal/bpm"
	"github.com/hrops/forms-gateway/internal/config"
	"github.com/hrops/forms-gateway/internal/database"
	"github.com/hrops/forms-gateway/internal/metrics"
	"github.com/hrops/forms-gateway/internal/repository"
	"github.com/hrops/forms-gateway/internal/service"
)

// Container 依赖注入容器
// 管理数据库连接、BPM 客户端、仓储和服务的装配
type Container struct {
	cfg       *config.Config
	logger    *logrus.Logger
	primary   *gorm.DB
	secondary *gorm.DB

	engine    *bpm.Client
	validator *auth.TokenValidator

	formRepo    repository.FormRepository
	syncLogRepo repository.SyncLogRepository
	historyRepo repository.ApprovalHistoryRepository

	syncService       service.SyncService
	ingestService     service.IngestService
	queryService      service.QueryService
	statisticsService service.StatisticsService

	collector *metrics.Collector
}

// NewContainer 创建依赖注入容器
// 主库连接失败直接报错;镜像库连接失败只降级,不阻塞启动
func NewContainer(cfg *config.Config) (*Container, error) {
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 1. 主库:权威存储,带重试,失败即启动失败
	primary, err := database.ConnectWithRetry(cfg.PrimaryDatabase, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize primary database: %w", err)
	}
	if err := database.Migrate(primary); err != nil {
		return nil, fmt.Errorf("failed to migrate primary database: %w", err)
	}

	// 2. 镜像库:尽力而为,连不上降级为单库运行
	var secondary *gorm.DB
	if cfg.SecondaryDatabase.Enabled {
		secondary, err = database.ConnectWithRetry(cfg.SecondaryDatabase, 3, time.Second)
		if err != nil {
			logger.WithError(err).Warn("secondary database unavailable, running without mirror")
			secondary = nil
		} else if err := database.Migrate(secondary); err != nil {
			logger.WithError(err).Warn("failed to migrate secondary database, running without mirror")
			secondary = nil
		}
	}

	// 3. BPM 引擎客户端
	engine := bpm.NewClient(cfg.BPM.BaseURL, cfg.BPM.AppKey, cfg.BPM.Timeout(), logger)

	// 4. 客户端接口认证
	var validator *auth.TokenValidator
	if cfg.Auth.Enabled {
		validator = auth.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	}

	// 5. 仓储层
	formRepo := repository.NewFormRepository(primary, secondary, logger)
	syncLogRepo := repository.NewSyncLogRepository(primary, secondary, logger)
	historyRepo := repository.NewApprovalHistoryRepository(primary, secondary, logger)

	// 6. 服务层
	syncService := service.NewSyncService(engine, formRepo, syncLogRepo, historyRepo, cfg.BPM.ProcessCodes, logger)
	ingestService := service.NewIngestService(engine, formRepo, syncLogRepo, cfg.BPM.BsKey, logger)
	queryService := service.NewQueryService(primary, historyRepo, syncLogRepo)
	statisticsService := service.NewStatisticsService(primary)

	// 7. 指标收集器
	collector := metrics.NewCollector(primary, secondary, 15*time.Second)
	collector.Start()

	return &Container{
		cfg:               cfg,
		logger:            logger,
		primary:           primary,
		secondary:         secondary,
		engine:            engine,
		validator:         validator,
		formRepo:          formRepo,
		syncLogRepo:       syncLogRepo,
		historyRepo:       historyRepo,
		syncService:       syncService,
		ingestService:     ingestService,
		queryService:      queryService,
		statisticsService: statisticsService,
		collector:         collector,
	}, nil
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// PrimaryDB 获取主库连接
func (c *Container) PrimaryDB() *gorm.DB {
	return c.primary
}

// SecondaryDB 获取镜像库连接,未启用时为 nil
func (c *Container) SecondaryDB() *gorm.DB {
	return c.secondary
}

// Engine 获取 BPM 引擎客户端
func (c *Container) Engine() *bpm.Client {
	return c.engine
}

// TokenValidator 获取 Token 验证器,认证未启用时为 nil
func (c *Container) TokenValidator() *auth.TokenValidator {
	return c.validator
}

// FormRepository 获取表单仓储
func (c *Container) FormRepository() repository.FormRepository {
	return c.formRepo
}

// SyncService 获取同步服务
func (c *Container) SyncService() service.SyncService {
	return c.syncService
}

// IngestService 获取推送接入服务
func (c *Container) IngestService() service.IngestService {
	return c.ingestService
}

// QueryService 获取查询服务
func (c *Container) QueryService() service.QueryService {
	return c.queryService
}

// StatisticsService 获取统计服务
func (c *Container) StatisticsService() service.StatisticsService {
	return c.statisticsService
}

// Controllers 装配 HTTP 控制器
func (c *Container) Controllers() api.Controllers {
	return api.Controllers{
		Form:       api.NewFormController(c.syncService, c.queryService),
		Ingest:     api.NewIngestController(c.ingestService),
		Statistics: api.NewStatisticsController(c.statisticsService),
		Health:     api.NewHealthController(c.primary, c.secondary, c.engine),
	}
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.collector != nil {
		c.collector.Stop()
	}

	closeDB := func(db *gorm.DB) {
		if db == nil {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	closeDB(c.primary)
	closeDB(c.secondary)

	return nil
}
