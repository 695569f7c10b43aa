package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hrops/forms-gateway/internal/config"
	"github.com/hrops/forms-gateway/internal/model"
)

// BuildDSN 按驱动构建 DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	switch cfg.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
	case "sqlite":
		// DBName 直接作为文件路径,测试场景用 :memory:
		return cfg.DBName
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	}
}

// openDialector 按驱动选择 gorm dialector
func openDialector(cfg config.DatabaseConfig) gorm.Dialector {
	dsn := BuildDSN(cfg)
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(dsn)
	case "sqlite":
		return sqlite.Open(dsn)
	default:
		return postgres.Open(dsn)
	}
}

// Connect 连接数据库并配置连接池
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(openDialector(cfg), &gorm.Config{
		// 镜像写依赖明确的重复键错误做幂等合并
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 100
	}
	maxLifetime := cfg.ConnMaxLifetime
	if maxLifetime <= 0 {
		maxLifetime = 3600
	}
	maxIdleTime := cfg.ConnMaxIdleTime
	if maxIdleTime <= 0 {
		maxIdleTime = 600
	}

	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(maxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(maxIdleTime) * time.Second)

	return db, nil
}

// ConnectWithRetry 带指数退避重试的数据库连接
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	dialector := db.Dialector.Name()

	// SQLite 不支持 jsonb,需要手动建表(TEXT 替代 jsonb)
	// GORM SQLite dialector 的名称可能是 "sqlite" 或 "sqlite3"
	if dialector == "sqlite" || dialector == "sqlite3" {
		if err := createSQLiteTables(db); err != nil {
			return fmt.Errorf("failed to create SQLite tables: %w", err)
		}
	} else {
		if err := db.AutoMigrate(
			&model.FormModel{},
			&model.SyncLogModel{},
			&model.ApprovalHistoryModel{},
		); err != nil {
			return fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createSQLiteTables 为 SQLite 手动创建表(使用 TEXT 替代 jsonb)
func createSQLiteTables(db *gorm.DB) error {
	// 创建 forms 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS forms (
			form_id VARCHAR(64) PRIMARY KEY,
			form_code VARCHAR(64),
			form_type VARCHAR(32) NOT NULL,
			form_version VARCHAR(16),
			applicant_id VARCHAR(64),
			applicant_name VARCHAR(128),
			applicant_dept VARCHAR(128),
			company_id VARCHAR(64),
			status VARCHAR(32) NOT NULL,
			bpm_status VARCHAR(32),
			current_approver_id VARCHAR(64),
			current_approver_name VARCHAR(128),
			approval_comment TEXT,
			form_data TEXT,
			apply_date DATETIME,
			is_cancelled BOOLEAN NOT NULL DEFAULT 0,
			cancel_reason TEXT,
			cancel_time DATETIME,
			cancelled_by VARCHAR(64),
			is_synced_to_bpm BOOLEAN NOT NULL DEFAULT 0,
			last_sync_time DATETIME,
			sync_error_message TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create forms table: %w", err)
	}

	// 创建 sync_logs 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sync_logs (
			id VARCHAR(64) PRIMARY KEY,
			form_id VARCHAR(64) NOT NULL,
			sync_type VARCHAR(16) NOT NULL,
			sync_direction VARCHAR(8) NOT NULL,
			sync_status VARCHAR(16) NOT NULL,
			request_snapshot TEXT,
			response_snapshot TEXT,
			error_message TEXT,
			operator_id VARCHAR(64),
			sync_time DATETIME NOT NULL,
			created_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create sync_logs table: %w", err)
	}

	// 创建 approval_history 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS approval_history (
			id VARCHAR(64) PRIMARY KEY,
			form_id VARCHAR(64) NOT NULL,
			sequence_no INTEGER NOT NULL,
			approver_id VARCHAR(64),
			approver_name VARCHAR(128),
			action VARCHAR(32),
			comment TEXT,
			action_time DATETIME,
			created_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create approval_history table: %w", err)
	}

	return nil
}

// CreateIndexes 创建数据库索引
// MySQL 不支持 CREATE INDEX IF NOT EXISTS,镜像库的索引
// 由 AutoMigrate 按模型标签创建,这里只补 postgres/sqlite 的手动索引
func CreateIndexes(db *gorm.DB) error {
	dialector := db.Dialector.Name()
	if dialector == "mysql" {
		return nil
	}

	// forms 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_forms_type_status ON forms(form_type, status)").Error; err != nil {
		return fmt.Errorf("failed to create idx_forms_type_status: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_forms_applicant_id ON forms(applicant_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_forms_applicant_id: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_forms_company_id ON forms(company_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_forms_company_id: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_forms_updated_at ON forms(updated_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_forms_updated_at: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_forms_is_cancelled ON forms(is_cancelled)").Error; err != nil {
		return fmt.Errorf("failed to create idx_forms_is_cancelled: %w", err)
	}

	// sync_logs 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_sync_logs_form_id ON sync_logs(form_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_sync_logs_form_id: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_sync_logs_sync_time ON sync_logs(sync_time)").Error; err != nil {
		return fmt.Errorf("failed to create idx_sync_logs_sync_time: %w", err)
	}

	// approval_history 表索引,(form_id, sequence_no) 唯一兜底重复追加
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_history_form_seq ON approval_history(form_id, sequence_no)").Error; err != nil {
		return fmt.Errorf("failed to create idx_history_form_seq: %w", err)
	}

	// PostgreSQL 特定的 GIN 索引
	if dialector == "postgres" {
		if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_forms_form_data_gin ON forms USING GIN (form_data)").Error; err != nil {
			return fmt.Errorf("failed to create idx_forms_form_data_gin: %w", err)
		}
	}

	return nil
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx) == nil
}

// Reconnect 重新连接数据库
func Reconnect(cfg config.DatabaseConfig, oldDB *gorm.DB) (*gorm.DB, error) {
	if oldDB != nil {
		if sqlDB, err := oldDB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return Connect(cfg)
}
