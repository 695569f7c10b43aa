package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Env               string         `mapstructure:"env"` // 环境: development, production
	Server            ServerConfig   `mapstructure:"server"`
	PrimaryDatabase   DatabaseConfig `mapstructure:"primary_database"`
	SecondaryDatabase DatabaseConfig `mapstructure:"secondary_database"`
	BPM               BPMConfig      `mapstructure:"bpm"`
	Auth              AuthConfig     `mapstructure:"auth"`
	CORS              CORSConfig     `mapstructure:"cors"`
	Log               LogConfig      `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
// Driver 支持 postgres(主库)、mysql(镜像库)、sqlite(本地/测试)
type DatabaseConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 秒
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 秒
}

// BPMConfig BPM 引擎配置
type BPMConfig struct {
	BaseURL        string            `mapstructure:"base_url"`
	AppKey         string            `mapstructure:"app_key"`
	BsKey          string            `mapstructure:"bskey"` // 推送接口的预共享密钥
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
	ProcessCodes   map[string]string `mapstructure:"process_codes"` // 表单类型 -> 流程编码
}

// Timeout BPM 引擎调用超时
func (c BPMConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AuthConfig 客户端接口认证配置
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error
	Format string `mapstructure:"format"` // 日志格式: json, text
	Output string `mapstructure:"output"` // 输出位置: stdout, file, both
}

// Load 加载配置,支持配置文件和环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果提供了配置文件路径,从文件加载
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// 尝试从默认位置加载
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.forms-gateway")
		// 忽略配置文件不存在的错误,使用默认值
		_ = v.ReadInConfig()
	}

	// 支持环境变量
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// IsProduction 判断是否为生产环境
func IsProduction(cfg *Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.Env == "production"
}

// Default 返回默认配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 环境变量
	env := v.GetString("env")
	if env == "" {
		env = os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
		}
	}
	v.SetDefault("env", env)

	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	// 主库默认配置(权威库)
	v.SetDefault("primary_database.enabled", true)
	v.SetDefault("primary_database.driver", "postgres")
	v.SetDefault("primary_database.host", "localhost")
	v.SetDefault("primary_database.port", 5432)
	v.SetDefault("primary_database.user", "postgres")
	v.SetDefault("primary_database.password", "")
	v.SetDefault("primary_database.dbname", "forms_gateway")
	v.SetDefault("primary_database.sslmode", "disable")

	// 镜像库默认配置(报表侧消费,默认关闭)
	v.SetDefault("secondary_database.enabled", false)
	v.SetDefault("secondary_database.driver", "mysql")
	v.SetDefault("secondary_database.host", "localhost")
	v.SetDefault("secondary_database.port", 3306)
	v.SetDefault("secondary_database.user", "root")
	v.SetDefault("secondary_database.password", "")
	v.SetDefault("secondary_database.dbname", "forms_mirror")

	// 数据库连接池配置（根据环境设置默认值）
	if env == "production" {
		v.SetDefault("primary_database.max_idle_conns", 20)
		v.SetDefault("primary_database.max_open_conns", 200)
		v.SetDefault("primary_database.conn_max_lifetime", 3600) // 1 小时
		v.SetDefault("primary_database.conn_max_idle_time", 300) // 5 分钟
	} else {
		v.SetDefault("primary_database.max_idle_conns", 10)
		v.SetDefault("primary_database.max_open_conns", 100)
		v.SetDefault("primary_database.conn_max_lifetime", 3600) // 1 小时
		v.SetDefault("primary_database.conn_max_idle_time", 600) // 10 分钟
	}
	// 镜像库连接池保持小规格,它只承接尽力而为的镜像写
	v.SetDefault("secondary_database.max_idle_conns", 5)
	v.SetDefault("secondary_database.max_open_conns", 20)
	v.SetDefault("secondary_database.conn_max_lifetime", 3600)
	v.SetDefault("secondary_database.conn_max_idle_time", 600)

	// BPM 引擎默认配置
	v.SetDefault("bpm.base_url", "http://localhost:9090")
	v.SetDefault("bpm.app_key", "")
	v.SetDefault("bpm.bskey", "")
	v.SetDefault("bpm.timeout_seconds", 10)
	v.SetDefault("bpm.process_codes", map[string]string{})

	// 认证默认配置
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "forms-gateway")

	// CORS 默认配置
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.max_age", 86400)

	// 日志配置（根据环境设置默认值）
	if env == "production" {
		v.SetDefault("log.level", "warn")
		v.SetDefault("log.format", "json")
	} else {
		v.SetDefault("log.level", "debug")
		v.SetDefault("log.format", "text")
	}
	v.SetDefault("log.output", "stdout")
}
