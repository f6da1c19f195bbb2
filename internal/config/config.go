package config

import (
	"time"

	"github.com/kochabx/pulse/internal/store/db"
	"github.com/kochabx/pulse/internal/store/redis"
	"github.com/kochabx/pulse/internal/token"
	"github.com/kochabx/pulse/pkg/log"
)

// Config 应用配置
type Config struct {
	App      App          `json:"app"`
	Server   Server       `json:"server"`
	Log      Log          `json:"log"`
	Database Database     `json:"database"`
	Redis    redis.Config `json:"redis"`
	Token    Token        `json:"token"`
}

// App 应用信息
type App struct {
	Name string `json:"name" default:"pulse"`
	Env  string `json:"env" default:"dev" validate:"oneof=dev staging prod"`
}

// Server HTTP 服务配置
type Server struct {
	Addr string `json:"addr" default:":8080"`
	Mode string `json:"mode" default:"release" validate:"oneof=debug release test"`

	// 超时配置（毫秒）
	ReadTimeout     int64 `json:"readTimeout" default:"10000"`
	WriteTimeout    int64 `json:"writeTimeout" default:"10000"`
	IdleTimeout     int64 `json:"idleTimeout" default:"60000"`
	ShutdownTimeout int64 `json:"shutdownTimeout" default:"30000"`

	// AuthRateLimit 登录注册入口的限流配置
	AuthRateLimit RateLimit `json:"authRateLimit"`
}

// RateLimit 滑动窗口限流配置
type RateLimit struct {
	Enabled bool `json:"enabled" default:"true"`

	// WindowSeconds 窗口长度（秒）
	WindowSeconds int `json:"windowSeconds" default:"60" validate:"min=1"`

	// Limit 窗口内单个客户端的最大请求数
	Limit int `json:"limit" default:"10" validate:"min=1"`
}

// GetWindow 窗口长度
func (r *RateLimit) GetWindow() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// GetReadTimeout 读超时
func (s *Server) GetReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout 写超时
func (s *Server) GetWriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Millisecond
}

// GetIdleTimeout 空闲超时
func (s *Server) GetIdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeout) * time.Millisecond
}

// GetShutdownTimeout 优雅关闭超时
func (s *Server) GetShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Millisecond
}

// Log 日志配置
type Log struct {
	Level string `json:"level" default:"info"`

	// Output 输出目标
	Output string `json:"output" default:"console" validate:"oneof=console file multi"`

	// File 文件输出配置，仅 output 为 file/multi 时生效
	File log.FileConfig `json:"file"`
}

// NewLogger 按配置构建日志记录器
func (l *Log) NewLogger() (*log.Logger, error) {
	opts := []log.Option{log.WithLevel(log.ParseLevel(l.Level))}

	switch l.Output {
	case "file":
		return log.NewFile(l.File, opts...)
	case "multi":
		return log.NewMulti(l.File, opts...)
	default:
		return log.New(opts...), nil
	}
}

// Database 数据库配置
// 同时携带两种驱动的配置，按 driver 字段选择生效的一种
type Database struct {
	Driver   string             `json:"driver" default:"postgres" validate:"oneof=postgres sqlite"`
	Postgres *db.PostgresConfig `json:"postgres"`
	SQLite   *db.SQLiteConfig   `json:"sqlite"`
}

// DriverConfig 返回生效的驱动配置
func (d *Database) DriverConfig() db.DriverConfig {
	if d.Driver == db.DriverSQLite.String() {
		if d.SQLite == nil {
			d.SQLite = &db.SQLiteConfig{}
		}
		return d.SQLite
	}

	if d.Postgres == nil {
		d.Postgres = &db.PostgresConfig{}
	}
	return d.Postgres
}

// Token 令牌配置
type Token struct {
	token.Config `mapstructure:",squash"`

	// CachePrefix 会话缓存 key 前缀
	CachePrefix string `json:"cachePrefix" default:"session:"`
}
