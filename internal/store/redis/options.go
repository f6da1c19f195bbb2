package redis

import (
	"time"

	"github.com/kochabx/pulse/pkg/log"
)

// Option 客户端配置选项
type Option func(*clientOptions)

// clientOptions 客户端内部选项
type clientOptions struct {
	password string
	db       int
	poolSize int

	logger          *log.Logger
	slowQueryThresh time.Duration
}

// WithPassword 设置密码
func WithPassword(password string) Option {
	return func(o *clientOptions) {
		o.password = password
	}
}

// WithDB 设置数据库索引（仅单机和哨兵模式有效）
func WithDB(db int) Option {
	return func(o *clientOptions) {
		o.db = db
	}
}

// WithPoolSize 设置连接池大小
func WithPoolSize(size int) Option {
	return func(o *clientOptions) {
		o.poolSize = size
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithDebug 启用命令日志与慢查询检测
// threshold: 慢查询阈值，超过此时间的命令会记录为警告
func WithDebug(threshold time.Duration) Option {
	return func(o *clientOptions) {
		o.slowQueryThresh = threshold
	}
}

// applyOptions 应用所有选项到配置
func applyOptions(cfg *Config, opts []Option) *clientOptions {
	clientOpts := &clientOptions{}

	for _, opt := range opts {
		if opt != nil {
			opt(clientOpts)
		}
	}

	if clientOpts.password != "" {
		cfg.Password = clientOpts.password
	}
	if clientOpts.db > 0 {
		cfg.DB = clientOpts.db
	}
	if clientOpts.poolSize > 0 {
		cfg.PoolSize = clientOpts.poolSize
	}

	return clientOpts
}
