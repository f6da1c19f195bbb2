package redis

import (
	"github.com/kochabx/pulse/pkg/tag"
)

// Config Redis 客户端配置（支持单机/集群/哨兵模式）
type Config struct {
	// Addrs Redis 地址列表
	// 单机模式: ["localhost:6379"]
	// 集群模式: ["node1:6379", "node2:6379", "node3:6379"]
	// 哨兵模式: ["sentinel1:26379", "sentinel2:26379"]
	Addrs []string `default:"localhost:6379"`

	// MasterName 哨兵模式的主节点名称
	MasterName string

	// Username Redis 用户名 (Redis 6.0+)
	Username string

	// Password Redis 密码
	Password string

	// DB 数据库索引（仅单机和哨兵模式有效）
	DB int

	// Protocol Redis 协议版本
	Protocol int `default:"3"`

	// DialTimeout 连接超时时间（毫秒）
	DialTimeout int64 `default:"5000"`

	// ReadTimeout 读操作超时时间（毫秒）
	ReadTimeout int64 `default:"3000"`

	// WriteTimeout 写操作超时时间（毫秒）
	WriteTimeout int64 `default:"3000"`

	// PoolSize 连接池最大连接数
	// 0 表示使用默认值: 10 * runtime.GOMAXPROCS
	PoolSize int

	// MinIdleConns 最小空闲连接数
	MinIdleConns int

	// MaxIdleTime 空闲连接最大存活时间（毫秒）
	MaxIdleTime int64 `default:"300000"`

	// PoolTimeout 从连接池获取连接的超时时间（毫秒）
	PoolTimeout int64 `default:"4000"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	if len(c.Addrs) == 0 {
		return ErrEmptyAddrs
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Single 创建单机模式配置
func Single(addr string) *Config {
	return &Config{Addrs: []string{addr}}
}

// Sentinel 创建哨兵模式配置
func Sentinel(masterName string, addrs ...string) *Config {
	return &Config{Addrs: addrs, MasterName: masterName}
}

// IsSentinel 判断是否为哨兵模式
func (c *Config) IsSentinel() bool {
	return c.MasterName != ""
}

// IsCluster 判断是否为集群模式
func (c *Config) IsCluster() bool {
	return !c.IsSentinel() && len(c.Addrs) > 1
}

// IsSingle 判断是否为单机模式
func (c *Config) IsSingle() bool {
	return !c.IsSentinel() && len(c.Addrs) == 1
}
