package db

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kochabx/pulse/pkg/log"
)

var (
	ErrUnsupportedDriver  = errors.New("db: unsupported database driver")
	ErrInvalidConfig      = errors.New("db: invalid database configuration")
	ErrGormNotInitialized = errors.New("db: gorm not initialized")
)

// Gorm GORM 数据库连接包装器
type Gorm struct {
	config DriverConfig
	logger *log.Logger
	DB     *gorm.DB
}

// GormOption Gorm 配置选项
type GormOption func(*Gorm)

// WithLogger 设置日志记录器，GORM 的 SQL 日志会经由 zerolog 输出
func WithLogger(logger *log.Logger) GormOption {
	return func(g *Gorm) {
		g.logger = logger
	}
}

// NewGorm 创建新的 Gorm 实例
func NewGorm(config DriverConfig, opts ...GormOption) (*Gorm, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}

	g := &Gorm{
		config: config,
	}

	if err := config.Init(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	if g.logger == nil {
		g.logger = log.G
	}

	gormDB, err := g.createDB()
	if err != nil {
		return nil, err
	}
	g.DB = gormDB

	if err := g.Ping(context.TODO()); err != nil {
		_ = g.Close()
		return nil, err
	}

	return g, nil
}

// createDB 创建数据库连接
func (g *Gorm) createDB() (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: newGormLogger(g.logger, g.config.LogLevel()),
	}
	dsn := g.config.DSN()

	var db *gorm.DB
	var err error

	switch g.config.Driver() {
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	default:
		return nil, ErrUnsupportedDriver
	}

	if err != nil {
		return nil, err
	}

	if err := g.setConnectionPool(db); err != nil {
		return nil, err
	}

	return db, nil
}

// setConnectionPool 配置数据库连接池
func (g *Gorm) setConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	pool := g.config.Pool()
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	return nil
}

// Ping 测试数据库连接是否正常
func (g *Gorm) Ping(ctx context.Context) error {
	if g.DB == nil {
		return ErrGormNotInitialized
	}

	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (g *Gorm) Close() error {
	if g.DB == nil {
		return nil
	}

	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.Close(); err != nil {
		return err
	}

	g.DB = nil // 清空引用，避免重复关闭
	return nil
}

// Stats 获取数据库连接池统计信息
func (g *Gorm) Stats() (sql.DBStats, error) {
	if g.DB == nil {
		return sql.DBStats{}, ErrGormNotInitialized
	}

	sqlDB, err := g.DB.DB()
	if err != nil {
		return sql.DBStats{}, err
	}

	return sqlDB.Stats(), nil
}

// GetDB 获取 GORM 数据库实例
func (g *Gorm) GetDB() *gorm.DB {
	return g.DB
}
