package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kochabx/pulse/pkg/log"
)

// slowSQLThreshold 慢 SQL 阈值
const slowSQLThreshold = 200 * time.Millisecond

// gormLogger 将 GORM 日志桥接到 zerolog
type gormLogger struct {
	logger *log.Logger
	level  LogLevel
}

func newGormLogger(logger *log.Logger, level LogLevel) gormlogger.Interface {
	return &gormLogger{
		logger: logger,
		level:  level,
	}
}

// LogMode 实现 gormlogger.Interface
func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{
		logger: l.logger,
		level:  LogLevel(level - 1),
	}
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= LogLevelInfo {
		l.logger.Info().Msgf(msg, args...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= LogLevelWarn {
		l.logger.Warn().Msgf(msg, args...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= LogLevelError {
		l.logger.Error().Msgf(msg, args...)
	}
}

// Trace 记录 SQL 执行情况
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= LogLevelSilent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= LogLevelError:
		l.logger.Error().Err(err).Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("sql failed")
	case elapsed > slowSQLThreshold && l.level >= LogLevelWarn:
		l.logger.Warn().Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Dur("threshold", slowSQLThreshold).Msg("slow sql detected")
	case l.level >= LogLevelInfo:
		l.logger.Debug().Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("sql executed")
	}
}
