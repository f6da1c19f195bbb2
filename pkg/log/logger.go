package log

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kochabx/pulse/pkg/tag"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	closer io.Closer // 用于资源清理
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
}

// Close 关闭日志记录器，释放资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// newLogger 统一的 Logger 构建方法
func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// New 创建新的 Logger 实例，输出到控制台
func New(opts ...Option) *Logger {
	return newLogger(console(), opts...)
}

// NewFile 创建文件输出的 Logger，按大小轮转
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, err
	}

	w := c.rollingWriter()
	logger := newLogger(w, opts...)
	logger.closer = w

	return logger, nil
}

// NewMulti 创建同时输出到文件和控制台的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	if err := tag.ApplyDefaults(&c); err != nil {
		return nil, err
	}

	fw := c.rollingWriter()
	logger := newLogger(zerolog.MultiLevelWriter(fw, console()), opts...)
	logger.closer = fw

	return logger, nil
}

// console 控制台 writer
func console() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
}

// FileConfig 日志文件配置
type FileConfig struct {
	Filepath   string `json:"filepath" default:"log"`
	Filename   string `json:"filename" default:"app"`
	MaxSize    int    `json:"maxSize" default:"100"`   // 单文件最大体积（MB）
	MaxBackups int    `json:"maxBackups" default:"5"`  // 最多保留的历史文件数
	MaxAge     int    `json:"maxAge" default:"30"`     // 最长保留天数
	Compress   bool   `json:"compress" default:"false"`
}

// rollingWriter 构建 lumberjack 轮转 writer
func (c *FileConfig) rollingWriter() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(c.Filepath, c.Filename+".log"),
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
}
