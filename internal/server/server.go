package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kochabx/pulse/pkg/app"
	"github.com/kochabx/pulse/pkg/log"
)

var _ app.Server = (*Server)(nil)

// Server HTTP 服务
type Server struct {
	name   string
	server *http.Server
}

// Option 服务配置选项
type Option func(*Server)

// WithName 设置服务名称
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithTimeouts 设置读/写/空闲超时
func WithTimeouts(read, write, idle time.Duration) Option {
	return func(s *Server) {
		s.server.ReadTimeout = read
		s.server.WriteTimeout = write
		s.server.IdleTimeout = idle
	}
}

// New 创建 HTTP 服务
func New(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		name: "http",
		server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run 启动服务并阻塞直到关闭
// 正常关闭不作为错误返回
func (s *Server) Run() error {
	log.Info().Msgf("%s server listening on %s", s.name, s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭服务
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msgf("%s server shutting down", s.name)
	return s.server.Shutdown(ctx)
}
