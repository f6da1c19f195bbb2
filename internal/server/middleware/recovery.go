package middleware

import (
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/pulse/pkg/log"
)

// RecoveryConfig Recovery 中间件配置
type RecoveryConfig struct {
	StackTrace bool        // 是否记录堆栈信息
	Logger     *log.Logger // 自定义日志记录器
}

// Recovery 捕获处理器 panic，记录请求上下文后返回 500
func Recovery(cfgs ...RecoveryConfig) gin.HandlerFunc {
	cfg := RecoveryConfig{
		StackTrace: true,
	}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}

	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			// 对端已断开时无法再写响应，降级为警告日志
			if isConnClosed(r) {
				cfg.Logger.Warn().
					Any("panic", r).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("client connection closed")
				c.Abort()
				return
			}

			event := cfg.Logger.Error().
				Any("panic", r).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP())

			if cfg.StackTrace {
				event = event.Bytes("stack", debug.Stack())
			}

			event.Msg("panic recovered")
			c.AbortWithStatus(http.StatusInternalServerError)
		}()
		c.Next()
	}
}

// isConnClosed 判断 panic 是否由对端断开连接引起
func isConnClosed(r any) bool {
	err, ok := r.(error)
	if !ok {
		return false
	}

	var op *net.OpError
	if !errors.As(err, &op) {
		return false
	}
	return errors.Is(op.Err, syscall.EPIPE) || errors.Is(op.Err, syscall.ECONNRESET)
}
