package middleware

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/pulse/internal/server/response"
	"github.com/kochabx/pulse/internal/token"
	"github.com/kochabx/pulse/pkg/errors"
	"github.com/kochabx/pulse/pkg/log"
)

const (
	// HeaderAccessToken 轮换后新 access token 的响应头
	HeaderAccessToken = "X-Access-Token"
	// HeaderRefreshToken 轮换后新 refresh token 的响应头
	HeaderRefreshToken = "X-Refresh-Token"

	// ContextUserID 认证通过后写入 gin 上下文的用户 ID key
	ContextUserID = "auth_user_id"
)

// AuthConfig 认证中间件配置
type AuthConfig struct {
	// SkipPaths 跳过认证的路径，支持精确/前缀/glob 匹配
	SkipPaths []string
	// SkipFunc 动态跳过判断函数
	SkipFunc func(*gin.Context) bool
}

// translateAuthErr 令牌层的哨兵错误映射为 401；
// 其余错误是会话缓存等基础设施故障，映射为 503 且不向客户端泄露原因
func translateAuthErr(err error) error {
	switch {
	case stderrors.Is(err, token.ErrTokenRevoked),
		stderrors.Is(err, token.ErrInvalidToken),
		stderrors.Is(err, token.ErrTokenExpired),
		stderrors.Is(err, token.ErrUnauthenticated),
		stderrors.Is(err, token.ErrNoSession),
		stderrors.Is(err, token.ErrMalformedAuthScheme):
		return errors.Unauthorized("%v", err)
	default:
		log.Error().Err(err).Msg("session cache failure during token validation")
		return errors.ServiceUnavailable("service temporarily unavailable")
	}
}

// Auth 创建认证中间件
//
// 从 Authorization 头提取 bearer token 并验证；token 已过期但会话仍然
// 有效时透明换发新令牌对，通过 X-Access-Token / X-Refresh-Token 响应头
// 下发，请求本身照常放行
func Auth(svc *token.Service, cfgs ...AuthConfig) gin.HandlerFunc {
	cfg := AuthConfig{}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}

	matcher := NewPathMatcher(cfg.SkipPaths)

	return func(c *gin.Context) {
		if shouldSkip(c, matcher, cfg.SkipFunc) {
			c.Next()
			return
		}

		raw, err := token.ExtractBearer(c.GetHeader("Authorization"))
		if err != nil {
			response.JSONE(c, errors.Unauthorized("%v", err))
			return
		}

		result, err := svc.ValidateOrRotate(c.Request.Context(), raw)
		if err != nil {
			response.JSONE(c, translateAuthErr(err))
			return
		}

		if result.Rotated() {
			c.Header(HeaderAccessToken, result.Pair.AccessToken)
			c.Header(HeaderRefreshToken, result.Pair.RefreshToken)
		}

		c.Set(ContextUserID, result.Subject)
		c.Next()
	}
}

// UserID 获取认证中间件写入的用户 ID
func UserID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}
