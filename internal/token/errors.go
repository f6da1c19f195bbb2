package token

import "errors"

var (
	// Token 相关错误
	ErrInvalidToken = errors.New("token: invalid token")
	ErrTokenExpired = errors.New("token: token expired")
	ErrTokenRevoked = errors.New("token: token revoked")

	// 会话相关错误
	ErrNoSession       = errors.New("token: session not found")
	ErrUnauthenticated = errors.New("token: no valid session on file")

	// 配置相关错误
	ErrEmptySecret  = errors.New("token: secret cannot be empty")
	ErrSecretsEqual = errors.New("token: access and refresh secrets must differ")
	ErrInvalidTTL   = errors.New("token: ttl must be positive")

	// ErrMalformedAuthScheme Authorization 头格式错误
	ErrMalformedAuthScheme = errors.New("token: malformed authorization header")
)
