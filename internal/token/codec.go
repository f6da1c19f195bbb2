package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kochabx/pulse/pkg/tag"
)

// Kind token 类型
type Kind int

const (
	// KindAccess 短期访问令牌
	KindAccess Kind = iota
	// KindRefresh 长期刷新令牌
	KindRefresh
)

// String 返回类型名称
func (k Kind) String() string {
	if k == KindRefresh {
		return "refresh"
	}
	return "access"
}

// Codec 负责签发和解析带签名的过期令牌
// 两种 token 共用算法，密钥按类型隔离：access 令牌永远无法
// 通过 refresh 密钥验证，反之亦然
type Codec struct {
	config *Config
}

// NewCodec 创建编解码器
func NewCodec(config *Config) (*Codec, error) {
	if config == nil {
		return nil, ErrEmptySecret
	}
	if err := tag.ApplyDefaults(config); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Codec{config: config}, nil
}

// Issue 签发 token，claims 包含 sub、iat、exp 和 jti
func (c *Codec) Issue(subject string, kind Kind) (string, error) {
	return c.issue(subject, kind, c.config.ttl(kind))
}

// IssueWithTTL 按自定义有效期签发 token，覆盖配置中的默认 TTL
func (c *Codec) IssueWithTTL(subject string, kind Kind, ttl time.Duration) (string, error) {
	return c.issue(subject, kind, ttl)
}

// issue 按指定有效期签发
// jti 保证同一秒内为同一用户签发的 token 也互不相同
func (c *Codec) issue(subject string, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(c.config.GetSigningMethod(), claims)
	return token.SignedString(c.config.secret(kind))
}

// Decode 验证签名和有效期后返回 claims
// 过期返回 ErrTokenExpired，签名或结构非法返回 ErrInvalidToken
func (c *Codec) Decode(tokenString string, kind Kind) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method != c.config.GetSigningMethod() {
			return nil, ErrInvalidToken
		}
		return c.config.secret(kind), nil
	})

	if err != nil {
		// 签名非法属于硬性失败，即便同时过期也不触发刷新流程
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		// 结构有效但已过期的 token 单独归类，触发刷新流程
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// DecodeUnverified 不验证签名，仅提取 claims
// 只能用于缓存索引，绝不能用于授权判断
func (c *Codec) DecodeUnverified(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}
