package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config Token 配置
// access 和 refresh 使用相同的签名算法、不同的密钥
type Config struct {
	// 必需配置：两个密钥必须不同
	AccessSecret  string `json:"accessSecret" validate:"required"`
	RefreshSecret string `json:"refreshSecret" validate:"required"`

	// 签名方法（对称算法）
	SigningMethod string `json:"signingMethod" default:"HS256"`

	// 有效期（天）
	AccessTTLDays  int `json:"accessTTLDays" default:"1" validate:"gt=0"`
	RefreshTTLDays int `json:"refreshTTLDays" default:"30" validate:"gt=0"`
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return ErrEmptySecret
	}
	if c.AccessSecret == c.RefreshSecret {
		return ErrSecretsEqual
	}
	if c.AccessTTLDays <= 0 || c.RefreshTTLDays <= 0 {
		return ErrInvalidTTL
	}
	return nil
}

// GetSigningMethod 获取签名方法
func (c *Config) GetSigningMethod() jwt.SigningMethod {
	switch c.SigningMethod {
	case "HS256":
		return jwt.SigningMethodHS256
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

// GetAccessTTL 获取 Access Token 有效期
func (c *Config) GetAccessTTL() time.Duration {
	return time.Duration(c.AccessTTLDays) * 24 * time.Hour
}

// GetRefreshTTL 获取 Refresh Token 有效期
func (c *Config) GetRefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// secret 根据 token 类型返回对应密钥
func (c *Config) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return []byte(c.RefreshSecret)
	}
	return []byte(c.AccessSecret)
}

// ttl 根据 token 类型返回对应有效期
func (c *Config) ttl(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.GetRefreshTTL()
	}
	return c.GetAccessTTL()
}
