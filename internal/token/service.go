package token

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service 令牌服务
// 自身无状态，所有可变状态都在注入的 SessionCache 中；
// 缓存即"当前有效会话"的唯一事实
type Service struct {
	codec *Codec
	cache SessionCache
}

// NewService 创建令牌服务
func NewService(codec *Codec, cache SessionCache) *Service {
	return &Service{
		codec: codec,
		cache: cache,
	}
}

// IssuePair 为用户签发新令牌对并落库 refresh token
// 签发与存储必须成对出现，否则会话无法恢复
func (s *Service) IssuePair(ctx context.Context, userID string) (*Pair, error) {
	pair, err := s.mintPair(userID)
	if err != nil {
		return nil, err
	}

	if err := s.PersistRefresh(ctx, userID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return pair, nil
}

// PersistRefresh 覆盖式写入用户的 refresh token 记录
// 旧记录被整体替换，保证单用户同时只有一个有效会话
func (s *Service) PersistRefresh(ctx context.Context, userID, refreshToken string) error {
	return s.cache.SaveRefresh(ctx, userID, refreshToken, s.codec.config.GetRefreshTTL())
}

// ValidateOrRotate 验证 access token，过期时透明轮换
//
// 判定顺序是契约的一部分：
//  1. 失效标记优先。登出过的 token 即使未过期也不得复活
//  2. 签名+有效期验证通过 → StatusValid
//  3. 仅过期 → 按刷新处理：取在档 refresh token 换发新令牌对，
//     覆盖存储、标记旧 access token 失效，返回 StatusRotated
//  4. 签名非法 → ErrInvalidToken，不尝试轮换
func (s *Service) ValidateOrRotate(ctx context.Context, accessToken string) (*Result, error) {
	revoked, err := s.cache.IsInvalid(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := s.codec.Decode(accessToken, KindAccess)
	if err == nil {
		return &Result{Status: StatusValid, Subject: claims.Subject}, nil
	}

	if errors.Is(err, ErrTokenExpired) {
		return s.rotate(ctx, accessToken)
	}

	return nil, err
}

// rotate 以过期的 access token 为凭据执行轮换
func (s *Service) rotate(ctx context.Context, expiredAccess string) (*Result, error) {
	// 未验证解码仅用于定位缓存记录，不授权任何操作
	claims, err := s.codec.DecodeUnverified(expiredAccess)
	if err != nil {
		return nil, err
	}
	userID := claims.Subject

	stored, err := s.cache.GetRefresh(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	// 在档 refresh token 自身必须仍然可验证
	if _, err := s.codec.Decode(stored, KindRefresh); err != nil {
		return nil, ErrUnauthenticated
	}

	pair, err := s.mintPair(userID)
	if err != nil {
		return nil, err
	}

	if err := s.PersistRefresh(ctx, userID, pair.RefreshToken); err != nil {
		return nil, err
	}

	if err := s.invalidate(ctx, expiredAccess); err != nil {
		return nil, err
	}

	return &Result{Status: StatusRotated, Subject: userID, Pair: pair}, nil
}

// Refresh 显式刷新：出示的 refresh token 必须与在档记录一致
func (s *Service) Refresh(ctx context.Context, userID, presented string) (*Pair, error) {
	stored, err := s.cache.GetRefresh(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if stored != presented {
		return nil, ErrUnauthenticated
	}

	if _, err := s.codec.Decode(presented, KindRefresh); err != nil {
		return nil, ErrUnauthenticated
	}

	return s.IssuePair(ctx, userID)
}

// RevokeSession 登出：标记 access token 失效并删除 refresh 记录
// 此后同一 access token 的验证必须失败于 ErrTokenRevoked，
// 同一用户的刷新尝试必须失败于 ErrUnauthenticated，直到重新登录
func (s *Service) RevokeSession(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.invalidate(ctx, accessToken); err != nil {
		return err
	}

	subject, err := s.subjectOf(accessToken)
	if err != nil {
		// access token 无法解析时退回 refresh token 定位用户
		if subject, err = s.subjectOf(refreshToken); err != nil {
			return err
		}
	}

	return s.cache.DeleteRefresh(ctx, subject)
}

// mintPair 纯函数式签发令牌对，无任何副作用
func (s *Service) mintPair(userID string) (*Pair, error) {
	access, err := s.codec.Issue(userID, KindAccess)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.codec.Issue(userID, KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// invalidate 写入失效标记
// TTL 取 token 剩余存活时间；轮换已过期 token 时剩余时间为零，
// 改用完整 access TTL，保证旧 token 在标记过期后也无法再次换发
func (s *Service) invalidate(ctx context.Context, accessToken string) error {
	ttl := s.codec.config.GetAccessTTL()

	if claims, err := s.codec.DecodeUnverified(accessToken); err == nil && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}

	return s.cache.MarkInvalid(ctx, accessToken, ttl)
}

// subjectOf 未验证提取 token 的 sub，仅用于缓存定位
func (s *Service) subjectOf(tokenString string) (string, error) {
	claims, err := s.codec.DecodeUnverified(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
