package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/kochabx/pulse/internal/token"
	"github.com/kochabx/pulse/pkg/log"
)

// Service 用户服务
type Service struct {
	repo   Repository
	tokens *token.Service
}

// NewService 创建用户服务
func NewService(repo Repository, tokens *token.Service) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
	}
}

// Register 注册新用户
// 登录名和邮箱必须全局唯一，密码以 bcrypt 哈希落库
func (s *Service) Register(ctx context.Context, input *RegisterInput) (*User, error) {
	if _, err := s.repo.GetByLogin(ctx, input.Login); err == nil {
		return nil, ErrLoginTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Login:          input.Login,
		Email:          input.Email,
		HashedPassword: string(hashed),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Str("login", u.Login).Msg("user registered")
	return u, nil
}

// Login 登录并签发令牌对
// 认证失败统一返回 ErrInvalidCredentials
func (s *Service) Login(ctx context.Context, input *LoginInput) (*token.Pair, error) {
	u, err := s.repo.GetByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(ctx, u.ID.String())
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("user logged in")
	return pair, nil
}

// Logout 登出：失效 access token 并删除会话
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return s.tokens.RevokeSession(ctx, accessToken, refreshToken)
}

// Refresh 显式刷新令牌对
func (s *Service) Refresh(ctx context.Context, userID, refreshToken string) (*token.Pair, error) {
	return s.tokens.Refresh(ctx, userID, refreshToken)
}

// Get 按 ID 查询用户
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, uid)
}
