package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository 用户存储契约
type Repository interface {
	// Create 创建用户
	Create(ctx context.Context, u *User) error

	// GetByID 按 ID 查询用户，不存在返回 ErrNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByLogin 按登录名查询用户，不存在返回 ErrNotFound
	GetByLogin(ctx context.Context, login string) (*User, error)

	// GetByEmail 按邮箱查询用户，不存在返回 ErrNotFound
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// gormRepository 基于 GORM 的用户存储
type gormRepository struct {
	db *gorm.DB
}

// NewRepository 创建用户存储
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *gormRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	return r.getBy(ctx, "login = ?", login)
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *gormRepository) getBy(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
