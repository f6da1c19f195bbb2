package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository 帖子存储契约
type Repository interface {
	// Create 创建帖子
	Create(ctx context.Context, p *Post) error

	// GetByID 按 ID 查询帖子，不存在返回 ErrNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// List 按创建时间倒序分页列出帖子
	List(ctx context.Context, limit, offset int) ([]Post, error)

	// Update 保存帖子修改
	Update(ctx context.Context, p *Post) error

	// Delete 删除帖子
	Delete(ctx context.Context, id uuid.UUID) error
}

// gormRepository 基于 GORM 的帖子存储
type gormRepository struct {
	db *gorm.DB
}

// NewRepository 创建帖子存储
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	var p Post
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) List(ctx context.Context, limit, offset int) ([]Post, error) {
	var posts []Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *gormRepository) Update(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Post{}, "id = ?", id).Error
}
