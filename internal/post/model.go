package post

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kochabx/pulse/pkg/errors"
)

// Post 帖子模型
type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index;not null" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate 写入前生成主键
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Reactions 帖子的点赞/点踩计数
type Reactions struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// View 带计数的帖子视图
type View struct {
	Post
	Reactions
}

// CreateInput 创建帖子请求
type CreateInput struct {
	Title   string `json:"title" binding:"required,max=128"`
	Content string `json:"content" binding:"required"`
}

// UpdateInput 更新帖子请求，零值字段不更新
type UpdateInput struct {
	Title   string `json:"title" binding:"max=128"`
	Content string `json:"content"`
}

// parseID 解析帖子 ID
func parseID(id string) (uuid.UUID, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.BadRequest("invalid post id")
	}
	return pid, nil
}
