package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kochabx/pulse/pkg/errors"
)

// User 用户模型
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Login          string    `gorm:"size:64;uniqueIndex;not null" json:"login"`
	Email          string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"size:128;not null" json:"-"`
	FirstName      string    `gorm:"size:64" json:"first_name"`
	LastName       string    `gorm:"size:64" json:"last_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate 写入前生成主键
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// parseID 解析用户 ID
func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.BadRequest("invalid user id")
	}
	return uid, nil
}

// RegisterInput 注册请求
type RegisterInput struct {
	Login     string `json:"login" binding:"required,min=3,max=64"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=64"`
	FirstName string `json:"first_name" binding:"max=64"`
	LastName  string `json:"last_name" binding:"max=64"`
}

// LoginInput 登录请求
type LoginInput struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput 刷新令牌请求
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput 登出请求，refresh token 可选
type LogoutInput struct {
	RefreshToken string `json:"refresh_token"`
}
