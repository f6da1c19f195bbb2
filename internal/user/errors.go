package user

import (
	"github.com/kochabx/pulse/pkg/errors"
)

var (
	// ErrLoginTaken 登录名已被占用
	ErrLoginTaken = errors.BadRequest("user with this login already exists")

	// ErrEmailTaken 邮箱已被占用
	ErrEmailTaken = errors.BadRequest("user with this email already exists")

	// ErrNotFound 用户不存在
	ErrNotFound = errors.NotFound("user not found")

	// ErrInvalidCredentials 登录名或密码错误
	// 不区分"用户不存在"和"密码错误"，避免账号枚举
	ErrInvalidCredentials = errors.Unauthorized("invalid login or password")
)
