package post

import (
	"github.com/kochabx/pulse/pkg/errors"
)

var (
	// ErrNotFound 帖子不存在
	ErrNotFound = errors.NotFound("post not found")

	// ErrNotAuthor 只有作者本人可以修改或删除帖子
	ErrNotAuthor = errors.Forbidden("only the author can modify this post")

	// ErrOwnPost 不允许给自己的帖子点赞或点踩
	ErrOwnPost = errors.Forbidden("reacting to your own post is not allowed")

	// ErrAlreadyReacted 同一帖子同一方向只能表态一次
	ErrAlreadyReacted = errors.Forbidden("already reacted to this post")
)
