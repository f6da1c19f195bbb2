package post

import (
	"context"

	"github.com/google/uuid"

	"github.com/kochabx/pulse/pkg/log"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service 帖子服务
type Service struct {
	repo      Repository
	reactions ReactionStore
}

// NewService 创建帖子服务
func NewService(repo Repository, reactions ReactionStore) *Service {
	return &Service{
		repo:      repo,
		reactions: reactions,
	}
}

// Create 创建帖子
func (s *Service) Create(ctx context.Context, authorID string, input *CreateInput) (*Post, error) {
	aid, err := uuid.Parse(authorID)
	if err != nil {
		return nil, ErrNotFound
	}

	p := &Post{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: aid,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("post_id", p.ID.String()).Str("author_id", authorID).Msg("post created")
	return p, nil
}

// Get 查询帖子及其表态计数
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	counts, err := s.reactions.Counts(ctx, pid)
	if err != nil {
		return nil, err
	}

	return &View{Post: *p, Reactions: *counts}, nil
}

// List 分页列出帖子
func (s *Service) List(ctx context.Context, limit, offset int) ([]View, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(posts))
	for i := range posts {
		counts, err := s.reactions.Counts(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, View{Post: posts[i], Reactions: *counts})
	}
	return views, nil
}

// Update 更新帖子，仅作者本人可操作
func (s *Service) Update(ctx context.Context, userID, id string, input *UpdateInput) (*Post, error) {
	p, err := s.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		p.Title = input.Title
	}
	if input.Content != "" {
		p.Content = input.Content
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete 删除帖子，仅作者本人可操作
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	p, err := s.authorize(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}

	// 计数一并清除，失败不影响删除结果
	if err := s.reactions.Clear(ctx, p.ID); err != nil {
		log.Warn().Err(err).Str("post_id", p.ID.String()).Msg("failed to clear reaction counts")
	}

	log.Info().Str("post_id", p.ID.String()).Str("user_id", userID).Msg("post deleted")
	return nil
}

// React 给帖子点赞或点踩
// 作者本人不得表态，同一方向只能表态一次
func (s *Service) React(ctx context.Context, userID, id string, dir Direction) (*View, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	p, err := s.repo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	if p.AuthorID == uid {
		return nil, ErrOwnPost
	}

	if err := s.reactions.React(ctx, pid, uid, dir); err != nil {
		return nil, err
	}

	counts, err := s.reactions.Counts(ctx, pid)
	if err != nil {
		return nil, err
	}
	return &View{Post: *p, Reactions: *counts}, nil
}

// authorize 取回帖子并校验操作者是作者本人
func (s *Service) authorize(ctx context.Context, userID, id string) (*Post, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	if p.AuthorID.String() != userID {
		return nil, ErrNotAuthor
	}
	return p, nil
}
