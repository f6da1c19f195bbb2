package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/pulse/internal/post"
	"github.com/kochabx/pulse/internal/server/middleware"
	"github.com/kochabx/pulse/internal/token"
	"github.com/kochabx/pulse/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 内存实现：会话缓存、用户存储、帖子存储、表态存储。
// 路由测试只验证 HTTP 层装配，不触达 Redis 和数据库。

type memorySessions struct {
	mu      sync.Mutex
	refresh map[string]string
	invalid map[string]struct{}
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		refresh: make(map[string]string),
		invalid: make(map[string]struct{}),
	}
}

func (m *memorySessions) SaveRefresh(ctx context.Context, userID, t string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[userID] = t
	return nil
}

func (m *memorySessions) GetRefresh(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.refresh[userID]
	if !ok {
		return "", token.ErrNoSession
	}
	return t, nil
}

func (m *memorySessions) DeleteRefresh(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refresh, userID)
	return nil
}

func (m *memorySessions) MarkInvalid(ctx context.Context, t string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalid[t] = struct{}{}
	return nil
}

func (m *memorySessions) IsInvalid(ctx context.Context, t string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.invalid[t]
	return ok, nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[uuid.UUID]*user.User)}
}

func (r *memoryUsers) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *memoryUsers) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *memoryUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

type memoryPosts struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*post.Post
	seq   int
}

func newMemoryPosts() *memoryPosts {
	return &memoryPosts{posts: make(map[uuid.UUID]*post.Post)}
}

func (r *memoryPosts) Create(ctx context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.seq++
	p.CreatedAt = time.Unix(int64(r.seq), 0)
	r.posts[p.ID] = p
	return nil
}

func (r *memoryPosts) GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPosts) List(ctx context.Context, limit, offset int) ([]post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]post.Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryPosts) Update(ctx context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *memoryPosts) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type memoryReactions struct {
	mu      sync.Mutex
	counts  map[uuid.UUID]*post.Reactions
	members map[post.Direction]map[string]struct{} // dir -> user:post
}

func newMemoryReactions() *memoryReactions {
	return &memoryReactions{
		counts: make(map[uuid.UUID]*post.Reactions),
		members: map[post.Direction]map[string]struct{}{
			post.DirectionLike:    make(map[string]struct{}),
			post.DirectionDislike: make(map[string]struct{}),
		},
	}
}

func (s *memoryReactions) React(ctx context.Context, postID, userID uuid.UUID, dir post.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID.String() + ":" + postID.String()
	if _, ok := s.members[dir][key]; ok {
		return post.ErrAlreadyReacted
	}

	c, ok := s.counts[postID]
	if !ok {
		c = &post.Reactions{}
		s.counts[postID] = c
	}

	opposite := post.DirectionLike
	if dir == post.DirectionLike {
		opposite = post.DirectionDislike
	}
	if _, ok := s.members[opposite][key]; ok {
		delete(s.members[opposite], key)
		if opposite == post.DirectionLike {
			c.Likes--
		} else {
			c.Dislikes--
		}
	}

	s.members[dir][key] = struct{}{}
	if dir == post.DirectionLike {
		c.Likes++
	} else {
		c.Dislikes++
	}
	return nil
}

func (s *memoryReactions) Counts(ctx context.Context, postID uuid.UUID) (*post.Reactions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counts[postID]
	if !ok {
		return &post.Reactions{}, nil
	}
	cp := *c
	return &cp, nil
}

func (s *memoryReactions) Clear(ctx context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, postID)
	return nil
}

// envelope 统一响应信封的测试视图
type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *token.Codec) {
	t.Helper()

	codec, err := token.NewCodec(&token.Config{
		AccessSecret:  "router-access-secret",
		RefreshSecret: "router-refresh-secret",
	})
	require.NoError(t, err)

	tokens := token.NewService(codec, newMemorySessions())
	users := user.NewHandler(user.NewService(newMemoryUsers(), tokens))
	posts := post.NewHandler(post.NewService(newMemoryPosts(), newMemoryReactions()))

	return NewRouter(RouterConfig{
		Mode:   gin.TestMode,
		Tokens: tokens,
		Users:  users,
		Posts:  posts,
	}), codec
}

func doJSON(t *testing.T, r *gin.Engine, method, path, bearer string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	}
	return w, env
}

func registerAndLogin(t *testing.T, r *gin.Engine, login string) *token.Pair {
	t.Helper()

	w, _ := doJSON(t, r, "POST", "/api/v1/users/registration", "", gin.H{
		"login":    login,
		"email":    login + "@example.com",
		"password": "strong-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := doJSON(t, r, "POST", "/api/v1/users/login", "", gin.H{
		"login":    login,
		"password": "strong-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var pair token.Pair
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return &pair
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegistrationValidation(t *testing.T) {
	r, _ := setupTestRouter(t)

	// 密码过短
	w, env := doJSON(t, r, "POST", "/api/v1/users/registration", "", gin.H{
		"login":    "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusBadRequest, env.Code)

	// 非法邮箱
	w, _ = doJSON(t, r, "POST", "/api/v1/users/registration", "", gin.H{
		"login":    "alice",
		"email":    "not-an-email",
		"password": "strong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostLifecycle(t *testing.T) {
	r, _ := setupTestRouter(t)
	author := registerAndLogin(t, r, "author")

	// 未认证不能发帖
	w, _ := doJSON(t, r, "POST", "/api/v1/posts", "", gin.H{"title": "t", "content": "c"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 发帖
	w, env := doJSON(t, r, "POST", "/api/v1/posts", author.AccessToken, gin.H{
		"title":   "hello",
		"content": "world",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created post.Post
	require.NoError(t, json.Unmarshal(env.Data, &created))

	// 帖子读取是公开的
	w, env = doJSON(t, r, "GET", "/api/v1/posts/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view post.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "hello", view.Title)
	assert.Equal(t, int64(0), view.Likes)

	w, _ = doJSON(t, r, "GET", "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 非作者不能改
	other := registerAndLogin(t, r, "other")
	w, _ = doJSON(t, r, "PATCH", "/api/v1/posts/"+created.ID.String(), other.AccessToken, gin.H{"title": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 作者可以改
	w, env = doJSON(t, r, "PATCH", "/api/v1/posts/"+created.ID.String(), author.AccessToken, gin.H{"title": "edited"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated post.Post
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "edited", updated.Title)

	// 作者可以删
	w, _ = doJSON(t, r, "DELETE", "/api/v1/posts/"+created.ID.String(), author.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, "GET", "/api/v1/posts/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReactionFlow(t *testing.T) {
	r, _ := setupTestRouter(t)
	author := registerAndLogin(t, r, "author")
	reader := registerAndLogin(t, r, "reader")

	w, env := doJSON(t, r, "POST", "/api/v1/posts", author.AccessToken, gin.H{
		"title":   "t",
		"content": "c",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created post.Post
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/api/v1/posts/" + created.ID.String()

	// 作者不能给自己的帖子表态
	w, _ = doJSON(t, r, "POST", path+"/like", author.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 读者点赞
	w, env = doJSON(t, r, "POST", path+"/like", reader.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view post.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, int64(1), view.Likes)

	// 重复点赞
	w, _ = doJSON(t, r, "POST", path+"/like", reader.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 换方向
	w, env = doJSON(t, r, "POST", path+"/dislike", reader.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, int64(0), view.Likes)
	assert.Equal(t, int64(1), view.Dislikes)
}

func TestTokenRotationOverHTTP(t *testing.T) {
	r, codec := setupTestRouter(t)
	pair := registerAndLogin(t, r, "alice")

	// 取用户 ID 构造已过期的 access token，会话仍在档
	w, env := doJSON(t, r, "POST", "/api/v1/posts", pair.AccessToken, gin.H{"title": "t", "content": "c"})
	require.Equal(t, http.StatusOK, w.Code)

	var created post.Post
	require.NoError(t, json.Unmarshal(env.Data, &created))

	expired, err := codec.IssueWithTTL(created.AuthorID.String(), token.KindAccess, -time.Minute)
	require.NoError(t, err)

	w, _ = doJSON(t, r, "POST", "/api/v1/posts", expired, gin.H{"title": "t2", "content": "c2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 轮换出的新令牌通过响应头下发
	newAccess := w.Header().Get(middleware.HeaderAccessToken)
	newRefresh := w.Header().Get(middleware.HeaderRefreshToken)
	require.NotEmpty(t, newAccess)
	require.NotEmpty(t, newRefresh)

	// 旧 access token 不能再用
	w, _ = doJSON(t, r, "POST", "/api/v1/posts", expired, gin.H{"title": "t3", "content": "c3"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 新 access token 立即可用
	w, _ = doJSON(t, r, "POST", "/api/v1/posts", newAccess, gin.H{"title": "t4", "content": "c4"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestExplicitRefreshOverHTTP(t *testing.T) {
	r, _ := setupTestRouter(t)
	pair := registerAndLogin(t, r, "alice")

	// 取自己的资料拿到用户 ID
	w, env := doJSON(t, r, "POST", "/api/v1/posts", pair.AccessToken, gin.H{"title": "t", "content": "c"})
	require.Equal(t, http.StatusOK, w.Code)

	var created post.Post
	require.NoError(t, json.Unmarshal(env.Data, &created))
	userID := created.AuthorID.String()

	// 刷新端点是公开的，凭 refresh token 本身认证
	w, env = doJSON(t, r, "POST", "/api/v1/users/"+userID+"/refresh-token", "", gin.H{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rotated token.Pair
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// 旧 refresh token 已被覆盖，再次出示被拒
	w, _ = doJSON(t, r, "POST", "/api/v1/users/"+userID+"/refresh-token", "", gin.H{
		"refresh_token": pair.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutOverHTTP(t *testing.T) {
	r, _ := setupTestRouter(t)
	pair := registerAndLogin(t, r, "alice")

	w, _ := doJSON(t, r, "POST", "/api/v1/users/logout", pair.AccessToken, gin.H{
		"refresh_token": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 登出后 access token 立即失效
	w, _ = doJSON(t, r, "POST", "/api/v1/posts", pair.AccessToken, gin.H{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 重新登录恢复会话
	w, _ = doJSON(t, r, "POST", "/api/v1/users/login", "", gin.H{
		"login":    "alice",
		"password": "strong-password",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
