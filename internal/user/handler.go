package user

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/pulse/internal/server/middleware"
	"github.com/kochabx/pulse/internal/server/response"
	"github.com/kochabx/pulse/internal/token"
	"github.com/kochabx/pulse/pkg/errors"
	"github.com/kochabx/pulse/pkg/log"
)

// translateTokenErr 将令牌层的哨兵错误映射为 401；
// 其余错误视为会话缓存故障，映射为 503 且不向客户端泄露原因
func translateTokenErr(err error) error {
	switch {
	case stderrors.Is(err, token.ErrUnauthenticated),
		stderrors.Is(err, token.ErrNoSession),
		stderrors.Is(err, token.ErrTokenRevoked),
		stderrors.Is(err, token.ErrTokenExpired),
		stderrors.Is(err, token.ErrInvalidToken),
		stderrors.Is(err, token.ErrMalformedAuthScheme):
		return errors.Unauthorized("%v", err)
	default:
		log.Error().Err(err).Msg("session cache failure")
		return errors.ServiceUnavailable("service temporarily unavailable")
	}
}

// Handler 用户 HTTP 处理器
type Handler struct {
	svc *Service
}

// NewHandler 创建用户处理器
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载用户路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("/registration", h.Registration)
	users.POST("/login", h.Login)
	users.POST("/logout", h.Logout)
	users.POST("/:id/refresh-token", h.RefreshToken)
	users.GET("/:id", h.Get)
}

// Get 查询用户资料
func (h *Handler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.JSONE(c, err)
		return
	}

	response.JSON(c, u)
}

// Registration 注册新用户
func (h *Handler) Registration(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.JSONE(c, errors.BadRequest("%v", err))
		return
	}

	u, err := h.svc.Register(c.Request.Context(), &input)
	if err != nil {
		response.JSONE(c, err)
		return
	}

	response.JSON(c, u)
}

// Login 登录并下发令牌对
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.JSONE(c, errors.BadRequest("%v", err))
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), &input)
	if err != nil {
		response.JSONE(c, err)
		return
	}

	// 令牌对同时通过响应头下发，与轮换时的下发通道一致
	c.Header(middleware.HeaderAccessToken, pair.AccessToken)
	c.Header(middleware.HeaderRefreshToken, pair.RefreshToken)

	response.JSON(c, pair)
}

// Logout 登出当前会话
// access token 取自 Authorization 头，refresh token 从请求体补充
func (h *Handler) Logout(c *gin.Context) {
	accessToken, err := token.ExtractBearer(c.GetHeader("Authorization"))
	if err != nil {
		response.JSONE(c, errors.Unauthorized("%v", err))
		return
	}

	var input LogoutInput
	_ = c.ShouldBindJSON(&input) // 请求体可以为空

	if err := h.svc.Logout(c.Request.Context(), accessToken, input.RefreshToken); err != nil {
		response.JSONE(c, translateTokenErr(err))
		return
	}

	response.JSON(c, nil)
}

// RefreshToken 显式刷新令牌对
// 出示的 refresh token 必须与该用户的在档记录一致
func (h *Handler) RefreshToken(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.JSONE(c, errors.BadRequest("%v", err))
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), c.Param("id"), input.RefreshToken)
	if err != nil {
		response.JSONE(c, translateTokenErr(err))
		return
	}

	response.JSON(c, pair)
}
