package post

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/pulse/internal/server/middleware"
	"github.com/kochabx/pulse/internal/server/response"
	"github.com/kochabx/pulse/pkg/errors"
)

// Handler 帖子 HTTP 处理器
type Handler struct {
	svc *Service
}

// NewHandler 创建帖子处理器
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 挂载帖子路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	posts.GET("", h.List)
	posts.POST("", h.Create)
	posts.GET("/:id", h.Get)
	posts.PATCH("/:id", h.Update)
	posts.DELETE("/:id", h.Delete)
	posts.POST("/:id/like", h.Like)
	posts.POST("/:id/dislike", h.Dislike)
}

// List 分页列出帖子
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	views, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.JSONE(c, err)
		return
	}

	response.JSON(c, views)
}

// Create 创建帖子
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.JSONE(c, errors.Unauthorized("authentication required"))
		return
	}

	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.JSONE(c, errors.BadRequest("%v", err))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.JSONE(c, err)
		return
	}

	response.JSON(c, p)
}

// Get 查询帖子
func (h *Handler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.JSONE(c, err)
		return
	}

	response.JSON(c, view)
}

// Update 更新帖子
func (h *Handler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.JSONE(c, errors.Unauthorized("authentication required"))
		return
	}

	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.JSONE(c, errors.BadRequest("%v", err))
		return
	}

	p, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), &input)
	if err != nil {
		response.JSONE(c, err)
		return
	}

	response.JSON(c, p)
}

// Delete 删除帖子
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.JSONE(c, errors.Unauthorized("authentication required"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.JSONE(c, err)
		return
	}

	response.JSON(c, nil)
}

// Like 点赞
func (h *Handler) Like(c *gin.Context) {
	h.react(c, DirectionLike)
}

// Dislike 点踩
func (h *Handler) Dislike(c *gin.Context) {
	h.react(c, DirectionDislike)
}

func (h *Handler) react(c *gin.Context, dir Direction) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.JSONE(c, errors.Unauthorized("authentication required"))
		return
	}

	view, err := h.svc.React(c.Request.Context(), userID, c.Param("id"), dir)
	if err != nil {
		response.JSONE(c, err)
		return
	}

	response.JSON(c, view)
}
