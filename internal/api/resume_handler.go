package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"resumehub/internal/api/middleware"
	"resumehub/internal/database"
	"resumehub/internal/store"
)

// ResumeHandler 负责处理与简历相关的 API 请求。
type ResumeHandler struct {
	store store.Store
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(st store.Store) *ResumeHandler {
	return &ResumeHandler{store: st}
}

type createResumeRequest struct {
	UserID     uint           `json:"userId" binding:"required"`
	Title      string         `json:"title" binding:"required"`
	Content    datatypes.JSON `json:"content" binding:"required"`
	TemplateID string         `json:"templateId" binding:"required"`
}

type updateResumeRequest struct {
	Title      *string        `json:"title"`
	Content    datatypes.JSON `json:"content"`
	TemplateID *string        `json:"templateId"`
}

// CreateResume 保存一份新的简历。
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	resume := database.Resume{
		UserID:     req.UserID,
		Title:      req.Title,
		Content:    req.Content,
		TemplateID: req.TemplateID,
	}

	if err := h.store.CreateResume(c.Request.Context(), &resume); err != nil {
		middleware.LoggerFromContext(c).Error("create resume failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, resume)
}

// ListResumesByUser 按插入顺序列出某个用户的全部简历。
func (h *ResumeHandler) ListResumesByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId", "invalid user id")
	if !ok {
		return
	}

	resumes, err := h.store.GetResumesByUserID(c.Request.Context(), userID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list resumes failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, resumes)
}

// GetResume 返回指定 ID 的简历。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid resume id")
	if !ok {
		return
	}

	resume, err := h.store.GetResume(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		middleware.LoggerFromContext(c).Error("query resume failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, resume)
}

// UpdateResume 对简历做部分更新，未提供的字段保持不变。
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid resume id")
	if !ok {
		return
	}

	var req updateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	resume, err := h.store.UpdateResume(c.Request.Context(), id, store.ResumeUpdate{
		Title:      req.Title,
		Content:    req.Content,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		middleware.LoggerFromContext(c).Error("update resume failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, resume)
}

// DeleteResume 删除指定简历，行不存在时返回 404。
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid resume id")
	if !ok {
		return
	}

	deleted, err := h.store.DeleteResume(c.Request.Context(), id)
	if err != nil {
		middleware.LoggerFromContext(c).Error("delete resume failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}
	if !deleted {
		NotFound(c, "resume not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "resume deleted successfully"})
}

// parseIDParam 解析路径中的数字 ID，非法时直接写出 400。
// 0 是合法数字，只是不会命中任何行，由存储层的 404 兜底。
func parseIDParam(c *gin.Context, name, invalidMsg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		BadRequest(c, invalidMsg)
		return 0, false
	}
	return uint(id), true
}
