package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumehub/internal/api/middleware"
	"resumehub/internal/database"
	"resumehub/internal/store"
)

// CoverLetterHandler 负责求职信的 CRUD，形状与简历路由一致。
type CoverLetterHandler struct {
	store store.Store
}

func NewCoverLetterHandler(st store.Store) *CoverLetterHandler {
	return &CoverLetterHandler{store: st}
}

type createCoverLetterRequest struct {
	UserID         uint    `json:"userId" binding:"required"`
	Title          string  `json:"title" binding:"required"`
	Content        string  `json:"content" binding:"required"`
	JobDescription *string `json:"jobDescription"`
}

type updateCoverLetterRequest struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	JobDescription *string `json:"jobDescription"`
}

// CreateCoverLetter 保存一封新的求职信。
func (h *CoverLetterHandler) CreateCoverLetter(c *gin.Context) {
	var req createCoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	letter := database.CoverLetter{
		UserID:         req.UserID,
		Title:          req.Title,
		Content:        req.Content,
		JobDescription: req.JobDescription,
	}

	if err := h.store.CreateCoverLetter(c.Request.Context(), &letter); err != nil {
		middleware.LoggerFromContext(c).Error("create cover letter failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, letter)
}

// ListCoverLettersByUser 按插入顺序列出某个用户的全部求职信。
func (h *CoverLetterHandler) ListCoverLettersByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId", "invalid user id")
	if !ok {
		return
	}

	letters, err := h.store.GetCoverLettersByUserID(c.Request.Context(), userID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list cover letters failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, letters)
}

// GetCoverLetter 返回指定 ID 的求职信。
func (h *CoverLetterHandler) GetCoverLetter(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid cover letter id")
	if !ok {
		return
	}

	letter, err := h.store.GetCoverLetter(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "cover letter not found")
			return
		}
		middleware.LoggerFromContext(c).Error("query cover letter failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, letter)
}

// UpdateCoverLetter 对求职信做部分更新，未提供的字段保持不变。
func (h *CoverLetterHandler) UpdateCoverLetter(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid cover letter id")
	if !ok {
		return
	}

	var req updateCoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	letter, err := h.store.UpdateCoverLetter(c.Request.Context(), id, store.CoverLetterUpdate{
		Title:          req.Title,
		Content:        req.Content,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "cover letter not found")
			return
		}
		middleware.LoggerFromContext(c).Error("update cover letter failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, letter)
}

// DeleteCoverLetter 删除指定求职信，行不存在时返回 404。
func (h *CoverLetterHandler) DeleteCoverLetter(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "invalid cover letter id")
	if !ok {
		return
	}

	deleted, err := h.store.DeleteCoverLetter(c.Request.Context(), id)
	if err != nil {
		middleware.LoggerFromContext(c).Error("delete cover letter failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}
	if !deleted {
		NotFound(c, "cover letter not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cover letter deleted successfully"})
}
