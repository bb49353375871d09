package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"resumehub/internal/analysis"
	"resumehub/internal/api/middleware"
	"resumehub/internal/database"
	"resumehub/internal/store"
)

// AnalysisHandler 负责简历评分与职位匹配路由。
// 评分与匹配逻辑委托给注入的 analysis.Engine。
type AnalysisHandler struct {
	store  store.Store
	engine analysis.Engine
}

// NewAnalysisHandler 构造 AnalysisHandler。
func NewAnalysisHandler(st store.Store, engine analysis.Engine) *AnalysisHandler {
	return &AnalysisHandler{store: st, engine: engine}
}

type scoreRequest struct {
	ResumeID uint `json:"resumeId" binding:"required"`
}

// CreateResumeScore 为简历生成评分并持久化。简历不存在时返回 404，不落任何行。
func (h *AnalysisHandler) CreateResumeScore(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.Uint64("resume_id", uint64(req.ResumeID)))

	resume, err := h.store.GetResume(ctx, req.ResumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		logger.Error("query resume failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	result, err := h.engine.ScoreResume(ctx, resume)
	if err != nil {
		logger.Error("score resume failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	feedback, err := json.Marshal(result.Feedback)
	if err != nil {
		logger.Error("encode feedback failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	score := database.ResumeScore{
		ResumeID: req.ResumeID,
		Score:    result.Score,
		Feedback: datatypes.JSON(feedback),
	}
	if err := h.store.CreateResumeScore(ctx, &score); err != nil {
		logger.Error("create resume score failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, score)
}

// GetResumeScore 返回该简历最近一次的评分。
func (h *AnalysisHandler) GetResumeScore(c *gin.Context) {
	resumeID, ok := parseIDParam(c, "resumeId", "invalid resume id")
	if !ok {
		return
	}

	score, err := h.store.GetResumeScoreByResumeID(c.Request.Context(), resumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume score not found")
			return
		}
		middleware.LoggerFromContext(c).Error("query resume score failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, score)
}

type jdMatchRequest struct {
	ResumeID       uint   `json:"resumeId" binding:"required"`
	JobDescription string `json:"jobDescription" binding:"required,min=50"`
}

// CreateJdMatch 将简历与职位描述做匹配分析并持久化。
// 简历不存在时返回 404；描述不足 50 字符时返回 400，均不落任何行。
func (h *AnalysisHandler) CreateJdMatch(c *gin.Context) {
	var req jdMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ValidationFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.Uint64("resume_id", uint64(req.ResumeID)))

	resume, err := h.store.GetResume(ctx, req.ResumeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "resume not found")
			return
		}
		logger.Error("query resume failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	result, err := h.engine.MatchJobDescription(ctx, resume, req.JobDescription)
	if err != nil {
		logger.Error("match job description failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	missingKeywords, err := json.Marshal(result.MissingKeywords)
	if err != nil {
		logger.Error("encode missing keywords failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}
	suggestions, err := json.Marshal(result.Suggestions)
	if err != nil {
		logger.Error("encode suggestions failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	match := database.ResumeJdMatch{
		ResumeID:        req.ResumeID,
		JobDescription:  req.JobDescription,
		MatchScore:      result.MatchScore,
		MissingKeywords: datatypes.JSON(missingKeywords),
		Suggestions:     datatypes.JSON(suggestions),
	}
	if err := h.store.CreateResumeJdMatch(ctx, &match); err != nil {
		logger.Error("create jd match failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, match)
}

// ListJdMatches 返回该简历的全部匹配历史，可能为空列表。
func (h *AnalysisHandler) ListJdMatches(c *gin.Context) {
	resumeID, ok := parseIDParam(c, "resumeId", "invalid resume id")
	if !ok {
		return
	}

	matches, err := h.store.GetResumeJdMatchesByResumeID(c.Request.Context(), resumeID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list jd matches failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}

	c.JSON(http.StatusOK, matches)
}
