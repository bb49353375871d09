package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumehub/internal/api/middleware"
	"resumehub/internal/store"
)

// TemplateHandler 负责模板相关的只读 API。
type TemplateHandler struct {
	store store.Store
}

func NewTemplateHandler(st store.Store) *TemplateHandler {
	return &TemplateHandler{store: st}
}

// ListTemplates 返回全部模板。
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.store.GetAllTemplates(c.Request.Context())
	if err != nil {
		middleware.LoggerFromContext(c).Error("list templates failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// ListFreeTemplates 返回全部免费模板。
func (h *TemplateHandler) ListFreeTemplates(c *gin.Context) {
	h.listByPremium(c, false)
}

// ListPremiumTemplates 返回全部付费模板。
func (h *TemplateHandler) ListPremiumTemplates(c *gin.Context) {
	h.listByPremium(c, true)
}

func (h *TemplateHandler) listByPremium(c *gin.Context, isPremium bool) {
	templates, err := h.store.GetTemplatesByPremiumStatus(c.Request.Context(), isPremium)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list templates by premium failed", slog.Any("error", err))
		Internal(c, "internal server error")
		return
	}
	c.JSON(http.StatusOK, templates)
}
