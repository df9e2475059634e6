package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lostfound-backend/internal/http/handlers/common"
	"github.com/ignatzorin/lostfound-backend/internal/service"
)

// DashboardHandler отдаёт публичную статистику сервиса.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler создаёт хэндлер.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary обрабатывает GET /api/dashboard/summary.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.PublicSummary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, summary)
}

// Recent обрабатывает GET /api/dashboard/recent?limit=N.
func (h *DashboardHandler) Recent(c *gin.Context) {
	limit := common.ParseIntQuery(c, "limit", 0)

	items, err := h.dashboard.RecentItems(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"items": items})
}
