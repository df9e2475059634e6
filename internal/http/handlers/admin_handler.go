package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lostfound-backend/internal/http/handlers/common"
	"github.com/ignatzorin/lostfound-backend/internal/service"
)

// AdminHandler предоставляет административные сводки и отчёты.
type AdminHandler struct {
	dashboard *service.DashboardService
	admin     *service.AdminService
}

// NewAdminHandler создаёт хэндлер.
func NewAdminHandler(dashboard *service.DashboardService, admin *service.AdminService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, admin: admin}
}

// Dashboard обрабатывает GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	summary, err := h.dashboard.GlobalSummary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, summary)
}

// UserDashboard обрабатывает GET /api/admin/user-dashboard:
// сводка по заявкам текущего пользователя.
func (h *AdminHandler) UserDashboard(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	summary, err := h.dashboard.UserSummary(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, summary)
}

// Reports обрабатывает GET /api/admin/reports с фильтрами
// status, category, startDate, endDate.
func (h *AdminHandler) Reports(c *gin.Context) {
	items, err := h.admin.Reports(c.Request.Context(), service.ReportsQuery{
		Status:    c.Query("status"),
		Category:  c.Query("category"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
