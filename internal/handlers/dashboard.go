package handlers

import (
	"net/http"

	"campusnews/internal/reqctx"
	"campusnews/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	resp      *Responder
}

func NewDashboardHandler(dashboard *services.DashboardService, resp *Responder) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, resp: resp}
}

// Dashboard
// @Summary      Дашборд
// @Description  Статистика по статьям текущего администратора, вовлечённость, популярные категории и статьи
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} helpers.Response{data=models.DashboardView}
// @Failure      403 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /dashboard/ [get]
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Build(r.Context(), reqctx.User(r.Context()))
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}
