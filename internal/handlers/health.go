package handlers

import (
	"context"
	"net/http"
	"time"

	"campusnews/internal/logger"
	helpers "campusnews/internal/utils/helpers"

	"go.uber.org/zap"
)

// Pinger — проверка доступности хранилища; nil для in-memory.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health
// @Summary      Liveness
// @Description  200, если сервис жив и база отвечает
// @Tags         health
// @Produce      json
// @Success      200 {object} helpers.Response
// @Failure      503 {object} helpers.Response
// @Router       /healthz [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Error("health: база недоступна", zap.Error(err))
			helpers.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
