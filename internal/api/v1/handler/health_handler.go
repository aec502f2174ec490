package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/krzotki/eleven-labs-demo/internal/api/v1/dto"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a health handler. db may be nil when the bot runs
// on the in-memory store.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.health)
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponseDTO
// @Failure 503 {object} dto.HealthResponseDTO
// @Router /healthz [get]
func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, dto.HealthResponseDTO{Status: "database unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, dto.HealthResponseDTO{Status: "ok"})
}
