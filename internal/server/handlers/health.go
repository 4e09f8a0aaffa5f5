package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"empire-server/internal/shared/clock"
	"empire-server/internal/shared/database"
	"empire-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

type HealthHandler struct {
	db    *database.DB
	clock clock.Clock
}

func NewHealthHandler(db *database.DB, clk clock.Clock) *HealthHandler {
	return &HealthHandler{db: db, clock: clk}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "connected"
	code := http.StatusOK

	if err := h.db.Ping(); err != nil {
		slog.Warn("Database ping failed", "handler", "health", "error", err)
		status = "degraded"
		dbStatus = "disconnected"
		code = http.StatusServiceUnavailable
	}

	response.Success(w, code, HealthResponse{
		Status:    status,
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
		Database:  dbStatus,
	})
}
