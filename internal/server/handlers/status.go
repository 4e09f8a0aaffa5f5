package handlers

import (
	"log/slog"
	"net/http"

	"empire-server/internal/player"
	"empire-server/internal/shared/config"
	"empire-server/internal/shared/response"
)

type StatusResponse struct {
	Game         string  `json:"game"`
	Players      int     `json:"players"`
	EconomySpeed float64 `json:"economy_speed"`
	FleetSpeed   float64 `json:"fleet_speed"`
}

type StatusHandler struct {
	players *player.Service
}

func NewStatusHandler(players *player.Service) *StatusHandler {
	return &StatusHandler{players: players}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "status")

	count, err := h.players.GetPlayerCount(r.Context())
	if err != nil {
		logger.Warn("Failed to count players", "error", err)
		count = 0
	}

	cfg := config.GlobalConfig.Game
	resp := StatusResponse{
		Game:         "Empire",
		Players:      count,
		EconomySpeed: cfg.EconomySpeed,
		FleetSpeed:   cfg.FleetSpeed,
	}

	response.Success(w, http.StatusOK, resp)
}
