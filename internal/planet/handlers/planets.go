package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"empire-server/internal/middleware"
	"empire-server/internal/planet"
	"empire-server/internal/shared/errors"
	"empire-server/internal/shared/response"
)

type PlanetHandler struct {
	service *planet.Service
}

func NewPlanetHandler(service *planet.Service) *PlanetHandler {
	return &PlanetHandler{service: service}
}

// ListMine returns the caller's planets, settled to now.
func (h *PlanetHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_my_planets")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	planets, err := h.service.GetPlayerPlanets(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if planets == nil {
		planets = []planet.Planet{}
	}

	response.Success(w, http.StatusOK, planets)
}

// GetByID returns one of the caller's planets, settled to now.
func (h *PlanetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planet")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	planetID, err := pathID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	p, err := h.service.GetPlanet(ctx, planetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if p.PlayerID != claims.PlayerID {
		response.Error(w, r, logger, errors.Forbidden("planet belongs to another player"))
		return
	}

	response.Success(w, http.StatusOK, p)
}

func pathID(r *http.Request) (int, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.Validation("planet ID is required")
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.WrapValidation("invalid planet ID format", err)
	}

	return id, nil
}
