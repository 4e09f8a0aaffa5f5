package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"empire-server/internal/catalog"
	"empire-server/internal/middleware"
	"empire-server/internal/queue"
	"empire-server/internal/shared/errors"
	"empire-server/internal/shared/response"

	"github.com/go-playground/validator/v10"
)

type QueueHandler struct {
	service  *queue.Service
	validate *validator.Validate
}

func NewQueueHandler(service *queue.Service) *QueueHandler {
	return &QueueHandler{
		service:  service,
		validate: validator.New(),
	}
}

type enqueueBuildingRequest struct {
	PlanetID int    `json:"planet_id" validate:"required,gt=0"`
	Building string `json:"building" validate:"required"`
}

type enqueueResearchRequest struct {
	FundingPlanetID int    `json:"funding_planet_id" validate:"required,gt=0"`
	Research        string `json:"research" validate:"required"`
}

// GetBuildingQueue returns a planet's pending upgrades after advancing
// anything due.
func (h *QueueHandler) GetBuildingQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_building_queue")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	planetID, err := pathPlanetID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	entries, err := h.service.GetBuildingQueueFor(ctx, claims.PlayerID, planetID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if entries == nil {
		entries = []queue.Entry{}
	}

	response.Success(w, http.StatusOK, entries)
}

// EnqueueBuilding charges the planet and appends a building upgrade.
func (h *QueueHandler) EnqueueBuilding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "enqueue_building")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req enqueueBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request", err))
		return
	}

	entry, err := h.service.EnqueueBuildingFor(ctx, claims.PlayerID, req.PlanetID, catalog.BuildingID(req.Building))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, entry)
}

// GetResearchQueue returns the caller's research queue after advancing
// anything due.
func (h *QueueHandler) GetResearchQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_research_queue")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	entries, err := h.service.GetResearchQueue(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if entries == nil {
		entries = []queue.Entry{}
	}

	response.Success(w, http.StatusOK, entries)
}

// EnqueueResearch charges the funding planet and appends a research
// upgrade to the caller's queue.
func (h *QueueHandler) EnqueueResearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "enqueue_research")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req enqueueResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request", err))
		return
	}

	entry, err := h.service.EnqueueResearch(ctx, claims.PlayerID, req.FundingPlanetID, catalog.ResearchID(req.Research))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, entry)
}

func pathPlanetID(r *http.Request) (int, error) {
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
