package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"empire-server/internal/catalog"
	"empire-server/internal/fleet"
	"empire-server/internal/middleware"
	"empire-server/internal/shared/errors"
	"empire-server/internal/shared/response"
	"empire-server/internal/universe"

	"github.com/go-playground/validator/v10"
)

type MissionHandler struct {
	service  *fleet.Service
	validate *validator.Validate
}

func NewMissionHandler(service *fleet.Service) *MissionHandler {
	return &MissionHandler{
		service:  service,
		validate: validator.New(),
	}
}

type dispatchRequest struct {
	OriginPlanetID  int              `json:"origin_planet_id" validate:"required,gt=0"`
	Galaxy          int              `json:"galaxy" validate:"required,gte=1"`
	System          int              `json:"system" validate:"required,gte=1"`
	Position        int              `json:"position" validate:"required,gte=1"`
	DestinationKind string           `json:"destination_kind" validate:"required"`
	MissionType     string           `json:"mission_type" validate:"required"`
	Ships           map[string]int64 `json:"ships" validate:"required"`
	Metal           float64          `json:"metal" validate:"gte=0"`
	Crystal         float64          `json:"crystal" validate:"gte=0"`
	Deuterium       float64          `json:"deuterium" validate:"gte=0"`
	SpeedPercent    int              `json:"speed_percent" validate:"required,gte=1,lte=100"`
}

// Dispatch launches a mission from one of the caller's planets.
func (h *MissionHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "dispatch_fleet")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request", err))
		return
	}

	ships := make(map[catalog.ShipID]int64, len(req.Ships))
	for id, count := range req.Ships {
		ships[catalog.ShipID(id)] = count
	}

	mission, err := h.service.Dispatch(ctx, claims.PlayerID, fleet.DispatchRequest{
		OriginPlanetID: req.OriginPlanetID,
		Destination: universe.Coordinates{
			Galaxy:   req.Galaxy,
			System:   req.System,
			Position: req.Position,
		},
		DestinationKind: fleet.DestinationKind(req.DestinationKind),
		Type:            fleet.MissionType(req.MissionType),
		Ships:           ships,
		Cargo: catalog.Resources{
			Metal:     req.Metal,
			Crystal:   req.Crystal,
			Deuterium: req.Deuterium,
		},
		SpeedPercent: req.SpeedPercent,
	})
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, mission)
}

// List returns the caller's recent missions.
func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "list_missions")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	missions, err := h.service.ListMissions(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if missions == nil {
		missions = []fleet.Mission{}
	}

	response.Success(w, http.StatusOK, missions)
}

// GetByID returns one of the caller's missions.
func (h *MissionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_mission")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	idStr := r.PathValue("id")
	if idStr == "" {
		response.Error(w, r, logger, errors.Validation("mission ID is required"))
		return
	}
	missionID, err := strconv.Atoi(idStr)
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid mission ID format", err))
		return
	}

	mission, err := h.service.GetMission(ctx, claims.PlayerID, missionID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, mission)
}
