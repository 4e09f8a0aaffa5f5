package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"empire-server/internal/debris"
	"empire-server/internal/shared/errors"
	"empire-server/internal/shared/response"
	"empire-server/internal/universe"
)

type DebrisHandler struct {
	repo *debris.Repository
}

func NewDebrisHandler(repo *debris.Repository) *DebrisHandler {
	return &DebrisHandler{repo: repo}
}

// GetBySystem returns the debris fields of one system, for the galaxy
// view.
func (h *DebrisHandler) GetBySystem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_system_debris")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	galaxy, err := pathInt(r, "galaxy")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	system, err := pathInt(r, "system")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if galaxy < 1 || galaxy > universe.MaxGalaxy || system < 1 || system > universe.MaxSystem {
		response.Error(w, r, logger, errors.Validation("coordinates out of range"))
		return
	}

	fields, err := h.repo.ListFieldsBySystem(ctx, galaxy, system)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if fields == nil {
		fields = []debris.Field{}
	}

	response.Success(w, http.StatusOK, fields)
}

func pathInt(r *http.Request, key string) (int, error) {
	raw := r.PathValue(key)
	if raw == "" {
		return 0, errors.Validationf("%s is required", key)
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.WrapValidation("invalid "+key+" format", err)
	}

	return v, nil
}
