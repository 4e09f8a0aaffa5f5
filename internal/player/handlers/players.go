package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"empire-server/internal/auth"
	"empire-server/internal/middleware"
	"empire-server/internal/player"
	"empire-server/internal/shared/config"
	"empire-server/internal/shared/errors"
	"empire-server/internal/shared/response"

	"github.com/go-playground/validator/v10"
)

type PlayerHandler struct {
	service  *player.Service
	validate *validator.Validate
}

func NewPlayerHandler(service *player.Service) *PlayerHandler {
	return &PlayerHandler{
		service:  service,
		validate: validator.New(),
	}
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=64"`
}

type registerResponse struct {
	Player *player.Player `json:"player"`
	Token  string         `json:"token"`
}

// Register creates a player with a homeworld and issues a session
// token.
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "register_player")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request", err))
		return
	}

	p, err := h.service.Register(ctx, req.Username, req.Email, req.DisplayName)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	token, err := auth.GenerateJWT(p)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to issue token", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Secure:   config.GlobalConfig.Auth.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(config.GlobalConfig.Auth.TokenExpiration.Seconds()),
	})

	response.Success(w, http.StatusCreated, registerResponse{Player: p, Token: token})
}

// Me returns the authenticated player.
func (h *PlayerHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "me")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	p, err := h.service.GetPlayerByID(ctx, claims.PlayerID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}

// Logout clears the session cookie.
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		HttpOnly: true,
		Secure:   config.GlobalConfig.Auth.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})

	response.Success(w, http.StatusOK, map[string]string{"status": "logged out"})
}
