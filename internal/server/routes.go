package server

import (
	"log/slog"
	"net/http"

	"empire-server/internal/debris"
	debrisHandlers "empire-server/internal/debris/handlers"
	"empire-server/internal/fleet"
	fleetHandlers "empire-server/internal/fleet/handlers"
	"empire-server/internal/middleware"
	"empire-server/internal/planet"
	planetHandlers "empire-server/internal/planet/handlers"
	"empire-server/internal/player"
	playerHandlers "empire-server/internal/player/handlers"
	"empire-server/internal/queue"
	queueHandlers "empire-server/internal/queue/handlers"
	serverHandlers "empire-server/internal/server/handlers"
	"empire-server/internal/shared/clock"
	"empire-server/internal/shared/database"
)

type Routes struct {
	db            *database.DB
	playerService *player.Service
	planetService *planet.Service
	queueService  *queue.Service
	fleetService  *fleet.Service
	debrisRepo    *debris.Repository
	clock         clock.Clock
	logger        *slog.Logger
}

func NewRoutes(
	db *database.DB,
	playerService *player.Service,
	planetService *planet.Service,
	queueService *queue.Service,
	fleetService *fleet.Service,
	debrisRepo *debris.Repository,
	clk clock.Clock,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:            db,
		playerService: playerService,
		planetService: planetService,
		queueService:  queueService,
		fleetService:  fleetService,
		debrisRepo:    debrisRepo,
		clock:         clk,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.clock)
	statusHandler := serverHandlers.NewStatusHandler(r.playerService)
	playerHandler := playerHandlers.NewPlayerHandler(r.playerService)
	planetHandler := planetHandlers.NewPlanetHandler(r.planetService)
	queueHandler := queueHandlers.NewQueueHandler(r.queueService)
	missionHandler := fleetHandlers.NewMissionHandler(r.fleetService)
	debrisHandler := debrisHandlers.NewDebrisHandler(r.debrisRepo)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/api/server/status", statusHandler)
	mux.HandleFunc("/api/players/register", playerHandler.Register)
	mux.HandleFunc("/api/players/logout", playerHandler.Logout)

	// Protected endpoints (authenticated players)
	mux.Handle("/api/players/me", middleware.JWTMiddleware(http.HandlerFunc(playerHandler.Me)))
	mux.Handle("/api/planets", middleware.JWTMiddleware(http.HandlerFunc(planetHandler.ListMine)))
	mux.Handle("/api/planets/{id}", middleware.JWTMiddleware(http.HandlerFunc(planetHandler.GetByID)))
	mux.Handle("/api/planets/{id}/queue", middleware.JWTMiddleware(http.HandlerFunc(queueHandler.GetBuildingQueue)))
	mux.Handle("/api/queue/buildings", middleware.JWTMiddleware(http.HandlerFunc(queueHandler.EnqueueBuilding)))
	mux.Handle("/api/queue/research", middleware.JWTMiddleware(queueResearchHandler(queueHandler)))
	mux.Handle("/api/fleet/dispatch", middleware.JWTMiddleware(http.HandlerFunc(missionHandler.Dispatch)))
	mux.Handle("/api/fleet/missions", middleware.JWTMiddleware(http.HandlerFunc(missionHandler.List)))
	mux.Handle("/api/fleet/missions/{id}", middleware.JWTMiddleware(http.HandlerFunc(missionHandler.GetByID)))
	mux.Handle("/api/debris/{galaxy}/{system}", middleware.JWTMiddleware(http.HandlerFunc(debrisHandler.GetBySystem)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/server/status", "/api/players/register"},
		"protected_endpoints", []string{
			"/api/players/me", "/api/planets", "/api/queue/buildings",
			"/api/queue/research", "/api/fleet/dispatch", "/api/fleet/missions", "/api/debris",
		},
	)

	return mux
}

// queueResearchHandler multiplexes the research queue endpoint by
// method: GET reads the queue, POST enqueues.
func queueResearchHandler(h *queueHandlers.QueueHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.GetResearchQueue(w, r)
			return
		}
		h.EnqueueResearch(w, r)
	})
}
