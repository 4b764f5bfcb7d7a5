package http

import (
	"github.com/gin-gonic/gin"

	"github.com/chargelog/chargelog/internal/database/locations"
	"github.com/chargelog/chargelog/internal/database/sessions"
	"github.com/chargelog/chargelog/internal/database/settings"
	"github.com/chargelog/chargelog/internal/database/vehicles"
	"github.com/chargelog/chargelog/internal/initializer"
	"github.com/chargelog/chargelog/internal/livequery"
	"github.com/chargelog/chargelog/internal/stats"
)

// RouterConfig carries every dependency the router needs, keeping route
// registration testable without global state.
type RouterConfig struct {
	Sequencer *initializer.Sequencer
	Bus       *livequery.Bus
	Vehicles  *vehicles.Repository
	Locations *locations.Repository
	Sessions  *sessions.Repository
	Settings  *settings.Repository
	Stats     *stats.Service
}

// NewRouter creates and configures the HTTP router with all endpoints. The
// status endpoint is always reachable; every data route is gated behind a
// completed initialization.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	statusController := NewStatusController(cfg.Sequencer)
	router.GET("/api/status", statusController.Status)

	api := router.Group("/api")
	api.Use(RequireReady(cfg.Sequencer))

	vehiclesController := NewVehiclesController(cfg.Vehicles)
	api.GET("/vehicles", vehiclesController.List)
	api.GET("/vehicles/:id", vehiclesController.Get)
	api.POST("/vehicles", vehiclesController.Create)
	api.PATCH("/vehicles/:id", vehiclesController.Update)
	api.DELETE("/vehicles/:id", vehiclesController.Delete)

	locationsController := NewLocationsController(cfg.Locations)
	api.GET("/locations", locationsController.List)
	api.GET("/locations/:id", locationsController.Get)
	api.POST("/locations", locationsController.Create)
	api.PATCH("/locations/:id", locationsController.Update)
	api.DELETE("/locations/:id", locationsController.Delete)

	sessionsController := NewSessionsController(cfg.Sessions)
	api.GET("/sessions", sessionsController.List)
	api.GET("/sessions/:id", sessionsController.Get)
	api.POST("/sessions", sessionsController.Create)
	api.PATCH("/sessions/:id", sessionsController.Update)
	api.DELETE("/sessions/:id", sessionsController.Delete)

	settingsController := NewSettingsController(cfg.Settings)
	api.GET("/settings", settingsController.Get)
	api.PATCH("/settings", settingsController.Update)
	api.POST("/settings/complete-onboarding", settingsController.CompleteOnboarding)

	statsController := NewStatsController(cfg.Stats)
	api.GET("/stats", statsController.Overview)

	liveController := NewLiveController(cfg.Bus, cfg.Sessions)
	api.GET("/live/sessions", liveController.Sessions)

	return router
}
