package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chargelog/chargelog/internal/config"
	"github.com/chargelog/chargelog/internal/database"
	"github.com/chargelog/chargelog/internal/database/locations"
	"github.com/chargelog/chargelog/internal/database/sessions"
	"github.com/chargelog/chargelog/internal/database/settings"
	"github.com/chargelog/chargelog/internal/database/vehicles"
	http_controllers "github.com/chargelog/chargelog/internal/http"
	"github.com/chargelog/chargelog/internal/initializer"
	"github.com/chargelog/chargelog/internal/stats"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains it within
// the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logrus.Infof("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Infof("Shutdown requested, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server shutdown: %v", err)
	}

	logrus.Info("Server exiting")
}

// Run wires the store, repositories and initialization sequence together
// and serves the API. An initialization failure is fatal: the app cannot
// run against an unseeded store.
func Run(cfg *config.Config, version string) {
	logrus.Infof("Starting Chargelog v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	vehiclesRepo := vehicles.NewRepository(db.DB, db.Bus)
	locationsRepo := locations.NewRepository(db.DB, db.Bus)
	sessionsRepo := sessions.NewRepository(db.DB, db.Bus)
	settingsRepo := settings.NewRepository(db.DB, db.Bus)
	statsService := stats.NewService(sessionsRepo, vehiclesRepo, locationsRepo)

	sequencer := initializer.New(db.DB, settingsRepo, locationsRepo)
	if state, initErr := sequencer.Initialize(); state == initializer.StateFailed {
		logrus.Fatalf("App initialization failed: %v", initErr)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Sequencer: sequencer,
		Bus:       db.Bus,
		Vehicles:  vehiclesRepo,
		Locations: locationsRepo,
		Sessions:  sessionsRepo,
		Settings:  settingsRepo,
		Stats:     statsService,
	})

	Serve(router, cfg, func(ctx context.Context) {
		if err := db.Close(); err != nil {
			logrus.Errorf("Error closing database: %v", err)
		}
	})
}
