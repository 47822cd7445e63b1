package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feedboard/internal/configsync"
	"feedboard/internal/controllers"
	"feedboard/internal/history"
	"feedboard/internal/providers"
	"feedboard/internal/session"
	"feedboard/internal/stats"
	"feedboard/internal/structures"
)

type App struct {
	WebServer *http.Server
}

// NewApp ties the session lifecycle to the poller and synchronizer, restores
// persisted state, serves the dashboard and blocks until shutdown.
func NewApp(healthController *controllers.HealthController, sess *session.Manager, syncer *configsync.Synchronizer, poller *stats.Poller, journal *history.Journal, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, router.GetRoutes(), apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	// The poller and the initial config fetch follow session transitions,
	// not UI lifecycle.
	sess.OnTransition(func(s session.State) {
		switch s {
		case session.Authenticated:
			poller.Start()
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), conf.Remote.Timeout+time.Second)
				defer cancel()
				if _, err := syncer.Fetch(ctx); err != nil {
					logger.Errorf(providers.TypeApp, "Initial config fetch failed: %s", err)
				}
			}()
		case session.Unauthenticated:
			poller.Stop()
			syncer.Reset()
		}
	})

	if err := journal.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore save history: %s", err)
	}

	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), conf.Remote.Timeout+time.Second)
	if err := sess.Restore(restoreCtx); err != nil {
		logger.Warnf(providers.TypeApp, "Session not restored: %s", err)
	}
	cancelRestore()

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return nil, fmt.Errorf("server error: %w", err)
	}

	poller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
