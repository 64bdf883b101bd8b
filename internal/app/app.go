// Package app wires configuration, the hand-off broker, authentication and
// the HTTP API together and exposes them as the triggerd command line.
package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"notify-triggers/internal/auth"
	"notify-triggers/internal/brokers"
	"notify-triggers/internal/brokers/manager"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
	"notify-triggers/internal/common/ratelimit"
	"notify-triggers/internal/config"
	"notify-triggers/internal/handlers"
)

// App holds all the application dependencies
type App struct {
	Config    *config.Config
	Publisher brokers.Publisher
	Auth      *auth.Auth
	Handlers  *handlers.Handlers
	Limiter   *ratelimit.Limiter
	Logger    logging.Logger
}

// New creates a new application instance with all dependencies. cfg must
// already be validated.
func New(cfg *config.Config, opts ...handlers.Option) (*App, error) {
	if cfg == nil {
		return nil, errors.ConfigError("config is required")
	}

	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	publisher, err := manager.NewPublisher(cfg, app.Logger)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		app.Logger.Info("No hand-off broker configured, submission is disabled")
	}

	limiter, err := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	})
	if err != nil {
		if publisher != nil {
			publisher.Close()
		}
		return nil, err
	}

	app.Publisher = publisher
	app.Limiter = limiter
	app.Auth = auth.New(cfg)
	app.Handlers = handlers.New(cfg, publisher, opts...)

	if !app.Auth.Enabled() {
		app.Logger.Warn("JWT_SECRET not set, the API is unauthenticated")
	}

	return app, nil
}

// Router builds the HTTP routes
func (a *App) Router() http.Handler {
	router := mux.NewRouter()
	SetupRoutes(router, a.Handlers, a.Auth.RequireAuth, a.Limiter)
	return router
}

// Shutdown releases the broker connection
func (a *App) Shutdown(ctx context.Context) error {
	if a.Publisher == nil {
		return nil
	}
	if err := a.Publisher.Close(); err != nil {
		return errors.InternalError("failed to close broker", err)
	}
	return nil
}
