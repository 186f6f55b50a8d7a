// Package ui serves the dashboard data API: read-only JSON views over the
// gold artifacts. The API never computes statistics itself; it joins and
// reshapes what the pipeline already persisted.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"toypal/internal"
	"toypal/internal/config"
)

// App represents the dashboard API application.
type App struct {
	router *chi.Mux
	cfg    *config.Config
}

// NewApp creates the dashboard API over the configured artifact paths.
func NewApp(cfg *config.Config) *App {
	app := &App{
		router: chi.NewRouter(),
		cfg:    cfg,
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/api/health", a.handleHealth)
	a.router.Get("/api/summary", a.handleSummary)
	a.router.Get("/api/results", a.handleResults)
	a.router.Get("/api/results/{id}", a.handleResultByID)
	a.router.Get("/api/efficacy", a.handleEfficacy)
	a.router.Get("/api/drivers", a.handleDrivers)
	a.router.Get("/api/perspective", a.handlePerspective)
	a.router.Get("/api/nlp", a.handleNLP)
	a.router.Get("/api/participants", a.handleParticipants)
	a.router.Get("/api/participants/{id}", a.handleParticipantDetail)
}

// Router exposes the configured mux, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server.
func (a *App) Start() error {
	internal.DefaultLogger.Info("Starting ToyPal dashboard API on %s", a.cfg.Server.Addr)
	return http.ListenAndServe(a.cfg.Server.Addr, a.router)
}
