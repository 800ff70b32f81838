// Package api exposes the pipeline over HTTP: catalog browsing, two-stage
// fits on posted light curves, stored run retrieval, and a rendered run
// report.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"photoeccentric/app"
	"photoeccentric/internal"
	"photoeccentric/ports"
)

// App is the HTTP application.
type App struct {
	router  *chi.Mux
	service *app.Service
	catalog ports.CatalogPort         // optional
	runs    ports.FitResultRepository // optional
	log     *internal.Logger
}

// NewApp wires the HTTP surface. catalog and runs may be nil; their routes
// respond 503 when the capability is not configured.
func NewApp(service *app.Service, catalog ports.CatalogPort, runs ports.FitResultRepository) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		catalog: catalog,
		runs:    runs,
		log:     internal.DefaultLogger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Get("/api/targets", a.handleListTargets)
	a.router.Get("/api/targets/{id}", a.handleGetTarget)

	a.router.Post("/api/fits", a.handleFit)

	a.router.Get("/api/runs", a.handleListRuns)
	a.router.Get("/api/runs/{id}", a.handleGetRun)
	a.router.Get("/api/runs/{id}/report", a.handleRunReport)
}

// Router returns the configured handler for the HTTP server.
func (a *App) Router() http.Handler {
	return a.router
}
