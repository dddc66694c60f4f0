package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/task-manager-api/internal/api"
	apiMiddleware "github.com/phrazzld/task-manager-api/internal/api/middleware"
)

// setupRouter builds the router with standard middleware, the API routes and
// the health check.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService, app.userStore)
	api.RegisterRoutes(
		r,
		api.NewUserHandler(app.userService, app.logger),
		api.NewTaskHandler(app.taskService, app.logger),
		authMiddleware.Authenticate,
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
