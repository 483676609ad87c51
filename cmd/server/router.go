package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lapakly/lapak-api/internal/api"
	apiMiddleware "github.com/lapakly/lapak-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	productHandler := api.NewProductHandler(app.productStore)
	generationHandler := api.NewGenerationHandler(app.contentService)
	exportHandler := api.NewExportHandler(app.productStore)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Product endpoints
			r.Post("/products", productHandler.Create)
			r.Get("/products", productHandler.List)
			r.Get("/products/{productID}", productHandler.Get)
			r.Put("/products/{productID}", productHandler.Update)
			r.Delete("/products/{productID}", productHandler.Delete)

			// AI generation endpoints
			r.Post("/ai/generate", generationHandler.Generate)
			r.Post("/ai/generate/{productID}", generationHandler.GenerateForProduct)

			// Catalog export
			r.Get("/export/products.csv", exportHandler.ExportProductsCSV)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
