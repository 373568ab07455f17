// Package api provides the HTTP gateway that exposes the plant catalog to
// mobile and web clients.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/floraapp/flora-gateway/internal/catalog"
	"github.com/floraapp/flora-gateway/internal/form"
	"github.com/floraapp/flora-gateway/internal/http/response"
)

// Catalog is the catalog client surface the gateway serves.
type Catalog interface {
	ListPlants(ctx context.Context, f catalog.Filter) ([]catalog.PlantView, error)
	GetPlantDetails(ctx context.Context, id int) (catalog.PlantView, error)
	SearchPlants(ctx context.Context, query string) ([]catalog.PlantView, error)
	DeletePlant(ctx context.Context, id int) error
	GetCategories(ctx context.Context) ([]catalog.Category, error)
	GetClassifications(ctx context.Context) ([]catalog.Classification, error)
	GetOrigins(ctx context.Context) ([]catalog.Origin, error)
}

// Options configures a Server.
type Options struct {
	Title          string
	Version        string
	AllowedOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog Catalog
	forms   *form.Service
	router  *chi.Mux
	api     huma.API
	logger  *slog.Logger
}

// NewServer creates the gateway with all routes configured.
func NewServer(c Catalog, forms *form.Service, opts Options, logger *slog.Logger) *Server {
	if opts.Title == "" {
		opts.Title = "Flora Gateway"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(recoverer(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	router.Use(propagateRequestID)

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", logger)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, logger)
	})

	config := huma.DefaultConfig(opts.Title, opts.Version)
	config.Info.Description = "Browse and edit the plant taxonomy catalog."
	config.Transformers = append(config.Transformers, EnvelopeTransformer)

	s := &Server{
		catalog: c,
		forms:   forms,
		router:  router,
		api:     humachi.New(router, config),
		logger:  logger,
	}
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerTaxonomyRoutes()
	s.registerPlantRoutes()
	s.registerFormRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}
