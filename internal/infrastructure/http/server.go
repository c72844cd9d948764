package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/auth"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/config"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http/handler"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/http/middleware"
	"github.com/C-SergioSilva/Mg-gourmet/internal/infrastructure/telemetry"
)

// Server represents the HTTP server
type Server struct {
	router      *chi.Mux
	httpServer  *http.Server
	config      *config.Config
	products    *handler.ProductHandler
	authHandler *handler.AuthHandler
	tokens      *auth.TokenManager
	logger      *slog.Logger
	telemetry   *telemetry.Telemetry
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	products *handler.ProductHandler,
	authHandler *handler.AuthHandler,
	tokens *auth.TokenManager,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		config:      cfg,
		products:    products,
		authHandler: authHandler,
		tokens:      tokens,
		logger:      logger,
		telemetry:   telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	// Structured JSON logging middleware (replaces chimiddleware.Logger)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)

	// Add HTTP route to context so all logs include it automatically
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.telemetry.MeterProvider.Meter("mg-gourmet-api")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	authenticate := middleware.Authenticate(s.tokens)

	s.router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.authHandler.Register)
			r.Post("/login", s.authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/me", s.authHandler.Me)
				r.Post("/refresh", s.authHandler.Refresh)
				r.Post("/logout", s.authHandler.Logout)
			})
		})

		api.Route("/products", func(r chi.Router) {
			// Public reads; route exceptions are intentional.
			r.Get("/", s.products.ListProducts)
			r.Get("/{id}", s.products.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", s.products.CreateProduct)
				r.Put("/{id}", s.products.UpdateProduct)
				r.Patch("/{id}", s.products.UpdateProduct)
				r.Delete("/{id}", s.products.DeleteProduct)
			})
		})

		api.With(authenticate).Get("/my-products", s.products.MyProducts)
	})

	// Public blob tree for uploaded images
	fileServer := http.FileServer(http.Dir(s.config.Storage.Root))
	s.router.Handle("/storage/*", http.StripPrefix("/storage/", fileServer))

	// Health check endpoint
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint - exposes OpenTelemetry metrics
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Starting HTTP server",
		slog.String("address", addr),
	)

	// Wrap the entire router with otelhttp for automatic HTTP metrics and tracing
	wrapped := otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			routePattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					routePattern = pattern
				}
			}
			return []attribute.KeyValue{
				attribute.String("http.route", routePattern),
			}
		}),
	)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: wrapped,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
