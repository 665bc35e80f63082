package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DannyJSullivan/card-inventory-api/internal/config"
	"github.com/DannyJSullivan/card-inventory-api/internal/service"
	"github.com/DannyJSullivan/card-inventory-api/pkg/health"
	"github.com/DannyJSullivan/card-inventory-api/pkg/middleware"
)

// RouterDeps collects what NewRouter wires into the route tree.
type RouterDeps struct {
	AuthService *service.AuthService
	Health      *health.Handler
	HTTPMetrics *middleware.HTTPMetrics
	Gatherer    prometheus.Gatherer
	CORS        middleware.CORSConfig
	Logger      *slog.Logger
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Tracing(config.ServiceName))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(deps.HTTPMetrics.Handler)
	r.Use(middleware.CORS(deps.CORS))

	r.Get("/", Root)

	// Health check endpoints
	r.Get("/health", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	authHandler := NewAuthHandler(deps.AuthService, deps.Logger)
	r.Route("/auth", func(r chi.Router) {
		// Public
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.With(middleware.RequireContentType("application/json")).Post("/register", authHandler.Register)
			r.With(middleware.RequireContentType(contentTypeForm, contentTypeMultipart)).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		// Bearer token required
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.Auth(deps.AuthService.ValidateToken))

			r.Get("/me", authHandler.Me)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/token-status", authHandler.TokenStatus)
		})
	})

	return r
}
