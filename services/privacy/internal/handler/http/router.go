package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doltnamn-se/doltnamn/pkg/health"
	"github.com/doltnamn-se/doltnamn/pkg/middleware"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// RouterDeps holds everything the router needs.
type RouterDeps struct {
	Guides         GuideService
	Checklist      ChecklistService
	URLs           URLService
	Scores         ScoreService
	TokenValidator middleware.TokenValidator
	Health         *health.Handler
	CORS           middleware.CORSConfig
	WriteRateLimit middleware.RateLimitConfig
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all privacy service routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Tracing("privacy"))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("privacy"))
	r.Use(middleware.CORS(deps.CORS))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	guideHandler := NewGuideHandler(deps.Guides, deps.Logger)
	checklistHandler := NewChecklistHandler(deps.Checklist, deps.Logger)
	urlHandler := NewURLHandler(deps.URLs, deps.Logger)
	scoreHandler := NewScoreHandler(deps.Scores, deps.Logger)
	writeLimit := middleware.RateLimit(deps.WriteRateLimit, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(deps.TokenValidator))
		r.Use(middleware.RequestLogger(deps.Logger))

		r.Route("/me", func(r chi.Router) {
			r.Get("/privacy-score", scoreHandler.Mine)
			r.Get("/checklist", checklistHandler.Get)
			r.Get("/guides", guideHandler.List)
			r.Get("/urls", urlHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(writeLimit)

				r.Put("/checklist/password", checklistHandler.MarkPasswordUpdated)
				r.Put("/checklist/sites", checklistHandler.SelectSites)
				r.Put("/checklist/identification", checklistHandler.SetIdentification)
				r.Post("/guides/{guideId}/toggle", guideHandler.Toggle)
				r.Post("/urls", urlHandler.Submit)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/urls/{id}/status", urlHandler.RecordStatus)
			r.Get("/customers/{id}/privacy-score", scoreHandler.ForCustomer)
		})
	})

	return r
}
