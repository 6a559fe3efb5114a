package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/doltnamn-se/doltnamn/pkg/httputil"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// ScoreService is the scoring behaviour the handler depends on.
type ScoreService interface {
	CalculateMine(ctx context.Context) (*domain.PrivacyScore, error)
	Calculate(ctx context.Context, customerID string) (*domain.PrivacyScore, error)
}

// ScoreHandler serves privacy scores.
type ScoreHandler struct {
	service ScoreService
	logger  *slog.Logger
}

// NewScoreHandler creates a new score HTTP handler.
func NewScoreHandler(service ScoreService, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{service: service, logger: logger}
}

// Mine handles GET /api/v1/me/privacy-score.
func (h *ScoreHandler) Mine(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.CalculateMine(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, score)
}

// ForCustomer handles GET /api/v1/admin/customers/{id}/privacy-score.
func (h *ScoreHandler) ForCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	score, err := h.service.Calculate(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, score)
}
