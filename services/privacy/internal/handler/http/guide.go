package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/doltnamn-se/doltnamn/pkg/httputil"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// GuideService is the guide behaviour the handler depends on.
type GuideService interface {
	ListGuides(ctx context.Context) ([]domain.GuideStatus, error)
	Toggle(ctx context.Context, guideID domain.GuideID) (*domain.GuideToggle, error)
}

// GuideHandler serves the removal guides of the session customer.
type GuideHandler struct {
	service GuideService
	logger  *slog.Logger
}

// NewGuideHandler creates a new guide HTTP handler.
func NewGuideHandler(service GuideService, logger *slog.Logger) *GuideHandler {
	return &GuideHandler{service: service, logger: logger}
}

// List handles GET /api/v1/me/guides.
func (h *GuideHandler) List(w http.ResponseWriter, r *http.Request) {
	guides, err := h.service.ListGuides(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, guides)
}

// Toggle handles POST /api/v1/me/guides/{guideId}/toggle.
func (h *GuideHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	guideID := domain.GuideID(chi.URLParam(r, "guideId"))

	toggle, err := h.service.Toggle(r.Context(), guideID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, toggleResponse{
		GuideID:         toggle.GuideID,
		Completed:       toggle.Completed,
		CompletedGuides: toggle.CompletedGuides.Sorted(),
	})
}

type toggleResponse struct {
	GuideID         domain.GuideID   `json:"guide_id"`
	Completed       bool             `json:"completed"`
	CompletedGuides []domain.GuideID `json:"completed_guides"`
}
