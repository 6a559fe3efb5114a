package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/doltnamn-se/doltnamn/pkg/httputil"
	"github.com/doltnamn-se/doltnamn/pkg/validator"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// URLService is the URL lifecycle behaviour the handler depends on.
type URLService interface {
	ListIncomingURLs(ctx context.Context) ([]domain.IncomingURLView, error)
	SubmitURLs(ctx context.Context, urls []string) ([]*domain.IncomingURL, error)
	RecordStatusChange(ctx context.Context, urlID string, step domain.StatusStep, at time.Time) (*domain.IncomingURL, error)
}

// URLHandler serves submitted URLs and their deindexing status.
type URLHandler struct {
	service URLService
	logger  *slog.Logger
}

// NewURLHandler creates a new URL HTTP handler.
func NewURLHandler(service URLService, logger *slog.Logger) *URLHandler {
	return &URLHandler{service: service, logger: logger}
}

// SubmitURLsRequest is the body of POST /api/v1/me/urls.
type SubmitURLsRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,max=50,dive,required,max=2048"`
}

// RecordStatusRequest is the body of POST /api/v1/admin/urls/{id}/status.
// A missing timestamp means now.
type RecordStatusRequest struct {
	Step string     `json:"step" validate:"required"`
	At   *time.Time `json:"at"`
}

// List handles GET /api/v1/me/urls.
func (h *URLHandler) List(w http.ResponseWriter, r *http.Request) {
	urls, err := h.service.ListIncomingURLs(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, urls)
}

// Submit handles POST /api/v1/me/urls.
func (h *URLHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitURLsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.service.SubmitURLs(r.Context(), req.URLs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, created)
}

// RecordStatus handles POST /api/v1/admin/urls/{id}/status.
func (h *URLHandler) RecordStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req RecordStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	var at time.Time
	if req.At != nil {
		at = req.At.UTC()
	}

	u, err := h.service.RecordStatusChange(r.Context(), id.String(), domain.StatusStep(req.Step), at)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.InfoContext(r.Context(), "status recorded by admin",
		slog.String("url_id", u.ID),
		slog.String("status", string(u.Status)),
	)
	httputil.WriteData(w, http.StatusOK, u)
}
