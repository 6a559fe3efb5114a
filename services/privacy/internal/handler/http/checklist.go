package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/doltnamn-se/doltnamn/pkg/httputil"
	"github.com/doltnamn-se/doltnamn/pkg/validator"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/service"
)

// ChecklistService is the checklist behaviour the handler depends on.
type ChecklistService interface {
	Get(ctx context.Context) (*domain.ChecklistSummary, error)
	MarkPasswordUpdated(ctx context.Context) (*domain.ChecklistSummary, error)
	SelectSites(ctx context.Context, sites []domain.SiteID) (*domain.ChecklistSummary, error)
	SetIdentification(ctx context.Context, input service.IdentificationInput) (*domain.ChecklistSummary, error)
}

// ChecklistHandler serves the onboarding checklist.
type ChecklistHandler struct {
	service ChecklistService
	logger  *slog.Logger
}

// NewChecklistHandler creates a new checklist HTTP handler.
func NewChecklistHandler(service ChecklistService, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{service: service, logger: logger}
}

// SelectSitesRequest replaces the set of sites the customer wants removed from.
type SelectSitesRequest struct {
	Sites []string `json:"sites" validate:"max=200,dive,required,max=128"`
}

// IdentificationRequest carries the last checklist step. Empty values clear
// the stored value.
type IdentificationRequest struct {
	Address        string `json:"address" validate:"omitempty,max=500"`
	PersonalNumber string `json:"personal_number" validate:"omitempty,personnummer"`
}

// Get handles GET /api/v1/me/checklist.
func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.service.Get(r.Context()))
}

// MarkPasswordUpdated handles PUT /api/v1/me/checklist/password.
func (h *ChecklistHandler) MarkPasswordUpdated(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.service.MarkPasswordUpdated(r.Context()))
}

// SelectSites handles PUT /api/v1/me/checklist/sites.
func (h *ChecklistHandler) SelectSites(w http.ResponseWriter, r *http.Request) {
	var req SelectSitesRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sites := make([]domain.SiteID, 0, len(req.Sites))
	for _, s := range req.Sites {
		sites = append(sites, domain.SiteID(s))
	}
	h.respond(w, r)(h.service.SelectSites(r.Context(), sites))
}

// SetIdentification handles PUT /api/v1/me/checklist/identification.
func (h *ChecklistHandler) SetIdentification(w http.ResponseWriter, r *http.Request) {
	var req IdentificationRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.respond(w, r)(h.service.SetIdentification(r.Context(), service.IdentificationInput{
		Address:        req.Address,
		PersonalNumber: req.PersonalNumber,
	}))
}

func (h *ChecklistHandler) respond(w http.ResponseWriter, r *http.Request) func(*domain.ChecklistSummary, error) {
	return func(summary *domain.ChecklistSummary, err error) {
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusOK, summary)
	}
}
