package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/repository"
)

// Checklist changes named in checklist.updated events.
const (
	ChangePassword       = "password"
	ChangeSites          = "sites"
	ChangeIdentification = "identification"
)

// MaxSelectedSites bounds the sites a customer may select at once.
const MaxSelectedSites = 200

// IdentificationInput holds the identity details of the last checklist step.
// Blank values clear the stored value.
type IdentificationInput struct {
	Address        string
	PersonalNumber string
}

// ChecklistService reads and updates the onboarding checklist.
type ChecklistService struct {
	repo repository.ChecklistRepository
	deps Deps
	now  func() time.Time
}

// NewChecklistService creates a new checklist service.
func NewChecklistService(repo repository.ChecklistRepository, deps Deps) *ChecklistService {
	return &ChecklistService{
		repo: repo,
		deps: deps,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the session customer's checklist view. A customer who has not
// started the checklist gets the empty view.
func (s *ChecklistService) Get(ctx context.Context) (*domain.ChecklistSummary, error) {
	customerID, err := s.deps.Session.CustomerID(ctx)
	if err != nil {
		return nil, err
	}

	cacheCtx, cancel := s.deps.storeCtx(ctx)
	cached, err := s.deps.Cache.GetChecklist(cacheCtx, customerID)
	cancel()
	if err == nil {
		CacheLookups.WithLabelValues("checklist", "hit").Inc()
		return cached, nil
	}
	s.cacheMiss(ctx, customerID, err)

	storeCtx, cancel := s.deps.storeCtx(ctx)
	progress, err := s.repo.Get(storeCtx, customerID)
	cancel()
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, readError("checklist", fmt.Errorf("get checklist progress: %w", err))
		}
		empty := domain.EmptyProgress(customerID)
		progress = &empty
	}

	summary := progress.Summary(s.now())
	cacheCtx, cancel = s.deps.storeCtx(ctx)
	defer cancel()
	if err := s.deps.Cache.SetChecklist(cacheCtx, customerID, &summary); err != nil {
		CacheErrors.WithLabelValues("set_checklist").Inc()
		s.deps.Logger.WarnContext(ctx, "failed to cache checklist view",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}

	return &summary, nil
}

// MarkPasswordUpdated completes the password step.
func (s *ChecklistService) MarkPasswordUpdated(ctx context.Context) (*domain.ChecklistSummary, error) {
	return s.update(ctx, ChangePassword, func(p *domain.ChecklistProgress) error {
		p.PasswordUpdated = true
		return nil
	})
}

// SelectSites replaces the selected sites with sites.
func (s *ChecklistService) SelectSites(ctx context.Context, sites []domain.SiteID) (*domain.ChecklistSummary, error) {
	if len(sites) > MaxSelectedSites {
		return nil, apperrors.InvalidInput(fmt.Sprintf("at most %d sites can be selected", MaxSelectedSites))
	}
	selected := domain.NewSet[domain.SiteID]()
	for _, site := range sites {
		site = domain.SiteID(strings.TrimSpace(string(site)))
		if site == "" {
			return nil, apperrors.InvalidInput("site id must not be blank")
		}
		selected = selected.With(site)
	}

	return s.update(ctx, ChangeSites, func(p *domain.ChecklistProgress) error {
		p.SelectedSites = selected
		return nil
	})
}

// SetIdentification stores the address and personal number together.
func (s *ChecklistService) SetIdentification(ctx context.Context, input IdentificationInput) (*domain.ChecklistSummary, error) {
	address := strings.TrimSpace(input.Address)
	personalNumber := strings.TrimSpace(input.PersonalNumber)

	return s.update(ctx, ChangeIdentification, func(p *domain.ChecklistProgress) error {
		p.Address = address
		p.PersonalNumber = personalNumber
		return nil
	})
}

// update applies fn to the stored progress. Concurrent updates of the same
// field are last write wins.
func (s *ChecklistService) update(ctx context.Context, change string, fn repository.ProgressMutation) (*domain.ChecklistSummary, error) {
	customerID, err := s.deps.Session.CustomerID(ctx)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.deps.storeCtx(ctx)
	progress, err := s.repo.Update(storeCtx, customerID, fn)
	cancel()
	if err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to update checklist",
			slog.String("customer_id", customerID),
			slog.String("change", change),
			slog.String("error", err.Error()),
		)
		return nil, writeError("checklist", err)
	}

	s.deps.invalidate(ctx, customerID)

	if err := s.deps.Events.PublishChecklistUpdated(ctx, customerID, change, progress); err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to publish checklist.updated event",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}

	summary := progress.Summary(s.now())
	return &summary, nil
}

func (s *ChecklistService) cacheMiss(ctx context.Context, customerID string, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		CacheLookups.WithLabelValues("checklist", "miss").Inc()
		return
	}
	CacheErrors.WithLabelValues("get_checklist").Inc()
	s.deps.Logger.WarnContext(ctx, "checklist view cache unavailable",
		slog.String("customer_id", customerID),
		slog.String("error", err.Error()),
	)
}
