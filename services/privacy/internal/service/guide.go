package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/repository"
)

// maxGuideIDLength bounds a guide id taken from a request path.
const maxGuideIDLength = 128

// GuideService lists guides and toggles their completion.
type GuideService struct {
	catalog   repository.GuideCatalog
	checklist repository.ChecklistRepository
	deps      Deps
}

// NewGuideService creates a new guide service.
func NewGuideService(catalog repository.GuideCatalog, checklist repository.ChecklistRepository, deps Deps) *GuideService {
	return &GuideService{
		catalog:   catalog,
		checklist: checklist,
		deps:      deps,
	}
}

// ListGuides returns the catalog with the session customer's completion flag
// on each guide.
func (s *GuideService) ListGuides(ctx context.Context) ([]domain.GuideStatus, error) {
	customerID, err := s.deps.Session.CustomerID(ctx)
	if err != nil {
		return nil, err
	}

	catalogCtx, cancel := s.deps.storeCtx(ctx)
	guides, err := s.catalog.ListGuides(catalogCtx)
	cancel()
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.deps.storeCtx(ctx)
	defer cancel()

	completed := domain.NewSet[domain.GuideID]()
	progress, err := s.checklist.Get(storeCtx, customerID)
	switch {
	case err == nil:
		completed = progress.CompletedGuides
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, readError("checklist", fmt.Errorf("get checklist progress: %w", err))
	}

	return domain.GuideStatuses(guides, completed), nil
}

// Toggle flips the completion of guideID for the session customer. Both
// stored copies of the completed set change together or not at all.
func (s *GuideService) Toggle(ctx context.Context, guideID domain.GuideID) (*domain.GuideToggle, error) {
	customerID, err := s.deps.Session.CustomerID(ctx)
	if err != nil {
		return nil, err
	}

	guideID = domain.GuideID(strings.TrimSpace(string(guideID)))
	if guideID == "" {
		return nil, apperrors.InvalidInput("guide id is required")
	}
	if len(guideID) > maxGuideIDLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("guide id must be at most %d characters", maxGuideIDLength))
	}

	storeCtx, cancel := s.deps.storeCtx(ctx)
	toggle, err := s.checklist.ApplyGuideToggle(storeCtx, customerID, guideID)
	cancel()
	if err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to toggle guide completion",
			slog.String("customer_id", customerID),
			slog.String("guide_id", string(guideID)),
			slog.String("error", err.Error()),
		)
		return nil, writeError("guide completion", err)
	}

	GuideToggles.WithLabelValues(toggleState(toggle.Completed)).Inc()
	s.deps.invalidate(ctx, customerID)

	if err := s.deps.Events.PublishGuideToggled(ctx, customerID, toggle); err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to publish guide.toggled event",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}

	return toggle, nil
}

func toggleState(completed bool) string {
	if completed {
		return "completed"
	}
	return "uncompleted"
}
