package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/repository"
)

// MaxURLsPerSubmission bounds one SubmitURLs call.
const MaxURLsPerSubmission = 50

// StatusService tracks the deindexing lifecycle of submitted URLs.
type StatusService struct {
	repo  repository.IncomingURLRepository
	deps  Deps
	newID func() string
	now   func() time.Time
}

// NewStatusService creates a new status service.
func NewStatusService(repo repository.IncomingURLRepository, deps Deps) *StatusService {
	return &StatusService{
		repo:  repo,
		deps:  deps,
		newID: func() string { return uuid.New().String() },
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ListIncomingURLs returns the session customer's URLs, newest first, each
// with its status grid.
func (s *StatusService) ListIncomingURLs(ctx context.Context) ([]domain.IncomingURLView, error) {
	customerID, err := s.deps.Session.CustomerID(ctx)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.deps.storeCtx(ctx)
	defer cancel()

	urls, err := s.repo.ListByCustomer(storeCtx, customerID)
	if err != nil {
		return nil, readError("submitted urls", fmt.Errorf("list incoming urls: %w", err))
	}

	views := make([]domain.IncomingURLView, 0, len(urls))
	for _, u := range urls {
		grid, err := u.StepGrid()
		if err != nil {
			return nil, apperrors.InvalidRecord("incoming_urls "+u.ID, err)
		}
		views = append(views, domain.IncomingURLView{IncomingURL: u, Grid: grid})
	}
	return views, nil
}

// SubmitURLs records new URLs in the received step. URLs the customer
// already submitted are skipped; the created ones are returned.
func (s *StatusService) SubmitURLs(ctx context.Context, rawURLs []string) ([]*domain.IncomingURL, error) {
	customerID, err := s.deps.Session.CustomerID(ctx)
	if err != nil {
		return nil, err
	}

	if len(rawURLs) == 0 {
		return nil, apperrors.InvalidInput("at least one url is required")
	}
	if len(rawURLs) > MaxURLsPerSubmission {
		return nil, apperrors.InvalidInput(fmt.Sprintf("at most %d urls can be submitted at once", MaxURLsPerSubmission))
	}

	now := s.now()
	seen := domain.NewSet[string]()
	urls := make([]*domain.IncomingURL, 0, len(rawURLs))
	for _, raw := range rawURLs {
		normalized, err := domain.NormalizeURL(raw)
		if err != nil {
			return nil, err
		}
		if seen.Has(normalized) {
			continue
		}
		seen = seen.With(normalized)
		urls = append(urls, domain.NewIncomingURL(s.newID(), customerID, normalized, now))
	}

	storeCtx, cancel := s.deps.storeCtx(ctx)
	created, err := s.repo.CreateBatch(storeCtx, customerID, urls)
	cancel()
	if err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to submit urls",
			slog.String("customer_id", customerID),
			slog.Int("count", len(urls)),
			slog.String("error", err.Error()),
		)
		return nil, writeError("submitted urls", err)
	}

	URLsSubmitted.Add(float64(len(created)))
	s.deps.invalidate(ctx, customerID)

	for _, u := range created {
		if err := s.deps.Events.PublishURLSubmitted(ctx, u); err != nil {
			s.deps.Logger.ErrorContext(ctx, "failed to publish url.submitted event",
				slog.String("url_id", u.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return created, nil
}

// RecordStatusChange appends step to the URL's history. Recording the
// current step again is a no-op; moving backwards is refused.
func (s *StatusService) RecordStatusChange(ctx context.Context, urlID string, step domain.StatusStep, at time.Time) (*domain.IncomingURL, error) {
	if urlID == "" {
		return nil, apperrors.InvalidInput("url id is required")
	}
	step, err := domain.ParseStatusStep(string(step))
	if err != nil {
		StatusChanges.WithLabelValues("unknown_status").Inc()
		return nil, err
	}
	if at.IsZero() {
		at = s.now()
	}

	storeCtx, cancel := s.deps.storeCtx(ctx)
	u, changed, err := s.repo.RecordStatusChange(storeCtx, urlID, step, at)
	cancel()
	if err != nil {
		if errors.Is(err, apperrors.ErrStatusRegression) {
			StatusChanges.WithLabelValues("regression").Inc()
			s.deps.Logger.WarnContext(ctx, "refused status regression",
				slog.String("url_id", urlID),
				slog.String("step", string(step)),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		s.deps.Logger.ErrorContext(ctx, "failed to record status change",
			slog.String("url_id", urlID),
			slog.String("step", string(step)),
			slog.String("error", err.Error()),
		)
		return nil, writeError("status change", err)
	}

	if !changed {
		StatusChanges.WithLabelValues("unchanged").Inc()
		return u, nil
	}

	StatusChanges.WithLabelValues("recorded").Inc()
	s.deps.invalidate(ctx, u.CustomerID)
	return u, nil
}
