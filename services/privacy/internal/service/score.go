package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/repository"
)

// ScoreService computes privacy scores.
type ScoreService struct {
	customers repository.CustomerRepository
	checklist repository.ChecklistRepository
	urls      repository.IncomingURLRepository
	addresses repository.AddressRepository
	catalog   repository.GuideCatalog
	deps      Deps
}

// NewScoreService creates a new score service.
func NewScoreService(
	customers repository.CustomerRepository,
	checklist repository.ChecklistRepository,
	urls repository.IncomingURLRepository,
	addresses repository.AddressRepository,
	catalog repository.GuideCatalog,
	deps Deps,
) *ScoreService {
	return &ScoreService{
		customers: customers,
		checklist: checklist,
		urls:      urls,
		addresses: addresses,
		catalog:   catalog,
		deps:      deps,
	}
}

// CalculateMine computes the score of the session customer.
func (s *ScoreService) CalculateMine(ctx context.Context) (*domain.PrivacyScore, error) {
	customerID, err := s.deps.Session.CustomerID(ctx)
	if err != nil {
		return nil, err
	}
	return s.Calculate(ctx, customerID)
}

// Calculate computes the score of customerID. Inputs are loaded in
// parallel; a customer without checklist progress or address scores as if
// neither had been started, and an unreachable catalog scores as empty.
func (s *ScoreService) Calculate(ctx context.Context, customerID string) (*domain.PrivacyScore, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("customer id is required")
	}

	if score, ok := s.cachedScore(ctx, customerID); ok {
		return score, nil
	}

	var (
		customer *domain.Customer
		progress = domain.EmptyProgress(customerID)
		urls     []domain.IncomingURL
		address  *domain.AddressRecord
		guides   []domain.Guide
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx, cancel := s.deps.storeCtx(gctx)
		defer cancel()
		c, err := s.customers.GetByID(ctx, customerID)
		if err != nil {
			return readError("customer", fmt.Errorf("get customer: %w", err))
		}
		customer = c
		return nil
	})
	g.Go(func() error {
		ctx, cancel := s.deps.storeCtx(gctx)
		defer cancel()
		p, err := s.checklist.Get(ctx, customerID)
		switch {
		case err == nil:
			progress = *p
		case !errors.Is(err, apperrors.ErrNotFound):
			return readError("checklist", fmt.Errorf("get checklist progress: %w", err))
		}
		return nil
	})
	g.Go(func() error {
		ctx, cancel := s.deps.storeCtx(gctx)
		defer cancel()
		list, err := s.urls.ListByCustomer(ctx, customerID)
		if err != nil {
			return readError("submitted urls", fmt.Errorf("list incoming urls: %w", err))
		}
		urls = list
		return nil
	})
	g.Go(func() error {
		ctx, cancel := s.deps.storeCtx(gctx)
		defer cancel()
		a, err := s.addresses.GetByCustomer(ctx, customerID)
		switch {
		case err == nil:
			address = a
		case !errors.Is(err, apperrors.ErrNotFound):
			return readError("address", fmt.Errorf("get address: %w", err))
		}
		return nil
	})
	g.Go(func() error {
		ctx, cancel := s.deps.storeCtx(gctx)
		defer cancel()
		list, err := s.catalog.ListGuides(ctx)
		if err != nil {
			s.deps.Logger.WarnContext(ctx, "guide catalog unavailable, scoring with empty catalog",
				slog.String("customer_id", customerID),
				slog.String("error", err.Error()),
			)
			return nil
		}
		guides = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	score := domain.CalculateScore(guides, urls, progress, address, customer.Plan)
	ScoreCalculations.WithLabelValues(string(customer.Plan)).Inc()

	cacheCtx, cancel := s.deps.storeCtx(ctx)
	defer cancel()
	if err := s.deps.Cache.SetScore(cacheCtx, customerID, &score); err != nil {
		CacheErrors.WithLabelValues("set_score").Inc()
		s.deps.Logger.WarnContext(ctx, "failed to cache privacy score",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}

	return &score, nil
}

func (s *ScoreService) cachedScore(ctx context.Context, customerID string) (*domain.PrivacyScore, bool) {
	ctx, cancel := s.deps.storeCtx(ctx)
	defer cancel()

	score, err := s.deps.Cache.GetScore(ctx, customerID)
	switch {
	case err == nil:
		CacheLookups.WithLabelValues("score", "hit").Inc()
		return score, true
	case errors.Is(err, apperrors.ErrNotFound):
		CacheLookups.WithLabelValues("score", "miss").Inc()
	default:
		CacheErrors.WithLabelValues("get_score").Inc()
		s.deps.Logger.WarnContext(ctx, "score cache unavailable",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}
	return nil, false
}
