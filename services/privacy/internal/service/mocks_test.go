package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/repository"
)

// --- Mock SessionAccessor ---

type fixedSession string

func (s fixedSession) CustomerID(context.Context) (string, error) {
	if s == "" {
		return "", apperrors.NoSession()
	}
	return string(s), nil
}

// --- Mock EventPublisher ---

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishGuideToggled(ctx context.Context, customerID string, toggle *domain.GuideToggle) error {
	return m.Called(ctx, customerID, toggle).Error(0)
}

func (m *mockEvents) PublishChecklistUpdated(ctx context.Context, customerID, change string, progress *domain.ChecklistProgress) error {
	return m.Called(ctx, customerID, change, progress).Error(0)
}

func (m *mockEvents) PublishURLSubmitted(ctx context.Context, u *domain.IncomingURL) error {
	return m.Called(ctx, u).Error(0)
}

// --- Mock ViewCache ---

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetScore(ctx context.Context, customerID string) (*domain.PrivacyScore, error) {
	args := m.Called(ctx, customerID)
	if s := args.Get(0); s != nil {
		return s.(*domain.PrivacyScore), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCache) SetScore(ctx context.Context, customerID string, score *domain.PrivacyScore) error {
	return m.Called(ctx, customerID, score).Error(0)
}

func (m *mockCache) GetChecklist(ctx context.Context, customerID string) (*domain.ChecklistSummary, error) {
	args := m.Called(ctx, customerID)
	if s := args.Get(0); s != nil {
		return s.(*domain.ChecklistSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCache) SetChecklist(ctx context.Context, customerID string, summary *domain.ChecklistSummary) error {
	return m.Called(ctx, customerID, summary).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, customerID string) error {
	return m.Called(ctx, customerID).Error(0)
}

// --- Mock repositories ---

type mockCustomerRepository struct {
	mock.Mock
}

func (m *mockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockChecklistRepository struct {
	mock.Mock
}

func (m *mockChecklistRepository) Get(ctx context.Context, customerID string) (*domain.ChecklistProgress, error) {
	args := m.Called(ctx, customerID)
	if p := args.Get(0); p != nil {
		return p.(*domain.ChecklistProgress), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChecklistRepository) Update(ctx context.Context, customerID string, fn repository.ProgressMutation) (*domain.ChecklistProgress, error) {
	args := m.Called(ctx, customerID, fn)
	if p := args.Get(0); p != nil {
		return p.(*domain.ChecklistProgress), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChecklistRepository) ApplyGuideToggle(ctx context.Context, customerID string, guideID domain.GuideID) (*domain.GuideToggle, error) {
	args := m.Called(ctx, customerID, guideID)
	if t := args.Get(0); t != nil {
		return t.(*domain.GuideToggle), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockURLRepository struct {
	mock.Mock
}

func (m *mockURLRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.IncomingURL, error) {
	args := m.Called(ctx, customerID)
	if l := args.Get(0); l != nil {
		return l.([]domain.IncomingURL), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockURLRepository) GetByID(ctx context.Context, id string) (*domain.IncomingURL, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.IncomingURL), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockURLRepository) CreateBatch(ctx context.Context, customerID string, urls []*domain.IncomingURL) ([]*domain.IncomingURL, error) {
	args := m.Called(ctx, customerID, urls)
	if l := args.Get(0); l != nil {
		return l.([]*domain.IncomingURL), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockURLRepository) RecordStatusChange(ctx context.Context, id string, step domain.StatusStep, at time.Time) (*domain.IncomingURL, bool, error) {
	args := m.Called(ctx, id, step, at)
	if u := args.Get(0); u != nil {
		return u.(*domain.IncomingURL), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

type mockAddressRepository struct {
	mock.Mock
}

func (m *mockAddressRepository) GetByCustomer(ctx context.Context, customerID string) (*domain.AddressRecord, error) {
	args := m.Called(ctx, customerID)
	if a := args.Get(0); a != nil {
		return a.(*domain.AddressRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListGuides(ctx context.Context) ([]domain.Guide, error) {
	args := m.Called(ctx)
	if l := args.Get(0); l != nil {
		return l.([]domain.Guide), args.Error(1)
	}
	return nil, args.Error(1)
}

// --- Test helpers ---

var t0 = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestDeps(customerID string, cache *mockCache, events *mockEvents) Deps {
	return Deps{
		Session:      fixedSession(customerID),
		Events:       events,
		Cache:        cache,
		StoreTimeout: time.Second,
		Logger:       newTestLogger(),
	}
}

func notCached(view string) error {
	return apperrors.NotFound(view+" view", "cust-1")
}
