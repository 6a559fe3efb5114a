package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/doltnamn-se/doltnamn/pkg/health"
	"github.com/doltnamn-se/doltnamn/pkg/middleware"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/service"
)

const (
	customerToken = "customer-token"
	adminToken    = "admin-token"
	customerID    = "7b0c0a3e-4c7e-4d39-9d8c-2f1f0b6b9a11"
	adminID       = "0e6c8d9f-1a2b-4c3d-8e9f-a0b1c2d3e4f5"
)

var t0 = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

// ============================================================================
// Mock services
// ============================================================================

type mockGuideService struct{ mock.Mock }

func (m *mockGuideService) ListGuides(ctx context.Context) ([]domain.GuideStatus, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.GuideStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGuideService) Toggle(ctx context.Context, guideID domain.GuideID) (*domain.GuideToggle, error) {
	args := m.Called(ctx, guideID)
	if v := args.Get(0); v != nil {
		return v.(*domain.GuideToggle), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockChecklistService struct{ mock.Mock }

func (m *mockChecklistService) summary(args mock.Arguments) (*domain.ChecklistSummary, error) {
	if v := args.Get(0); v != nil {
		return v.(*domain.ChecklistSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChecklistService) Get(ctx context.Context) (*domain.ChecklistSummary, error) {
	return m.summary(m.Called(ctx))
}

func (m *mockChecklistService) MarkPasswordUpdated(ctx context.Context) (*domain.ChecklistSummary, error) {
	return m.summary(m.Called(ctx))
}

func (m *mockChecklistService) SelectSites(ctx context.Context, sites []domain.SiteID) (*domain.ChecklistSummary, error) {
	return m.summary(m.Called(ctx, sites))
}

func (m *mockChecklistService) SetIdentification(ctx context.Context, input service.IdentificationInput) (*domain.ChecklistSummary, error) {
	return m.summary(m.Called(ctx, input))
}

type mockURLService struct{ mock.Mock }

func (m *mockURLService) ListIncomingURLs(ctx context.Context) ([]domain.IncomingURLView, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.IncomingURLView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockURLService) SubmitURLs(ctx context.Context, urls []string) ([]*domain.IncomingURL, error) {
	args := m.Called(ctx, urls)
	if v := args.Get(0); v != nil {
		return v.([]*domain.IncomingURL), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockURLService) RecordStatusChange(ctx context.Context, urlID string, step domain.StatusStep, at time.Time) (*domain.IncomingURL, error) {
	args := m.Called(ctx, urlID, step, at)
	if v := args.Get(0); v != nil {
		return v.(*domain.IncomingURL), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockScoreService struct{ mock.Mock }

func (m *mockScoreService) CalculateMine(ctx context.Context) (*domain.PrivacyScore, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*domain.PrivacyScore), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScoreService) Calculate(ctx context.Context, id string) (*domain.PrivacyScore, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.PrivacyScore), args.Error(1)
	}
	return nil, args.Error(1)
}

// ============================================================================
// Router fixture
// ============================================================================

type testRouter struct {
	handler   http.Handler
	guides    *mockGuideService
	checklist *mockChecklistService
	urls      *mockURLService
	scores    *mockScoreService
}

func staticTokens(token string) (*middleware.Claims, error) {
	switch token {
	case customerToken:
		return &middleware.Claims{UserID: customerID, Role: domain.RoleCustomer}, nil
	case adminToken:
		return &middleware.Claims{UserID: adminID, Role: domain.RoleAdmin}, nil
	}
	return nil, errors.New("invalid token")
}

func newTestRouter(t *testing.T) *testRouter {
	return newTestRouterWithLimit(t, middleware.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000})
}

func newTestRouterWithLimit(t *testing.T, limit middleware.RateLimitConfig) *testRouter {
	t.Helper()
	tr := &testRouter{
		guides:    new(mockGuideService),
		checklist: new(mockChecklistService),
		urls:      new(mockURLService),
		scores:    new(mockScoreService),
	}
	tr.handler = NewRouter(RouterDeps{
		Guides:         tr.guides,
		Checklist:      tr.checklist,
		URLs:           tr.urls,
		Scores:         tr.scores,
		TokenValidator: staticTokens,
		Health:         health.NewHandler(),
		CORS:           middleware.DefaultCORSConfig(),
		WriteRateLimit: limit,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(func() {
		tr.guides.AssertExpectations(t)
		tr.checklist.AssertExpectations(t)
		tr.urls.AssertExpectations(t)
		tr.scores.AssertExpectations(t)
	})
	return tr
}

func (tr *testRouter) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	tr.handler.ServeHTTP(rr, req)
	return rr
}
