package repository

import (
	"context"
	"time"

	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// ProgressMutation changes a customer's checklist progress in place. It runs
// while the progress row is locked; returning an error aborts the write.
type ProgressMutation func(p *domain.ChecklistProgress) error

// CustomerRepository reads customer records.
type CustomerRepository interface {
	// GetByID retrieves a customer by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

// ChecklistRepository persists checklist progress.
type ChecklistRepository interface {
	// Get returns the customer's progress, or a not found error if the
	// customer has not started the checklist.
	Get(ctx context.Context, customerID string) (*domain.ChecklistProgress, error)

	// Update locks the progress row (creating it if absent), applies fn and
	// writes the result to the progress row and the customer row in one
	// transaction.
	Update(ctx context.Context, customerID string, fn ProgressMutation) (*domain.ChecklistProgress, error)

	// ApplyGuideToggle flips one guide's completion atomically and returns
	// the resulting set.
	ApplyGuideToggle(ctx context.Context, customerID string, guideID domain.GuideID) (*domain.GuideToggle, error)
}

// IncomingURLRepository persists submitted URLs and their status history.
type IncomingURLRepository interface {
	// ListByCustomer returns the customer's URLs, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.IncomingURL, error)

	// GetByID retrieves a URL by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.IncomingURL, error)

	// CreateBatch inserts new URLs and adds them to the customer's removal
	// list in one transaction. URLs the customer already submitted are
	// skipped; the created ones are returned.
	CreateBatch(ctx context.Context, customerID string, urls []*domain.IncomingURL) ([]*domain.IncomingURL, error)

	// RecordStatusChange appends a history entry under a row lock. It
	// reports false when the URL was already in step.
	RecordStatusChange(ctx context.Context, id string, step domain.StatusStep, at time.Time) (*domain.IncomingURL, bool, error)
}

// AddressRepository reads monitored addresses.
type AddressRepository interface {
	// GetByCustomer returns the customer's address record, or a not found
	// error if none is on file.
	GetByCustomer(ctx context.Context, customerID string) (*domain.AddressRecord, error)
}

// GuideCatalog provides the guide reference data.
type GuideCatalog interface {
	ListGuides(ctx context.Context) ([]domain.Guide, error)
}

// ViewCache caches computed read views per customer. A miss is reported as a
// not found error.
type ViewCache interface {
	GetScore(ctx context.Context, customerID string) (*domain.PrivacyScore, error)
	SetScore(ctx context.Context, customerID string, score *domain.PrivacyScore) error
	GetChecklist(ctx context.Context, customerID string) (*domain.ChecklistSummary, error)
	SetChecklist(ctx context.Context, customerID string, summary *domain.ChecklistSummary) error
	// Invalidate drops every cached view for the customer.
	Invalidate(ctx context.Context, customerID string) error
}
