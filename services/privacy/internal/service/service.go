package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/repository"
)

// DefaultStoreTimeout bounds a single store, cache or catalog call.
const DefaultStoreTimeout = 3 * time.Second

// SessionAccessor resolves the authenticated customer of a request.
type SessionAccessor interface {
	CustomerID(ctx context.Context) (string, error)
}

// EventPublisher publishes privacy domain events.
type EventPublisher interface {
	PublishGuideToggled(ctx context.Context, customerID string, toggle *domain.GuideToggle) error
	PublishChecklistUpdated(ctx context.Context, customerID, change string, progress *domain.ChecklistProgress) error
	PublishURLSubmitted(ctx context.Context, u *domain.IncomingURL) error
}

// Deps are the collaborators shared by the privacy services.
type Deps struct {
	Session      SessionAccessor
	Events       EventPublisher
	Cache        repository.ViewCache
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

func (d Deps) timeout() time.Duration {
	if d.StoreTimeout <= 0 {
		return DefaultStoreTimeout
	}
	return d.StoreTimeout
}

// storeCtx derives the context for one store call.
func (d Deps) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout())
}

// invalidate drops the customer's cached views. Failures are logged; the
// cache entries expire on their own.
func (d Deps) invalidate(ctx context.Context, customerID string) {
	ctx, cancel := d.storeCtx(ctx)
	defer cancel()

	if err := d.Cache.Invalidate(ctx, customerID); err != nil {
		CacheErrors.WithLabelValues("invalidate").Inc()
		d.Logger.WarnContext(ctx, "failed to invalidate cached views",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}
}

// writeError classifies a failed write. Errors the caller can act on pass
// through; everything else becomes a retryable WriteFailure.
func writeError(operation string, err error) error {
	if isClientError(err) {
		return err
	}
	WriteFailures.WithLabelValues(operation).Inc()
	return apperrors.WriteFailure(operation, err)
}

// readError classifies a failed read. A timed out read is reported as a
// retryable unavailable error.
func readError(what string, err error) error {
	if isClientError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Unavailable(what, err)
	}
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrInvalidInput) ||
		errors.Is(err, apperrors.ErrNoSession) ||
		errors.Is(err, apperrors.ErrStatusRegression) ||
		errors.Is(err, apperrors.ErrUnknownStatus)
}
