package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/doltnamn-se/doltnamn/pkg/database"
	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/repository"
)

const progressColumns = `customer_id, password_updated, selected_sites, removal_urls,
		COALESCE(address, ''), COALESCE(personal_number, ''), completed_guides, updated_at`

const (
	ensureProgressQuery = `
		INSERT INTO customer_checklist_progress (customer_id)
		VALUES ($1)
		ON CONFLICT (customer_id) DO NOTHING`

	lockProgressQuery = `
		SELECT ` + progressColumns + `
		FROM customer_checklist_progress
		WHERE customer_id = $1
		FOR UPDATE`

	writeProgressQuery = `
		UPDATE customer_checklist_progress
		SET password_updated = $2, selected_sites = $3, removal_urls = $4, address = $5,
		    personal_number = $6, completed_guides = $7, updated_at = $8
		WHERE customer_id = $1`

	writeCustomerProgressQuery = `
		UPDATE customers
		SET completed_guides = $2, checklist_step = $3, updated_at = $4
		WHERE id = $1`
)

// ChecklistRepository implements repository.ChecklistRepository using PostgreSQL.
type ChecklistRepository struct {
	db  database.DBTX
	now func() time.Time
}

// NewChecklistRepository creates a new PostgreSQL-backed checklist repository.
func NewChecklistRepository(db database.DBTX) *ChecklistRepository {
	return &ChecklistRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Get retrieves a customer's checklist progress.
func (r *ChecklistRepository) Get(ctx context.Context, customerID string) (_ *domain.ChecklistProgress, err error) {
	query := `
		SELECT ` + progressColumns + `
		FROM customer_checklist_progress
		WHERE customer_id = $1`

	ctx, end := database.TraceQuery(ctx, "GetChecklistProgress", query)
	defer func() { end(err) }()

	p, err := scanProgress(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, apperrors.NotFound("checklist progress", customerID)
		}
		return nil, fmt.Errorf("scan checklist progress: %w", err)
	}
	return p, nil
}

// Update applies fn to the locked progress row and saves it together with
// the customer's denormalised guide set and checklist step.
func (r *ChecklistRepository) Update(ctx context.Context, customerID string, fn repository.ProgressMutation) (_ *domain.ChecklistProgress, err error) {
	ctx, end := database.TraceQuery(ctx, "UpdateChecklistProgress", writeProgressQuery)
	defer func() { end(err) }()

	var p *domain.ChecklistProgress
	err = database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		var txErr error
		p, txErr = updateProgressTx(ctx, tx, customerID, r.now(), fn)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyGuideToggle flips guideID in the customer's completed guides. Both
// the progress row and the customer row are written in the same transaction,
// so concurrent toggles of different guides serialise on the row lock and
// both survive.
func (r *ChecklistRepository) ApplyGuideToggle(ctx context.Context, customerID string, guideID domain.GuideID) (*domain.GuideToggle, error) {
	result := &domain.GuideToggle{GuideID: guideID}
	_, err := r.Update(ctx, customerID, func(p *domain.ChecklistProgress) error {
		p.CompletedGuides, result.Completed = p.CompletedGuides.Toggle(guideID)
		result.CompletedGuides = p.CompletedGuides
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// updateProgressTx is the read-modify-write cycle shared by every checklist
// write. The row is created if absent and then locked until tx ends.
func updateProgressTx(ctx context.Context, tx pgx.Tx, customerID string, now time.Time, fn repository.ProgressMutation) (*domain.ChecklistProgress, error) {
	if _, err := tx.Exec(ctx, ensureProgressQuery, customerID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("customer", customerID)
		}
		return nil, fmt.Errorf("create checklist progress: %w", err)
	}

	p, err := scanProgress(tx.QueryRow(ctx, lockProgressQuery, customerID))
	if err != nil {
		return nil, fmt.Errorf("lock checklist progress: %w", err)
	}

	if err := fn(p); err != nil {
		return nil, err
	}
	p.CustomerID = customerID
	p.UpdatedAt = now

	if _, err := tx.Exec(ctx, writeProgressQuery,
		customerID,
		p.PasswordUpdated,
		p.SelectedSites.Strings(),
		p.RemovalURLs.Strings(),
		nullableString(p.Address),
		nullableString(p.PersonalNumber),
		p.CompletedGuides.Strings(),
		p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update checklist progress: %w", err)
	}

	ct, err := tx.Exec(ctx, writeCustomerProgressQuery,
		customerID,
		p.CompletedGuides.Strings(),
		p.CurrentStep(),
		p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update customer progress: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, apperrors.NotFound("customer", customerID)
	}

	return p, nil
}

func scanProgress(row pgx.Row) (*domain.ChecklistProgress, error) {
	var (
		p                   domain.ChecklistProgress
		sites, urls, guides []string
	)
	if err := row.Scan(
		&p.CustomerID,
		&p.PasswordUpdated,
		&sites,
		&urls,
		&p.Address,
		&p.PersonalNumber,
		&guides,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.SelectedSites = domain.SetFromStrings[domain.SiteID](sites)
	p.RemovalURLs = domain.SetFromStrings[string](urls)
	p.CompletedGuides = domain.SetFromStrings[domain.GuideID](guides)
	return &p, nil
}
