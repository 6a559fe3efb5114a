package postgres

import (
	"context"
	"fmt"

	"github.com/doltnamn-se/doltnamn/pkg/database"
	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// CustomerRepository implements repository.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	db database.DBTX
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(db database.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByID retrieves a customer by their ID. A stored plan outside the known
// tiers is an invalid record.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (_ *domain.Customer, err error) {
	query := `
		SELECT id, subscription_plan, completed_guides, checklist_step, created_at, updated_at
		FROM customers
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetCustomer", query)
	defer func() { end(err) }()

	var (
		c      domain.Customer
		plan   string
		guides []string
	)
	err = r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&plan,
		&guides,
		&c.ChecklistStep,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, apperrors.NotFound("customer", id)
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	c.Plan, err = domain.ParsePlan(plan)
	if err != nil {
		return nil, apperrors.InvalidRecord("customers "+id, err)
	}
	c.CompletedGuides = domain.SetFromStrings[domain.GuideID](guides)

	return &c, nil
}
