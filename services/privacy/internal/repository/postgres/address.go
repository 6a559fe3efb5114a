package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/doltnamn-se/doltnamn/pkg/database"
	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// AddressRepository implements repository.AddressRepository using PostgreSQL.
type AddressRepository struct {
	db database.DBTX
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(db database.DBTX) *AddressRepository {
	return &AddressRepository{db: db}
}

// GetByCustomer retrieves the customer's monitored address.
func (r *AddressRepository) GetByCustomer(ctx context.Context, customerID string) (_ *domain.AddressRecord, err error) {
	query := `
		SELECT customer_id, COALESCE(street_address, ''), deleted_at, address_history, updated_at
		FROM addresses
		WHERE customer_id = $1`

	ctx, end := database.TraceQuery(ctx, "GetAddress", query)
	defer func() { end(err) }()

	var (
		a       domain.AddressRecord
		history []byte
	)
	err = r.db.QueryRow(ctx, query, customerID).Scan(
		&a.CustomerID,
		&a.StreetAddress,
		&a.DeletedAt,
		&history,
		&a.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, apperrors.NotFound("address", customerID)
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}

	if len(history) > 0 {
		if err := json.Unmarshal(history, &a.History); err != nil {
			return nil, apperrors.InvalidRecord("addresses "+customerID, fmt.Errorf("decode address history: %w", err))
		}
	}

	return &a, nil
}
