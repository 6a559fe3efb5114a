package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/doltnamn-se/doltnamn/pkg/database"
	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

const urlColumns = `id, customer_id, url, status, status_history, created_at`

// IncomingURLRepository implements repository.IncomingURLRepository using PostgreSQL.
type IncomingURLRepository struct {
	db  database.DBTX
	now func() time.Time
}

// NewIncomingURLRepository creates a new PostgreSQL-backed incoming URL repository.
func NewIncomingURLRepository(db database.DBTX) *IncomingURLRepository {
	return &IncomingURLRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ListByCustomer returns the customer's URLs, newest first.
func (r *IncomingURLRepository) ListByCustomer(ctx context.Context, customerID string) (_ []domain.IncomingURL, err error) {
	query := `
		SELECT ` + urlColumns + `
		FROM incoming_urls
		WHERE customer_id = $1
		ORDER BY created_at DESC, id`

	ctx, end := database.TraceQuery(ctx, "ListIncomingURLs", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list incoming urls: %w", err)
	}
	defer rows.Close()

	urls := make([]domain.IncomingURL, 0)
	for rows.Next() {
		u, err := scanIncomingURL(rows)
		if err != nil {
			return nil, err
		}
		urls = append(urls, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incoming urls: %w", err)
	}

	return urls, nil
}

// GetByID retrieves a URL by its ID.
func (r *IncomingURLRepository) GetByID(ctx context.Context, id string) (_ *domain.IncomingURL, err error) {
	query := `SELECT ` + urlColumns + ` FROM incoming_urls WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetIncomingURL", query)
	defer func() { end(err) }()

	u, err := scanIncomingURL(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, apperrors.NotFound("incoming url", id)
		}
		return nil, err
	}
	return u, nil
}

// CreateBatch inserts the URLs and merges them into the customer's removal
// list. URLs already submitted by the customer are skipped.
func (r *IncomingURLRepository) CreateBatch(ctx context.Context, customerID string, urls []*domain.IncomingURL) (_ []*domain.IncomingURL, err error) {
	query := `
		INSERT INTO incoming_urls (id, customer_id, url, status, status_history, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (customer_id, url) DO NOTHING`

	ctx, end := database.TraceQuery(ctx, "CreateIncomingURLs", query)
	defer func() { end(err) }()

	created := make([]*domain.IncomingURL, 0, len(urls))
	err = database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, u := range urls {
			history, err := json.Marshal(u.History)
			if err != nil {
				return fmt.Errorf("marshal status history: %w", err)
			}

			ct, err := tx.Exec(ctx, query, u.ID, customerID, u.URL, string(u.Status), history, u.CreatedAt)
			if err != nil {
				if isForeignKeyViolation(err) {
					return apperrors.NotFound("customer", customerID)
				}
				return fmt.Errorf("insert incoming url: %w", err)
			}
			if ct.RowsAffected() == 1 {
				created = append(created, u)
			}
		}

		_, err := updateProgressTx(ctx, tx, customerID, r.now(), func(p *domain.ChecklistProgress) error {
			for _, u := range urls {
				p.RemovalURLs = p.RemovalURLs.With(u.URL)
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// RecordStatusChange locks the URL row, advances it to step and appends the
// history entry. Moving backwards is refused; recording the current step
// again leaves the row untouched.
func (r *IncomingURLRepository) RecordStatusChange(ctx context.Context, id string, step domain.StatusStep, at time.Time) (_ *domain.IncomingURL, _ bool, err error) {
	lockQuery := `SELECT ` + urlColumns + ` FROM incoming_urls WHERE id = $1 FOR UPDATE`
	updateQuery := `
		UPDATE incoming_urls
		SET status = $2, status_history = $3
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "RecordStatusChange", updateQuery)
	defer func() { end(err) }()

	var (
		u       *domain.IncomingURL
		changed bool
	)
	err = database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		u, err = scanIncomingURL(tx.QueryRow(ctx, lockQuery, id))
		if err != nil {
			if database.IsNoRows(err) {
				return apperrors.NotFound("incoming url", id)
			}
			return err
		}

		changed, err = u.Advance(step, at)
		if err != nil || !changed {
			return err
		}

		history, err := json.Marshal(u.History)
		if err != nil {
			return fmt.Errorf("marshal status history: %w", err)
		}
		if _, err := tx.Exec(ctx, updateQuery, id, string(u.Status), history); err != nil {
			return fmt.Errorf("update incoming url status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return u, changed, nil
}

// scanIncomingURL decodes a row and validates its status history. Rows with
// an unknown status, malformed history or a history that moves backwards are
// invalid records.
func scanIncomingURL(row pgx.Row) (*domain.IncomingURL, error) {
	var (
		u       domain.IncomingURL
		status  string
		history []byte
	)
	if err := row.Scan(&u.ID, &u.CustomerID, &u.URL, &status, &history, &u.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan incoming url: %w", err)
	}

	u.Status = domain.StatusStep(status)
	if err := json.Unmarshal(history, &u.History); err != nil {
		return nil, apperrors.InvalidRecord("incoming_urls "+u.ID, fmt.Errorf("decode status history: %w", err))
	}
	if err := u.ValidateHistory(); err != nil {
		return nil, apperrors.InvalidRecord("incoming_urls "+u.ID, err)
	}

	return &u, nil
}
