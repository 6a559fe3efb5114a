// Package seed fills a development database with customers in every
// onboarding state and mints access tokens for them.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/doltnamn-se/doltnamn/pkg/database"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/auth"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// namespace makes seeded ids stable across runs.
var namespace = uuid.MustParse("3f1c9a52-6d0e-4b8a-9c7e-5a2d1f0e8b47")

// CustomerID returns the stable id of the seeded customer with the given name.
func CustomerID(name string) string {
	return uuid.NewSHA1(namespace, []byte("customer:"+name)).String()
}

// AdminID is the user id placed in the seeded admin token.
func AdminID() string {
	return uuid.NewSHA1(namespace, []byte("admin")).String()
}

func urlID(customer string, i int) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("url:%s:%d", customer, i))).String()
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// Customer is one seeded account with everything the score reads.
type Customer struct {
	Name     string
	ID       string
	Plan     domain.SubscriptionPlan
	Progress domain.ChecklistProgress
	Address  *domain.AddressRecord
	URLs     []*domain.IncomingURL
}

// Customers returns the seeded accounts relative to now:
//   - "established": 12 month plan, two guides done, active address, one of
//     three URLs approved.
//   - "trial": 1 month plan with an address that was deleted.
//   - "newcomer": 6 month plan who has not started anything.
//   - "moved": no plan, whose latest address history entry is still open.
func Customers(now time.Time) ([]Customer, error) {
	day := 24 * time.Hour

	established := newCustomer("established", domain.PlanTwelveMonths, now.Add(-90*day))
	established.Progress.PasswordUpdated = true
	established.Progress.SelectedSites = domain.NewSet[domain.SiteID]("hitta", "ratsit", "mrkoll")
	established.Progress.CompletedGuides = domain.NewSet[domain.GuideID]("hitta", "ratsit")
	established.Progress.Address = "Storgatan 1, 111 22 Stockholm"
	established.Progress.PersonalNumber = "19811218-9876"
	established.Address = &domain.AddressRecord{
		StreetAddress: "Storgatan 1, 111 22 Stockholm",
		UpdatedAt:     now.Add(-60 * day),
	}
	lifecycles := [][]domain.StatusStep{
		{domain.StatusCaseStarted, domain.StatusRequestSubmitted, domain.StatusRemovalApproved},
		{domain.StatusCaseStarted, domain.StatusRequestSubmitted},
		{},
	}
	for i, steps := range lifecycles {
		u, err := submittedURL(established, i, fmt.Sprintf("https://www.hitta.se/person/%d", i+1), now.Add(-time.Duration(30-i)*day), steps)
		if err != nil {
			return nil, err
		}
		established.URLs = append(established.URLs, u)
	}

	trial := newCustomer("trial", domain.PlanOneMonth, now.Add(-10*day))
	trial.Progress.PasswordUpdated = true
	deleted := now.Add(-2 * day)
	trial.Address = &domain.AddressRecord{
		StreetAddress: "Kungsgatan 5, 411 19 Göteborg",
		DeletedAt:     &deleted,
		UpdatedAt:     deleted,
	}

	newcomer := newCustomer("newcomer", domain.PlanSixMonths, now.Add(-day))

	moved := newCustomer("moved", domain.PlanNone, now.Add(-400*day))
	movedFrom := now.Add(-200 * day)
	moved.Address = &domain.AddressRecord{
		StreetAddress: "Drottninggatan 10, 211 22 Malmö",
		History: []domain.AddressHistoryEntry{
			{StreetAddress: "Södra Förstadsgatan 3", CreatedAt: now.Add(-400 * day), DeletedAt: &movedFrom},
			{StreetAddress: "Drottninggatan 10, 211 22 Malmö", CreatedAt: movedFrom},
		},
		UpdatedAt: movedFrom,
	}

	return []Customer{established, trial, newcomer, moved}, nil
}

func newCustomer(name string, plan domain.SubscriptionPlan, createdAt time.Time) Customer {
	id := CustomerID(name)
	progress := domain.EmptyProgress(id)
	progress.UpdatedAt = createdAt
	return Customer{Name: name, ID: id, Plan: plan, Progress: progress}
}

func submittedURL(c Customer, i int, raw string, at time.Time, steps []domain.StatusStep) (*domain.IncomingURL, error) {
	normalized, err := domain.NormalizeURL(raw)
	if err != nil {
		return nil, err
	}
	u := domain.NewIncomingURL(urlID(c.Name, i), c.ID, normalized, at)
	for n, step := range steps {
		if _, err := u.Advance(step, at.Add(time.Duration(n+1)*72*time.Hour)); err != nil {
			return nil, fmt.Errorf("seed %s url %d: %w", c.Name, i, err)
		}
	}
	return u, nil
}

// ---------------------------------------------------------------------------
// Database
// ---------------------------------------------------------------------------

const (
	upsertCustomerQuery = `
		INSERT INTO customers (id, subscription_plan, completed_guides, checklist_step, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET subscription_plan = EXCLUDED.subscription_plan, completed_guides = EXCLUDED.completed_guides,
		    checklist_step = EXCLUDED.checklist_step, updated_at = EXCLUDED.updated_at`

	upsertProgressQuery = `
		INSERT INTO customer_checklist_progress (customer_id, password_updated, selected_sites, removal_urls,
		    address, personal_number, completed_guides, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (customer_id) DO UPDATE
		SET password_updated = EXCLUDED.password_updated, selected_sites = EXCLUDED.selected_sites,
		    removal_urls = EXCLUDED.removal_urls, address = EXCLUDED.address,
		    personal_number = EXCLUDED.personal_number, completed_guides = EXCLUDED.completed_guides,
		    updated_at = EXCLUDED.updated_at`

	upsertAddressQuery = `
		INSERT INTO addresses (customer_id, street_address, deleted_at, address_history, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id) DO UPDATE
		SET street_address = EXCLUDED.street_address, deleted_at = EXCLUDED.deleted_at,
		    address_history = EXCLUDED.address_history, updated_at = EXCLUDED.updated_at`

	upsertURLQuery = `
		INSERT INTO incoming_urls (id, customer_id, url, status, status_history, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, status_history = EXCLUDED.status_history`
)

// Run writes the customers in one transaction. Running it again resets the
// seeded rows to their fixture state.
func Run(ctx context.Context, db database.DBTX, customers []Customer) error {
	return database.InTx(ctx, db, func(tx pgx.Tx) error {
		for _, c := range customers {
			if err := writeCustomer(ctx, tx, c); err != nil {
				return fmt.Errorf("seed customer %s: %w", c.Name, err)
			}
		}
		return nil
	})
}

func writeCustomer(ctx context.Context, tx pgx.Tx, c Customer) error {
	p := c.Progress
	for _, u := range c.URLs {
		p.RemovalURLs = p.RemovalURLs.With(u.URL)
	}

	if _, err := tx.Exec(ctx, upsertCustomerQuery,
		c.ID, string(c.Plan), p.CompletedGuides.Strings(), p.CurrentStep(), p.UpdatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}

	if _, err := tx.Exec(ctx, upsertProgressQuery,
		c.ID, p.PasswordUpdated, p.SelectedSites.Strings(), p.RemovalURLs.Strings(),
		nullIfBlank(p.Address), nullIfBlank(p.PersonalNumber), p.CompletedGuides.Strings(), p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert checklist progress: %w", err)
	}

	if c.Address != nil {
		history, err := json.Marshal(c.Address.History)
		if err != nil {
			return fmt.Errorf("marshal address history: %w", err)
		}
		if c.Address.History == nil {
			history = []byte("[]")
		}
		if _, err := tx.Exec(ctx, upsertAddressQuery,
			c.ID, nullIfBlank(c.Address.StreetAddress), c.Address.DeletedAt, history, c.Address.UpdatedAt,
		); err != nil {
			return fmt.Errorf("upsert address: %w", err)
		}
	}

	for _, u := range c.URLs {
		if err := u.ValidateHistory(); err != nil {
			return err
		}
		history, err := json.Marshal(u.History)
		if err != nil {
			return fmt.Errorf("marshal status history: %w", err)
		}
		if _, err := tx.Exec(ctx, upsertURLQuery,
			u.ID, c.ID, u.URL, string(u.Status), history, u.CreatedAt,
		); err != nil {
			return fmt.Errorf("upsert incoming url: %w", err)
		}
	}
	return nil
}

func nullIfBlank(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// ---------------------------------------------------------------------------
// Tokens
// ---------------------------------------------------------------------------

// SignToken mints an HS256 access token the service accepts.
func SignToken(secret, issuer, userID, role string, ttl time.Duration, now time.Time) (string, error) {
	claims := auth.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", userID, err)
	}
	return signed, nil
}
