package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

const (
	keyPrefix     = "privacy:view:"
	scoreView     = "score"
	checklistView = "checklist"
)

// ViewCache implements repository.ViewCache using Redis.
type ViewCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewViewCache creates a new Redis-backed view cache. Entries expire after
// ttl even if no write invalidates them.
func NewViewCache(client redis.Cmdable, ttl time.Duration) *ViewCache {
	return &ViewCache{
		client: client,
		ttl:    ttl,
	}
}

func viewKey(view, customerID string) string {
	return keyPrefix + view + ":" + customerID
}

// GetScore returns the cached privacy score for the customer.
func (c *ViewCache) GetScore(ctx context.Context, customerID string) (*domain.PrivacyScore, error) {
	var score domain.PrivacyScore
	if err := c.get(ctx, scoreView, customerID, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// SetScore caches the customer's privacy score.
func (c *ViewCache) SetScore(ctx context.Context, customerID string, score *domain.PrivacyScore) error {
	return c.set(ctx, scoreView, customerID, score)
}

// GetChecklist returns the cached checklist summary for the customer.
func (c *ViewCache) GetChecklist(ctx context.Context, customerID string) (*domain.ChecklistSummary, error) {
	var summary domain.ChecklistSummary
	if err := c.get(ctx, checklistView, customerID, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SetChecklist caches the customer's checklist summary.
func (c *ViewCache) SetChecklist(ctx context.Context, customerID string, summary *domain.ChecklistSummary) error {
	return c.set(ctx, checklistView, customerID, summary)
}

// Invalidate removes every cached view of the customer.
func (c *ViewCache) Invalidate(ctx context.Context, customerID string) error {
	if err := c.client.Del(ctx, viewKey(scoreView, customerID), viewKey(checklistView, customerID)).Err(); err != nil {
		return fmt.Errorf("redis del views: %w", err)
	}
	return nil
}

func (c *ViewCache) get(ctx context.Context, view, customerID string, dst any) error {
	data, err := c.client.Get(ctx, viewKey(view, customerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.NotFound(view+" view", customerID)
		}
		return fmt.Errorf("redis get %s view: %w", view, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s view: %w", view, err)
	}
	return nil
}

func (c *ViewCache) set(ctx context.Context, view, customerID string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s view: %w", view, err)
	}

	if err := c.client.Set(ctx, viewKey(view, customerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s view: %w", view, err)
	}
	return nil
}
