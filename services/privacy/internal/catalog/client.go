package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	"github.com/doltnamn-se/doltnamn/pkg/httpclient"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// Config configures the guide catalog client.
type Config struct {
	URL     string
	Timeout time.Duration
}

type listResponse struct {
	Data []domain.Guide `json:"data"`
}

// Client fetches the guide catalog from the catalog service. Calls go
// through a circuit breaker so a failing catalog is not hammered.
type Client struct {
	http   *httpclient.CircuitBreakerClient
	url    string
	logger *slog.Logger
}

// NewClient creates a catalog client. An empty URL is a configuration error.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, apperrors.MissingConfiguration("GUIDE_CATALOG_URL")
	}

	httpCfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}
	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("guide-catalog"),
		logger,
	)

	return &Client{http: cb, url: cfg.URL, logger: logger}, nil
}

// ListGuides returns the catalog in the order the catalog service sends it.
// Entries without an id are dropped.
func (c *Client) ListGuides(ctx context.Context) ([]domain.Guide, error) {
	var resp listResponse
	if err := c.http.GetJSON(ctx, c.url, &resp); err != nil {
		return nil, &apperrors.AppError{
			Code:      "CATALOG_UNAVAILABLE",
			Message:   "guide catalog is unavailable, please try again",
			Retryable: true,
			Status:    http.StatusServiceUnavailable,
			Err:       fmt.Errorf("%w: fetch guide catalog: %w", apperrors.ErrServiceUnavail, err),
		}
	}

	guides := make([]domain.Guide, 0, len(resp.Data))
	for _, g := range resp.Data {
		if g.ID == "" {
			c.logger.WarnContext(ctx, "dropping catalog guide without id",
				slog.String("site_name", g.SiteName),
			)
			continue
		}
		guides = append(guides, g)
	}

	return guides, nil
}
