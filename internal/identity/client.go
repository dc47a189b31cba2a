package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/qm1997qm/home-away-clone/pkg/httpclient"
)

// MetadataUpdater pushes public metadata changes to the identity provider.
type MetadataUpdater interface {
	MarkProfileCreated(ctx context.Context, userID string) error
}

// Client talks to the identity provider's management API through the circuit
// breaker so a provider outage cannot pile up request timeouts.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// ClientConfig holds identity management API settings.
type ClientConfig struct {
	BaseURL string
	APIKey  string
}

// NewClient creates a new identity management API client.
func NewClient(cfg ClientConfig, http *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

type metadataPatch struct {
	PublicMetadata map[string]any `json:"public_metadata"`
}

// MarkProfileCreated flips has_profile to true in the user's public metadata.
// New session tokens minted after this carry the updated claim.
func (c *Client) MarkProfileCreated(ctx context.Context, userID string) error {
	body, err := json.Marshal(metadataPatch{
		PublicMetadata: map[string]any{"has_profile": true},
	})
	if err != nil {
		return fmt.Errorf("marshal metadata patch: %w", err)
	}

	url := fmt.Sprintf("%s/v1/users/%s/metadata", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create metadata request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("update user metadata: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "identity provider")
	}
	_ = resp.Body.Close()

	c.logger.InfoContext(ctx, "marked profile created on identity provider",
		slog.String("user_id", userID),
	)

	return nil
}
