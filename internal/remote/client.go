// Package remote implements the HTTP clients for the services the
// dashboard consumes: the plan store, the identity service, and the
// organization catalog.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds endpoint and transport configuration for all remote calls.
type Config struct {
	PlanStoreURL  string
	IdentityURL   string
	CatalogURL    string
	AuthToken     string
	Timeout       time.Duration
	RetryAttempts int
}

// Client performs HTTP calls against the remote services. Read calls
// carry a small bounded retry; writes are single-shot.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewClient creates a remote client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 2
	}
	cfg.PlanStoreURL = strings.TrimRight(cfg.PlanStoreURL, "/")
	cfg.IdentityURL = strings.TrimRight(cfg.IdentityURL, "/")
	cfg.CatalogURL = strings.TrimRight(cfg.CatalogURL, "/")

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		now:    time.Now,
	}
}

// get fetches a URL, retrying transport errors and 5xx responses up to
// the configured attempt budget. Non-5xx error statuses are returned
// immediately as StatusError without retry.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryAttempts; attempt++ {
		body, retryable, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil || attempt == c.cfg.RetryAttempts {
			break
		}
		c.logger.Debug("Retrying remote fetch",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response from %s: %w", url, err)
	}

	if resp.StatusCode >= 500 {
		return nil, true, &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	if resp.StatusCode >= 400 {
		return nil, false, &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	return data, false, nil
}

// postJSON issues a single-shot POST with a JSON body and returns the
// response status code and body. No retries: write operations are the
// caller's responsibility to not duplicate.
func (c *Client) postJSON(ctx context.Context, url string, payload any) (int, []byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response from %s: %w", url, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}
}
