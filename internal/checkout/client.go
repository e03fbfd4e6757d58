// Package checkout requests payment checkout sessions from the billing endpoint.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dtroode/certdash/internal/logger"
	"github.com/dtroode/certdash/internal/model"
)

const maxErrorBody = 4 << 10

// Config holds the endpoint and the return URLs sent with every request.
type Config struct {
	URL        string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(cfg Config, logger *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("client", "CheckoutClient"),
	}
}

type sessionRequest struct {
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	Error     string `json:"error"`
}

// CreateCheckoutSession asks the billing endpoint for a checkout session for
// priceID and returns its id.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string) (string, error) {
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return "", model.NewValidationError("price id", "required")
	}

	body, err := json.Marshal(sessionRequest{
		PriceID:    priceID,
		SuccessURL: c.cfg.SuccessURL,
		CancelURL:  c.cfg.CancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Checkout client: creating session", "price_id", priceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &model.RemoteError{Op: "create checkout session", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &model.RemoteError{Op: "create checkout session", Err: statusError(resp)}
	}

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &model.RemoteError{Op: "create checkout session", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if out.SessionID == "" {
		return "", &model.RemoteError{Op: "create checkout session", Err: fmt.Errorf("response has no session id")}
	}

	c.logger.Info("Checkout client: session created", "session_id", out.SessionID)
	return out.SessionID, nil
}

// statusError reads the error message of a non-2xx response, falling back to
// the raw body.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var out sessionResponse
	if err := json.Unmarshal(raw, &out); err == nil && out.Error != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, out.Error)
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	return fmt.Errorf("status %d", resp.StatusCode)
}
