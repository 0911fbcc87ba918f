// Package surface publishes candidatures to external systems.
package surface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lsmc/candidature/pkg/surface"
	"golang.org/x/time/rate"
)

// ErrWebhookNotConfigured is returned when publishing without a webhook URL.
var ErrWebhookNotConfigured = errors.New("webhook not configured")

// Default outbound rate: one message every two seconds with bursts of five.
const (
	DefaultInterval = 2 * time.Second
	DefaultBurst    = 5
)

// WebhookPublisher posts messages to a chat webhook.
type WebhookPublisher struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// PublisherOption configures a WebhookPublisher.
type PublisherOption func(*WebhookPublisher)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) PublisherOption {
	return func(p *WebhookPublisher) { p.httpClient = c }
}

// WithRateLimit sets the outbound rate. A non-positive interval disables limiting.
func WithRateLimit(interval time.Duration, burst int) PublisherOption {
	return func(p *WebhookPublisher) {
		if interval <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Every(interval), burst)
	}
}

// NewWebhookPublisher creates a publisher for url. An empty url yields a
// publisher whose Publish always returns ErrWebhookNotConfigured.
func NewWebhookPublisher(url string, opts ...PublisherOption) *WebhookPublisher {
	p := &WebhookPublisher{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(DefaultInterval), DefaultBurst),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configured reports whether a webhook URL is set.
func (p *WebhookPublisher) Configured() bool { return p.url != "" }

// Publish sends one message, waiting for the rate limiter first.
func (p *WebhookPublisher) Publish(ctx context.Context, msg surface.WebhookMessage) error {
	if !p.Configured() {
		return ErrWebhookNotConfigured
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook error %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
