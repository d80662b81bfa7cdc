package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vietddude/storecore/internal/core/domain"
)

// HTTPProvider posts notification jobs to an external HTTP endpoint.
// A 2xx response is acceptance; everything else is failure. Missing
// credentials make every send an immediate failure for this provider,
// which lets the failover chain move on without special-casing.
type HTTPProvider struct {
	name       string
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider creates a provider. Timeouts should stay in the
// few-second range so failover remains meaningful.
func NewHTTPProvider(name, endpoint, apiKey string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPProvider{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Name returns the provider's configured name.
func (p *HTTPProvider) Name() string { return p.name }

// Send posts the message. One attempt, no retries; the failover chain
// is the only retry mechanism.
func (p *HTTPProvider) Send(ctx context.Context, subject, body string, job domain.NotificationJob) error {
	if p.endpoint == "" || p.apiKey == "" {
		return fmt.Errorf("provider %s: missing credentials", p.name)
	}

	payload := map[string]any{
		"to":          job.To,
		"subject":     subject,
		"body":        body,
		"template_id": job.TemplateID,
		"params":      job.Params,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send via %s: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider %s: http %d: %s", p.name, resp.StatusCode, string(detail))
	}
	return nil
}

// Close releases idle connections.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
