package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config holds the endpoints and transport settings for the remote
// tutoring services.
type Config struct {
	ScoringURL    string
	GenerationURL string
	Timeout       time.Duration
}

// Client is the JSON-over-HTTP implementation of Scorer and Generator.
type Client struct {
	cfg  Config
	http *http.Client
}

var (
	_ Scorer    = (*Client)(nil)
	_ Generator = (*Client)(nil)
)

// NewClient creates a Client. A zero Timeout falls back to the default
// transport timeout; a timeout is treated like any other remote failure.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// Score submits a completed answer set to the scoring service.
func (c *Client) Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error) {
	raw, err := c.postJSON(ctx, "scoring", c.cfg.ScoringURL, req)
	if err != nil {
		return nil, err
	}

	if err := validatePayload("scoring", scoreResponseSchema, raw); err != nil {
		return nil, err
	}

	var resp ScoreResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ErrInvalidResponse{Service: "scoring", Content: raw, Err: err}
	}
	return &resp, nil
}

// Generate requests the combined three-tier question sets.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	raw, err := c.postJSON(ctx, "generation", c.cfg.GenerationURL, req)
	if err != nil {
		return nil, err
	}

	if err := validatePayload("generation", generateResponseSchema, raw); err != nil {
		return nil, err
	}

	var resp GenerateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ErrInvalidResponse{Service: "generation", Content: raw, Err: err}
	}
	return &resp, nil
}

// postJSON performs one POST round trip and maps transport and status
// failures onto the typed error taxonomy.
func (c *Client) postJSON(ctx context.Context, service, url string, body any) (json.RawMessage, error) {
	if url == "" {
		return nil, &ErrServiceUnavailable{Service: service, Err: fmt.Errorf("no endpoint configured")}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", service, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", service, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &ErrServiceUnavailable{Service: service, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrServiceUnavailable{Service: service, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &ErrRateLimit{
			Service:    service,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	case resp.StatusCode >= 500:
		return nil, &ErrServiceUnavailable{Service: service, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &ErrInvalidResponse{
			Service: service,
			Content: raw,
			Err:     fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	return raw, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
