// Package backendclient talks to the remote campaign-generation backend. All
// business logic (query generation, cost estimation, segmentation) lives
// there; this client only moves envelopes back and forth and classifies
// failures.
package backendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/config"
)

// Sentinel errors for the failure taxonomy. Business errors carry their own
// type so the verbatim backend message survives for rewriting upstream.
var (
	// ErrConnection marks transport-level failures: no response was received.
	ErrConnection = errors.New("connection error")
	// ErrMalformed marks responses that claim success but carry missing or
	// structurally wrong data.
	ErrMalformed = errors.New("malformed backend response")
)

// BusinessError is a success=false envelope from the backend. Message is the
// backend's errorMessage verbatim.
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("backend error (code %d): %s", e.Code, e.Message)
}

// Envelope is the common response wrapper every backend endpoint returns.
type Envelope struct {
	Success      bool            `json:"success"`
	Code         int             `json:"code"`
	Data         json.RawMessage `json:"data,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// Client is an HTTP client for the generation backend. Outbound calls share a
// rate limiter so a burst of wizard sessions cannot flood the backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New builds a client from the backend section of the app config.
func New(cfg config.BackendConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultBackendTimeoutSeconds) * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}
}

// do performs one backend round-trip and returns the decoded envelope.
// Transport failures map to ErrConnection; a success=false envelope maps to
// *BusinessError.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*Envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request to %s cancelled: %w", url, ctx.Err())
		}
		log.Printf("BackendClient: %s %s transport failure: %v", method, path, err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrConnection, method, path, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Printf("BackendClient: %s %s undecodable response (status %d): %v", method, path, resp.StatusCode, err)
		return nil, fmt.Errorf("%w: undecodable envelope from %s", ErrMalformed, path)
	}
	if !env.Success {
		log.Printf("BackendClient: %s %s business error (code %d): %s", method, path, env.Code, env.ErrorMessage)
		return nil, &BusinessError{Code: env.Code, Message: env.ErrorMessage}
	}
	return &env, nil
}

// decodeData unmarshals the envelope's data into out, treating absence or a
// shape mismatch as a malformed-success error.
func decodeData(env *Envelope, path string, out any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: missing data from %s", ErrMalformed, path)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: unexpected data shape from %s: %v", ErrMalformed, path, err)
	}
	return nil
}
