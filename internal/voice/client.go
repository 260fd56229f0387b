// Package voice is the HTTP client for the outbound voice-calling provider.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outbound_ai_backend/platform/config"
	"outbound_ai_backend/platform/logger"

	"github.com/cenkalti/backoff/v4"
)

const (
	maxErrorBodyBytes = 4 << 10
	defaultTimeout    = 10 * time.Second
)

// ErrNotConfigured is returned when no provider URL or API key is set.
var ErrNotConfigured = errors.New("voice provider not configured")

// Customer is the party the assistant calls.
type Customer struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

// AssistantOverrides carries per-call assistant settings. Metadata is echoed back
// on the end-of-call webhook.
type AssistantOverrides struct {
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreateCallRequest is the body of POST /call.
type CreateCallRequest struct {
	AssistantID        string              `json:"assistantId"`
	PhoneNumberID      string              `json:"phoneNumberId"`
	Customer           Customer            `json:"customer"`
	AssistantOverrides *AssistantOverrides `json:"assistantOverrides,omitempty"`
}

// Call is the subset of the provider's call object we read.
type Call struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// StatusError is a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("voice provider returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the provider REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	timeout time.Duration
	log     *logger.Logger
}

// NewClient creates a provider client. The client is usable even when not
// configured; calls then fail with ErrNotConfigured.
func NewClient(cfg config.VoiceConfig, log *logger.Logger) *Client {
	timeout := cfg.GetVoiceTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.GetVoiceAPIURL(), "/"),
		apiKey:  cfg.GetVoiceAPIKey(),
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		log:     log,
	}
}

// CreateCall starts an outbound call. Rate limiting and temporary unavailability
// are retried with exponential backoff; any other failure is returned as-is.
func (c *Client) CreateCall(ctx context.Context, req CreateCallRequest) (Call, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return Call{}, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Call{}, fmt.Errorf("marshal call request: %w", err)
	}

	var call Call
	op := func() error {
		result, err := c.post(ctx, "/call", body)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && retryable(statusErr.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}
		call = result
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = c.timeout
	notify := func(err error, wait time.Duration) {
		c.log.Warn("voice provider request failed, retrying", "error", err, "wait", wait.String())
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify); err != nil {
		return Call{}, err
	}
	if call.ID == "" {
		return Call{}, errors.New("voice provider response has no call id")
	}
	c.log.Info("voice call created", "callId", call.ID, "status", call.Status)
	return call, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (Call, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Call{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Call{}, fmt.Errorf("voice request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return Call{}, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	var call Call
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return Call{}, fmt.Errorf("decode voice response: %w", err)
	}
	return call, nil
}

// retryable limits retries to responses where the provider did not start a call.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}
