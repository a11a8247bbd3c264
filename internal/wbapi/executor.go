package wbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"wb-ledger-bot/internal/logger"
)

// ErrRetriesExhausted marks a request that stayed rate-limited or faulty
// through every allowed attempt. Callers must not confuse it with an
// empty result.
var ErrRetriesExhausted = errors.New("retries exhausted")

// APIError is a response the provider refused. Client faults (bad key,
// malformed params) surface as-is; retryable statuses only surface
// wrapped in ErrRetriesExhausted once attempts run out.
type APIError struct {
	Status    int
	Body      string
	Endpoint  string
	exhausted bool
}

func (e *APIError) Error() string {
	if e.exhausted {
		return fmt.Sprintf("%s: status %d after retries: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.exhausted {
		return ErrRetriesExhausted
	}
	return nil
}

// SleepFunc pauses for d or returns early with the context error.
// Injected by tests to skip provider pacing delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BackoffFunc returns the pause before retrying attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// FixedBackoff pauses the same amount before every retry. The statistics
// endpoints reset their quota on a fixed window.
func FixedBackoff(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// ExpBackoff doubles the pause on every retry starting from seed. The
// advertising endpoints want this shape.
func ExpBackoff(seed time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return seed << (attempt - 1)
	}
}

// Executor runs single requests against one WB endpoint family with that
// family's retry and backoff contract.
type Executor struct {
	httpClient *http.Client
	apiKey     string
	maxRetries int
	backoff    BackoffFunc
	netBackoff BackoffFunc
	sleep      SleepFunc
}

// ExecutorParams configures an Executor. Zero fields fall back to the
// shared defaults (3 attempts, 60s fixed backoff, 30s HTTP timeout).
type ExecutorParams struct {
	APIKey     string
	MaxRetries int
	Backoff    BackoffFunc
	Timeout    time.Duration
	Sleep      SleepFunc
}

func NewExecutor(p ExecutorParams) *Executor {
	if p.MaxRetries == 0 {
		p.MaxRetries = 3
	}
	if p.Backoff == nil {
		p.Backoff = FixedBackoff(60 * time.Second)
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.Sleep == nil {
		p.Sleep = Sleep
	}
	return &Executor{
		httpClient: &http.Client{Timeout: p.Timeout},
		apiKey:     p.APIKey,
		maxRetries: p.MaxRetries,
		backoff:    p.Backoff,
		netBackoff: ExpBackoff(10 * time.Second),
		sleep:      p.Sleep,
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Do executes one request with the family's retry policy and returns the
// response body. Rate limits and server faults are retried up to the
// attempt ceiling; other client errors surface immediately as *APIError.
func (e *Executor) Do(ctx context.Context, method, rawURL string, query url.Values, payload any) ([]byte, error) {
	var bodyBytes []byte
	if payload != nil {
		var err error
		bodyBytes, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode payload: %w", rawURL, err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		var reqBody io.Reader
		if bodyBytes != nil {
			reqBody = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", e.apiKey)
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if query != nil {
			req.URL.RawQuery = query.Encode()
		}

		resp, err := e.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt == e.maxRetries {
				break
			}
			wait := e.netBackoff(attempt)
			logger.Warn(ctx, "network fault, retrying",
				"endpoint", rawURL, "attempt", attempt, "max_attempts", e.maxRetries,
				"wait", wait.String(), "error", err)
			if err := e.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			if attempt == e.maxRetries {
				break
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent:
			return data, nil
		case retryable(resp.StatusCode):
			lastErr = &APIError{Status: resp.StatusCode, Body: string(data), Endpoint: rawURL, exhausted: true}
			if attempt == e.maxRetries {
				break
			}
			wait := e.backoff(attempt)
			logger.Warn(ctx, "provider throttled request, retrying",
				"endpoint", rawURL, "status", resp.StatusCode,
				"attempt", attempt, "max_attempts", e.maxRetries, "wait", wait.String())
			if err := e.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		default:
			// Client fault: retrying cannot help.
			return nil, &APIError{Status: resp.StatusCode, Body: string(data), Endpoint: rawURL}
		}
		break
	}

	if apiErr, ok := lastErr.(*APIError); ok {
		return nil, apiErr
	}
	return nil, fmt.Errorf("%s: %w: %v", rawURL, ErrRetriesExhausted, lastErr)
}
