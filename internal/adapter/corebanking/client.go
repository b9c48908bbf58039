// Package corebanking is a JSON client for the core banking account, rate and
// transaction services.
package corebanking

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

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/mmconsole/internal/domain"
)

// Config holds client settings.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxRetries     uint64
	RetryInterval  time.Duration
}

// Client talks to the core banking services over HTTP. Reads are retried
// with exponential backoff; transaction creation is never retried.
type Client struct {
	baseURL       string
	http          *http.Client
	maxRetries    uint64
	retryInterval time.Duration
	logger        zerolog.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		http:          &http.Client{Timeout: timeout},
		maxRetries:    cfg.MaxRetries,
		retryInterval: interval,
		logger:        log.With().Str("component", "corebanking").Logger(),
	}
}

// statusError is a non-2xx answer from the service.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	if e.message == "" {
		return fmt.Sprintf("status %d", e.status)
	}
	return fmt.Sprintf("status %d: %s", e.status, e.message)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// getJSON decodes the body of a GET into out. notFound is returned for 404.
func (c *Client) getJSON(ctx context.Context, path string, notFound error, out any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxElapsedTime = 0

	attempt := 0

	err := backoff.Retry(func() error {
		attempt++

		err := c.do(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}

		var se *statusError
		if errors.As(err, &se) && se.status < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		c.logger.Warn().Err(err).Str("path", path).Int("attempt", attempt).Msg("core banking read failed, retrying")

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	var se *statusError
	if errors.As(err, &se) && se.status == http.StatusNotFound {
		return notFound
	}

	return fmt.Errorf("%w: GET %s: %v", domain.ErrServiceUnavailable, path, err)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, message: errorMessage(raw)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func errorMessage(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}

	return strings.TrimSpace(string(raw))
}
