// Package remote implements the HTTP client for the Qber GraphQL API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single request round-trip
	DefaultTimeout = 15 * time.Second
	// DefaultMaxRetries is the number of retries after a failed attempt
	DefaultMaxRetries = 3
	// DefaultRetryBaseDelay is the first backoff step
	DefaultRetryBaseDelay = 200 * time.Millisecond
	// DefaultMaxBodySize caps how much of a response body is read
	DefaultMaxBodySize = 8 << 20
)

// Config carries client construction parameters.
type Config struct {
	Endpoint   string
	Token      string
	Timeout    time.Duration
	MaxRetries int
}

// Client is an HTTP client for the Qber GraphQL API.
type Client struct {
	endpoint   string
	token      string
	client     *http.Client
	logger     *slog.Logger
	maxRetries int
}

// NewClient creates a client for the given endpoint.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = DefaultMaxRetries
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.Token,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		maxRetries: retries,
	}
}

// retryConfig configures retry behavior.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func (c *Client) retryConfig() retryConfig {
	return retryConfig{
		maxRetries: c.maxRetries,
		baseDelay:  DefaultRetryBaseDelay,
		maxDelay:   5 * time.Second,
	}
}

// do executes one GraphQL operation and unmarshals the data payload into out.
// Network errors and 5xx responses are retried with exponential backoff; 4xx
// responses and GraphQL-level errors are not.
func (c *Client) do(ctx context.Context, operationName, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphqlRequest{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	cfg := c.retryConfig()
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		if attempt > 0 {
			delay := cfg.baseDelay * time.Duration(1<<uint(attempt-1))
			if delay > cfg.maxDelay {
				delay = cfg.maxDelay
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			if c.logger != nil {
				c.logger.Debug("Retrying request",
					"operation", operationName,
					"attempt", attempt+1,
					"requestId", requestID,
				)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "qber-client/2.1")
		req.Header.Set("X-Request-Id", requestID)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			// Retry on network errors
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize))
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}

		// Don't retry on client errors (4xx), only on server errors (5xx)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}

		return decodeResponse(body, out)
	}

	return fmt.Errorf("request failed after %d retries: %w", cfg.maxRetries, lastErr)
}

// decodeResponse parses a GraphQL response envelope and extracts the data.
func decodeResponse(body []byte, out interface{}) error {
	var resp struct {
		Data   json.RawMessage    `json:"data"`
		Errors []graphqlErrorInfo `json:"errors,omitempty"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(resp.Errors) > 0 {
		return &GraphQLError{Errors: resp.Errors}
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}

// APIError represents a transport-level error from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized returns true if the error is a 401 unauthorized error.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound returns true if the error is a 404 not found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// GraphQLError represents one or more GraphQL-level errors. They are never
// silently dropped: a response carrying errors fails the whole operation.
type GraphQLError struct {
	Errors []graphqlErrorInfo
}

func (e *GraphQLError) Error() string {
	if len(e.Errors) == 1 {
		return "graphql error: " + e.Errors[0].Message
	}
	msgs := make([]string, len(e.Errors))
	for i, ge := range e.Errors {
		msgs[i] = ge.Message
	}
	return fmt.Sprintf("graphql errors (%d): %s", len(e.Errors), strings.Join(msgs, "; "))
}
