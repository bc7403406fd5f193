package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "places-autocomplete/internal/errors"
	"places-autocomplete/internal/utils"
	"places-autocomplete/pkg/logger"
	"places-autocomplete/pkg/metrics"
)

// Google response statuses, see the Places API documentation.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusNotFound       = "NOT_FOUND"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// APIStatusError is returned when Google answers 200 with a non-OK status.
type APIStatusError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *APIStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("places %s: status %s", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("places %s: status %s: %s", e.Endpoint, e.Status, e.Message)
}

// Unwrap classifies the status for the error mapper.
func (e *APIStatusError) Unwrap() error {
	switch e.Status {
	case StatusNotFound, StatusInvalidRequest:
		return apperrors.ErrInvalidPlace
	default:
		return apperrors.ErrUpstream
	}
}

// getJSON performs a GET against endpoint with the API key and language
// added, retrying transient failures, and decodes the body into dest.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	params.Set("key", c.apiKey)
	params.Set("language", c.language)
	requestURL := fmt.Sprintf("%s/%s/json?%s", c.baseURL, endpoint, params.Encode())
	logURL := fmt.Sprintf("%s/%s/json", c.baseURL, endpoint)

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, err := c.do(ctx, requestURL)
		if err == nil {
			if err := json.Unmarshal(body, dest); err != nil {
				logger.GlobalLogger.Errorf("Failed to decode places response: url=%s, error=%v", logURL, err)
				metrics.ObservePlaces(endpoint, start, err)
				return fmt.Errorf("failed to decode %s response: %v: %w", endpoint, err, apperrors.ErrUpstream)
			}
			metrics.ObservePlaces(endpoint, start, nil)
			return nil
		}

		lastErr = err
		if !utils.IsRetryableError(err) || attempt == c.maxRetries {
			break
		}
		logger.GlobalLogger.Errorf("Places request failed (attempt %d/%d): url=%s, error=%v", attempt, c.maxRetries, logURL, err)

		select {
		case <-ctx.Done():
			metrics.ObservePlaces(endpoint, start, ctx.Err())
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}

	metrics.ObservePlaces(endpoint, start, lastErr)
	logger.GlobalLogger.Errorf("Places request gave up: url=%s, attempts=%d, error=%v", logURL, c.maxRetries, lastErr)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("places %s request failed: %v: %w", endpoint, lastErr, apperrors.ErrUpstream)
}

func (c *Client) do(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create places request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read places response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &utils.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
