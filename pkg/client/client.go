// Package client provides an HTTP client for the rentals API. Each entity
// gets a resource binding exposing query, get, create, update, delete and
// search. Every call is a single request; there is no caching or retry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// APIError carries a non-2xx response: the status code, the machine-readable
// error key from the X-rentalsApp-error header when present, and the server's
// message.
type APIError struct {
	StatusCode int
	Key        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Key, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a client for the rentals API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string
	// Timeout applies per request. Zero means 30 seconds.
	Timeout time.Duration
	// HTTPClient overrides the default client when set; Timeout is ignored.
	HTTPClient *http.Client
}

// New creates a new rentals API client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// Cars returns the car resource binding.
func (c *Client) Cars() *CarsResource {
	return &CarsResource{client: c}
}

// Coordinates returns the coordinates resource binding.
func (c *Client) Coordinates() *CoordinatesResource {
	return &CoordinatesResource{client: c}
}

// pageQuery encodes page and size parameters. Negative values are omitted so
// the server applies its defaults.
func pageQuery(page, size int) url.Values {
	values := url.Values{}
	if page >= 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		values.Set("size", strconv.Itoa(size))
	}
	return values
}

// do sends one JSON request and decodes the response body into out when it is
// non-nil. It returns the response headers for pagination metadata.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) (http.Header, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	return resp.Header, nil
}

func apiError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Key:        resp.Header.Get("X-rentalsApp-error"),
		Message:    resp.Status,
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}

	return apiErr
}

func totalCount(headers http.Header) int64 {
	total, err := strconv.ParseInt(headers.Get("X-Total-Count"), 10, 64)
	if err != nil {
		return 0
	}
	return total
}
