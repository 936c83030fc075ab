// Package store is the HTTP client for the remote expense collection.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

const expensesPath = "/api/expenses"

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

// Client talks to the remote expense API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// CreateResult is the acknowledgement returned by a successful create.
// Both fields are optional.
type CreateResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type errorBody struct {
	Error string `json:"error"`
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// List fetches every expense in server order.
func (c *Client) List(ctx context.Context) ([]model.Expense, error) {
	const op = "list expenses"

	resp, err := c.do(ctx, op, http.MethodGet, c.endpoint(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var expenses []model.Expense
	if err := json.NewDecoder(resp.Body).Decode(&expenses); err != nil {
		return nil, &common.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}

	c.logger.Debug("Fetched expenses", "count", len(expenses))
	return expenses, nil
}

// Create submits a new expense. The returned acknowledgement may be empty
// when the server answers 2xx without a parsable body.
func (c *Client) Create(ctx context.Context, draft model.NewExpense) (CreateResult, error) {
	const op = "create expense"

	body, err := json.Marshal(draft)
	if err != nil {
		return CreateResult{}, fmt.Errorf("failed to encode expense: %w", err)
	}

	resp, err := c.do(ctx, op, http.MethodPost, c.endpoint(), body)
	if err != nil {
		return CreateResult{}, err
	}
	defer resp.Body.Close()

	var result CreateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && !errors.Is(err, io.EOF) {
		c.logger.Debug("Ignoring unparsable create acknowledgement", "error", err)
	}

	c.logger.Debug("Created expense", "id", result.ID, "category", draft.Category)
	return result, nil
}

// Delete removes the expense with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	const op = "delete expense"

	resp, err := c.do(ctx, op, http.MethodDelete, c.endpoint(strconv.FormatInt(id, 10)), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	c.logger.Debug("Deleted expense", "id", id)
	return nil
}

// do issues the request and converts non-2xx answers into typed errors.
// On success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, op, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.TransportError{Op: op, Err: err}
	}

	c.logger.Debug("Expense API request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		return nil, &common.ServerError{Op: op, StatusCode: resp.StatusCode, Message: eb.Error}
	}

	return nil, &common.TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
}

func (c *Client) endpoint(segments ...string) string {
	return c.baseURL.JoinPath(append([]string{expensesPath}, segments...)...).String()
}
