package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/supplynet-dashboard/internal/orders"
	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
)

const (
	defaultTimeout           = 10 * time.Second
	errorBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("upstream api base url is required")

// API is the set of upstream REST calls the dashboard depends on.
type API interface {
	ListStores(ctx context.Context) ([]stores.StoreRecord, error)
	GetStore(ctx context.Context, id string) (stores.StoreRecord, error)
	UpdateConditions(ctx context.Context, id string, conditions stores.Conditions) error
	CreateOrder(ctx context.Context, draft orders.OrderDraft) (orders.CreateOrderResult, error)
	ListOrders(ctx context.Context) ([]orders.OrderSummary, error)
}

// Client talks to the store/order REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ API = (*Client)(nil)

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a client rooted at baseURL, e.g. http://localhost:8000/api.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// ListStores fetches the full store listing.
func (c *Client) ListStores(ctx context.Context) ([]stores.StoreRecord, error) {
	var out []stores.StoreRecord
	if err := c.do(ctx, http.MethodGet, "/stores/", nil, &out, "list stores"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []stores.StoreRecord{}
	}
	return out, nil
}

// GetStore fetches a single store record.
func (c *Client) GetStore(ctx context.Context, id string) (stores.StoreRecord, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return stores.StoreRecord{}, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	var out stores.StoreRecord
	if err := c.do(ctx, http.MethodGet, "/stores/"+url.PathEscape(trimmed), nil, &out, "get store"); err != nil {
		return stores.StoreRecord{}, err
	}
	return out, nil
}

// UpdateConditions replaces the store's condition sub-record.
func (c *Client) UpdateConditions(ctx context.Context, id string, conditions stores.Conditions) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	path := fmt.Sprintf("/stores/%s/conditions/", url.PathEscape(trimmed))
	return c.do(ctx, http.MethodPut, path, conditions, nil, "update conditions")
}

// CreateOrder posts a manual order.
func (c *Client) CreateOrder(ctx context.Context, draft orders.OrderDraft) (orders.CreateOrderResult, error) {
	var out orders.CreateOrderResult
	if err := c.do(ctx, http.MethodPost, "/orders/", draft, &out, "create order"); err != nil {
		return orders.CreateOrderResult{}, err
	}
	return out, nil
}

// ListOrders fetches every order known upstream.
func (c *Client) ListOrders(ctx context.Context) ([]orders.OrderSummary, error) {
	var out []orders.OrderSummary
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, &out, "list orders"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, op string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+op+" request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+op+" request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+op+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		code := pkgerrors.CodeDependency
		if resp.StatusCode == http.StatusNotFound {
			code = pkgerrors.CodeNotFound
		}
		return pkgerrors.Wrap(code, cause, op+" request failed").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+op+" response")
	}
	return nil
}
