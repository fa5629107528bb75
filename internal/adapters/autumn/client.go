package autumn

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
	"strings"
	"time"

	"github.com/bnema/autumn-cli/internal/domain"
	"github.com/bnema/autumn-cli/internal/ports"
	"github.com/bnema/autumn-cli/internal/version"
	"github.com/google/uuid"
)

const (
	DefaultBaseURL        = "https://api.useautumn.com/v1"
	defaultRequestTimeout = 30 * time.Second
	maxResponseBytes      = 4 << 20
)

// Options configures every client built by a Factory.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	UserAgent      string
	Logger         *slog.Logger
}

// Client talks to the Autumn REST API with one secret key.
type Client struct {
	opts      Options
	secretKey string
}

var _ ports.BillingClient = (*Client)(nil)

func NewClient(secretKey string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = version.UserAgent()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{opts: opts, secretKey: secretKey}
}

// Factory returns a ports.BillingClientFactory producing clients that share
// opts.
func Factory(opts Options) ports.BillingClientFactory {
	return func(secretKey string) ports.BillingClient {
		return NewClient(secretKey, opts)
	}
}

func (c *Client) ListCustomers(ctx context.Context, params ports.ListCustomersParams) (domain.CustomerPage, error) {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}

	var payload customerListResponse
	if err := c.do(ctx, http.MethodGet, "customers", query, nil, &payload); err != nil {
		return domain.CustomerPage{}, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(payload.List))
	for _, customer := range payload.List {
		customers = append(customers, customer.toDomain())
	}

	return domain.CustomerPage{
		Customers: customers,
		Total:     payload.Total,
		Limit:     payload.Limit,
		Offset:    payload.Offset,
	}, nil
}

func (c *Client) GetCustomer(ctx context.Context, id domain.CustomerID, expand ...ports.Expansion) (domain.CustomerView, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, errors.New("get customer: customer id is required")
	}

	query := url.Values{}
	if len(expand) > 0 {
		parts := make([]string, 0, len(expand))
		for _, expansion := range expand {
			parts = append(parts, string(expansion))
		}
		query.Set("expand", strings.Join(parts, ","))
	}

	var payload customerPayload
	if err := c.do(ctx, http.MethodGet, customerPath(id), query, nil, &payload); err != nil {
		return nil, fmt.Errorf("get customer %q: %w", id, err)
	}

	return payload.toView(), nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id domain.CustomerID, patch domain.CustomerPatch) (domain.Customer, error) {
	if strings.TrimSpace(string(id)) == "" {
		return domain.Customer{}, errors.New("update customer: customer id is required")
	}
	if patch.IsEmpty() {
		return domain.Customer{}, fmt.Errorf("update customer %q: %w", id, domain.ErrEmptyPatch)
	}

	body := updateCustomerRequest{Name: patch.Name, Email: patch.Email}

	var payload customerPayload
	if err := c.do(ctx, http.MethodPost, customerPath(id), nil, body, &payload); err != nil {
		return domain.Customer{}, fmt.Errorf("update customer %q: %w", id, err)
	}

	return payload.toDomain(), nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id domain.CustomerID) error {
	if strings.TrimSpace(string(id)) == "" {
		return errors.New("delete customer: customer id is required")
	}

	if err := c.do(ctx, http.MethodDelete, customerPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete customer %q: %w", id, err)
	}

	return nil
}

func (c *Client) GetOrganization(ctx context.Context) (domain.Organization, error) {
	var payload organizationPayload
	if err := c.do(ctx, http.MethodGet, "organization", nil, nil, &payload); err != nil {
		return domain.Organization{}, fmt.Errorf("get organization: %w", err)
	}

	return payload.toDomain(), nil
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	endpoint, err := buildAPIURL(c.opts.BaseURL, path, query)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.opts.Logger.With("request_id", requestID, "method", method, "path", req.URL.Path)
	logger.Debug("billing api request")
	started := time.Now()

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		logger.Debug("billing api transport error", "error", err)
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug("billing api response", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeRemoteError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.opts.RequestTimeout)
}

func decodeRemoteError(resp *http.Response) error {
	remote := &domain.RemoteError{Status: resp.StatusCode}

	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err == nil {
		remote.Code = payload.Code
		remote.Message = payload.Message
	}
	if remote.Message == "" && remote.Code == "" {
		remote.Message = http.StatusText(resp.StatusCode)
	}

	return remote
}

func customerPath(id domain.CustomerID) string {
	return "customers/" + url.PathEscape(string(id))
}

func buildAPIURL(baseURL string, path string, query url.Values) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	// Resolve relative to the versioned base path, e.g. /v1/ + customers.
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	return endpoint.String(), nil
}
