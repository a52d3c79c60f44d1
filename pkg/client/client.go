// Package client is the Go SDK for the Locker HTTP API. It wraps the wire
// endpoints in typed methods and surfaces every non-2xx answer as an
// *APIError decoded from the error envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lockerhq/locker/pkg/types"
)

// defaultTimeout bounds a single API call, including retries' first try.
const defaultTimeout = 30 * time.Second

// drainLimit caps how much of a body is consumed to keep the connection
// reusable.
const drainLimit = 1024

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithRetry wraps the transport so connection errors, 429s, and 5xx answers
// are retried with exponential backoff.
func WithRetry(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = &policy
	}
}

// Client calls the Locker HTTP API at a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
	retry   *RetryPolicy
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry != nil {
		c.http.Transport = &retryTransport{next: c.http.Transport, policy: *c.retry}
	}
	return c
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, login, password string) error {
	req := types.RegisterRequest{Login: login, Password: password}
	var out types.MessageResponse
	_, err := c.do(ctx, http.MethodPost, "/registration", req, &out)
	return err
}

// Login checks credentials and returns a fresh auth token. The previously
// issued token stops working.
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	req := types.LoginRequest{Login: login, Password: password}
	var out types.TokenResponse
	if _, err := c.do(ctx, http.MethodPost, "/login", req, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// CreateItem records a new item owned by the token's holder.
func (c *Client) CreateItem(ctx context.Context, token, name string) (types.ItemEntry, error) {
	req := types.CreateItemRequest{Name: name, Token: token}
	var out types.CreateItemResponse
	if _, err := c.do(ctx, http.MethodPost, "/items/new", req, &out); err != nil {
		return types.ItemEntry{}, err
	}
	return types.ItemEntry{ID: out.ID, Name: out.Name}, nil
}

// DeleteItem removes an item. Reports whether the item existed.
func (c *Client) DeleteItem(ctx context.Context, token string, id int64) (bool, error) {
	req := types.DeleteItemRequest{ID: id, Token: token}
	status, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), req, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// Items lists the token holder's items ordered by id.
func (c *Client) Items(ctx context.Context, token string) ([]types.ItemEntry, error) {
	var out []types.ItemEntry
	if _, err := c.do(ctx, http.MethodGet, "/items?token="+url.QueryEscape(token), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Send offers an item to another user and returns the confirmation URL the
// recipient follows to accept it.
func (c *Client) Send(ctx context.Context, token string, itemID int64, recipient string) (string, error) {
	req := types.SendRequest{ID: itemID, Token: token, Recipient: recipient}
	var out types.SendResponse
	if _, err := c.do(ctx, http.MethodPost, "/send", req, &out); err != nil {
		return "", err
	}
	return out.ConfirmationURL, nil
}

// Receive follows a confirmation URL. Only the path is used; it is resolved
// against the client's base URL, so a URL minted for the server's public
// address works over any reachable one.
func (c *Client) Receive(ctx context.Context, confirmationURL string) error {
	u, err := url.Parse(confirmationURL)
	if err != nil {
		return fmt.Errorf("parsing confirmation URL: %w", err)
	}
	if !strings.HasPrefix(u.Path, "/get/") {
		return fmt.Errorf("not a confirmation URL: %s", confirmationURL)
	}

	var out types.MessageResponse
	_, err = c.do(ctx, http.MethodGet, u.Path, nil, &out)
	return err
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	var out types.HealthResponse
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, &out)
	return err
}

// do sends one API request and decodes the answer into out when provided.
// Returns the response status so callers can tell 200 from 204.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.StatusCode, decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}
