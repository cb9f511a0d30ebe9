package api

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
	"sync"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/client/models"
	"github.com/dmitrijs2005/stockkeeper/internal/common"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 32 << 20

type Client struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type messageResponse struct {
	Message string `json:"message"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// New returns a client for the API rooted at baseURL. timeout bounds each
// request.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server url %q: missing host", baseURL)
	}
	return &Client{baseURL: u, http: &http.Client{Timeout: timeout}}, nil
}

// HTTPClient exposes the underlying transport for follow-up downloads.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Logout forgets the token. Tokens are stateless, so the server is not told.
func (c *Client) Logout() {
	c.setToken("")
}

func (c *Client) setToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", nil, credentials{username, password}, nil)
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var res struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, credentials{username, password}, &res); err != nil {
		return err
	}
	if res.Token == "" {
		return fmt.Errorf("login response carries no token")
	}
	c.setToken(res.Token)
	return nil
}

func (c *Client) Me(ctx context.Context) (string, error) {
	var res struct {
		Username string `json:"username"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &res); err != nil {
		return "", err
	}
	return res.Username, nil
}

func (c *Client) ListItems(ctx context.Context) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := c.doJSON(ctx, http.MethodGet, "/items", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) LowStock(ctx context.Context) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := c.doJSON(ctx, http.MethodGet, "/items/low-stock", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, item models.NewItem) (*models.Item, error) {
	var created models.Item
	if err := c.doJSON(ctx, http.MethodPost, "/items", nil, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Record posts a stock movement. typ is IN or OUT.
func (c *Client) Record(ctx context.Context, itemName, typ string, quantity int) (*models.Transaction, error) {
	body := struct {
		ItemName string `json:"itemName"`
		Type     string `json:"type"`
		Quantity int    `json:"quantity"`
	}{itemName, typ, quantity}

	var tr models.Transaction
	if err := c.doJSON(ctx, http.MethodPost, "/transactions", nil, body, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Transactions lists stock movements, newest first. A non-empty item
// restricts the list to that item.
func (c *Client) Transactions(ctx context.Context, item string) ([]models.Transaction, error) {
	var q url.Values
	if item != "" {
		q = url.Values{"item": []string{item}}
	}
	list := make([]models.Transaction, 0)
	if err := c.doJSON(ctx, http.MethodGet, "/transactions", q, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	if err := c.doJSON(ctx, http.MethodGet, "/items/stats", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ExportCSV downloads the inventory as CSV.
func (c *Client) ExportCSV(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/items/export", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

// Archive asks the server to upload the CSV export to object storage.
func (c *Client) Archive(ctx context.Context) (*models.Archive, error) {
	var a models.Archive
	if err := c.doJSON(ctx, http.MethodPost, "/items/export", nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := c.do(ctx, method, path, q, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do sends the request and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Response, error) {
	u := c.baseURL.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, c.mapError(resp)
}

func (c *Client) mapError(resp *http.Response) error {
	var m messageResponse
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(b, &m); err != nil {
		m.Message = ""
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.setToken("")
		if m.Message != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, m.Message)
		}
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	default:
		return &APIError{Status: resp.StatusCode, Message: m.Message}
	}
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
