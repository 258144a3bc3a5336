// Package client provides an HTTP client for the gatehouse REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/evcraddock/gatehouse/internal/qrcode"
	"github.com/evcraddock/gatehouse/internal/store"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

// Client is an HTTP client for the gatehouse API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TokenResult is the response from POST /api/tokens/validate.
type TokenResult struct {
	Valid   bool            `json:"valid"`
	Payload *qrcode.Payload `json:"payload,omitempty"`
}

// State returns the server's current snapshot.
func (c *Client) State(ctx context.Context) (*store.State, error) {
	var s store.State
	if err := c.get(ctx, "/api/state", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListVisitors returns visitors, optionally only those with status.
func (c *Client) ListVisitors(ctx context.Context, status visitor.Status) ([]visitor.Visitor, error) {
	path := "/api/visitors"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}

	var visitors []visitor.Visitor
	if err := c.get(ctx, path, &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// GetVisitor returns a single visitor.
func (c *Client) GetVisitor(ctx context.Context, id string) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.get(ctx, "/api/visitors/"+url.PathEscape(id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// RegisterVisitor registers a visitor and returns the stored record.
func (c *Client) RegisterVisitor(ctx context.Context, reg visitor.Registration) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.send(ctx, http.MethodPost, "/api/visitors", reg, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVisitor merges patch into a visitor.
func (c *Client) UpdateVisitor(ctx context.Context, id string, patch visitor.Patch) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.send(ctx, http.MethodPatch, "/api/visitors/"+url.PathEscape(id), patch, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CheckIn checks a visitor in. An empty guard lets the server pick the
// current user.
func (c *Client) CheckIn(ctx context.Context, id, guard string) (*visitor.Visitor, error) {
	body := map[string]string{"guard": guard}
	var v visitor.Visitor
	if err := c.send(ctx, http.MethodPost, "/api/visitors/"+url.PathEscape(id)+"/check-in", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CheckOut checks a visitor out.
func (c *Client) CheckOut(ctx context.Context, id string) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.send(ctx, http.MethodPost, "/api/visitors/"+url.PathEscape(id)+"/check-out", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Sweep runs the overdue sweep now and returns how many visitors it moved.
func (c *Client) Sweep(ctx context.Context) (int, error) {
	var resp struct {
		Overdue int `json:"overdue"`
	}
	if err := c.send(ctx, http.MethodPost, "/api/sweep", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Overdue, nil
}

// ValidateToken checks a token against a visit date. An empty date means
// the server's today.
func (c *Client) ValidateToken(ctx context.Context, token, date string) (*TokenResult, error) {
	body := map[string]string{"token": token, "date": date}
	var res TokenResult
	if err := c.send(ctx, http.MethodPost, "/api/tokens/validate", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// send performs a request with an optional JSON body and decodes the
// response.
func (c *Client) send(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "server error: " + http.StatusText(resp.StatusCode)}
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
