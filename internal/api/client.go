package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bhujbal-nitin/poc-portal/internal/logging"
	"github.com/bhujbal-nitin/poc-portal/internal/urls"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// Client talks to the POC Portal backend. All business logic (ID generation,
// persistence, authorization) lives server-side; this client only shapes
// requests and classifies responses.
//
// Authenticated calls take the session token as an explicit argument. There
// is deliberately no ambient default-header state: the token a request uses
// is always visible at the call site.
type Client struct {
	// BaseURL is the backend root, e.g. "http://localhost:5050".
	BaseURL string

	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client
}

// NewClient creates a portal client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Login exchanges credentials for a session token. A failed login surfaces
// the server's message when the error body carries one.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := c.post(ctx, urls.AuthLogin, "", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewParseError("malformed login response", err)
	}
	if resp.Token == "" {
		return nil, NewParseError("login response missing token", nil)
	}
	return &resp, nil
}

// Validate checks a stored token against the backend at startup.
func (c *Client) Validate(ctx context.Context, token string) (bool, error) {
	body, err := c.get(ctx, urls.AuthValidate, token)
	if err != nil {
		if IsUnauthorized(err) {
			return false, nil
		}
		return false, err
	}

	var resp ValidateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, NewParseError("malformed validate response", err)
	}
	return resp.Valid, nil
}

// Logout invalidates the server-side session. A 401 here is not an error:
// the session was already dead.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.post(ctx, urls.AuthLogout, token, nil)
	if err != nil && !IsUnauthorized(err) {
		return err
	}
	return nil
}

// Option-list endpoints. Each populates one dropdown; the callers issue them
// concurrently on screen entry, and a failure of one never blocks the others.

// SalesPersons fetches the sales person dropdown options.
func (c *Client) SalesPersons(ctx context.Context, token string) ([]string, error) {
	return c.options(ctx, urls.AllSalesPersons, token)
}

// Regions fetches the region dropdown options.
func (c *Client) Regions(ctx context.Context, token string) ([]string, error) {
	return c.options(ctx, urls.AllRegions, token)
}

// CustomerTypes fetches the end-customer-type dropdown options.
func (c *Client) CustomerTypes(ctx context.Context, token string) ([]string, error) {
	return c.options(ctx, urls.AllCustomerTypes, token)
}

// ProcessTypes fetches the process-type dropdown options.
func (c *Client) ProcessTypes(ctx context.Context, token string) ([]string, error) {
	return c.options(ctx, urls.AllProcessTypes, token)
}

// AssignTo fetches the assignee dropdown options.
func (c *Client) AssignTo(ctx context.Context, token string) ([]string, error) {
	return c.options(ctx, urls.AllAssignTo, token)
}

// CreatedBy fetches the creator options scoped to the logged-in user.
func (c *Client) CreatedBy(ctx context.Context, token, username string) ([]string, error) {
	return c.options(ctx, urls.CreatedBy(username), token)
}

// ApprovedBy fetches the approver dropdown options.
func (c *Client) ApprovedBy(ctx context.Context, token string) ([]string, error) {
	return c.options(ctx, urls.AllApprovedBy, token)
}

func (c *Client) options(ctx context.Context, path, token string) ([]string, error) {
	body, err := c.get(ctx, path, token)
	if err != nil {
		return nil, err
	}
	return DecodeOptions(body)
}

// SavePOC creates the primary initiation record and returns the
// server-assigned identifier. A 2xx body without an identifier is a parse
// failure, not a success.
func (c *Client) SavePOC(ctx context.Context, token string, payload map[string]any) (string, error) {
	body, err := c.post(ctx, urls.Save, token, payload)
	if err != nil {
		return "", err
	}

	var resp SaveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", NewParseError("malformed save response", err)
	}
	if resp.Identifier() == "" {
		return "", NewParseError("POC creation failed (no ID returned)", nil)
	}
	return resp.Identifier(), nil
}

// SaveCode creates a POC/Project code record.
func (c *Client) SaveCode(ctx context.Context, token string, rec POCRecord) (string, error) {
	body, err := c.post(ctx, urls.SaveCode, token, rec)
	if err != nil {
		return "", err
	}

	var resp CodeSaveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", NewParseError("malformed save response", err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "POC Code creation failed"
		}
		return "", NewServerError(http.StatusOK, msg)
	}
	if resp.Data.PocID == "" {
		return "", NewParseError("POC Code creation failed (no ID returned)", nil)
	}
	return resp.Data.PocID, nil
}

// Update rewrites an existing record.
func (c *Client) Update(ctx context.Context, token, pocID string, rec POCRecord) error {
	body, err := c.do(ctx, http.MethodPut, urls.Update(pocID), token, rec)
	if err != nil {
		return err
	}

	var resp CodeSaveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return NewParseError("malformed update response", err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Failed to update POC Code"
		}
		return NewServerError(http.StatusOK, msg)
	}
	return nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, token, pocID string) error {
	_, err := c.do(ctx, http.MethodDelete, urls.Delete(pocID), token, nil)
	return err
}

// All fetches the full record list for the management table.
func (c *Client) All(ctx context.Context, token string) ([]POCRecord, error) {
	body, err := c.get(ctx, urls.All, token)
	if err != nil {
		return nil, err
	}

	var records []POCRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, NewParseError("malformed record list", err)
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, path, token string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, token, nil)
}

func (c *Client) post(ctx context.Context, path, token string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, token, payload)
}

// do issues one request and classifies the outcome. The token is attached as
// a bearer header only when present; 401 maps to the distinguished
// unauthorized error regardless of endpoint.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, NewParseError("failed to encode request body", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, NewNetworkError("failed to create request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logging.Debug("portal request",
		zap.String("method", method),
		zap.String("path", path),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	logging.Debug("portal response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewUnauthorizedError(serverMessage(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, NewServerError(resp.StatusCode, msg)
	}

	return body, nil
}

// serverMessage pulls the "message" field out of an error body, tolerating
// non-JSON bodies.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
