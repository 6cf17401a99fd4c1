// Package httpapi implements the REST client the wizard engine uses to talk
// to the branch back office API. Responses share a single envelope shape:
//
//	{"status": "success" | "FETCHED" | ..., "message": "...", "data": {...}}
//
// Failures carry {"message": "...", "errors": {"field": ["msg", ...]}}.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"philfund-wizard/internal/common/config"
)

// Options controls per-request headers.
type Options struct {
	UseAuth     bool
	UseBranchID bool

	// DraftSave marks a step submission as a save-for-interview draft. The
	// server stores the slot without gating it on the step's required fields.
	DraftSave bool
}

// Envelope is the success response shape shared by every endpoint.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// APIError is a non-2xx response decoded from the error envelope. Field
// errors use server-side field names; the draft bridge translates them.
type APIError struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the server had no resource for the request.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	authToken  string
	branchID   string
	httpClient *http.Client
}

func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		authToken: cfg.AuthToken,
		branchID:  cfg.BranchID,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		},
	}
}

// Request performs one API call. Transport failures are returned as-is;
// non-2xx statuses are returned as *APIError.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}, opts Options) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.UseAuth && c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if opts.UseBranchID && c.branchID != "" {
		req.Header.Set("X-Branch-ID", c.branchID)
	}
	if opts.DraftSave {
		req.Header.Set("X-Draft-Save", "true")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, raw)
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	return &envelope, nil
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}

	var envelope struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			apiErr.Message = envelope.Message
		}
		apiErr.Errors = envelope.Errors
	}
	return apiErr
}
