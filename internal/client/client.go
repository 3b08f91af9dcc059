// Package client talks to the scribe backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sessionscribe/scribe/internal/model/note"
	"github.com/sessionscribe/scribe/internal/model/session"
)

// Generic user-facing messages used when the backend gives no detail.
const (
	MsgGenerateFailed = "Failed to generate notes"
	MsgSaveFailed     = "Failed to save notes"
	MsgFetchFailed    = "Failed to fetch notes"
)

// Error reports a remote call that did not succeed. Message is safe to show
// to the user.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GenerateRequest is the body of POST /generate-notes.
type GenerateRequest struct {
	SessionType string `json:"session_type"`
	Duration    string `json:"duration"`
	Notes       string `json:"notes"`
}

// SaveRequest is the body of POST /save-notes.
type SaveRequest struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

// Client calls the backend endpoints. Requests carry no timeout of their own;
// cancel through the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the backend at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Generate sends raw notes for summarisation and returns the generated text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	var body struct {
		Result string `json:"result"`
	}
	if err := c.do(ctx, "generate", http.MethodPost, "/generate-notes", req, &body, false, MsgGenerateFailed); err != nil {
		return "", err
	}
	return body.Result, nil
}

// Save persists the edited note. A failing response's detail, when present,
// becomes the error message.
func (c *Client) Save(ctx context.Context, req SaveRequest) error {
	return c.do(ctx, "save", http.MethodPost, "/save-notes", req, nil, true, MsgSaveFailed)
}

// List fetches every saved note in server order.
func (c *Client) List(ctx context.Context) ([]note.Note, error) {
	var notes []note.Note
	if err := c.do(ctx, "list", http.MethodGet, "/get-notes", nil, &notes, false, MsgFetchFailed); err != nil {
		return nil, err
	}
	return notes, nil
}

// SessionTypes fetches the selectable session types.
func (c *Client) SessionTypes(ctx context.Context) ([]session.Type, error) {
	var types []session.Type
	if err := c.do(ctx, "session types", http.MethodGet, "/session-types", nil, &types, false, "Failed to fetch session types"); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any, useDetail bool, generic string) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Message: generic, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Message: generic, Err: fmt.Errorf("build request: %w", err)}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Message: generic, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := generic
		if useDetail {
			if detail := readDetail(resp.Body); detail != "" {
				message = detail
			}
		}
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: message, Err: fmt.Errorf("%s %s returned %s", method, path, resp.Status)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: generic, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func readDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Detail
}
