package toolcall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"marketlens/internal/errors"
	"marketlens/internal/tabular"
)

// Tool describes one capability advertised by the server.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Client invokes tools on a remote server through a pinned Contract.
type Client struct {
	httpClient *http.Client
	base       string
	token      string
	contract   Contract
	logger     *slog.Logger
}

// NewClient creates a tool client for the given HTTP base (streaming
// suffixes already stripped via DeriveBase). The contract must have been
// validated.
func NewClient(base string, contract Contract, timeout time.Duration, logger *slog.Logger, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		base:       DeriveBase(base),
		contract:   contract,
		logger:     logger.With(slog.String("component", "toolcall_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets a bearer token sent on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// Contract returns the pinned contract.
func (c *Client) Contract() Contract {
	return c.contract
}

// ListTools asks the server what it can do. Best-effort: any failure,
// including 404, means "no tools known" rather than an error.
func (c *Client) ListTools(ctx context.Context) []Tool {
	body, status, err := c.do(ctx, http.MethodGet, "/tools", nil)
	if err != nil || status != http.StatusOK {
		c.logger.DebugContext(ctx, "tool discovery unavailable",
			slog.Int("status", status))
		return nil
	}

	var doc struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		c.logger.DebugContext(ctx, "tool discovery response not parseable",
			slog.String("error", err.Error()))
		return nil
	}
	return doc.Tools
}

// Invoke calls a named tool with structured arguments and returns the raw
// response body.
func (c *Client) Invoke(ctx context.Context, tool string, args map[string]interface{}) ([]byte, error) {
	payload := c.contract.Payload(tool, args)

	body, status, err := c.do(ctx, http.MethodPost, c.contract.CallPath, payload)
	if err != nil {
		return nil, errors.NewTransportError(fmt.Sprintf("invoke tool %s", tool), err)
	}
	if status < 200 || status >= 300 {
		return nil, errors.NewTransportError(
			fmt.Sprintf("tool %s returned status %d via %s", tool, status, c.contract.CallPath), nil)
	}
	return body, nil
}

// FetchTable invokes a sheet-fetch tool and extracts the tabular payload.
func (c *Client) FetchTable(ctx context.Context, tool, spreadsheetID, sheet string) (*tabular.Table, error) {
	c.logger.InfoContext(ctx, "fetching sheet via tool call",
		slog.String("tool", tool),
		slog.String("sheet", sheet))

	body, err := c.Invoke(ctx, tool, c.contract.SheetArgs(spreadsheetID, sheet))
	if err != nil {
		return nil, err
	}
	return ExtractTable(body)
}

// do performs one HTTP exchange against the server base.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}
