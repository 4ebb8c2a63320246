// Package sheets fetches published spreadsheet tabs through the CSV export
// endpoint. One blocking GET per sheet, fixed timeout, no retry; an optional
// TTL cache memoizes fetches so repeated chart loads within a few minutes do
// not hammer the export endpoint.
package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"marketlens/internal/errors"
	"marketlens/internal/tabular"
)

// Client fetches CSV exports. The zero timeout falls back to 30 seconds.
type Client struct {
	httpClient *http.Client
	token      string
	logger     *slog.Logger
	cache      *fetchCache
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets a bearer token sent on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithCache enables fetch memoization with the given TTL.
func WithCache(ttl time.Duration) ClientOption {
	return func(c *Client) { c.cache = newFetchCache(ttl) }
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a sheets client with a fixed wall-clock timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, opts ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "sheets_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTable downloads one sheet tab and parses it into a normalized table.
// Transport failures (non-2xx, timeout) come back as transport errors; they
// fail this table only, never a sibling.
func (c *Client) FetchTable(ctx context.Context, spreadsheetID string, gid int64) (*tabular.Table, error) {
	url := ExportURL(spreadsheetID, gid)

	if c.cache != nil {
		if body, ok := c.cache.get(url); ok {
			c.logger.DebugContext(ctx, "csv fetch served from cache",
				slog.String("url", url))
			return tabular.ReadCSVBytes(body)
		}
	}

	c.logger.InfoContext(ctx, "fetching csv export",
		slog.String("spreadsheet_id", spreadsheetID),
		slog.Int64("gid", gid))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewTransportError("build csv export request", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewTransportError(
			fmt.Sprintf("fetch csv export for gid %d", gid), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewTransportError(
			fmt.Sprintf("csv export for gid %d returned status %d", gid, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError("read csv export body", err)
	}

	if c.cache != nil {
		c.cache.set(url, data)
	}

	table, err := tabular.ReadCSVBytes(data)
	if err != nil {
		return nil, errors.NewParsingError(
			fmt.Sprintf("parse csv export for gid %d", gid), err)
	}
	return table, nil
}
