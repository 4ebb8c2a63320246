package toolcall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Negotiator runs the exhaustive contract search: every call path crossed
// with every payload shape and, for sheet fetches, every argument key-name
// variant. The first combination that does not fail wins. It exists for
// interactive discovery (cmd/toolprobe, POST /api/discover) - the fetch path
// proper always runs on a pinned contract.
type Negotiator struct {
	base       string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNegotiator creates a negotiator for the given server base.
func NewNegotiator(base, token string, timeout time.Duration, logger *slog.Logger) *Negotiator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Negotiator{
		base:       DeriveBase(base),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "toolcall_negotiator")),
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func (n *Negotiator) WithHTTPClient(hc *http.Client) *Negotiator {
	n.httpClient = hc
	return n
}

// Result is the outcome of a successful negotiation.
type Result struct {
	Contract Contract `json:"contract"`
	Attempts int      `json:"attempts"`
	Tools    []Tool   `json:"tools,omitempty"`
}

// Discover searches for a working contract by invoking the given sheet-fetch
// tool with real arguments. A 404 abandons the current call path (the next
// payload shapes cannot help an unknown route); every other failure is
// recorded and the search continues. When everything fails the returned
// error aggregates every recorded failure, not just the last one.
func (n *Negotiator) Discover(ctx context.Context, tool, spreadsheetID, sheet string) (*Result, error) {
	attempts := 0
	var failures []error

	for _, path := range CallPaths {
		pathFailed404 := false
		for _, nameKey := range NameKeys {
			if pathFailed404 {
				break
			}
			for _, argsKey := range ArgsKeys {
				if pathFailed404 {
					break
				}
				for _, args := range sheetArgVariants(spreadsheetID, sheet) {
					attempts++
					contract := Contract{
						CallPath:       path,
						NameKey:        nameKey,
						ArgsKey:        argsKey,
						SpreadsheetKey: args.spreadsheetKey,
						SheetKey:       args.sheetKey,
					}

					status, err := n.try(ctx, contract, tool, args.payload)
					if err == nil && status >= 200 && status < 300 {
						n.logger.InfoContext(ctx, "tool contract negotiated",
							slog.String("call_path", path),
							slog.String("name_key", nameKey),
							slog.String("args_key", argsKey),
							slog.Int("attempts", attempts))
						return &Result{
							Contract: contract,
							Attempts: attempts,
							Tools:    n.listTools(ctx, contract),
						}, nil
					}

					if status == http.StatusNotFound {
						// The route itself is missing; no payload shape can
						// rescue this path.
						failures = append(failures,
							fmt.Errorf("%s: status 404", path))
						pathFailed404 = true
						break
					}

					if err != nil {
						failures = append(failures,
							fmt.Errorf("%s %s/%s %s: %w", path, nameKey, argsKey, args.label, err))
					} else {
						failures = append(failures,
							fmt.Errorf("%s %s/%s %s: status %d", path, nameKey, argsKey, args.label, status))
					}

					if ctx.Err() != nil {
						return nil, fmt.Errorf("negotiation cancelled after %d attempts: %w", attempts, ctx.Err())
					}
				}
			}
		}
	}

	return nil, fmt.Errorf("tool contract negotiation failed after %d attempts: %w",
		attempts, errors.Join(failures...))
}

// listTools asks the server for its tool inventory with the freshly
// negotiated contract. Best effort: a server without a listing endpoint just
// yields nil.
func (n *Negotiator) listTools(ctx context.Context, contract Contract) []Tool {
	client := &Client{
		httpClient: n.httpClient,
		base:       n.base,
		token:      n.token,
		contract:   contract,
		logger:     n.logger,
	}
	return client.ListTools(ctx)
}

// try performs one invocation attempt. A transport-level failure surfaces as
// err; an HTTP response surfaces as its status code.
func (n *Negotiator) try(ctx context.Context, contract Contract, tool string, args map[string]interface{}) (int, error) {
	client := &Client{
		httpClient: n.httpClient,
		base:       n.base,
		token:      n.token,
		contract:   contract,
		logger:     n.logger,
	}
	body, status, err := client.do(ctx, http.MethodPost, contract.CallPath, contract.Payload(tool, args))
	if err != nil {
		return 0, err
	}
	if status >= 200 && status < 300 {
		// A success only counts if the body actually carries rows - servers
		// exist that answer 200 with an error envelope.
		if _, extractErr := ExtractTable(body); extractErr != nil {
			return status, extractErr
		}
	}
	return status, nil
}

// argVariant pairs one argument payload with the keys that produced it.
type argVariant struct {
	label          string
	spreadsheetKey string
	sheetKey       string
	payload        map[string]interface{}
}

// sheetArgVariants enumerates the sheet-fetch argument shapes: both
// spreadsheet key spellings crossed with the four sheet key spellings, plus
// the single plain-id form.
func sheetArgVariants(spreadsheetID, sheet string) []argVariant {
	variants := make([]argVariant, 0, len(SpreadsheetKeys)*len(SheetKeys)+1)
	for _, sk := range SpreadsheetKeys {
		for _, shk := range SheetKeys {
			variants = append(variants, argVariant{
				label:          sk + "+" + shk,
				spreadsheetKey: sk,
				sheetKey:       shk,
				payload: map[string]interface{}{
					sk:  spreadsheetID,
					shk: sheet,
				},
			})
		}
	}
	variants = append(variants, argVariant{
		label:          "id",
		spreadsheetKey: "id",
		payload:        map[string]interface{}{"id": spreadsheetID},
	})
	return variants
}
