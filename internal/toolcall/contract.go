// Package toolcall talks to remote tool-invocation servers whose exact wire
// contract is not standardized: the call path, payload key names, and sheet
// argument key names vary between deployments. The server runtime uses a
// single configured Contract validated once at startup; the exhaustive
// negotiation search is an explicit discovery operation, never part of a
// routine data fetch.
package toolcall

import (
	"fmt"
	"strings"
)

// Known call paths, payload shapes, and sheet argument key variants tried by
// the negotiation search, in order.
var (
	CallPaths = []string{"/call", "/invoke", "/run", "/tools/call", "/tool", "/mcp/call", "/api/call"}

	NameKeys = []string{"name", "tool", "toolName"}
	ArgsKeys = []string{"arguments", "args"}

	SpreadsheetKeys = []string{"spreadsheet_id", "spreadsheetId"}
	SheetKeys       = []string{"sheet", "range", "sheet_name", "sheetName"}
)

// Contract pins one working combination of call path and payload key names.
type Contract struct {
	CallPath string `json:"call_path" yaml:"call_path"`
	NameKey  string `json:"name_key" yaml:"name_key"`
	ArgsKey  string `json:"args_key" yaml:"args_key"`

	// SpreadsheetKey and SheetKey name the sheet-fetch arguments. An empty
	// SheetKey with SpreadsheetKey "id" is the single-argument variant.
	SpreadsheetKey string `json:"spreadsheet_key" yaml:"spreadsheet_key"`
	SheetKey       string `json:"sheet_key,omitempty" yaml:"sheet_key"`
}

// DefaultContract is the most common shape observed in the wild.
func DefaultContract() Contract {
	return Contract{
		CallPath:       "/call",
		NameKey:        "name",
		ArgsKey:        "arguments",
		SpreadsheetKey: "spreadsheet_id",
		SheetKey:       "sheet",
	}
}

// Validate rejects contracts with unknown key names or malformed paths. It
// runs once at startup so a misconfigured contract fails fast instead of on
// the first user-triggered fetch.
func (c Contract) Validate() error {
	if !strings.HasPrefix(c.CallPath, "/") {
		return fmt.Errorf("call path %q must start with /", c.CallPath)
	}
	if !contains(NameKeys, c.NameKey) {
		return fmt.Errorf("unknown payload name key %q (want one of %v)", c.NameKey, NameKeys)
	}
	if !contains(ArgsKeys, c.ArgsKey) {
		return fmt.Errorf("unknown payload args key %q (want one of %v)", c.ArgsKey, ArgsKeys)
	}
	if c.SpreadsheetKey != "id" && !contains(SpreadsheetKeys, c.SpreadsheetKey) {
		return fmt.Errorf("unknown spreadsheet argument key %q", c.SpreadsheetKey)
	}
	if c.SpreadsheetKey == "id" {
		if c.SheetKey != "" {
			return fmt.Errorf("the plain id variant takes no sheet argument key")
		}
	} else if !contains(SheetKeys, c.SheetKey) {
		return fmt.Errorf("unknown sheet argument key %q", c.SheetKey)
	}
	return nil
}

// SheetArgs builds the invocation arguments for one sheet fetch under this
// contract.
func (c Contract) SheetArgs(spreadsheetID, sheet string) map[string]interface{} {
	if c.SpreadsheetKey == "id" {
		return map[string]interface{}{"id": spreadsheetID}
	}
	return map[string]interface{}{
		c.SpreadsheetKey: spreadsheetID,
		c.SheetKey:       sheet,
	}
}

// Payload builds the JSON invocation body for a named tool.
func (c Contract) Payload(tool string, args map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		c.NameKey: tool,
		c.ArgsKey: args,
	}
}

// DeriveBase strips a streaming-endpoint suffix from a server URL, yielding
// the HTTP base the call paths are appended to.
func DeriveBase(endpoint string) string {
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	for _, suffix := range []string{"/sse", "/stream"} {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
