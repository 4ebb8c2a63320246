package sheets

import (
	"fmt"
	"regexp"
	"strings"
)

// spreadsheetIDPattern extracts the ID between /d/<ID>/ in a spreadsheet URL.
var spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// ExtractSpreadsheetID accepts either a raw spreadsheet ID or a full
// spreadsheet URL and returns the ID.
func ExtractSpreadsheetID(urlOrID string) (string, error) {
	s := strings.TrimSpace(urlOrID)
	if s == "" {
		return "", fmt.Errorf("empty spreadsheet identifier")
	}
	if m := spreadsheetIDPattern.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if strings.Contains(s, "/") {
		return "", fmt.Errorf("spreadsheet URL %q carries no /d/<id>/ segment", s)
	}
	return s, nil
}

// ExportURL builds the CSV export endpoint for one sheet tab of a published
// spreadsheet.
func ExportURL(spreadsheetID string, gid int64) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%d",
		spreadsheetID, gid)
}
