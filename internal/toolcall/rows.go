package toolcall

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"

	"marketlens/internal/errors"
	"marketlens/internal/tabular"
)

// rowContainerKeys are tried in order when locating the tabular payload
// inside a tool response, first under "result" and then at the top level.
var rowContainerKeys = []string{"rows", "data", "values"}

// decodeBody unmarshals a response body, repairing almost-JSON (trailing
// commas, single quotes, unquoted keys) before giving up. Tool servers in
// this environment are not uniformly strict about their output.
func decodeBody(body []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err == nil {
		return doc, nil
	}

	repaired, err := jsonrepair.JSONRepair(string(body))
	if err != nil {
		return nil, errors.NewParsingError("tool response is not JSON", err)
	}
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return nil, errors.NewParsingError("tool response is not a JSON object", err)
	}
	return doc, nil
}

// ExtractTable pulls the rows array out of a decoded tool response and builds
// a normalized table. The payload lives at result.rows (or data/values),
// falling back to the same keys at the top level. The first row acts as a
// header when every cell in it is textual; otherwise synthetic column names
// are generated and the first row is data.
func ExtractTable(body []byte) (*tabular.Table, error) {
	doc, err := decodeBody(body)
	if err != nil {
		return nil, err
	}

	rows, ok := findRows(doc)
	if !ok {
		return nil, errors.NewParsingError(
			fmt.Sprintf("tool response carries no rows/data/values array (keys: %v)", mapKeys(doc)), nil)
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		arr, ok := row.([]interface{})
		if !ok {
			return nil, errors.NewParsingError("tool response rows must be arrays of arrays", nil)
		}
		r := make([]string, len(arr))
		for i, cell := range arr {
			r[i] = cellString(cell)
		}
		cells = append(cells, r)
	}

	if len(cells) == 0 {
		return tabular.New(nil, nil), nil
	}

	if isHeaderRow(rows[0]) {
		return tabular.New(cells[0], cells[1:]), nil
	}

	header := make([]string, len(cells[0]))
	for i := range header {
		header[i] = fmt.Sprintf("column_%d", i+1)
	}
	return tabular.New(header, cells), nil
}

// findRows locates the rows array under "result" first, then at top level.
func findRows(doc map[string]interface{}) ([]interface{}, bool) {
	if result, ok := doc["result"].(map[string]interface{}); ok {
		if rows, ok := rowsIn(result); ok {
			return rows, true
		}
	}
	return rowsIn(doc)
}

func rowsIn(container map[string]interface{}) ([]interface{}, bool) {
	for _, key := range rowContainerKeys {
		if rows, ok := container[key].([]interface{}); ok {
			return rows, true
		}
	}
	return nil, false
}

// isHeaderRow reports whether every cell of the first row is textual: a JSON
// string that does not itself parse as a number.
func isHeaderRow(row interface{}) bool {
	arr, ok := row.([]interface{})
	if !ok || len(arr) == 0 {
		return false
	}
	for _, cell := range arr {
		s, ok := cell.(string)
		if !ok {
			return false
		}
		if tabular.ParseNumber(s).Valid {
			return false
		}
	}
	return true
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; keep them in full precision.
		return formatJSONNumber(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatJSONNumber(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func mapKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
