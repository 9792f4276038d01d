package sheetsclient

import (
	"fmt"
	"strconv"
)

// ReadRows reads a range as strings, header row first. Numeric cells are formatted
// without trailing zeros.
func (c *Client) ReadRows(spreadsheetID, sheetRange string) ([][]string, error) {
	values, err := c.GetValues(spreadsheetID, sheetRange)
	if err != nil {
		return nil, fmt.Errorf("failed to get history data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet range %s is empty", sheetRange)
	}

	return cellsToStrings(values), nil
}

func cellsToStrings(values [][]interface{}) [][]string {
	rows := make([][]string, 0, len(values))
	for _, raw := range values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			switch v := cell.(type) {
			case string:
				row[i] = v
			case float64:
				row[i] = strconv.FormatFloat(v, 'f', -1, 64)
			case nil:
				row[i] = ""
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
