package table

import (
	"encoding/json"
	"fmt"
	"io"
)

// Records returns every row as a map from column name to plain value. Missing
// cells map to nil.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, row := range t.rows {
		rec := make(map[string]any, len(row))
		for j, v := range row {
			rec[t.columns[j].Name] = v.Interface()
		}
		out[i] = rec
	}
	return out
}

// WriteJSON writes the table as an indented JSON array of objects.
func WriteJSON(w io.Writer, t *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Records()); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
