package table

import (
	"fmt"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
)

// Schema declares the columns a reader expects.
//
// Header names are matched case-insensitively. Columns named in Required must
// be present in the header. Columns in Discard are dropped on read. Headers
// the schema does not declare are kept: as strings when the schema declares
// any column, or with an inferred kind when the schema is empty.
type Schema struct {
	Columns  []Column
	Required []string
	Discard  []string
}

func (s Schema) lookup(header string) (Column, bool) {
	key := strings.ToLower(strings.TrimSpace(header))
	for _, col := range s.Columns {
		if strings.ToLower(col.Name) == key {
			return col, true
		}
	}
	return Column{}, false
}

func (s Schema) discards(header string) bool {
	key := strings.ToLower(strings.TrimSpace(header))
	for _, name := range s.Discard {
		if strings.ToLower(name) == key {
			return true
		}
	}
	return false
}

// build turns a header row and its text records into a table. lines holds
// the 1-based source line of each record, used in error messages.
func (s Schema) build(header []string, records [][]string, lines []int) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: missing header row", common.ErrEmptyDataset)
	}

	type source struct {
		col Column
		pos int
	}
	var (
		sources []source
		columns []Column
		seen    = make(map[string]bool, len(header))
	)
	for pos, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" || s.discards(name) {
			continue
		}
		col, declared := s.lookup(name)
		if !declared {
			col = Column{Name: name, Kind: KindString}
			if len(s.Columns) == 0 {
				col.Kind = InferKind(columnText(records, pos))
			}
		}
		key := strings.ToLower(col.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: header %q appears twice", common.ErrDuplicateEntry, name)
		}
		seen[key] = true
		sources = append(sources, source{col: col, pos: pos})
		columns = append(columns, col)
	}

	for _, req := range s.Required {
		if !seen[strings.ToLower(req)] {
			return nil, fmt.Errorf("%w: required column %q not in header", common.ErrMissingKey, req)
		}
	}

	t, err := New(columns...)
	if err != nil {
		return nil, err
	}

	for i, record := range records {
		if isBlank(record) {
			continue
		}
		line := lines[i]
		values := make([]Value, len(sources))
		for j, src := range sources {
			text := ""
			if src.pos < len(record) {
				text = record[src.pos]
			}
			v, parseErr := Parse(src.col.Kind, text)
			if parseErr != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, src.col.Name, parseErr)
			}
			values[j] = v
		}
		if err := t.Append(values...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return t, nil
}

func columnText(records [][]string, pos int) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		if pos < len(record) {
			out = append(out, record[pos])
		}
	}
	return out
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
