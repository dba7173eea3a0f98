// Package table implements the in-memory record set: ordered named columns of
// typed scalar cells, any of which may be missing.
package table

import (
	"fmt"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
)

// Column describes one named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Table is a record set. It is not safe for concurrent mutation.
type Table struct {
	index   map[string]int
	columns []Column
	rows    [][]Value
}

// New creates an empty table with the given columns.
func New(columns ...Column) (*Table, error) {
	t := &Table{
		index:   make(map[string]int, len(columns)),
		columns: make([]Column, 0, len(columns)),
	}
	for _, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, fmt.Errorf("%w: column name cannot be empty", common.ErrInvalidConfig)
		}
		if _, exists := t.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: column %q", common.ErrDuplicateEntry, col.Name)
		}
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// Columns returns a copy of the column list.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, error) {
	idx, ok := t.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: column %q", common.ErrMissingKey, name)
	}
	return t.columns[idx], nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Append adds a row. Values must line up with the columns by position and kind.
func (t *Table) Append(values ...Value) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: row has %d values, table has %d columns",
			common.ErrIndexOutOfBounds, len(values), len(t.columns))
	}
	row := make([]Value, len(values))
	for i, v := range values {
		if v.kind != t.columns[i].Kind {
			return fmt.Errorf("%w: column %q holds %s, got %s",
				common.ErrTypeMismatch, t.columns[i].Name, t.columns[i].Kind, v.kind)
		}
		row[i] = v
	}
	t.rows = append(t.rows, row)
	return nil
}

func (t *Table) locate(row int, col string) (int, error) {
	if row < 0 || row >= len(t.rows) {
		return 0, fmt.Errorf("%w: row %d of %d", common.ErrIndexOutOfBounds, row, len(t.rows))
	}
	idx, ok := t.index[col]
	if !ok {
		return 0, fmt.Errorf("%w: column %q", common.ErrMissingKey, col)
	}
	return idx, nil
}

// Value returns a single cell.
func (t *Table) Value(row int, col string) (Value, error) {
	idx, err := t.locate(row, col)
	if err != nil {
		return Value{}, err
	}
	return t.rows[row][idx], nil
}

// Float returns a numeric cell and whether it is present.
func (t *Table) Float(row int, col string) (float64, bool, error) {
	v, err := t.Value(row, col)
	if err != nil {
		return 0, false, err
	}
	if v.kind == KindString {
		return 0, false, fmt.Errorf("%w: column %q is %s", common.ErrTypeMismatch, col, v.kind)
	}
	f, ok := v.AsFloat()
	return f, ok, nil
}

// Int returns an int cell and whether it is present.
func (t *Table) Int(row int, col string) (int, bool, error) {
	v, err := t.Value(row, col)
	if err != nil {
		return 0, false, err
	}
	if v.kind != KindInt {
		return 0, false, fmt.Errorf("%w: column %q is %s", common.ErrTypeMismatch, col, v.kind)
	}
	n, ok := v.AsInt()
	return n, ok, nil
}

// String returns a string cell and whether it is present.
func (t *Table) String(row int, col string) (string, bool, error) {
	v, err := t.Value(row, col)
	if err != nil {
		return "", false, err
	}
	if v.kind != KindString {
		return "", false, fmt.Errorf("%w: column %q is %s", common.ErrTypeMismatch, col, v.kind)
	}
	s, ok := v.AsString()
	return s, ok, nil
}

// Set overwrites a cell.
func (t *Table) Set(row int, col string, v Value) error {
	idx, err := t.locate(row, col)
	if err != nil {
		return err
	}
	if v.kind != t.columns[idx].Kind {
		return fmt.Errorf("%w: column %q holds %s, got %s",
			common.ErrTypeMismatch, col, t.columns[idx].Kind, v.kind)
	}
	t.rows[row][idx] = v
	return nil
}

// Row returns a read view of row i. It panics if i is out of range, like a slice.
func (t *Table) Row(i int) Row {
	if i < 0 || i >= len(t.rows) {
		panic(fmt.Sprintf("table: row %d out of range [0,%d)", i, len(t.rows)))
	}
	return Row{t: t, i: i}
}

// AddColumn computes a column from every row. An existing column with the same
// name is replaced, so derived columns can be recomputed.
func (t *Table) AddColumn(col Column, fn func(Row) (Value, error)) error {
	values := make([]Value, len(t.rows))
	for i := range t.rows {
		v, err := fn(Row{t: t, i: i})
		if err != nil {
			return fmt.Errorf("column %q row %d: %w", col.Name, i, err)
		}
		if v.kind != col.Kind {
			return fmt.Errorf("%w: column %q holds %s, got %s",
				common.ErrTypeMismatch, col.Name, col.Kind, v.kind)
		}
		values[i] = v
	}

	idx, exists := t.index[col.Name]
	if !exists {
		idx = len(t.columns)
		t.index[col.Name] = idx
		t.columns = append(t.columns, col)
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], values[i])
		}
		return nil
	}

	t.columns[idx] = col
	for i := range t.rows {
		t.rows[i][idx] = values[i]
	}
	return nil
}

// DropColumn removes a column. Dropping an absent column is a no-op.
func (t *Table) DropColumn(name string) {
	idx, ok := t.index[name]
	if !ok {
		return
	}
	t.columns = append(t.columns[:idx], t.columns[idx+1:]...)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i][:idx], t.rows[i][idx+1:]...)
	}
	t.reindex()
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, col := range t.columns {
		t.index[col.Name] = i
	}
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := t.emptyCopy()
	for i, row := range t.rows {
		if keep(Row{t: t, i: i}) {
			out.rows = append(out.rows, cloneRow(row))
		}
	}
	return out
}

// DropMissing returns a new table without rows missing any of cols.
func (t *Table) DropMissing(cols ...string) (*Table, error) {
	idxs := make([]int, 0, len(cols))
	for _, col := range cols {
		idx, ok := t.index[col]
		if !ok {
			return nil, fmt.Errorf("%w: column %q", common.ErrMissingKey, col)
		}
		idxs = append(idxs, idx)
	}
	return t.Filter(func(r Row) bool {
		for _, idx := range idxs {
			if !t.rows[r.i][idx].valid {
				return false
			}
		}
		return true
	}), nil
}

// Floats returns the present values of a numeric column and how many were missing.
func (t *Table) Floats(col string) ([]float64, int, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, 0, err
	}
	if c.Kind == KindString {
		return nil, 0, fmt.Errorf("%w: column %q is %s", common.ErrTypeMismatch, col, c.Kind)
	}
	idx := t.index[col]
	values := make([]float64, 0, len(t.rows))
	missing := 0
	for _, row := range t.rows {
		if f, ok := row[idx].AsFloat(); ok {
			values = append(values, f)
			continue
		}
		missing++
	}
	return values, missing, nil
}

// Select returns a new table with only the named columns, in that order.
func (t *Table) Select(cols ...string) (*Table, error) {
	selected := make([]Column, 0, len(cols))
	idxs := make([]int, 0, len(cols))
	for _, name := range cols {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, c)
		idxs = append(idxs, t.index[name])
	}
	out, err := New(selected...)
	if err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		picked := make([]Value, len(idxs))
		for j, idx := range idxs {
			picked[j] = row[idx]
		}
		out.rows = append(out.rows, picked)
	}
	return out, nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := t.emptyCopy()
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = cloneRow(row)
	}
	return out
}

func (t *Table) emptyCopy() *Table {
	out := &Table{
		columns: make([]Column, len(t.columns)),
	}
	copy(out.columns, t.columns)
	out.reindex()
	return out
}

func cloneRow(row []Value) []Value {
	out := make([]Value, len(row))
	copy(out, row)
	return out
}

// Row is a read view of one row used by predicates and derivations.
type Row struct {
	t *Table
	i int
}

// Value returns the named cell. An unknown column reads as a missing string.
func (r Row) Value(col string) Value {
	idx, ok := r.t.index[col]
	if !ok {
		return Value{}
	}
	return r.t.rows[r.i][idx]
}

// Float returns a numeric cell if present.
func (r Row) Float(col string) (float64, bool) {
	return r.Value(col).AsFloat()
}

// Int returns an int cell if present.
func (r Row) Int(col string) (int, bool) {
	return r.Value(col).AsInt()
}

// String returns a string cell if present.
func (r Row) String(col string) (string, bool) {
	return r.Value(col).AsString()
}
