package summary

import (
	"github.com/Veraticus/aneurisk/internal/table"
)

// ColumnStats is the description of one numeric column.
type ColumnStats struct {
	Column string
	Numeric
}

// Description is the describe() output for a set of numeric columns.
type Description []ColumnStats

// Describe summarizes the named numeric columns, or every numeric column when
// none are named.
func Describe(t *table.Table, cols ...string) (Description, error) {
	if len(cols) == 0 {
		for _, col := range t.Columns() {
			if col.Kind != table.KindString {
				cols = append(cols, col.Name)
			}
		}
	}

	out := make(Description, 0, len(cols))
	for _, col := range cols {
		values, missing, err := t.Floats(col)
		if err != nil {
			return nil, err
		}
		out = append(out, ColumnStats{Column: col, Numeric: Summarize(values, missing)})
	}
	return out, nil
}

// Get returns the stats of one column.
func (d Description) Get(col string) (ColumnStats, bool) {
	for _, cs := range d {
		if cs.Column == col {
			return cs, true
		}
	}
	return ColumnStats{}, false
}

// Table lays the description out one row per column.
func (d Description) Table() *table.Table {
	t := mustTable(
		table.Column{Name: "column", Kind: table.KindString},
		table.Column{Name: "count", Kind: table.KindInt},
		table.Column{Name: "missing", Kind: table.KindInt},
		table.Column{Name: "mean", Kind: table.KindFloat},
		table.Column{Name: "std", Kind: table.KindFloat},
		table.Column{Name: "min", Kind: table.KindFloat},
		table.Column{Name: "25%", Kind: table.KindFloat},
		table.Column{Name: "50%", Kind: table.KindFloat},
		table.Column{Name: "75%", Kind: table.KindFloat},
		table.Column{Name: "max", Kind: table.KindFloat},
	)
	for _, cs := range d {
		mustAppend(t,
			table.String(cs.Column),
			table.Int(cs.Count),
			table.Int(cs.Missing),
			table.Float(cs.Mean),
			table.Float(cs.Std),
			table.Float(cs.Min),
			table.Float(cs.Q25),
			table.Float(cs.Median),
			table.Float(cs.Q75),
			table.Float(cs.Max),
		)
	}
	return t
}

// keyColumn names the label column of a result table. A name that clashes
// with one of the value columns gets a "by=" prefix.
func keyColumn(name string, values ...string) string {
	for _, v := range values {
		if v == name {
			return "by=" + name
		}
	}
	return name
}

// mustTable builds a result table from a fixed column list.
func mustTable(cols ...table.Column) *table.Table {
	t, err := table.New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// mustAppend appends a row whose shape is fixed by the caller.
func mustAppend(t *table.Table, values ...table.Value) {
	if err := t.Append(values...); err != nil {
		panic(err)
	}
}
