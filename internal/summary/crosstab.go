package summary

import (
	"github.com/Veraticus/aneurisk/internal/table"
)

// Crosstab counts rows for every pair of values of two categorical columns.
type Crosstab struct {
	RowName string
	ColName string
	Rows    []string
	Cols    []string
	Counts  [][]int
}

// NewCrosstab tabulates rows against cols. Rows missing either value are skipped.
func NewCrosstab(t *table.Table, rows, cols string) (*Crosstab, error) {
	rowCol, err := t.Column(rows)
	if err != nil {
		return nil, err
	}
	colCol, err := t.Column(cols)
	if err != nil {
		return nil, err
	}

	counts := make(map[[2]string]int)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		rv, cv := r.Value(rows), r.Value(cols)
		if rv.IsMissing() || cv.IsMissing() {
			continue
		}
		rowSet[rv.Text()] = struct{}{}
		colSet[cv.Text()] = struct{}{}
		counts[[2]string{rv.Text(), cv.Text()}]++
	}

	ct := &Crosstab{
		RowName: rows,
		ColName: cols,
		Rows:    setKeys(rowSet, rowCol.Kind),
		Cols:    setKeys(colSet, colCol.Kind),
	}
	ct.Counts = make([][]int, len(ct.Rows))
	for i, rk := range ct.Rows {
		ct.Counts[i] = make([]int, len(ct.Cols))
		for j, ck := range ct.Cols {
			ct.Counts[i][j] = counts[[2]string{rk, ck}]
		}
	}
	return ct, nil
}

// count returns the number of rows with the given pair of values.
func (c *Crosstab) count(row, col string) int {
	for i, rk := range c.Rows {
		if rk != row {
			continue
		}
		for j, ck := range c.Cols {
			if ck == col {
				return c.Counts[i][j]
			}
		}
	}
	return 0
}

// Table lays the crosstab out with one column per value of the column variable.
func (c *Crosstab) Table() *table.Table {
	cols := make([]table.Column, 0, len(c.Cols)+1)
	cols = append(cols, table.Column{Name: c.RowName, Kind: table.KindString})
	for _, ck := range c.Cols {
		name := ck
		if name == c.RowName {
			name = c.ColName + "=" + ck
		}
		cols = append(cols, table.Column{Name: name, Kind: table.KindInt})
	}
	t := mustTable(cols...)
	for i, rk := range c.Rows {
		values := make([]table.Value, 0, len(c.Cols)+1)
		values = append(values, table.String(rk))
		for j := range c.Cols {
			values = append(values, table.Int(c.Counts[i][j]))
		}
		mustAppend(t, values...)
	}
	return t
}

func setKeys(set map[string]struct{}, kind table.Kind) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sortKeys(keys, kind)
	return keys
}
