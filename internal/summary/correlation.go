package summary

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Matrix is a square Pearson correlation matrix.
type Matrix struct {
	Columns []string
	Values  [][]float64
	N       int
}

// Correlation computes pairwise Pearson correlations over the rows where every
// named column is present. Constant columns correlate as NaN.
func Correlation(t *table.Table, cols ...string) (*Matrix, error) {
	if len(cols) < 2 {
		return nil, fmt.Errorf("%w: correlation needs at least two columns", common.ErrValueOutOfRange)
	}
	complete, err := t.DropMissing(cols...)
	if err != nil {
		return nil, err
	}
	if complete.Len() < 2 {
		return nil, fmt.Errorf("%w: %d complete rows, need at least 2", common.ErrEmptyDataset, complete.Len())
	}

	samples := make([][]float64, len(cols))
	for i, col := range cols {
		values, _, err := complete.Floats(col)
		if err != nil {
			return nil, err
		}
		samples[i] = values
	}

	m := &Matrix{Columns: append([]string(nil), cols...), N: complete.Len()}
	m.Values = make([][]float64, len(cols))
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			var r float64
			switch {
			case stat.Variance(samples[i], nil) == 0 || stat.Variance(samples[j], nil) == 0:
				r = math.NaN()
			case i == j:
				r = 1
			default:
				r = stat.Correlation(samples[i], samples[j], nil)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

// at returns the correlation between two named columns.
func (m *Matrix) at(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, col := range m.Columns {
		if col == a {
			i = k
		}
		if col == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Table lays the matrix out with a label column followed by one column per variable.
func (m *Matrix) Table() *table.Table {
	cols := make([]table.Column, 0, len(m.Columns)+1)
	cols = append(cols, table.Column{Name: keyColumn("column", m.Columns...), Kind: table.KindString})
	for _, c := range m.Columns {
		cols = append(cols, table.Column{Name: c, Kind: table.KindFloat})
	}
	t := mustTable(cols...)
	for i, c := range m.Columns {
		values := make([]table.Value, 0, len(m.Columns)+1)
		values = append(values, table.String(c))
		for j := range m.Columns {
			values = append(values, table.Float(m.Values[i][j]))
		}
		mustAppend(t, values...)
	}
	return t
}
