package plot

import (
	"fmt"
	"sort"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/summary"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Samples splits the present values of col by the value of by. An empty by
// puts every value under the key "all". Keys with no values are left out.
func Samples(t *table.Table, col, by string) (map[string][]float64, []string, error) {
	if _, _, err := t.Floats(col); err != nil {
		return nil, nil, err
	}
	if by != "" {
		if _, err := t.Column(by); err != nil {
			return nil, nil, err
		}
	}

	groups := make(map[string][]float64)
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		f, ok := r.Float(col)
		if !ok {
			continue
		}
		key := "all"
		if by != "" {
			kv := r.Value(by)
			if kv.IsMissing() {
				continue
			}
			key = kv.Text()
		}
		groups[key] = append(groups[key], f)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("%w: column %q has no values to plot", common.ErrEmptyDataset, col)
	}
	return groups, keys, nil
}

// Histogram overlays one histogram of col per class of by. A non-positive
// bins picks a default from the sample size.
func Histogram(t *table.Table, col, by string, bins int) (*gonumplot.Plot, error) {
	groups, keys, err := Samples(t, col, by)
	if err != nil {
		return nil, err
	}
	return histogram(col, by, groups, keys, bins)
}

// ScoreHistogram overlays the score distribution of every class of a
// comparison.
func ScoreHistogram(cmp *summary.ScoreComparison, bins int) (*gonumplot.Plot, error) {
	samples := cmp.Samples()
	keys := make([]string, 0, len(cmp.Classes))
	for _, cs := range cmp.Classes {
		if len(samples[cs.Class]) > 0 {
			keys = append(keys, cs.Class)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no %s values to plot", common.ErrEmptyDataset, cmp.Score)
	}
	return histogram(cmp.Score, cmp.Label, samples, keys, bins)
}

func histogram(col, by string, groups map[string][]float64, keys []string, bins int) (*gonumplot.Plot, error) {
	p := gonumplot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", col)
	if by != "" {
		p.Title.Text += " by " + by
	}
	p.X.Label.Text = col
	p.Y.Label.Text = "count"

	for i, key := range keys {
		h, err := plotter.NewHist(plotter.Values(groups[key]), bins)
		if err != nil {
			return nil, fmt.Errorf("histogram %q: %w", key, err)
		}
		h.FillColor = seriesColor(i, 0x99)
		h.LineStyle.Color = seriesColor(i, 0xFF)
		p.Add(h)
		if by != "" {
			p.Legend.Add(key, h)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// BoxPlot draws one box of col per group of by.
func BoxPlot(t *table.Table, col, by string) (*gonumplot.Plot, error) {
	groups, keys, err := Samples(t, col, by)
	if err != nil {
		return nil, err
	}

	p := gonumplot.New()
	p.Title.Text = fmt.Sprintf("%s by %s", col, by)
	p.X.Label.Text = by
	p.Y.Label.Text = col

	for i, key := range keys {
		b, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(groups[key]))
		if err != nil {
			return nil, fmt.Errorf("box %q: %w", key, err)
		}
		b.FillColor = seriesColor(i, 0xCC)
		p.Add(b)
	}
	p.NominalX(keys...)
	return p, nil
}

// correlationGrid adapts a correlation matrix to plotter.GridXYZ.
type correlationGrid struct {
	m *summary.Matrix
}

func (g correlationGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g correlationGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g correlationGrid) X(c int) float64    { return float64(c) }
func (g correlationGrid) Y(r int) float64    { return float64(r) }

// Heatmap draws a correlation matrix with a fixed [-1, 1] color scale.
func Heatmap(m *summary.Matrix) (*gonumplot.Plot, error) {
	if m == nil || len(m.Columns) == 0 {
		return nil, fmt.Errorf("%w: empty correlation matrix", common.ErrEmptyDataset)
	}

	h := plotter.NewHeatMap(correlationGrid{m: m}, palette.Heat(12, 1))
	h.Min = -1
	h.Max = 1

	p := gonumplot.New()
	p.Title.Text = fmt.Sprintf("Correlation (n=%d)", m.N)
	p.Add(h)

	ticks := make([]gonumplot.Tick, len(m.Columns))
	for i, col := range m.Columns {
		ticks[i] = gonumplot.Tick{Value: float64(i), Label: col}
	}
	p.X.Tick.Marker = gonumplot.ConstantTicks(ticks)
	p.Y.Tick.Marker = gonumplot.ConstantTicks(ticks)
	return p, nil
}
