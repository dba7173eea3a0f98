package summary

import (
	"fmt"
	"sort"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/table"
)

// ClassScores is the score distribution within one label class.
type ClassScores struct {
	Frequencies map[int]int
	Class       string
	Count       int
	Mean        float64
	Median      float64
}

// ScoreComparison compares an integer score between label classes.
type ScoreComparison struct {
	Label   string
	Score   string
	Classes []ClassScores
	Values  []int
}

// CompareScores splits the score column by label class and reports each
// class's frequencies, mean and median. Rows missing the label or the score
// are left out.
func CompareScores(t *table.Table, label, score string) (*ScoreComparison, error) {
	labelCol, err := t.Column(label)
	if err != nil {
		return nil, err
	}
	scoreCol, err := t.Column(score)
	if err != nil {
		return nil, err
	}
	if scoreCol.Kind != table.KindInt {
		return nil, fmt.Errorf("%w: score column %q is %s", common.ErrTypeMismatch, score, scoreCol.Kind)
	}

	byClass := make(map[string][]int)
	seen := make(map[int]struct{})
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		lv := r.Value(label)
		s, ok := r.Int(score)
		if lv.IsMissing() || !ok {
			continue
		}
		byClass[lv.Text()] = append(byClass[lv.Text()], s)
		seen[s] = struct{}{}
	}

	cmp := &ScoreComparison{Label: label, Score: score}
	for v := range seen {
		cmp.Values = append(cmp.Values, v)
	}
	sort.Ints(cmp.Values)

	classes := make(map[string]struct{}, len(byClass))
	for k := range byClass {
		classes[k] = struct{}{}
	}
	for _, class := range setKeys(classes, labelCol.Kind) {
		scores := byClass[class]
		floatsOf := make([]float64, len(scores))
		freq := make(map[int]int)
		for i, s := range scores {
			floatsOf[i] = float64(s)
			freq[s]++
		}
		n := Summarize(floatsOf, 0)
		cmp.Classes = append(cmp.Classes, ClassScores{
			Class:       class,
			Count:       n.Count,
			Mean:        n.Mean,
			Median:      n.Median,
			Frequencies: freq,
		})
	}
	return cmp, nil
}

// Get returns the distribution of one class.
func (c *ScoreComparison) Get(class string) (ClassScores, bool) {
	for _, cs := range c.Classes {
		if cs.Class == class {
			return cs, true
		}
	}
	return ClassScores{}, false
}

// Samples returns each class's scores as floats, for plotting.
func (c *ScoreComparison) Samples() map[string][]float64 {
	out := make(map[string][]float64, len(c.Classes))
	for _, cs := range c.Classes {
		var sample []float64
		for _, v := range c.Values {
			for n := 0; n < cs.Frequencies[v]; n++ {
				sample = append(sample, float64(v))
			}
		}
		out[cs.Class] = sample
	}
	return out
}

// Table lays the comparison out one row per class with a frequency column per
// observed score.
func (c *ScoreComparison) Table() *table.Table {
	names := []string{"count", "mean", "median"}
	for _, v := range c.Values {
		names = append(names, fmt.Sprintf("score=%d", v))
	}
	cols := []table.Column{{Name: keyColumn(c.Label, names...), Kind: table.KindString}}
	for i, name := range names {
		kind := table.KindFloat
		if i == 0 || i > 2 {
			kind = table.KindInt
		}
		cols = append(cols, table.Column{Name: name, Kind: kind})
	}
	t := mustTable(cols...)
	for _, cs := range c.Classes {
		values := []table.Value{
			table.String(cs.Class),
			table.Int(cs.Count),
			table.Float(cs.Mean),
			table.Float(cs.Median),
		}
		for _, v := range c.Values {
			values = append(values, table.Int(cs.Frequencies[v]))
		}
		mustAppend(t, values...)
	}
	return t
}
