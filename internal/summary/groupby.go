package summary

import (
	"math"
	"sort"
	"strconv"

	"github.com/Veraticus/aneurisk/internal/table"
)

// Group holds the statistics of one value column within one group.
type Group struct {
	Key    string
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// Grouped is the result of grouping a value column by a key column.
type Grouped struct {
	By     string
	Value  string
	Groups []Group
}

// GroupBy groups the rows of t by the by column and summarizes value within
// each group. Rows with a missing key form no group; missing values are left
// out of their group's statistics.
func GroupBy(t *table.Table, by, value string) (*Grouped, error) {
	byCol, err := t.Column(by)
	if err != nil {
		return nil, err
	}
	if _, _, err := t.Floats(value); err != nil {
		return nil, err
	}

	samples := make(map[string][]float64)
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		key := r.Value(by)
		if key.IsMissing() {
			continue
		}
		k := key.Text()
		if _, ok := samples[k]; !ok {
			samples[k] = nil
		}
		if f, ok := r.Float(value); ok {
			samples[k] = append(samples[k], f)
		}
	}

	keys := make([]string, 0, len(samples))
	for k := range samples {
		keys = append(keys, k)
	}
	sortKeys(keys, byCol.Kind)

	out := &Grouped{By: by, Value: value, Groups: make([]Group, 0, len(keys))}
	for _, k := range keys {
		n := Summarize(samples[k], 0)
		out.Groups = append(out.Groups, Group{
			Key:    k,
			Count:  n.Count,
			Mean:   n.Mean,
			Median: n.Median,
			Std:    n.Std,
			Min:    n.Min,
			Max:    n.Max,
		})
	}
	return out, nil
}

// Get returns the group with the given key.
func (g *Grouped) Get(key string) (Group, bool) {
	for _, grp := range g.Groups {
		if grp.Key == key {
			return grp, true
		}
	}
	return Group{}, false
}

// Means returns group means keyed by group.
func (g *Grouped) Means() map[string]float64 {
	out := make(map[string]float64, len(g.Groups))
	for _, grp := range g.Groups {
		out[grp.Key] = grp.Mean
	}
	return out
}

// Table lays the groups out one row per group.
func (g *Grouped) Table() *table.Table {
	stats := []string{"count", "mean", "median", "std", "min", "max"}
	t := mustTable(
		table.Column{Name: keyColumn(g.By, stats...), Kind: table.KindString},
		table.Column{Name: "count", Kind: table.KindInt},
		table.Column{Name: "mean", Kind: table.KindFloat},
		table.Column{Name: "median", Kind: table.KindFloat},
		table.Column{Name: "std", Kind: table.KindFloat},
		table.Column{Name: "min", Kind: table.KindFloat},
		table.Column{Name: "max", Kind: table.KindFloat},
	)
	for _, grp := range g.Groups {
		mustAppend(t,
			table.String(grp.Key),
			table.Int(grp.Count),
			table.Float(grp.Mean),
			table.Float(grp.Median),
			table.Float(grp.Std),
			table.Float(grp.Min),
			table.Float(grp.Max),
		)
	}
	return t
}

// sortKeys orders numeric keys numerically and everything else lexically.
func sortKeys(keys []string, kind table.Kind) {
	if kind == table.KindString {
		sort.Strings(keys)
		return
	}
	sort.Slice(keys, func(i, j int) bool {
		return parseKey(keys[i]) < parseKey(keys[j])
	})
}

func parseKey(k string) float64 {
	f, err := strconv.ParseFloat(k, 64)
	if err != nil {
		return math.Inf(1)
	}
	return f
}
