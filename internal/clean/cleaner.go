package clean

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/summary"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Operation records one change the cleaner made.
type Operation struct {
	Column    string `json:"column"`
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
	NewValue  string `json:"new_value,omitempty"`
	PatientID int    `json:"patient_id"`
}

// Config controls a cleaning pass.
type Config struct {
	Policies map[string]Policy
	Subset   *Subset
}

// Result is the cleaned record set and what was done to it.
type Result struct {
	Table      *table.Table
	Operations []Operation
	Subsetted  int
	Dropped    int
	Filled     int
}

// Cleaner applies subset, drop and fill policies in that order.
type Cleaner struct {
	config Config
}

// New creates a cleaner. A nil policy map means DefaultPolicies. Column
// names in the policy map match case-insensitively.
func New(config Config) *Cleaner {
	if config.Policies == nil {
		config.Policies = DefaultPolicies()
	}
	policies := make(map[string]Policy, len(config.Policies))
	for col, p := range config.Policies {
		policies[strings.ToLower(col)] = p
	}
	config.Policies = policies
	return &Cleaner{config: config}
}

func (c *Cleaner) policy(col string) (Policy, bool) {
	p, ok := c.config.Policies[strings.ToLower(col)]
	return p, ok
}

// Clean returns a cleaned copy of t. Fill statistics are computed from the
// rows that survive the subset and drop steps, before any fill is applied.
// A column with no values to compute a statistic from stays missing.
func (c *Cleaner) Clean(ctx context.Context, t *table.Table) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Table: t.Clone()}

	if err := c.subset(res); err != nil {
		return nil, err
	}

	cols := c.policyColumns(res.Table)

	for _, col := range cols {
		if p, _ := c.policy(col); p.Action == ActionDrop {
			c.drop(res, col)
		}
	}

	fills := make(map[string]table.Value, len(cols))
	for _, col := range cols {
		p, _ := c.policy(col)
		switch p.Action {
		case ActionKeep, ActionDrop:
			continue
		}
		v, err := fillValue(res.Table, col, p)
		if errors.Is(err, common.ErrEmptyDataset) {
			common.LogWarn("Column has no values to fill from", common.Fields{
				"column": col,
				"policy": p.String(),
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		fills[col] = v
	}
	for _, col := range cols {
		if v, ok := fills[col]; ok {
			if err := c.fill(res, col, v); err != nil {
				return nil, err
			}
		}
	}

	common.LogInfo("Cleaned records", common.Fields{
		"rows_in":   t.Len(),
		"rows_out":  res.Table.Len(),
		"subsetted": res.Subsetted,
		"dropped":   res.Dropped,
		"filled":    res.Filled,
	})

	return res, nil
}

// policyColumns returns the configured columns present in t, in table order.
func (c *Cleaner) policyColumns(t *table.Table) []string {
	var cols []string
	present := make(map[string]bool, len(c.config.Policies))
	for _, name := range t.Names() {
		if _, ok := c.policy(name); ok {
			cols = append(cols, name)
			present[strings.ToLower(name)] = true
		}
	}
	for name := range c.config.Policies {
		if !present[name] {
			common.LogDebug("Cleaning policy names an absent column", common.Fields{"column": name})
		}
	}
	return cols
}

func (c *Cleaner) subset(res *Result) error {
	sub := c.config.Subset
	if sub == nil {
		return nil
	}
	if !res.Table.Has(sub.Column) {
		return fmt.Errorf("subset: %w: column %q", common.ErrMissingKey, sub.Column)
	}

	before := res.Table.Len()
	res.Table = res.Table.Filter(func(r table.Row) bool {
		v := r.Value(sub.Column)
		return !v.IsMissing() && sub.matches(v.Text())
	})
	res.Subsetted = before - res.Table.Len()
	return nil
}

func (c *Cleaner) drop(res *Result, col string) {
	before := res.Table.Len()
	res.Table = res.Table.Filter(func(r table.Row) bool {
		if !r.Value(col).IsMissing() {
			return true
		}
		res.Operations = append(res.Operations, Operation{
			Column:    col,
			Operation: string(ActionDrop),
			Reason:    "missing_value",
			PatientID: model.PatientID(r),
		})
		return false
	})
	res.Dropped += before - res.Table.Len()
}

func (c *Cleaner) fill(res *Result, col string, v table.Value) error {
	p, _ := c.policy(col)
	for i := 0; i < res.Table.Len(); i++ {
		current, err := res.Table.Value(i, col)
		if err != nil {
			return err
		}
		if !current.IsMissing() {
			continue
		}
		if err := res.Table.Set(i, col, v); err != nil {
			return err
		}
		res.Filled++
		res.Operations = append(res.Operations, Operation{
			Column:    col,
			Operation: "fill_" + string(p.Action),
			Reason:    "missing_value",
			NewValue:  v.Text(),
			PatientID: model.PatientID(res.Table.Row(i)),
		})
	}
	return nil
}

// fillValue computes the value a fill policy writes into missing cells.
func fillValue(t *table.Table, col string, p Policy) (table.Value, error) {
	column, err := t.Column(col)
	if err != nil {
		return table.Value{}, err
	}

	switch p.Action {
	case ActionMean, ActionMedian:
		if column.Kind == table.KindString {
			return table.Value{}, fmt.Errorf("%w: %s fill on %s column", common.ErrTypeMismatch, p.Action, column.Kind)
		}
		values, _, err := t.Floats(col)
		if err != nil {
			return table.Value{}, err
		}
		if len(values) == 0 {
			return table.Value{}, fmt.Errorf("%w: no values to compute %s from", common.ErrEmptyDataset, p.Action)
		}
		var stat float64
		if p.Action == ActionMean {
			stat, err = summary.Mean(values)
		} else {
			stat, err = summary.Median(values)
		}
		if err != nil {
			return table.Value{}, err
		}
		if column.Kind == table.KindInt {
			return table.Int(int(math.Round(stat))), nil
		}
		return table.Float(stat), nil
	case ActionMode:
		return mode(t, col)
	case ActionValue:
		v, err := table.Parse(column.Kind, p.Value)
		if err != nil {
			return table.Value{}, err
		}
		if v.IsMissing() {
			return table.Value{}, fmt.Errorf("%w: fill value %q reads as missing", common.ErrInvalidConfig, p.Value)
		}
		return v, nil
	default:
		return table.Value{}, fmt.Errorf("%w: %s is not a fill policy", common.ErrInvalidConfig, p.Action)
	}
}

// mode returns the most frequent present value, breaking ties lexically.
func mode(t *table.Table, col string) (table.Value, error) {
	counts := make(map[string]int)
	first := make(map[string]table.Value)
	for i := 0; i < t.Len(); i++ {
		v := t.Row(i).Value(col)
		if v.IsMissing() {
			continue
		}
		key := v.Text()
		counts[key]++
		if _, ok := first[key]; !ok {
			first[key] = v
		}
	}
	if len(counts) == 0 {
		return table.Value{}, fmt.Errorf("%w: no values to compute mode from", common.ErrEmptyDataset)
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return first[best], nil
}
