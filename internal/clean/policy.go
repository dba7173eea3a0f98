// Package clean resolves missing values and subsets record sets before
// derivation and aggregation.
package clean

import (
	"fmt"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/model"
)

// Action is what the cleaner does with missing cells in a column.
type Action string

// Cleaning actions.
const (
	ActionKeep   Action = "keep"
	ActionDrop   Action = "drop"
	ActionMean   Action = "mean"
	ActionMedian Action = "median"
	ActionMode   Action = "mode"
	ActionValue  Action = "value"
)

// Policy is the configured action for one column. Value is the literal used
// by ActionValue.
type Policy struct {
	Action Action
	Value  string
}

// ParsePolicy reads "keep", "drop", "mean", "median", "mode" or "value:<literal>".
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	if literal, ok := strings.CutPrefix(s, string(ActionValue)+":"); ok {
		if strings.TrimSpace(literal) == "" {
			return Policy{}, fmt.Errorf("%w: policy %q has an empty fill value", common.ErrInvalidConfig, s)
		}
		return Policy{Action: ActionValue, Value: literal}, nil
	}

	switch Action(strings.ToLower(s)) {
	case ActionKeep, "":
		return Policy{Action: ActionKeep}, nil
	case ActionDrop:
		return Policy{Action: ActionDrop}, nil
	case ActionMean:
		return Policy{Action: ActionMean}, nil
	case ActionMedian:
		return Policy{Action: ActionMedian}, nil
	case ActionMode:
		return Policy{Action: ActionMode}, nil
	default:
		return Policy{}, fmt.Errorf("%w: unknown cleaning policy %q", common.ErrInvalidConfig, s)
	}
}

// String renders the policy the way ParsePolicy reads it.
func (p Policy) String() string {
	if p.Action == ActionValue {
		return string(ActionValue) + ":" + p.Value
	}
	return string(p.Action)
}

// ParsePolicies parses a column → policy map.
func ParsePolicies(raw map[string]string) (map[string]Policy, error) {
	out := make(map[string]Policy, len(raw))
	for col, s := range raw {
		p, err := ParsePolicy(s)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		out[col] = p
	}
	return out, nil
}

// DefaultPolicies fills measurements with their mean and drops records
// without an age or a location.
func DefaultPolicies() map[string]Policy {
	out := map[string]Policy{
		model.ColAge:      {Action: ActionDrop},
		model.ColLocation: {Action: ActionDrop},
	}
	for _, col := range model.MeasurementColumns {
		out[col] = Policy{Action: ActionMean}
	}
	return out
}

// Subset keeps rows whose column value equals one of Values or contains
// Contains. Matching is case-insensitive.
type Subset struct {
	Column   string
	Contains string
	Values   []string
}

// ParseSubset reads "Column=a,b" (equality) or "Column~text" (substring).
func ParseSubset(s string) (*Subset, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if col, text, ok := strings.Cut(s, "~"); ok {
		if strings.TrimSpace(col) == "" || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: subset %q", common.ErrInvalidConfig, s)
		}
		return &Subset{Column: strings.TrimSpace(col), Contains: strings.TrimSpace(text)}, nil
	}
	col, list, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(col) == "" {
		return nil, fmt.Errorf("%w: subset %q (want Column=a,b or Column~text)", common.ErrInvalidConfig, s)
	}
	sub := &Subset{Column: strings.TrimSpace(col)}
	for _, v := range strings.Split(list, ",") {
		if v = strings.TrimSpace(v); v != "" {
			sub.Values = append(sub.Values, v)
		}
	}
	if len(sub.Values) == 0 {
		return nil, fmt.Errorf("%w: subset %q lists no values", common.ErrInvalidConfig, s)
	}
	return sub, nil
}

func (s *Subset) matches(value string) bool {
	value = strings.ToLower(value)
	if s.Contains != "" {
		return strings.Contains(value, strings.ToLower(s.Contains))
	}
	for _, v := range s.Values {
		if strings.ToLower(v) == value {
			return true
		}
	}
	return false
}
