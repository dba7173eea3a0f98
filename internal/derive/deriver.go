package derive

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Policy decides what happens to records that cannot be scored.
type Policy string

// Unresolved-input policies.
const (
	// PolicyFail aborts derivation when any record is unresolved.
	PolicyFail Policy = "fail"
	// PolicySkip drops unresolved records.
	PolicySkip Policy = "skip"
	// PolicyBlank keeps unresolved records with a missing score.
	PolicyBlank Policy = "blank"
)

// ParsePolicy validates a policy name. Empty means PolicyFail.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyFail, "":
		return PolicyFail, nil
	case PolicySkip:
		return PolicySkip, nil
	case PolicyBlank:
		return PolicyBlank, nil
	default:
		return "", fmt.Errorf("%w: unresolved-input policy %q (want fail, skip or blank)", common.ErrInvalidConfig, s)
	}
}

// Unresolved identifies a record the scorer could not score.
type Unresolved struct {
	Reason    string `json:"reason"`
	PatientID int    `json:"patient_id"`
}

// UnresolvedError lists every record that could not be scored.
type UnresolvedError struct {
	Records []Unresolved
}

func (e *UnresolvedError) Error() string {
	parts := make([]string, 0, len(e.Records))
	for _, u := range e.Records {
		parts = append(parts, fmt.Sprintf("%s %d: %s", model.ColPatientID, u.PatientID, u.Reason))
	}
	return fmt.Sprintf("%v for %d record(s): %s", common.ErrUnresolvedInput, len(e.Records), strings.Join(parts, "; "))
}

func (e *UnresolvedError) Unwrap() error {
	return common.ErrUnresolvedInput
}

// Result is the outcome of a derivation pass.
type Result struct {
	Table      *table.Table
	Unresolved []Unresolved
}

// Deriver adds the derived columns to a record set.
type Deriver struct {
	scorer *Scorer
	policy Policy
}

// NewDeriver creates a deriver.
func NewDeriver(scorer *Scorer, policy Policy) *Deriver {
	if policy == "" {
		policy = PolicyFail
	}
	return &Deriver{scorer: scorer, policy: policy}
}

// Derive computes Site, age_group and PHASES score. Existing derived columns
// are recomputed. Under PolicySkip the returned table is a filtered copy;
// otherwise t is updated in place and returned.
func (d *Deriver) Derive(ctx context.Context, t *table.Table) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unresolved := d.findUnresolved(t)
	if len(unresolved) > 0 {
		common.LogWarn("Records could not be scored", common.Fields{
			"count":  len(unresolved),
			"policy": string(d.policy),
		})
	}

	switch {
	case len(unresolved) > 0 && d.policy == PolicyFail:
		return nil, &UnresolvedError{Records: unresolved}
	case len(unresolved) > 0 && d.policy == PolicySkip:
		bad := make(map[int]bool, len(unresolved))
		for _, u := range unresolved {
			bad[u.PatientID] = true
		}
		t = t.Filter(func(r table.Row) bool {
			return !bad[model.PatientID(r)]
		})
	}

	if err := d.addSite(t); err != nil {
		return nil, err
	}
	if err := d.addAgeGroup(t); err != nil {
		return nil, err
	}
	if err := d.addScore(t); err != nil {
		return nil, err
	}

	common.LogDebug("Derived columns", common.Fields{
		"rows":       t.Len(),
		"unresolved": len(unresolved),
	})

	return &Result{Table: t, Unresolved: unresolved}, nil
}

func (d *Deriver) findUnresolved(t *table.Table) []Unresolved {
	var out []Unresolved
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if _, err := d.scorer.Score(r); err != nil {
			out = append(out, Unresolved{
				PatientID: model.PatientID(r),
				Reason:    err.Error(),
			})
		}
	}
	return out
}

func (d *Deriver) addSite(t *table.Table) error {
	return t.AddColumn(table.Column{Name: model.ColSite, Kind: table.KindString}, func(r table.Row) (table.Value, error) {
		location, ok := r.String(model.ColLocation)
		if !ok {
			return table.Missing(table.KindString), nil
		}
		return table.String(d.scorer.SiteGroup(location)), nil
	})
}

func (d *Deriver) addAgeGroup(t *table.Table) error {
	return t.AddColumn(table.Column{Name: model.ColAgeGroup, Kind: table.KindString}, func(r table.Row) (table.Value, error) {
		age, ok := r.Float(model.ColAge)
		if !ok {
			return table.Missing(table.KindString), nil
		}
		label, err := d.scorer.AgeGroup(age)
		if err != nil {
			return table.Missing(table.KindString), nil //nolint:nilerr // ages outside every group stay unlabeled
		}
		return table.String(label), nil
	})
}

func (d *Deriver) addScore(t *table.Table) error {
	return t.AddColumn(table.Column{Name: model.ColPHASESScore, Kind: table.KindInt}, func(r table.Row) (table.Value, error) {
		b, err := d.scorer.Score(r)
		if err != nil {
			if d.policy == PolicyBlank {
				return table.Missing(table.KindInt), nil
			}
			return table.Value{}, fmt.Errorf("%s %d: %w", model.ColPatientID, model.PatientID(r), err)
		}
		return table.Int(b.Total), nil
	})
}
