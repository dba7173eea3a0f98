package pipeline

import (
	"errors"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/summary"
	"github.com/Veraticus/aneurisk/internal/table"
)

// GroupedValues are the columns summarized within each group-by key.
var GroupedValues = []string{model.ColDmax, model.ColAR, model.ColAge, model.ColPHASESScore}

// Report bundles every summary computed for one record set.
type Report struct {
	Description Description
	Crosstab    *summary.Crosstab
	Scores      *summary.ScoreComparison
	Correlation *summary.Matrix
	Groups      []*summary.Grouped
}

// Description aliases summary.Description so callers need not import summary.
type Description = summary.Description

// NamedTable is a summary laid out as a record set, with a file-safe name.
type NamedTable struct {
	Table *table.Table
	Name  string
}

// Summarize computes the report. Summaries whose columns are absent are
// skipped; any other failure is returned.
func Summarize(t *table.Table, groupBy []string) (*Report, error) {
	if t.Len() == 0 {
		return nil, common.ErrEmptyDataset
	}

	var (
		r   = &Report{}
		err error
	)

	r.Description, err = summary.Describe(t)
	if err != nil {
		return nil, err
	}

	for _, by := range groupBy {
		if !t.Has(by) {
			common.LogWarn("Group-by column not in data", common.Fields{"column": by})
			continue
		}
		for _, value := range GroupedValues {
			if !t.Has(value) || value == by {
				continue
			}
			g, err := summary.GroupBy(t, by, value)
			if err != nil {
				return nil, err
			}
			r.Groups = append(r.Groups, g)
		}
	}

	if t.Has(model.ColStatus) && t.Has(model.ColSite) {
		if r.Crosstab, err = summary.NewCrosstab(t, model.ColSite, model.ColStatus); err != nil {
			return nil, err
		}
	}

	if t.Has(model.ColStatus) && t.Has(model.ColPHASESScore) {
		if r.Scores, err = summary.CompareScores(t, model.ColStatus, model.ColPHASESScore); err != nil {
			return nil, err
		}
	}

	if measured := MeasuredColumns(t); len(measured) >= 2 {
		r.Correlation, err = summary.Correlation(t, measured...)
		switch {
		case errors.Is(err, common.ErrEmptyDataset):
			common.LogWarn("Too few complete rows for correlation", common.Fields{"columns": measured})
			r.Correlation = nil
		case err != nil:
			return nil, err
		}
	}

	return r, nil
}

// MeasuredColumns returns the morphology columns present in t.
func MeasuredColumns(t *table.Table) []string {
	var cols []string
	for _, col := range model.MeasurementColumns {
		if t.Has(col) {
			cols = append(cols, col)
		}
	}
	return cols
}

// Tables lays out every summary in the report as a named record set.
func (r *Report) Tables() []NamedTable {
	out := []NamedTable{{Name: "describe", Table: r.Description.Table()}}
	for _, g := range r.Groups {
		out = append(out, NamedTable{
			Name:  FileSafe(g.Value + "_by_" + g.By),
			Table: g.Table(),
		})
	}
	if r.Crosstab != nil {
		out = append(out, NamedTable{
			Name:  FileSafe("crosstab_" + r.Crosstab.RowName + "_" + r.Crosstab.ColName),
			Table: r.Crosstab.Table(),
		})
	}
	if r.Scores != nil {
		out = append(out, NamedTable{
			Name:  FileSafe("compare_" + r.Scores.Score + "_by_" + r.Scores.Label),
			Table: r.Scores.Table(),
		})
	}
	if r.Correlation != nil {
		out = append(out, NamedTable{Name: "correlation", Table: r.Correlation.Table()})
	}
	return out
}

// FileSafe replaces characters that are awkward in file names.
func FileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
