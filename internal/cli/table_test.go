package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneurisk/internal/table"
)

func TestCell(t *testing.T) {
	tests := []struct {
		name  string
		value table.Value
		want  string
	}{
		{name: "missing float", value: table.Missing(table.KindFloat), want: "-"},
		{name: "missing string", value: table.Missing(table.KindString), want: "-"},
		{name: "float rounds", value: table.Float(7.42519), want: "7.425"},
		{name: "whole float keeps decimals", value: table.Float(4), want: "4.000"},
		{name: "int", value: table.Int(11), want: "11"},
		{name: "string", value: table.String("AComA"), want: "AComA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cell(tt.value))
		})
	}
}

func sites(t *testing.T, n int) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.Column{Name: "Site", Kind: table.KindString},
		table.Column{Name: "count", Kind: table.KindInt},
	)
	require.NoError(t, err)
	names := []string{"ICA", "MCA", "AComA", "Posterior", "Other"}
	for i := 0; i < n; i++ {
		require.NoError(t, tbl.Append(table.String(names[i%len(names)]), table.Int(i)))
	}
	return tbl
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sites(t, 3), 0)

	assert.Contains(t, out, "Site")
	assert.Contains(t, out, "count")
	for _, want := range []string{"ICA", "MCA", "AComA"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "more row")
}

func TestRenderTableLimit(t *testing.T) {
	out := RenderTable(sites(t, 5), 2)

	assert.Contains(t, out, "ICA")
	assert.Contains(t, out, "MCA")
	assert.NotContains(t, out, "Posterior")
	assert.Contains(t, out, "3 more row(s)")
}

func TestRenderTableEmpty(t *testing.T) {
	out := RenderTable(sites(t, 0), 10)
	assert.Contains(t, out, "Site")
	assert.Equal(t, 0, strings.Count(out, "more row"))
}

func TestFormatters(t *testing.T) {
	assert.Contains(t, FormatSuccess("done"), SuccessIcon+" done")
	assert.Contains(t, FormatError("failed"), ErrorIcon+" failed")
	assert.Contains(t, FormatWarning("skipped"), "skipped")
	assert.Contains(t, FormatTitle("Summary"), "Summary")
	assert.Contains(t, RenderBox("Run", "5 records"), "5 records")
}
