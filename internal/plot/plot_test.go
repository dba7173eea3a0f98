package plot_test

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gonumplot "gonum.org/v1/plot"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/plot"
	"github.com/Veraticus/aneurisk/internal/summary"
	"github.com/Veraticus/aneurisk/internal/table"
	"github.com/Veraticus/aneurisk/internal/testutil"
)

func TestOptionsPixels(t *testing.T) {
	w, h := plot.Options{}.Pixels()
	assert.Equal(t, 576, w)
	assert.Equal(t, 384, h)

	w, h = plot.Options{Width: 2, Height: 1, DPI: 300}.Pixels()
	assert.Equal(t, 600, w)
	assert.Equal(t, 300, h)
}

func TestSamples(t *testing.T) {
	records := testutil.NewRecordBuilder(t).WithBasicRecords().Build()

	groups, keys, err := plot.Samples(records, model.ColDmax, model.ColStatus)
	require.NoError(t, err)
	assert.Equal(t, []string{"ruptured", "unruptured"}, keys)
	assert.Equal(t, []float64{8.5, 12}, groups["ruptured"])

	groups, keys, err = plot.Samples(records, model.ColAge, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"all"}, keys)
	assert.Len(t, groups["all"], 4)

	_, _, err = plot.Samples(records, model.ColLocation, "")
	require.ErrorIs(t, err, common.ErrTypeMismatch)

	empty := testutil.NewRecordBuilder(t).
		WithRecord(testutil.Record{PatientID: 1, Status: "ruptured", Location: "MCA"}).
		Build()
	_, _, err = plot.Samples(empty, model.ColDmax, "")
	require.ErrorIs(t, err, common.ErrEmptyDataset)
}

func TestChartsRenderPNG(t *testing.T) {
	records := testutil.NewRecordBuilder(t).WithBasicRecords().Build()
	opts := plot.Options{Width: 3, Height: 2, DPI: 100}

	corr, err := summary.Correlation(records, model.ColDmax, model.ColH, model.ColAR)
	require.NoError(t, err)

	tests := []struct {
		build func() (*gonumplot.Plot, error)
		name  string
	}{
		{name: "histogram", build: func() (*gonumplot.Plot, error) { return plot.Histogram(records, model.ColDmax, model.ColStatus, 4) }},
		{name: "histogram without groups", build: func() (*gonumplot.Plot, error) { return plot.Histogram(records, model.ColAge, "", 0) }},
		{name: "box plot", build: func() (*gonumplot.Plot, error) { return plot.BoxPlot(records, model.ColDmax, model.ColStatus) }},
		{name: "heatmap", build: func() (*gonumplot.Plot, error) { return plot.Heatmap(corr) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			built, err := tt.build()
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "charts", "chart.png")
			require.NoError(t, plot.Save(built, path, opts))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 300, img.Bounds().Dx())
			assert.Equal(t, 200, img.Bounds().Dy())
		})
	}
}

func TestSaveRequiresPNG(t *testing.T) {
	records := testutil.NewRecordBuilder(t).WithBasicRecords().Build()
	p, err := plot.Histogram(records, model.ColDmax, "", 0)
	require.NoError(t, err)

	err = plot.Save(p, filepath.Join(t.TempDir(), "chart.jpg"), plot.DefaultOptions())
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestHeatmapRejectsEmptyMatrix(t *testing.T) {
	_, err := plot.Heatmap(nil)
	require.ErrorIs(t, err, common.ErrEmptyDataset)
}

func TestScoreHistogram(t *testing.T) {
	scores, err := table.New(
		table.Column{Name: model.ColStatus, Kind: table.KindString},
		table.Column{Name: model.ColPHASESScore, Kind: table.KindInt},
	)
	require.NoError(t, err)
	for _, row := range []struct {
		status string
		score  int
	}{{"ruptured", 5}, {"ruptured", 11}, {"unruptured", 0}, {"unruptured", 4}} {
		require.NoError(t, scores.Append(table.String(row.status), table.Int(row.score)))
	}

	cmp, err := summary.CompareScores(scores, model.ColStatus, model.ColPHASESScore)
	require.NoError(t, err)

	p, err := plot.ScoreHistogram(cmp, 0)
	require.NoError(t, err)
	assert.Equal(t, "Distribution of PHASES score by Status", p.Title.Text)

	var buf bytes.Buffer
	require.NoError(t, plot.WritePNG(&buf, p, plot.Options{Width: 2, Height: 2, DPI: 50}))
	_, err = png.Decode(&buf)
	require.NoError(t, err)

	empty, err := summary.CompareScores(scores.Filter(func(table.Row) bool { return false }), model.ColStatus, model.ColPHASESScore)
	require.NoError(t, err)
	_, err = plot.ScoreHistogram(empty, 0)
	require.ErrorIs(t, err, common.ErrEmptyDataset)
}
