// Package pipeline runs the full analysis: load, clean, derive, summarize,
// plot and export, recording each run in a manifest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/aneurisk/internal/clean"
	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/config"
	"github.com/Veraticus/aneurisk/internal/derive"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/plot"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Stage names a step of a run.
type Stage string

// Run stages, in execution order.
const (
	StageLoad      Stage = "load"
	StageClean     Stage = "clean"
	StageDerive    Stage = "derive"
	StageSummarize Stage = "summarize"
	StagePlot      Stage = "plot"
	StageExport    Stage = "export"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageLoad, StageClean, StageDerive, StageSummarize, StagePlot, StageExport}

// Observer is told when each stage starts and finishes.
type Observer interface {
	StageStarted(stage Stage)
	StageFinished(stage Stage)
}

type nopObserver struct{}

func (nopObserver) StageStarted(Stage)  {}
func (nopObserver) StageFinished(Stage) {}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver reports stage progress to o.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithPlots toggles chart rendering. Plots are on by default.
func WithPlots(enabled bool) Option {
	return func(r *Runner) {
		r.plots = enabled
	}
}

// WithClock overrides the time source used for manifest timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// Runner executes pipeline runs with a fixed configuration.
type Runner struct {
	cfg      *config.Pipeline
	cleaner  *clean.Cleaner
	deriver  *derive.Deriver
	observer Observer
	now      func() time.Time
	plots    bool
}

// NewRunner builds a runner from a resolved configuration.
func NewRunner(cfg *config.Pipeline, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: pipeline configuration", common.ErrMissingConfig)
	}
	scorer, err := derive.NewScorer(cfg.Rules)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		cleaner:  clean.New(clean.Config{Policies: cfg.Policies, Subset: cfg.Subset}),
		deriver:  derive.NewDeriver(scorer, cfg.OnUnresolved),
		observer: nopObserver{},
		now:      time.Now,
		plots:    true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Prepare loads, cleans and derives a record set without writing anything.
func (r *Runner) Prepare(ctx context.Context, input string) (*Prepared, error) {
	p := &Prepared{}

	if err := r.stage(ctx, StageLoad, func() error {
		t, err := model.Load(input)
		if err != nil {
			return err
		}
		p.Loaded = t.Len()
		p.Table = t
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, StageClean, func() error {
		res, err := r.cleaner.Clean(ctx, p.Table)
		if err != nil {
			return err
		}
		p.Table = res.Table
		p.Cleaning = res
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.stage(ctx, StageDerive, func() error {
		res, err := r.deriver.Derive(ctx, p.Table)
		if err != nil {
			return err
		}
		p.Table = res.Table
		p.Unresolved = res.Unresolved
		return nil
	}); err != nil {
		return nil, err
	}

	return p, nil
}

// Prepared is a loaded, cleaned and scored record set.
type Prepared struct {
	Table      *table.Table
	Cleaning   *clean.Result
	Unresolved []derive.Unresolved
	Loaded     int
}

// Run executes every stage and writes all outputs under outDir.
func (r *Runner) Run(ctx context.Context, input, outDir string) (*Manifest, error) {
	m := &Manifest{
		RunID:        uuid.NewString(),
		StartedAt:    r.now().UTC(),
		Input:        input,
		OutputDir:    outDir,
		OnUnresolved: string(r.cfg.OnUnresolved),
	}

	common.LogInfo("Starting run", common.Fields{"run_id": m.RunID, "input": input})

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	prepared, err := r.Prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	m.Rows = RowCounts{
		Loaded:  prepared.Loaded,
		Cleaned: prepared.Cleaning.Table.Len(),
		Scored:  prepared.Table.Len(),
	}
	m.Operations = prepared.Cleaning.Operations
	m.Unresolved = prepared.Unresolved

	var report *Report
	if err := r.stage(ctx, StageSummarize, func() error {
		report, err = Summarize(prepared.Table, r.cfg.GroupBy)
		return err
	}); err != nil {
		return nil, err
	}

	if r.plots {
		if err := r.stage(ctx, StagePlot, func() error {
			files, err := r.Plot(prepared.Table, report, outDir)
			m.Files = append(m.Files, files...)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if err := r.stage(ctx, StageExport, func() error {
		files, err := r.Export(prepared.Table, report, outDir)
		m.Files = append(m.Files, files...)
		return err
	}); err != nil {
		return nil, err
	}

	m.FinishedAt = r.now().UTC()
	path := filepath.Join(outDir, ManifestName)
	if err := m.Save(path); err != nil {
		return nil, err
	}

	common.LogInfo("Run complete", common.Fields{
		"run_id": m.RunID,
		"rows":   m.Rows.Scored,
		"files":  len(m.Files),
	})
	return m, nil
}

// Export writes the cleaned records and every summary table in the
// configured output format.
func (r *Runner) Export(t *table.Table, report *Report, outDir string) ([]string, error) {
	ext := string(r.cfg.OutputFormat)
	var files []string

	path := config.OutputPath(outDir, "cleaned", ext)
	if err := table.Save(path, t); err != nil {
		return files, err
	}
	files = append(files, path)

	if report == nil {
		return files, nil
	}
	for _, nt := range report.Tables() {
		path := config.OutputPath(outDir, nt.Name, ext)
		if err := table.Save(path, nt.Table); err != nil {
			return files, fmt.Errorf("summary %s: %w", nt.Name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

// Plot renders the standard charts, the score histogram and the correlation
// heatmap. Charts whose columns are absent are skipped.
func (r *Runner) Plot(t *table.Table, report *Report, outDir string) ([]string, error) {
	var files []string
	save := func(name string, build func() (*plotPlot, error)) error {
		p, err := build()
		if errors.Is(err, common.ErrEmptyDataset) {
			common.LogWarn("Skipping chart with no data", common.Fields{"chart": name})
			return nil
		}
		if err != nil {
			return fmt.Errorf("plot %s: %w", name, err)
		}
		path := config.OutputPath(outDir, FileSafe(name), "png")
		if err := plot.Save(p, path, r.cfg.Plot); err != nil {
			return err
		}
		files = append(files, path)
		return nil
	}

	for _, chart := range StandardCharts {
		if !t.Has(chart.Column) || (chart.By != "" && !t.Has(chart.By)) {
			continue
		}
		if err := save(chart.Name(), func() (*plotPlot, error) {
			if chart.Box {
				return plot.BoxPlot(t, chart.Column, chart.By)
			}
			return plot.Histogram(t, chart.Column, chart.By, r.cfg.Bins)
		}); err != nil {
			return files, err
		}
	}

	if report != nil && report.Scores != nil {
		name := Chart{Column: report.Scores.Score, By: report.Scores.Label}.Name()
		if err := save(name, func() (*plotPlot, error) {
			return plot.ScoreHistogram(report.Scores, r.cfg.Bins)
		}); err != nil {
			return files, err
		}
	}

	if report != nil && report.Correlation != nil {
		if err := save("heatmap_correlation", func() (*plotPlot, error) {
			return plot.Heatmap(report.Correlation)
		}); err != nil {
			return files, err
		}
	}
	return files, nil
}

func (r *Runner) stage(ctx context.Context, s Stage, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.observer.StageStarted(s)
	start := time.Now()
	if err := fn(); err != nil {
		common.LogError(err, "Stage failed", common.Fields{"stage": string(s)})
		return fmt.Errorf("%s: %w", s, err)
	}
	r.observer.StageFinished(s)
	common.LogDebug("Stage finished", common.Fields{
		"stage":    string(s),
		"duration": time.Since(start).String(),
	})
	return nil
}
