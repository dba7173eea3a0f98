package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/aneurisk/internal/cli"
	"github.com/Veraticus/aneurisk/internal/config"
	"github.com/Veraticus/aneurisk/internal/derive"
	"github.com/Veraticus/aneurisk/internal/pipeline"
)

// envKeyReplacer maps nested keys such as derive.on_unresolved onto
// ANEURISK_DERIVE_ON_UNRESOLVED.
var envKeyReplacer = strings.NewReplacer(".", "_")

func bindFlag(key, flag string) {
	_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
}

// loadPipeline resolves the pipeline configuration from flags, env and file.
func loadPipeline() (*config.Pipeline, error) {
	return config.Load(viper.GetViper())
}

// newRunner builds a runner, with a stage progress bar on w unless quiet.
func newRunner(cfg *config.Pipeline, w io.Writer, quiet bool, opts ...pipeline.Option) (*pipeline.Runner, *progressObserver, error) {
	var obs *progressObserver
	if !quiet {
		obs = &progressObserver{progress: cli.NewStageProgress(w, len(pipeline.Stages))}
		opts = append(opts, pipeline.WithObserver(obs))
	}
	r, err := pipeline.NewRunner(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return r, obs, nil
}

// progressObserver feeds pipeline stages into a progress bar.
type progressObserver struct {
	progress *cli.StageProgress
}

func (o *progressObserver) StageStarted(s pipeline.Stage) { o.progress.Start(string(s)) }
func (o *progressObserver) StageFinished(pipeline.Stage)  { o.progress.Done() }

func (o *progressObserver) finish() {
	if o != nil {
		o.progress.Finish()
	}
}

// printUnresolved lists records that could not be scored.
func printUnresolved(w io.Writer, unresolved []derive.Unresolved) {
	if len(unresolved) == 0 {
		return
	}
	fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("%d record(s) could not be scored", len(unresolved))))
	for _, u := range unresolved {
		fmt.Fprintf(w, "  • PatientID %d: %s\n", u.PatientID, u.Reason)
	}
}
