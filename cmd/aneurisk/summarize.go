package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneurisk/internal/cli"
	"github.com/Veraticus/aneurisk/internal/config"
	"github.com/Veraticus/aneurisk/internal/pipeline"
)

func summarizeCmd() *cobra.Command {
	var (
		outDir string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "summarize <input>",
		Short: "Print descriptive statistics, group means, crosstabs and correlations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPipeline()
			if err != nil {
				return err
			}
			runner, _, err := newRunner(cfg, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}

			prepared, err := runner.Prepare(cmd.Context(), config.ExpandPath(args[0]))
			if err != nil {
				return err
			}
			report, err := pipeline.Summarize(prepared.Table, cfg.GroupBy)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printUnresolved(out, prepared.Unresolved)
			for _, nt := range report.Tables() {
				fmt.Fprintln(out, cli.FormatTitle(nt.Name))
				fmt.Fprintln(out, cli.RenderTable(nt.Table, limit))
			}

			if outDir == "" {
				return nil
			}
			files, err := runner.Export(prepared.Table, report, config.ExpandPath(outDir))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Wrote %d files to %s", len(files), outDir)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "also export the summaries into this directory")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows shown per table (0 shows all)")

	return cmd
}
