package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneurisk/internal/cli"
	"github.com/Veraticus/aneurisk/internal/config"
	"github.com/Veraticus/aneurisk/internal/pipeline"
)

func runCmd() *cobra.Command {
	var (
		outDir  string
		noPlots bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Run the whole pipeline",
		Long: `Load, clean and score a dataset, then write the cleaned records, every
summary table, the standard charts and a manifest.json into the output directory.`,
		Example: `  # Analyze a CSV export into ./out
  aneurisk run aneurysms.csv --out out

  # Keep records that cannot be scored, leaving their score blank
  aneurisk run aneurysms.xlsx --out out --on-unresolved blank --format xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPipeline()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			runner, obs, err := newRunner(cfg, cmd.ErrOrStderr(), quiet, pipeline.WithPlots(!noPlots))
			if err != nil {
				return err
			}

			m, err := runner.Run(cmd.Context(), config.ExpandPath(args[0]), config.ExpandPath(outDir))
			obs.finish()
			if err != nil {
				return err
			}

			printUnresolved(out, m.Unresolved)
			summary := fmt.Sprintf("Run ID:     %s\n", m.RunID) +
				fmt.Sprintf("Records:    %d loaded, %d cleaned, %d scored\n", m.Rows.Loaded, m.Rows.Cleaned, m.Rows.Scored) +
				fmt.Sprintf("Operations: %d\n", len(m.Operations)) +
				fmt.Sprintf("Files:      %d in %s\n", len(m.Files), m.OutputDir) +
				fmt.Sprintf("Manifest:   %s", filepath.Join(m.OutputDir, pipeline.ManifestName))
			fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Run Complete", summary))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "out", "output directory")
	cmd.Flags().BoolVar(&noPlots, "no-plots", false, "skip chart rendering")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")

	return cmd
}
