package main

import (
	"fmt"

	"github.com/spf13/cobra"
	gonumplot "gonum.org/v1/plot"

	"github.com/Veraticus/aneurisk/internal/cli"
	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/config"
	"github.com/Veraticus/aneurisk/internal/pipeline"
	"github.com/Veraticus/aneurisk/internal/plot"
	"github.com/Veraticus/aneurisk/internal/summary"
)

func plotCmd() *cobra.Command {
	var (
		kind   string
		column string
		by     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "plot <input>",
		Short: "Render one chart as PNG",
		Long: `Render a histogram, box plot or correlation heatmap from a cleaned and
scored dataset. Use "run" to render every standard chart at once.`,
		Example: `  aneurisk plot aneurysms.csv --kind hist --column Dmax --by Status -o dmax.png
  aneurisk plot aneurysms.csv --kind box --column "PHASES score" --by Site -o score.png
  aneurisk plot aneurysms.csv --kind heatmap -o correlation.png`,
		Args: cobra.ExactArgs(1),
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
			t := prepared.Table

			var p *gonumplot.Plot
			switch kind {
			case "hist":
				p, err = plot.Histogram(t, column, by, cfg.Bins)
			case "box":
				if by == "" {
					return fmt.Errorf("%w: box plots need --by", common.ErrInvalidConfig)
				}
				p, err = plot.BoxPlot(t, column, by)
			case "heatmap":
				var m *summary.Matrix
				if m, err = summary.Correlation(t, pipeline.MeasuredColumns(t)...); err == nil {
					p, err = plot.Heatmap(m)
				}
			default:
				return fmt.Errorf("%w: plot kind %q (want hist, box or heatmap)", common.ErrInvalidConfig, kind)
			}
			if err != nil {
				return err
			}

			path := config.ExpandPath(output)
			if err := plot.Save(p, path, cfg.Plot); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+path))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "hist", "chart kind (hist, box, heatmap)")
	cmd.Flags().StringVar(&column, "column", "Dmax", "column to plot")
	cmd.Flags().StringVar(&by, "by", "", "column to group by")
	cmd.Flags().StringVarP(&output, "output", "o", "plot.png", "output PNG file")

	return cmd
}
