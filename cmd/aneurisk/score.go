package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneurisk/internal/cli"
	"github.com/Veraticus/aneurisk/internal/config"
	"github.com/Veraticus/aneurisk/internal/table"
)

func scoreCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "score <input>",
		Short: "Clean a dataset and add Site, age_group and PHASES score",
		Args:  cobra.ExactArgs(1),
		Example: `  aneurisk score aneurysms.csv -o scored.csv
  aneurisk score aneurysms.csv -o scored.xlsx --rules rules.yaml --on-unresolved skip`,
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

			path := config.ExpandPath(output)
			if err := table.Save(path, prepared.Table); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printUnresolved(out, prepared.Unresolved)
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Scored %d records into %s", prepared.Table.Len(), path)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "scored.csv", "output file (.csv, .xlsx or .json)")

	return cmd
}
