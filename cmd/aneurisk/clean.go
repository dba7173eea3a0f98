package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneurisk/internal/clean"
	"github.com/Veraticus/aneurisk/internal/cli"
	"github.com/Veraticus/aneurisk/internal/config"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/table"
)

func cleanCmd() *cobra.Command {
	var (
		output  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "clean <input>",
		Short: "Apply missing-value policies and write the cleaned records",
		Long: `Load a dataset, apply the configured subset, drop and fill policies, and
write the result. Policies come from clean.policies in the config file.`,
		Example: `  aneurisk clean aneurysms.csv -o cleaned.csv
  aneurisk clean aneurysms.csv -o ruptured.xlsx --subset Status=ruptured`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadPipeline()
			if err != nil {
				return err
			}

			t, err := model.Load(config.ExpandPath(args[0]))
			if err != nil {
				return err
			}

			res, err := clean.New(clean.Config{Policies: cfg.Policies, Subset: cfg.Subset}).Clean(cmd.Context(), t)
			if err != nil {
				return err
			}

			path := config.ExpandPath(output)
			if err := table.Save(path, res.Table); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verbose {
				for _, op := range res.Operations {
					fmt.Fprintf(out, "  • PatientID %d: %s %s %s\n", op.PatientID, op.Operation, op.Column, op.NewValue)
				}
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
				"Wrote %d of %d records to %s (%d subsetted out, %d dropped, %d cells filled)",
				res.Table.Len(), t.Len(), path, res.Subsetted, res.Dropped, res.Filled)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "cleaned.csv", "output file (.csv, .xlsx or .json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every cleaning operation")

	return cmd
}
