package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneurisk/internal/cli"
	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/config"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/table"
)

func convertCmd() *cobra.Command {
	var (
		raw     bool
		columns []string
		drop    []string
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a dataset between CSV, Excel and JSON",
		Long: `Convert a dataset between formats. The aneurysm schema is applied by
default so columns keep their types; --raw converts any table with inferred types.`,
		Example: `  aneurisk convert aneurysms.xlsx aneurysms.csv
  aneurisk convert results.csv results.json --raw
  aneurisk convert aneurysms.csv sizes.xlsx --columns PatientID,Dmax,Dn,H`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := config.ExpandPath(args[0]), config.ExpandPath(args[1])

			var (
				t   *table.Table
				err error
			)
			if raw {
				t, err = table.Open(in, table.Schema{})
			} else {
				t, err = model.Load(in)
			}
			if err != nil {
				return err
			}

			if len(columns) > 0 {
				if t, err = t.Select(columns...); err != nil {
					return err
				}
			}
			for _, name := range drop {
				if !t.Has(name) {
					common.LogWarn("Column to drop not in data", common.Fields{"column": name})
					continue
				}
				t.DropColumn(name)
			}

			if err := table.Save(out, t); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Converted %d records to %s", t.Len(), out)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "skip the aneurysm schema and infer column types")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "keep only these columns, in this order")
	cmd.Flags().StringSliceVar(&drop, "drop", nil, "remove these columns")

	return cmd
}
