package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/aneurisk/internal/cli"
	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/lessons"
)

var errChecksFailed = errors.New("documented examples failed")

func lessonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "Run the documented tutorial examples",
		Long: `Run every documented example from the tutorials and compare the result
with the documented output. Subcommands evaluate single helpers.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := lessons.Check(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.Passed {
					fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s = %s", r.Name, r.Got)))
					continue
				}
				failed++
				fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%s = %s (want %s)", r.Name, r.Got, r.Want)))
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errChecksFailed, failed, len(results))
			}
			return nil
		},
	}

	cmd.AddCommand(bmiCmd())
	cmd.AddCommand(dosageCmd())
	cmd.AddCommand(divideCmd())

	return cmd
}

func bmiCmd() *cobra.Command {
	var weight, height float64

	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Compute body-mass index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bmi, err := lessons.CalculateBMI(weight, height)
			if err != nil {
				return err
			}
			verdict := "outside the healthy range"
			if lessons.IsHealthyBMI(bmi) {
				verdict = "healthy"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "BMI %.2f (%s)\n", bmi, verdict)
			return nil
		},
	}

	cmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg")
	cmd.Flags().Float64Var(&height, "height", 0, "height in m")

	return cmd
}

func dosageCmd() *cobra.Command {
	var weight, age float64

	cmd := &cobra.Command{
		Use:   "dosage",
		Short: "Compute a weight- and age-based dose",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dose, err := lessons.CalculateDosage(weight, age)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), common.UserMessage(err))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f mg\n", dose)
			return nil
		},
	}

	cmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg")
	cmd.Flags().Float64Var(&age, "age", 0, "age in years")

	return cmd
}

func divideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "divide <a> <b>",
		Short: "Divide two numbers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", common.ErrTypeMismatch, args[0])
			}
			b, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", common.ErrTypeMismatch, args[1])
			}
			q, err := lessons.DivideNumbers(a, b)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), common.UserMessage(err))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(q, 'g', -1, 64))
			return nil
		},
	}
}
