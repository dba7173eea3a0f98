package lessons

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/summary"
)

// Tolerance is the absolute error allowed when comparing floats.
const Tolerance = 1e-9

// CheckResult is the outcome of one documented example.
type CheckResult struct {
	Name   string
	Want   string
	Got    string
	Passed bool
}

type check struct {
	run  func() (got string, passed bool)
	name string
	want string
}

func checks() []check {
	return []check{
		{
			name: "calculate_bmi(70, 1.75)",
			want: "22.857142857142858",
			run: func() (string, bool) {
				bmi, err := CalculateBMI(70, 1.75)
				if err != nil {
					return err.Error(), false
				}
				return fmt.Sprint(bmi), approx(bmi, 22.857142857142858)
			},
		},
		{
			name: "is_healthy_bmi(22.857)",
			want: "true",
			run: func() (string, bool) {
				ok := IsHealthyBMI(22.857142857142858)
				return fmt.Sprint(ok), ok
			},
		},
		{
			name: "calculate_dosage(weight=0, age=30)",
			want: MsgDosageInput,
			run: func() (string, bool) {
				_, err := CalculateDosage(0, 30)
				msg := common.UserMessage(err)
				return msg, msg == MsgDosageInput
			},
		},
		{
			name: "divide_numbers(10, 0)",
			want: MsgDivisionByZero,
			run: func() (string, bool) {
				_, err := DivideNumbers(10, 0)
				msg := common.UserMessage(err)
				return msg, msg == MsgDivisionByZero
			},
		},
		{
			name: "glucose where age > 50",
			want: "[110 150 105] mean 121.667",
			run: func() (string, bool) {
				values, err := OlderThan(GlucoseTable(), 50)
				if err != nil {
					return err.Error(), false
				}
				mean, err := summary.Mean(values)
				if err != nil {
					return err.Error(), false
				}
				got := fmt.Sprintf("%v mean %.3f", values, mean)
				return got, slices.Equal(values, []float64{110, 150, 105}) && approx(mean, 365.0/3)
			},
		},
		{
			name: "sales groupby(region).amount.mean()",
			want: "North: 110.0, South: 110.0",
			run: func() (string, bool) {
				g, err := summary.GroupBy(SalesTable(), "region", "amount")
				if err != nil {
					return err.Error(), false
				}
				means := g.Means()
				got := fmt.Sprintf("North: %.1f, South: %.1f", means["North"], means["South"])
				return got, len(means) == 2 && approx(means["North"], 110) && approx(means["South"], 110)
			},
		},
	}
}

// Check runs every documented example and reports each outcome.
func Check(ctx context.Context) ([]CheckResult, error) {
	all := checks()
	results := make([]CheckResult, 0, len(all))
	for _, c := range all {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		got, passed := c.run()
		results = append(results, CheckResult{
			Name:   c.name,
			Want:   c.want,
			Got:    got,
			Passed: passed,
		})
	}
	return results, nil
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}
