package lessons

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/summary"
)

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(70, 1.75)
	require.NoError(t, err)
	assert.InDelta(t, 22.857142857142858, bmi, Tolerance)

	for _, h := range []float64{0, -1.7} {
		_, err := CalculateBMI(70, h)
		require.ErrorIs(t, err, common.ErrValueOutOfRange)
	}
}

func TestIsHealthyBMI(t *testing.T) {
	tests := []struct {
		bmi  float64
		want bool
	}{
		{bmi: 18.4, want: false},
		{bmi: 18.5, want: true},
		{bmi: 22.857, want: true},
		{bmi: 24.9, want: true},
		{bmi: 25, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsHealthyBMI(tt.bmi), "bmi %v", tt.bmi)
	}
}

func TestCalculateDosage(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		age    float64
		want   float64
	}{
		{name: "adult", weight: 70, age: 30, want: 140},
		{name: "just under senior", weight: 80, age: 64, want: 160},
		{name: "senior", weight: 80, age: 65, want: 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dose, err := CalculateDosage(tt.weight, tt.age)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, dose, Tolerance)
		})
	}

	for _, in := range [][2]float64{{0, 30}, {70, 0}, {-5, 30}, {70, -1}} {
		_, err := CalculateDosage(in[0], in[1])
		require.ErrorIs(t, err, common.ErrValueOutOfRange)
		assert.Equal(t, MsgDosageInput, common.UserMessage(err))
		assert.Equal(t, "Error: Weight and age must be positive numbers.", err.Error())
	}
}

func TestDivideNumbers(t *testing.T) {
	q, err := DivideNumbers(10, 4)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, q, Tolerance)

	_, err = DivideNumbers(10, 0)
	require.ErrorIs(t, err, common.ErrDivisionByZero)
	assert.Equal(t, MsgDivisionByZero, common.UserMessage(err))
}

func TestGlucoseOverFifty(t *testing.T) {
	values, err := OlderThan(GlucoseTable(), 50)
	require.NoError(t, err)
	assert.Equal(t, []float64{110, 150, 105}, values)

	mean, err := summary.Mean(values)
	require.NoError(t, err)
	assert.InDelta(t, 121.66666666666667, mean, Tolerance)

	assert.Equal(t, 9, GlucoseTable().Len())
}

func TestSalesMeans(t *testing.T) {
	g, err := summary.GroupBy(SalesTable(), "region", "amount")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"North": 110, "South": 110}, g.Means())
}

func TestCheck(t *testing.T) {
	results, err := Check(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 6)
	for _, r := range results {
		assert.True(t, r.Passed, "%s: got %s, want %s", r.Name, r.Got, r.Want)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Check(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
