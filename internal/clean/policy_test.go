package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/model"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		raw     string
		want    Policy
		wantErr bool
	}{
		{raw: "", want: Policy{Action: ActionKeep}},
		{raw: "Drop", want: Policy{Action: ActionDrop}},
		{raw: " mean ", want: Policy{Action: ActionMean}},
		{raw: "median", want: Policy{Action: ActionMedian}},
		{raw: "mode", want: Policy{Action: ActionMode}},
		{raw: "value:Unknown", want: Policy{Action: ActionValue, Value: "Unknown"}},
		{raw: "value:0", want: Policy{Action: ActionValue, Value: "0"}},
		{raw: "value:", wantErr: true},
		{raw: "interpolate", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePolicy(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := ParsePolicy(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestParsePolicies(t *testing.T) {
	got, err := ParsePolicies(map[string]string{"Age": "median", "Side": "value:L"})
	require.NoError(t, err)
	assert.Equal(t, Policy{Action: ActionMedian}, got["Age"])
	assert.Equal(t, Policy{Action: ActionValue, Value: "L"}, got["Side"])

	_, err = ParsePolicies(map[string]string{"Age": "guess"})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Contains(t, err.Error(), `column "Age"`)
}

func TestDefaultPolicies(t *testing.T) {
	p := DefaultPolicies()
	assert.Equal(t, ActionDrop, p[model.ColAge].Action)
	assert.Equal(t, ActionDrop, p[model.ColLocation].Action)
	for _, col := range model.MeasurementColumns {
		assert.Equal(t, ActionMean, p[col].Action, col)
	}
}

func TestParseSubset(t *testing.T) {
	sub, err := ParseSubset("")
	require.NoError(t, err)
	assert.Nil(t, sub)

	sub, err = ParseSubset("Status = ruptured, unruptured")
	require.NoError(t, err)
	assert.Equal(t, &Subset{Column: "Status", Values: []string{"ruptured", "unruptured"}}, sub)
	assert.True(t, sub.matches("Ruptured"))
	assert.False(t, sub.matches("rupt"))

	sub, err = ParseSubset("Location~ica")
	require.NoError(t, err)
	assert.Equal(t, &Subset{Column: "Location", Contains: "ica"}, sub)
	assert.True(t, sub.matches("left ICA"))
	assert.False(t, sub.matches("MCA"))

	for _, bad := range []string{"Status", "=ruptured", "Status=", "~ICA", "Location~"} {
		_, err := ParseSubset(bad)
		require.ErrorIs(t, err, common.ErrInvalidConfig, bad)
	}
}
