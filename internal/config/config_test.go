package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/aneurisk/internal/clean"
	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/derive"
	"github.com/Veraticus/aneurisk/internal/table"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, derive.PolicyFail, cfg.OnUnresolved)
	assert.Equal(t, table.FormatCSV, cfg.OutputFormat)
	assert.Equal(t, []string{"Status", "Site"}, cfg.GroupBy)
	assert.Equal(t, 96, cfg.Plot.DPI)
	assert.Nil(t, cfg.Subset)
	assert.Equal(t, derive.DefaultRules(), cfg.Rules)
	assert.Equal(t, clean.DefaultPolicies(), cfg.Policies)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("other_site: Unlisted\n"), 0o600))

	v := newViper(t)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
clean:
  subset: "Status=ruptured"
  policies:
    Age: median
    Side: "value:unknown"
derive:
  rules_file: `+rulesPath+`
  on_unresolved: blank
plot:
  dpi: 150
  bins: 8
summary:
  group_by: [Site]
output:
  format: XLSX
`)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, derive.PolicyBlank, cfg.OnUnresolved)
	assert.Equal(t, table.FormatExcel, cfg.OutputFormat)
	assert.Equal(t, []string{"Site"}, cfg.GroupBy)
	assert.Equal(t, 150, cfg.Plot.DPI)
	assert.Equal(t, 8, cfg.Bins)
	assert.Equal(t, "Unlisted", cfg.Rules.OtherSite)
	assert.Equal(t, rulesPath, cfg.RulesFile)
	require.NotNil(t, cfg.Subset)
	assert.Equal(t, "Status", cfg.Subset.Column)

	assert.Equal(t, clean.Policy{Action: clean.ActionMedian}, cfg.Policies["age"], "overrides replace defaults")
	assert.Equal(t, clean.Policy{Action: clean.ActionValue, Value: "unknown"}, cfg.Policies["side"])
	assert.Equal(t, clean.Policy{Action: clean.ActionMean}, cfg.Policies["dmax"], "untouched defaults survive")
	assert.Len(t, cfg.Policies, len(clean.DefaultPolicies())+1)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{key: "derive.on_unresolved", value: "zero"},
		{key: "output.format", value: "parquet"},
		{key: "clean.subset", value: "Status"},
		{key: "clean.policies", value: map[string]string{"Age": "guess"}},
		{key: "plot.dpi", value: 5000},
		{key: "plot.bins", value: -1},
		{key: "plot.width", value: -2.0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper(t)
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadMissingRulesFile(t *testing.T) {
	v := newViper(t)
	v.Set("derive.rules_file", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load(v)
	require.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("ANEURISK_TEST_DIR", "/data")

	tests := map[string]string{
		"":                         "",
		"~":                        home,
		"~/out":                    filepath.Join(home, "out"),
		"$ANEURISK_TEST_DIR/a.csv": "/data/a.csv",
		"relative/a.csv":           "relative/a.csv",
		"~user/a.csv":              "~user/a.csv",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExpandPath(in), in)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "describe.xlsx"), OutputPath("out", "describe", "xlsx"))
	assert.Equal(t, filepath.Join("out", "cleaned.csv"), OutputPath("out", "cleaned.json", ".csv"))
}
