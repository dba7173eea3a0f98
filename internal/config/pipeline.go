package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/aneurisk/internal/clean"
	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/derive"
	"github.com/Veraticus/aneurisk/internal/plot"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Pipeline is the resolved configuration of one analysis run.
type Pipeline struct {
	Policies     map[string]clean.Policy
	Subset       *clean.Subset
	Rules        derive.Rules
	OnUnresolved derive.Policy
	OutputFormat table.Format
	RulesFile    string
	GroupBy      []string
	Plot         plot.Options
	Bins         int
}

// SetDefaults registers default values for every pipeline key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("derive.on_unresolved", string(derive.PolicyFail))
	v.SetDefault("plot.dpi", plot.DefaultOptions().DPI)
	v.SetDefault("plot.width", plot.DefaultOptions().Width)
	v.SetDefault("plot.height", plot.DefaultOptions().Height)
	v.SetDefault("plot.bins", 0)
	v.SetDefault("summary.group_by", []string{"Status", "Site"})
	v.SetDefault("output.format", string(table.FormatCSV))
}

// Load reads the pipeline configuration from Viper.
// It follows this precedence:
// 1. Flags bound to Viper keys
// 2. Config file or ANEURISK_ environment variables
// 3. Built-in defaults
func Load(v *viper.Viper) (*Pipeline, error) {
	cfg := &Pipeline{
		Policies: clean.DefaultPolicies(),
		Rules:    derive.DefaultRules(),
		Plot: plot.Options{
			DPI:    v.GetInt("plot.dpi"),
			Width:  v.GetFloat64("plot.width"),
			Height: v.GetFloat64("plot.height"),
		},
		Bins:    v.GetInt("plot.bins"),
		GroupBy: v.GetStringSlice("summary.group_by"),
	}

	if raw := v.GetStringMapString("clean.policies"); len(raw) > 0 {
		overrides, err := clean.ParsePolicies(raw)
		if err != nil {
			return nil, err
		}
		// Viper lower-cases keys, so merge on lower-cased column names.
		merged := make(map[string]clean.Policy, len(cfg.Policies)+len(overrides))
		for col, p := range cfg.Policies {
			merged[strings.ToLower(col)] = p
		}
		for col, p := range overrides {
			merged[strings.ToLower(col)] = p
		}
		cfg.Policies = merged
	}

	subset, err := clean.ParseSubset(v.GetString("clean.subset"))
	if err != nil {
		return nil, err
	}
	cfg.Subset = subset

	if path := v.GetString("derive.rules_file"); path != "" {
		cfg.RulesFile = ExpandPath(path)
		rules, err := derive.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		cfg.Rules = rules
	}

	cfg.OnUnresolved, err = derive.ParsePolicy(v.GetString("derive.on_unresolved"))
	if err != nil {
		return nil, err
	}

	switch format := table.Format(strings.ToLower(v.GetString("output.format"))); format {
	case table.FormatCSV, table.FormatExcel, table.FormatJSON:
		cfg.OutputFormat = format
	case "":
		cfg.OutputFormat = table.FormatCSV
	default:
		return nil, fmt.Errorf("%w: output format %q (want csv, xlsx or json)", common.ErrInvalidConfig, format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric plot settings.
func (p *Pipeline) Validate() error {
	if p.Plot.DPI < 0 || p.Plot.DPI > 1200 {
		return fmt.Errorf("%w: plot.dpi %d out of range (1-1200)", common.ErrInvalidConfig, p.Plot.DPI)
	}
	if p.Plot.Width < 0 || p.Plot.Height < 0 {
		return fmt.Errorf("%w: plot size must be positive", common.ErrInvalidConfig)
	}
	if p.Bins < 0 {
		return fmt.Errorf("%w: plot.bins must not be negative", common.ErrInvalidConfig)
	}
	return nil
}
