// Package derive computes the derived aneurysm columns: the anatomical site
// grouping, the age bucket, and the PHASES-style composite score.
package derive

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/aneurisk/internal/common"
)

// SiteScore assigns a score to locations containing any of the substrings.
type SiteScore struct {
	Contains []string `yaml:"contains"`
	Score    int      `yaml:"score"`
}

// SiteGroup assigns a group name to locations containing any of the substrings.
type SiteGroup struct {
	Group    string   `yaml:"group"`
	Contains []string `yaml:"contains"`
}

// Bucket covers the half-open range [Min, Max). A nil bound is unbounded.
type Bucket struct {
	Min   *float64 `yaml:"min,omitempty"`
	Max   *float64 `yaml:"max,omitempty"`
	Label string   `yaml:"label,omitempty"`
	Score int      `yaml:"score,omitempty"`
}

// Contains reports whether v falls inside the bucket.
func (b Bucket) Contains(v float64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v >= *b.Max {
		return false
	}
	return true
}

// Rules holds every lookup table the deriver uses. Tables are evaluated in
// order and the first match wins.
type Rules struct {
	OtherSite  string      `yaml:"other_site"`
	SiteScores []SiteScore `yaml:"site_scores"`
	SiteGroups []SiteGroup `yaml:"site_groups"`
	AgeGroups  []Bucket    `yaml:"age_groups"`
	AgeScores  []Bucket    `yaml:"age_scores"`
	SizeScores []Bucket    `yaml:"size_scores"`
}

func bound(v float64) *float64 { return &v }

// DefaultRules returns the built-in rule tables.
func DefaultRules() Rules {
	return Rules{
		SiteScores: []SiteScore{
			{Contains: []string{"ICA"}, Score: 0},
			{Contains: []string{"MCA"}, Score: 2},
			{Contains: []string{"VA", "BA", "AComA"}, Score: 4},
		},
		SiteGroups: []SiteGroup{
			{Group: "ICA", Contains: []string{"ICA"}},
			{Group: "MCA", Contains: []string{"MCA"}},
			{Group: "AComA", Contains: []string{"AComA"}},
			{Group: "Posterior", Contains: []string{"VA", "BA"}},
		},
		OtherSite: "Other",
		AgeGroups: []Bucket{
			{Max: bound(40), Label: "<40"},
			{Min: bound(40), Max: bound(50), Label: "40-49"},
			{Min: bound(50), Max: bound(60), Label: "50-59"},
			{Min: bound(60), Max: bound(70), Label: "60-69"},
			{Min: bound(70), Label: "70+"},
		},
		AgeScores: []Bucket{
			{Max: bound(70), Score: 0},
			{Min: bound(70), Score: 1},
		},
		SizeScores: []Bucket{
			{Max: bound(7), Score: 0},
			{Min: bound(7), Max: bound(10), Score: 3},
			{Min: bound(10), Max: bound(20), Score: 6},
			{Min: bound(20), Score: 10},
		},
	}
}

// LoadRules reads a YAML rules file. Tables the file leaves out keep their
// built-in defaults. Failures carry a user message naming the file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path) //nolint:gosec // rules path comes from config
	if err == nil {
		var rules Rules
		if rules, err = ParseRules(data); err == nil {
			return rules, nil
		}
	}
	return Rules{}, common.NewUserError("Could not load rules file "+path, err)
}

// ParseRules decodes YAML rule tables over the defaults and validates them.
func ParseRules(data []byte) (Rules, error) {
	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Rules{}, fmt.Errorf("%w: rules file: %v", common.ErrInvalidConfig, err)
	}

	rules := DefaultRules()
	if override.SiteScores != nil {
		rules.SiteScores = override.SiteScores
	}
	if override.SiteGroups != nil {
		rules.SiteGroups = override.SiteGroups
	}
	if override.OtherSite != "" {
		rules.OtherSite = override.OtherSite
	}
	if override.AgeGroups != nil {
		rules.AgeGroups = override.AgeGroups
	}
	if override.AgeScores != nil {
		rules.AgeScores = override.AgeScores
	}
	if override.SizeScores != nil {
		rules.SizeScores = override.SizeScores
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate checks that substrings are non-empty and bucket tables are
// ordered and non-overlapping.
func (r Rules) Validate() error {
	if len(r.SiteScores) == 0 {
		return fmt.Errorf("%w: site_scores is empty", common.ErrInvalidConfig)
	}
	for i, rule := range r.SiteScores {
		if err := validateContains(rule.Contains); err != nil {
			return fmt.Errorf("site_scores[%d]: %w", i, err)
		}
	}
	for i, rule := range r.SiteGroups {
		if strings.TrimSpace(rule.Group) == "" {
			return fmt.Errorf("%w: site_groups[%d] has no group name", common.ErrInvalidConfig, i)
		}
		if err := validateContains(rule.Contains); err != nil {
			return fmt.Errorf("site_groups[%d]: %w", i, err)
		}
	}

	tables := []struct {
		name    string
		buckets []Bucket
	}{
		{"age_groups", r.AgeGroups},
		{"age_scores", r.AgeScores},
		{"size_scores", r.SizeScores},
	}
	for _, tbl := range tables {
		if err := validateBuckets(tbl.buckets); err != nil {
			return fmt.Errorf("%s: %w", tbl.name, err)
		}
	}
	return nil
}

func validateContains(subs []string) error {
	if len(subs) == 0 {
		return fmt.Errorf("%w: contains is empty", common.ErrInvalidConfig)
	}
	for _, s := range subs {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: empty substring", common.ErrInvalidConfig)
		}
	}
	return nil
}

func validateBuckets(buckets []Bucket) error {
	if len(buckets) == 0 {
		return fmt.Errorf("%w: no buckets", common.ErrInvalidConfig)
	}
	prevMax := math.Inf(-1)
	for i, b := range buckets {
		lo, hi := math.Inf(-1), math.Inf(1)
		if b.Min != nil {
			lo = *b.Min
		}
		if b.Max != nil {
			hi = *b.Max
		}
		if lo >= hi {
			return fmt.Errorf("%w: bucket %d has min %v >= max %v", common.ErrInvalidConfig, i, lo, hi)
		}
		if i > 0 && lo < prevMax {
			return fmt.Errorf("%w: bucket %d overlaps bucket %d", common.ErrInvalidConfig, i, i-1)
		}
		if i < len(buckets)-1 && b.Max == nil {
			return fmt.Errorf("%w: only the last bucket may be unbounded above", common.ErrInvalidConfig)
		}
		prevMax = hi
	}
	return nil
}
