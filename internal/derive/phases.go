package derive

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/model"
	"github.com/Veraticus/aneurisk/internal/table"
)

// Reasons a record cannot be scored.
var (
	ErrUnknownLocation = errors.New("location matches no site rule")
	ErrMissingLocation = errors.New("location is missing")
	ErrMissingAge      = errors.New("age is missing")
	ErrMissingDmax     = errors.New("Dmax is missing")
	ErrNoBucket        = errors.New("value falls in no bucket")
)

// Breakdown is the per-component score of one record.
type Breakdown struct {
	Site  int
	Age   int
	Size  int
	Total int
}

// Scorer maps location, age and maximum diameter onto bucket scores.
type Scorer struct {
	rules Rules
}

// NewScorer validates the rules and returns a scorer.
func NewScorer(rules Rules) (*Scorer, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{rules: rules}, nil
}

// SiteScore returns the score of the first site rule whose substring the
// location contains.
func (s *Scorer) SiteScore(location string) (int, error) {
	for _, rule := range s.rules.SiteScores {
		if containsAny(location, rule.Contains) {
			return rule.Score, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, location)
}

// AgeScore returns the age bucket score.
func (s *Scorer) AgeScore(age float64) (int, error) {
	b, err := lookup(s.rules.AgeScores, age)
	if err != nil {
		return 0, fmt.Errorf("age %v: %w", age, err)
	}
	return b.Score, nil
}

// SizeScore returns the Dmax bucket score.
func (s *Scorer) SizeScore(dmax float64) (int, error) {
	b, err := lookup(s.rules.SizeScores, dmax)
	if err != nil {
		return 0, fmt.Errorf("Dmax %v: %w", dmax, err)
	}
	return b.Score, nil
}

// Score computes the composite score of one record. Every input is required;
// a missing input or an unmatched location is an error, never a zero.
func (s *Scorer) Score(r table.Row) (Breakdown, error) {
	location, ok := r.String(model.ColLocation)
	if !ok {
		return Breakdown{}, ErrMissingLocation
	}
	age, ok := r.Float(model.ColAge)
	if !ok || math.IsNaN(age) {
		return Breakdown{}, ErrMissingAge
	}
	dmax, ok := r.Float(model.ColDmax)
	if !ok || math.IsNaN(dmax) {
		return Breakdown{}, ErrMissingDmax
	}

	var (
		b   Breakdown
		err error
	)
	if b.Site, err = s.SiteScore(location); err != nil {
		return Breakdown{}, err
	}
	if b.Age, err = s.AgeScore(age); err != nil {
		return Breakdown{}, err
	}
	if b.Size, err = s.SizeScore(dmax); err != nil {
		return Breakdown{}, err
	}
	b.Total = b.Site + b.Age + b.Size
	return b, nil
}

// SiteGroup returns the descriptive site group of a location. Locations that
// match no rule fall into the catch-all group.
func (s *Scorer) SiteGroup(location string) string {
	for _, rule := range s.rules.SiteGroups {
		if containsAny(location, rule.Contains) {
			return rule.Group
		}
	}
	return s.rules.OtherSite
}

// AgeGroup returns the label of the age bucket containing age.
func (s *Scorer) AgeGroup(age float64) (string, error) {
	b, err := lookup(s.rules.AgeGroups, age)
	if err != nil {
		return "", fmt.Errorf("age %v: %w", age, err)
	}
	return b.Label, nil
}

func lookup(buckets []Bucket, v float64) (Bucket, error) {
	if math.IsNaN(v) {
		return Bucket{}, fmt.Errorf("%w: NaN", common.ErrValueOutOfRange)
	}
	for _, b := range buckets {
		if b.Contains(v) {
			return b, nil
		}
	}
	return Bucket{}, ErrNoBucket
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
