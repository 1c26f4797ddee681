package planquota

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tier is one row of the plan table. A tier matches by Name and, when
// MinPrice is set, by the price bucket [MinPrice, MaxPrice). A nil MaxPrice
// leaves the bucket open-ended.
type Tier struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label,omitempty"`
	Max      int64    `yaml:"max"`
	MinPrice *float64 `yaml:"min_price,omitempty"`
	MaxPrice *float64 `yaml:"max_price,omitempty"`
}

func (t Tier) label() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Name
}

func (t Tier) quota() Quota {
	return Quota{Max: t.Max, Label: t.label()}
}

func (t Tier) hasBucket() bool {
	return t.MinPrice != nil
}

func (t Tier) inBucket(price float64) bool {
	if !t.hasBucket() || price < *t.MinPrice {
		return false
	}
	return t.MaxPrice == nil || price < *t.MaxPrice
}

// DefaultTiers returns the built-in plan table.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "starter", Max: 1, MinPrice: price(19), MaxPrice: price(30)},
		{Name: "base", Max: 3, MinPrice: price(30), MaxPrice: price(60)},
		{Name: "pro", Max: 10, MinPrice: price(60), MaxPrice: price(150)},
		{Name: "master", Max: Unlimited, MinPrice: price(150)},
	}
}

func price(v float64) *float64 { return &v }

type tierFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadTiers decodes and validates a YAML tier table.
func LoadTiers(r io.Reader) ([]Tier, error) {
	var f tierFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Join(ErrInvalidTierTable, err)
	}
	if err := ValidateTiers(f.Tiers); err != nil {
		return nil, err
	}
	return f.Tiers, nil
}

// ValidateTiers checks names, caps and that price buckets do not overlap.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return errors.Join(ErrInvalidTierTable, errors.New("no tiers defined"))
	}

	buckets := make([]Tier, 0, len(tiers))
	for i, t := range tiers {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: tier #%d", ErrEmptyTierName, i)
		}
		if t.Max == 0 || t.Max < Unlimited {
			return fmt.Errorf("%w: tier %q has max %d", ErrInvalidTierMax, t.Name, t.Max)
		}
		if t.MaxPrice != nil && t.MinPrice == nil {
			return fmt.Errorf("%w: tier %q has max_price without min_price", ErrInvalidBucket, t.Name)
		}
		if !t.hasBucket() {
			continue
		}
		if math.IsNaN(*t.MinPrice) || *t.MinPrice < 0 {
			return fmt.Errorf("%w: tier %q min_price", ErrInvalidBucket, t.Name)
		}
		if t.MaxPrice != nil && *t.MaxPrice <= *t.MinPrice {
			return fmt.Errorf("%w: tier %q max_price must exceed min_price", ErrInvalidBucket, t.Name)
		}
		buckets = append(buckets, t)
	}

	slices.SortFunc(buckets, func(a, b Tier) int {
		return cmp.Compare(*a.MinPrice, *b.MinPrice)
	})
	for i := 1; i < len(buckets); i++ {
		prev, next := buckets[i-1], buckets[i]
		if prev.MaxPrice == nil || *prev.MaxPrice > *next.MinPrice {
			return fmt.Errorf("%w: %q and %q", ErrOverlapBuckets, prev.Name, next.Name)
		}
	}
	return nil
}
