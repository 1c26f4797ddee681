package planquota

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Resolver resolves plan identities against a tier table.
// It is immutable and safe for concurrent use.
type Resolver struct {
	tiers []Tier
	names []string // case-folded tier names, same order as tiers
}

var defaultResolver = func() *Resolver {
	r, err := NewResolver(DefaultTiers())
	if err != nil {
		panic("planquota: default tiers: " + err.Error())
	}
	return r
}()

// DefaultResolver returns the resolver for the built-in tier table.
func DefaultResolver() *Resolver {
	return defaultResolver
}

// NewResolver validates tiers and builds a resolver over a copy of them.
func NewResolver(tiers []Tier) (*Resolver, error) {
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}
	r := &Resolver{
		tiers: slices.Clone(tiers),
		names: make([]string, len(tiers)),
	}
	for i, t := range r.tiers {
		r.names[i] = fold(strings.TrimSpace(t.Name))
	}
	return r, nil
}

// Tiers returns a copy of the resolver's tier table.
func (r *Resolver) Tiers() []Tier {
	return slices.Clone(r.tiers)
}

// Resolve maps a plan display name and unit price to a quota.
// Name matching wins over price buckets. Either input may be nil.
func (r *Resolver) Resolve(name *string, unitPrice *float64) Quota {
	if name != nil {
		if n := fold(strings.TrimSpace(*name)); n != "" {
			for i, tn := range r.names {
				if strings.Contains(n, tn) {
					return r.tiers[i].quota()
				}
			}
		}
	}

	if unitPrice != nil && !math.IsNaN(*unitPrice) {
		for _, t := range r.tiers {
			if t.inBucket(*unitPrice) {
				return t.quota()
			}
		}
	}

	return Quota{Max: Unlimited, Label: LabelUnknown}
}

// Resolve uses the default tier table.
func Resolve(name *string, unitPrice *float64) Quota {
	return defaultResolver.Resolve(name, unitPrice)
}

// A cases.Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
