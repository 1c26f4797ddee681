// Package planquota maps a billing plan identity to a listing quota.
//
// Resolution is pure and total. A plan is matched first by a case-insensitive
// substring of its display name against the tier table, in declared order, and
// only when no name matches by its unit price against half-open price buckets.
// Anything left over resolves to an unlimited "unknown" quota; callers that gate
// access must treat that label as unresolved rather than as a grant.
//
// # Usage
//
//	name, price := "Pro Plan", 199.0
//	q := planquota.DefaultResolver().Resolve(&name, &price)
//	// q.Max == 10, q.Label == "pro"
//
// An alternative tier table can be loaded from YAML:
//
//	tiers:
//	  - name: starter
//	    max: 1
//	    min_price: 19
//	    max_price: 30
//	  - name: master
//	    max: -1
//	    min_price: 150
//
// See LoadTiers.
package planquota
