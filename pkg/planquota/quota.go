package planquota

import "strconv"

// Unlimited indicates no cap on the number of listings (-1 chosen for SQL compatibility).
const Unlimited int64 = -1

// LabelUnknown is the label of a plan that matched no tier.
const LabelUnknown = "unknown"

// Quota is the maximum number of listings a plan permits.
type Quota struct {
	Max   int64
	Label string
}

// IsUnlimited reports whether the quota has no cap.
func (q Quota) IsUnlimited() bool {
	return q.Max == Unlimited
}

// IsUnknown reports whether the quota came from the permissive fallback.
func (q Quota) IsUnknown() bool {
	return q.Label == LabelUnknown
}

// Allows reports whether one more listing fits when current already exist.
func (q Quota) Allows(current int64) bool {
	return q.IsUnlimited() || current < q.Max
}

// MaxPtr returns the cap or nil for an unlimited quota.
func (q Quota) MaxPtr() *int64 {
	if q.IsUnlimited() {
		return nil
	}
	v := q.Max
	return &v
}

func (q Quota) String() string {
	if q.IsUnlimited() {
		return q.Label + ":unlimited"
	}
	return q.Label + ":" + strconv.FormatInt(q.Max, 10)
}
