package billing

import "strings"

// Status is a subscription status as reported by the billing service.
type Status string

const (
	StatusActive            Status = "active"
	StatusTrialing          Status = "trialing"
	StatusPastDue           Status = "past_due"
	StatusCanceled          Status = "canceled"
	StatusIncomplete        Status = "incomplete"
	StatusIncompleteExpired Status = "incomplete_expired"
	StatusUnpaid            Status = "unpaid"
	StatusPaused            Status = "paused"

	// StatusNone marks a record with a customer identity but no subscription.
	StatusNone Status = "none"
	// StatusUnknown is any value outside the known vocabulary.
	StatusUnknown Status = "unknown"
)

// ParseStatus maps a raw status string onto the closed enum.
func ParseStatus(raw string) Status {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusActive, StatusTrialing, StatusPastDue, StatusCanceled,
		StatusIncomplete, StatusIncompleteExpired, StatusUnpaid, StatusPaused,
		StatusNone:
		return s
	case "":
		return StatusNone
	case "cancelled":
		return StatusCanceled
	default:
		return StatusUnknown
	}
}

// Entitling reports whether the status grants access to gated resources.
func (s Status) Entitling() bool {
	return s == StatusActive || s == StatusTrialing
}

// Pending reports whether the subscription is mid-checkout.
func (s Status) Pending() bool {
	return s == StatusIncomplete || s == StatusIncompleteExpired
}

func (s Status) String() string {
	return string(s)
}
