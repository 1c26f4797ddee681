package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under "user_id".
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

func CustomerID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("customer_id", id)
}

func SubscriptionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subscription_id", id)
}

func PriceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("price_id", id)
}

func Status(s string) slog.Attr {
	return slog.String("status", s)
}

func Reason(r string) slog.Attr {
	return slog.String("reason", r)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func EventType(eventType string) slog.Attr {
	return slog.String("event_type", eventType)
}

func EventID(id string) slog.Attr {
	return slog.String("event_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
