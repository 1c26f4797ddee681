package entitlement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconciliationsTotal counts reconciliations by outcome.
	ReconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "billing",
		Name:      "reconciliations_total",
		Help:      "Billing reconciliations by outcome.",
	}, []string{"outcome"})

	// ReconcileDuration tracks reconciliation latency including billing API calls.
	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "entitlements",
		Subsystem: "billing",
		Name:      "reconcile_duration_seconds",
		Help:      "Billing reconciliation duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	// StoreWriteConflictsTotal counts upserts retried as plain updates.
	StoreWriteConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "billing",
		Name:      "store_write_conflicts_total",
		Help:      "Subscription record upserts that hit a write conflict.",
	})

	// CacheLookupsTotal counts cache reads by the sync decision taken.
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Entitlement cache lookups by sync decision.",
	}, []string{"decision"})

	// GateDecisionsTotal counts quota decisions.
	GateDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "gate",
		Name:      "decisions_total",
		Help:      "Quota gate decisions by result and reason.",
	}, []string{"allowed", "reason"})

	// WebhookEventsTotal counts billing webhook events by type and outcome.
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "entitlements",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Billing webhook events by type and outcome.",
	}, []string{"event_type", "outcome"})
)

const (
	outcomeSynced         = "synced"
	outcomeNoCustomer     = "no_customer"
	outcomeNoSubscription = "no_subscription"
	outcomeWriteFailed    = "write_failed"
	outcomeError          = "error"

	outcomeIgnored     = "ignored"
	outcomeInvalidated = "invalidated"
	outcomeUnmapped    = "unmapped"
	outcomeFailed      = "failed"
)
