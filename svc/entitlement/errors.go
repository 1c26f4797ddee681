package entitlement

import "errors"

var (
	ErrRecordNotFound    = errors.New("subscription record not found")
	ErrConflict          = errors.New("subscription record write conflict")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailLookupFailed = errors.New("failed to look up user email")
	ErrReconcileFailed   = errors.New("billing reconciliation failed")
	ErrSyncFailed        = errors.New("entitlement sync failed")
	ErrCountFailed       = errors.New("failed to count listings")
	ErrUnresolvedPlan    = errors.New("plan could not be resolved")
	ErrGateFailure       = errors.New("quota check failed")
	ErrQuotaExceeded     = errors.New("listing quota exceeded")
)
