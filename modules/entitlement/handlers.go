package entitlement

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/jwtauth"
	"github.com/dmitrymomot/entitlements/pkg/logger"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
)

const maxWebhookBody = 1 << 20

var (
	errBadUserID = errors.New("invalid userId")
	errForbidden = errors.New("forbidden")
)

func (h *handler) quota(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUser(r)
	if err != nil {
		writeUserError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.CheckQuota(r.Context(), userID))
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, err := targetUser(r)
	if err != nil {
		writeUserError(w, err)
		return
	}

	sum, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "summary failed", logger.UserID(userID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// sync only ever reconciles the caller.
func (h *handler) sync(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sum, err := h.svc.Sync(r.Context(), userID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "forced sync failed", logger.UserID(userID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if sum.Stale {
		writeJSON(w, http.StatusServiceUnavailable, sum)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *handler) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	ev, err := h.webhooks.Parse(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.log.WarnContext(r.Context(), "rejected webhook", logger.Error(err))
		writeError(w, http.StatusBadRequest, "invalid webhook")
		return
	}

	// a non-2xx makes the provider retry later
	if err := h.svc.HandleEvent(r.Context(), ev); err != nil {
		h.log.ErrorContext(r.Context(), "webhook handling failed",
			logger.EventID(ev.ID),
			logger.EventType(ev.Type),
			logger.CustomerID(ev.CustomerID),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "webhook not processed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func callerID(r *http.Request) (uuid.UUID, error) {
	claims, ok := jwtauth.ClaimsFromContext(r.Context())
	if !ok {
		return uuid.Nil, jwtauth.ErrMissingToken
	}
	return claims.UserID()
}

// targetUser resolves ?userId=, defaulting to the caller. Only admins may
// name another user.
func targetUser(r *http.Request) (uuid.UUID, error) {
	caller, err := callerID(r)
	if err != nil {
		return uuid.Nil, err
	}

	raw := r.URL.Query().Get("userId")
	if raw == "" {
		return caller, nil
	}
	target, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errBadUserID
	}
	if target != caller {
		claims, _ := jwtauth.ClaimsFromContext(r.Context())
		if !claims.IsAdmin() {
			return uuid.Nil, errForbidden
		}
	}
	return target, nil
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadUserID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
}

var (
	_ Service       = (*entitlement.Service)(nil)
	_ WebhookParser = (*billing.WebhookVerifier)(nil)
)
