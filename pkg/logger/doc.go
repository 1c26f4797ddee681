// Package logger builds *slog.Logger instances for the entitlements service.
//
// New assembles a JSON or text handler from functional options and wraps it so
// that registered ContextExtractor callbacks can add request-scoped attributes
// (such as a request ID) to every record. Attribute helpers in attr.go keep key
// names consistent across packages:
//
//	log := logger.New(logger.WithEnvironment("production", "entitlements"))
//	log.ErrorContext(ctx, "reconciliation failed",
//		logger.UserID(userID),
//		logger.CustomerID(rec.CustomerID),
//		logger.Error(err),
//	)
//
// Discard returns a logger that drops everything; components default to it when
// no logger is supplied.
package logger
