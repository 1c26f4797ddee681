// Package httpserver runs an http.Handler with sane timeouts and a graceful
// shutdown when the context is cancelled.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil { ... }
//
// Liveness and Readiness build the probe handlers mounted next to the API.
package httpserver
