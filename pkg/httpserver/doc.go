// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run binds the listener, serves until the context is cancelled or the process
// receives SIGINT/SIGTERM, and then drains in-flight requests within the
// configured shutdown timeout:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// LivenessHandler and ReadinessHandler back the /healthz and /readyz probes.
package httpserver
