// Package httpserver runs the HTTP listener with graceful shutdown and
// provides liveness and readiness handlers.
//
// Run binds the listener first, so a bad address fails fast with ErrStart.
// It then serves until the context is cancelled or SIGINT/SIGTERM arrives,
// and drains in-flight requests within the shutdown timeout.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Readiness checks run with the request context and a per-check timeout:
//
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//	))
package httpserver
