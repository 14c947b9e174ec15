// Package httpserver runs the discovery endpoint: a net/http server with
// context-driven graceful shutdown, health probes and request IDs.
//
// Run listens on the configured address and serves until its context is
// cancelled, then drains in-flight requests within Config.ShutdownTimeout.
// Callers wire process signals through signal.NotifyContext.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Use(httpserver.RequestID)
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, checkFlipt))
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Listen errors are joined with ErrStart and shutdown errors with ErrShutdown.
package httpserver
