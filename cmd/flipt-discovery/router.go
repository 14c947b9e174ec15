package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/flags-flipt/pkg/flags"
	"github.com/dmitrymomot/flags-flipt/pkg/flipt"
	"github.com/dmitrymomot/flags-flipt/pkg/httpserver"
)

// discoveryPath is where the flags SDK tooling looks for provider data.
const discoveryPath = "/.well-known/vercel/flags"

func newRouter(secret string, adapter *flipt.Adapter, gatherer prometheus.Gatherer, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.RequestID, middleware.Recoverer)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, func(ctx context.Context) error {
		_, err := adapter.Initialize(ctx)
		return err
	}))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Mount(discoveryPath, flags.DiscoveryHandler(secret, adapter.ProviderData))

	return r
}
