// Command flipt-discovery serves Flipt flag definitions on the flags discovery endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/flags-flipt/pkg/config"
	"github.com/dmitrymomot/flags-flipt/pkg/flipt"
	"github.com/dmitrymomot/flags-flipt/pkg/httpserver"
	"github.com/dmitrymomot/flags-flipt/pkg/logger"
	"github.com/dmitrymomot/flags-flipt/pkg/metrics"
)

type appConfig struct {
	Env              string `env:"APP_ENV" envDefault:"development"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"flipt-discovery"`
	FlagsSecret      string `env:"FLAGS_SECRET,required"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"flipt"`
	Server           httpserver.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	environ, err := config.Environ(".env")
	if err != nil {
		return err
	}
	cfg, err := config.Parse[appConfig](environ)
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(httpserver.RequestIDExtractor()),
	)
	logger.SetAsDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(cfg.MetricsNamespace)
	if err := collector.Register(reg); err != nil {
		return err
	}

	adapter := flipt.New(flipt.Config{},
		flipt.WithEnviron(environ),
		flipt.WithLogger(log),
		flipt.WithMetrics(collector),
		flipt.WithRequiredCredentials(),
		flipt.WithClientManager(flipt.NewClientManager(
			flipt.WithManagerLogger(log),
			flipt.WithManagerMetrics(collector),
		)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(cfg.Server, httpserver.WithLogger(log))
	return srv.Run(ctx, newRouter(cfg.FlagsSecret, adapter, reg, log))
}
