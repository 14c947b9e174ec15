// Package metrics exposes Prometheus instrumentation for flag evaluation.
//
// A Collector owns its metric vectors instead of registering them globally, so
// several adapters (or tests) can register independent collectors against their
// own registries:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New("myapp")
//	if err := m.Register(reg); err != nil {
//		log.Fatal(err)
//	}
//
//	adapter := flipt.New(cfg, flipt.WithMetrics(m))
//
// A nil *Collector is valid and records nothing.
package metrics
