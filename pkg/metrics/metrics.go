package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidContext     = "invalid_context"
	OutcomeMissingCredentials = "missing_credentials"
	OutcomeError              = "error"
)

// Collector records evaluation, client initialization and discovery metrics.
type Collector struct {
	evaluations  *prometheus.CounterVec
	evalDuration *prometheus.HistogramVec
	clientInits  *prometheus.CounterVec
	providerData *prometheus.CounterVec
}

// New creates a collector whose metric names are prefixed with namespace.
func New(namespace string) *Collector {
	return &Collector{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "flags",
				Name:      "evaluations_total",
				Help:      "Total flag evaluations by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		evalDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "flags",
				Name:      "evaluation_duration_seconds",
				Help:      "Flag evaluation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		clientInits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "flags",
				Name:      "client_initializations_total",
				Help:      "Evaluation engine client initializations by outcome",
			},
			[]string{"outcome"},
		),
		providerData: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "flags",
				Name:      "provider_data_requests_total",
				Help:      "Provider data (discovery) requests by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Register registers all metrics with reg.
// Already registered collectors are not treated as an error.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if c == nil {
		return nil
	}
	for _, col := range c.collectors() {
		if err := reg.Register(col); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveEvaluation records one evaluation. Duration is only observed for
// evaluations that reached the engine.
func (c *Collector) ObserveEvaluation(kind, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.evaluations.WithLabelValues(kind, outcome).Inc()
	if outcome != OutcomeInvalidContext {
		c.evalDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// ObserveClientInit records one engine client initialization attempt.
func (c *Collector) ObserveClientInit(outcome string) {
	if c == nil {
		return
	}
	c.clientInits.WithLabelValues(outcome).Inc()
}

// ObserveProviderData records one provider data request.
func (c *Collector) ObserveProviderData(outcome string) {
	if c == nil {
		return
	}
	c.providerData.WithLabelValues(outcome).Inc()
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.evaluations, c.evalDuration, c.clientInits, c.providerData}
}
