package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	EmailsProcessed  prometheus.Counter
	EmailsSkipped    prometheus.Counter
	EmailsTrashed    prometheus.Counter
	FlightsExtracted prometheus.Counter
	RunDuration      prometheus.Histogram
	ErrorsCount      *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics on their own registry
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		EmailsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_processed_total",
			Help:      "The total number of logbook emails processed",
		}),
		EmailsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_skipped_total",
			Help:      "The total number of emails that were not logbook reports",
		}),
		EmailsTrashed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_trashed_total",
			Help:      "The total number of processed emails moved to trash",
		}),
		FlightsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_extracted_total",
			Help:      "The total number of flights extracted from emails",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time taken by one logbook run",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// Registry exposes the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Push sends the current values to a Pushgateway under the given job and run
func (m *Metrics) Push(url, job, runID string) error {
	err := push.New(url, job).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		Push()
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
