// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus by:
//
//   - Using client_golang CounterVec and SummaryVec collectors.
//   - Mapping the common run labels (step, status, kind) onto Prometheus
//     labels; the job name becomes the Pushgateway grouping key.
//   - Pushing collected metrics to a Pushgateway instance instead of exposing
//     a scrape endpoint, since a batch tool is gone before any scraper comes.
//
// All Prometheus-specific dependencies live here so the rest of the project
// stays decoupled from Prometheus.
package prompush

import (
	"fmt"

	"csvtransform/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // "csvtransform_step_total"
	stepDuration *prometheus.SummaryVec // "csvtransform_step_duration_seconds"
	rowCounter   *prometheus.CounterVec // "csvtransform_rows_total"
	batchCounter prometheus.Counter     // "csvtransform_batches_total"
}

// NewBackend constructs a Pushgateway backend. jobName is the Pushgateway
// "job" grouping (usually the pipeline job); gatewayURL is the base URL of
// the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "csvtransform"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csvtransform_step_total",
			Help: "Total number of run step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "csvtransform_step_duration_seconds",
			Help:       "Duration of run steps in seconds, partitioned by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csvtransform_rows_total",
			Help: "Row-level counts per kind (read, transformed, written, ids_assigned).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "csvtransform_batches_total",
			Help: "Total number of sink batches flushed for this job.",
		},
	)

	for name, c := range map[string]prometheus.Collector{
		"step counter":  stepCounter,
		"step summary":  stepDuration,
		"row counter":   rowCounter,
		"batch counter": batchCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		rowCounter:   rowCounter,
		batchCounter: batchCounter,
	}, nil
}

// IncCounter routes the abstract counter names onto the concrete collectors.
// Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "csvtransform_step_total":
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case "csvtransform_rows_total":
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case "csvtransform_batches_total":
		b.batchCounter.Add(delta)
	}
}

// ObserveDuration records step durations; other names are ignored.
func (b *Backend) ObserveDuration(name string, seconds float64, labels metrics.Labels) {
	if name != "csvtransform_step_duration_seconds" {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(seconds)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
