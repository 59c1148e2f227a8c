package prompush

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"csvtransform/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// readCounterValue reads the current value of a Counter for assertions.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

func TestNewBackend(t *testing.T) {
	if _, err := NewBackend("job", ""); err == nil {
		t.Fatalf("missing gateway URL accepted")
	}

	b, err := NewBackend("", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.jobName != "csvtransform" {
		t.Fatalf("default job name = %q", b.jobName)
	}

	b, err = NewBackend("users", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.jobName != "users" {
		t.Fatalf("job name = %q; want users", b.jobName)
	}
}

func TestIncCounter_RoutesNames(t *testing.T) {
	b, err := NewBackend("users", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("csvtransform_step_total", 1, metrics.Labels{"step": "read", "status": "success"})
	b.IncCounter("csvtransform_rows_total", 5, metrics.Labels{"kind": "written"})
	b.IncCounter("csvtransform_batches_total", 2, nil)
	b.IncCounter("unknown_metric", 9, nil)

	if got := readCounterValue(t, b.stepCounter.WithLabelValues("read", "success")); got != 1 {
		t.Fatalf("step counter = %v; want 1", got)
	}
	if got := readCounterValue(t, b.rowCounter.WithLabelValues("written")); got != 5 {
		t.Fatalf("row counter = %v; want 5", got)
	}
	if got := readCounterValue(t, b.batchCounter); got != 2 {
		t.Fatalf("batch counter = %v; want 2", got)
	}
}

func TestFlush_PushesToGateway(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("users", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter("csvtransform_rows_total", 3, metrics.Labels{"kind": "read"})
	b.ObserveDuration("csvtransform_step_duration_seconds", 0.25, metrics.Labels{"step": "run", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if gotPath != "/metrics/job/users" {
		t.Fatalf("push path = %q; want /metrics/job/users", gotPath)
	}
}
